package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/solution"
)

func main() {
	apiURL := flag.String("api", envOr("WATAS_API_URL", "http://localhost:8000"), "WATAs API base URL")
	token := flag.String("token", os.Getenv("WATAS_TOKEN"), "Access token of the signed-in student")
	groupID := flag.String("group", "", "Only list assignments of this group")
	courseCode := flag.String("course", "", "Only list assignments of this course code")
	outDir := flag.String("out", ".", "Directory the solution document is saved to")
	name := flag.String("name", "", "Name printed on the document")
	index := flag.String("index", "", "Index number printed on the document")
	ref := flag.String("ref", "", "Reference number printed on the document")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := newSession(newAPIClient(*apiURL, *token), os.Stdin, os.Stdout)
	s.outDir = *outDir
	s.filter = assignment.QueryFilter{Group: core.CleanString(*groupID), Course: core.CleanString(*courseCode)}
	s.profile = solution.ExportFields{Name: *name, Index: *index, Reference: *ref}

	if err := s.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

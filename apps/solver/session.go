package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/solution"
	"github.com/trezcool/watas/core/tutor"
)

var writeFileFunc = os.WriteFile // mockable

type api interface {
	solution.Backend
	Dashboard(ctx context.Context, filter assignment.QueryFilter) (assignment.Dashboard, error)
	Document(ctx context.Context, doc solution.Document) ([]byte, error)
}

// session is one interactive run: pick an assignment, chat, agree on a summary, export.
type session struct {
	api     api
	in      *bufio.Scanner
	out     io.Writer
	outDir  string
	filter  assignment.QueryFilter
	profile solution.ExportFields
}

func newSession(client api, in io.Reader, out io.Writer) *session {
	return &session{api: client, in: bufio.NewScanner(in), out: out, outDir: "."}
}

func (s *session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// readLine prompts and returns the next input line. ok is false at end of input.
func (s *session) readLine(prompt string) (string, bool) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) run(ctx context.Context) error {
	entry, ok, err := s.pick(ctx)
	if err != nil || !ok {
		return err
	}

	d := solution.NewDialog(s.api, entry.Assignment)
	defer d.Close()

	s.printf("\n%s (%s, %s)\nAsking for a solution...\n", entry.Title, entry.CourseCode, entry.DueLabel)
	if err := d.Open(ctx, s.profile); err != nil {
		return err
	}
	s.printLastReply(d)
	s.printHelp(solution.StepChat)

	for {
		step := d.Snapshot().Step
		line, ok := s.readLine(fmt.Sprintf("[%s]> ", step))
		if !ok || line == "/quit" {
			return nil
		}
		if line == "" {
			continue
		}
		if line == "/help" {
			s.printHelp(step)
			continue
		}

		done, err := s.handle(ctx, d, step, line)
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

// pick lists the upcoming assignments and reads the student's choice.
func (s *session) pick(ctx context.Context) (assignment.Entry, bool, error) {
	dash, err := s.api.Dashboard(ctx, s.filter)
	if err != nil {
		return assignment.Entry{}, false, errors.Wrap(err, "loading assignments")
	}
	if len(dash.Upcoming) == 0 {
		s.printf("No upcoming assignments.\n")
		return assignment.Entry{}, false, nil
	}

	for i, e := range dash.Upcoming {
		s.printf("%2d) %s | %s | %s\n", i+1, e.CourseCode, e.Title, e.DueLabel)
	}
	for {
		line, ok := s.readLine("Pick an assignment (q to quit): ")
		if !ok || line == "q" {
			return assignment.Entry{}, false, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(dash.Upcoming) {
			s.printf("Enter a number between 1 and %d.\n", len(dash.Upcoming))
			continue
		}
		return dash.Upcoming[n-1], true, nil
	}
}

func (s *session) handle(ctx context.Context, d *solution.Dialog, step solution.Step, line string) (bool, error) {
	cmd, arg := line, ""
	if strings.HasPrefix(line, "/") {
		if i := strings.IndexByte(line, ' '); i > 0 {
			cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
		}
	}

	switch step {
	case solution.StepChat:
		if cmd == "/done" {
			if err := d.Summarize(ctx); err != nil {
				return false, err
			}
			snap := d.Snapshot()
			if snap.SummaryErr != nil {
				return false, errors.Wrap(snap.SummaryErr, "summarizing")
			}
			if snap.Step == solution.StepAgree {
				s.printf("\n--- Summary ---\n%s\n---------------\n", snap.Summary)
				s.printHelp(solution.StepAgree)
			}
			return false, nil
		}
		if strings.HasPrefix(line, "/") {
			return false, fmt.Errorf("unknown command %s", cmd)
		}
		if err := d.Send(ctx, line); err != nil {
			return false, err
		}
		s.printLastReply(d)

	case solution.StepAgree:
		switch cmd {
		case "/agree":
			if err := d.Agree(); err != nil {
				return false, err
			}
			s.printHelp(solution.StepExport)
		case "/back":
			return false, d.BackToChat()
		default:
			return false, fmt.Errorf("unknown command %s", cmd)
		}

	case solution.StepExport:
		fields := d.Snapshot().Export
		switch cmd {
		case "/name":
			fields.Name = arg
			return false, d.SetExport(fields)
		case "/index":
			fields.Index = arg
			return false, d.SetExport(fields)
		case "/ref":
			fields.Reference = arg
			return false, d.SetExport(fields)
		case "/back":
			return false, d.BackToSummary()
		case "/save":
			path, err := s.save(ctx, d)
			if err != nil {
				return false, err
			}
			s.printf("Saved %s\n", path)
			return true, nil
		default:
			return false, fmt.Errorf("unknown command %s", cmd)
		}
	}
	return false, nil
}

func (s *session) save(ctx context.Context, d *solution.Dialog) (string, error) {
	doc, err := d.Document()
	if err != nil {
		return "", err
	}
	html, err := s.api.Document(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "rendering document")
	}
	path := filepath.Join(s.outDir, solution.Filename(doc.Title))
	if err := writeFileFunc(path, html, 0o644); err != nil {
		return "", errors.Wrap(err, "writing document")
	}
	return path, nil
}

func (s *session) printLastReply(d *solution.Dialog) {
	transcript := d.Snapshot().Transcript
	if n := len(transcript); n > 0 && transcript[n-1].Role == tutor.RoleAssistant {
		s.printf("\n%s\n\n", transcript[n-1].Content)
	}
}

func (s *session) printHelp(step solution.Step) {
	switch step {
	case solution.StepChat:
		s.printf("Type a message to refine the solution, /done to summarize, /quit to leave.\n")
	case solution.StepAgree:
		s.printf("/agree to export this summary, /back to keep chatting.\n")
	case solution.StepExport:
		s.printf("/name, /index & /ref set the document lines, /save writes it, /back returns to the summary.\n")
	}
}

package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	dig_container "github.com/trezcool/watas/apps/api/di/dig"
	echoapi "github.com/trezcool/watas/apps/api/echo"
	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/group"
)

type syncer interface {
	Sync()
}

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		db core.DB,
		groupSvc group.Service,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		if s, ok := logger.(syncer); ok {
			defer s.Sync()
		}
		if db != nil {
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("Failed to close database", err)
				}
			}()
		}
		defer logger.Info("Application stopped")

		if err := groupSvc.Seed(context.Background()); err != nil {
			logger.Error("Failed to seed groups", err)
		}

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		if conf.Server.DebugAddress != "" {
			go func() {
				if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
					logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
				}
			}()
		}

		// =========================================================================
		// Start API Service

		go func() {
			logger.Info(fmt.Sprintf("Listening on %s", conf.Server.Address))
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Error(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

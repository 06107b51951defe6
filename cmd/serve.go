package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jsweekly/internal/logger"
	"github.com/matheuskafuri/jsweekly/internal/reader"
	"github.com/matheuskafuri/jsweekly/internal/sample"
	"github.com/matheuskafuri/jsweekly/internal/schedule"
	"github.com/matheuskafuri/jsweekly/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and keep the latest issue refreshed",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Refresh.Enabled {
		r, err := schedule.New(a.resolver, a.cfg.Refresh.Schedule, a.cfg.Location(), a.log)
		if err != nil {
			return fmt.Errorf("starting refresher: %w", err)
		}
		r.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := r.Stop(stopCtx); err != nil {
				a.log.Warn("refresher did not stop cleanly", logger.Error(err))
			}
		}()
	}

	h := &server.Handlers{
		Resolver:    a.resolver,
		Sampler:     sample.New(a.cache, a.log),
		Reader:      reader.NewReadabilityReader(a.fetcher),
		FetchFailed: a.cfg.Err.ERR2,
	}
	srv := server.New(server.Options{Port: a.cfg.Port(), Debug: a.cfg.Log.Development}, h, a.log)

	a.log.Info("jsweekly starting",
		logger.String("version", version),
		logger.String("cache", a.cfg.Cache.Backend),
		logger.Int("port", a.cfg.Port()))
	return srv.Run(ctx)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/challenge-blueprint/internal/api"
	"github.com/yourusername/challenge-blueprint/internal/health"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/scheduler"
	"github.com/yourusername/challenge-blueprint/internal/stream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API, the ops server and the background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Challenge blueprint starting")

	deps, err := setupDependencies(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer deps.Close()

	apiDeps := api.Dependencies{
		Simulations:   deps.simulations,
		Preferences:   deps.prefs,
		DefaultTrials: cfg.Engine.DefaultTrials,
		RecentLimit:   cfg.History.RecentLimit,
		Logger:        appLog,
	}
	if deps.calendar != nil {
		apiDeps.Calendar = deps.calendar
	}
	app := api.NewApp(apiDeps, cfg.Server)

	routes := map[string]http.Handler{
		"/ws/simulate": stream.NewHandler(stream.Config{
			Simulations:    deps.simulations,
			Preferences:    deps.prefs,
			DebounceDelay:  cfg.Engine.DebounceDelay(),
			DefaultTrials:  cfg.Engine.DefaultTrials,
			SubmitRate:     cfg.Engine.SubmitRatePerSecond,
			SubmitBurst:    cfg.Engine.SubmitBurst,
			AllowedOrigins: cfg.Server.OriginList(),
			Logger:         appLog,
		}),
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		routes[cfg.Metrics.Path] = metrics.Handler()
	}
	ops := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Server.OpsPort,
		Logger:      appLog,
		Checks:      map[string]health.Pinger{"preferences": deps.prefs},
		Routes:      routes,
	})

	sched, err := buildScheduler(deps)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := ops.Start(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		appLog.WithField("address", cfg.Server.APIAddress).Info("API server starting")
		return app.Listen(cfg.Server.APIAddress)
	})
	g.Go(func() error {
		<-gctx.Done()
		ops.SetReady(false)
		if sched != nil {
			sched.Stop()
		}
		timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		appLog.Info("Shutting down")
		return app.ShutdownWithTimeout(timeout)
	})

	if sched != nil {
		if err := sched.Start(); err != nil {
			return err
		}
		appLog.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Next scheduled run")
	}
	ops.SetReady(true)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	appLog.Info("Challenge blueprint stopped")
	return nil
}

// buildScheduler returns nil when no job is configured.
func buildScheduler(deps *dependencies) (*scheduler.Scheduler, error) {
	sched := scheduler.NewScheduler(appLog)
	if cfg.Scheduler.RetentionSchedule != "" {
		if err := sched.ScheduleRetentionSweep(cfg.Scheduler.RetentionSchedule, deps.prefs, cfg.Storage.Retention()); err != nil {
			return nil, err
		}
	}
	if deps.calendar != nil && cfg.Calendar.RefreshSchedule != "" {
		if err := sched.ScheduleCalendarRefresh(cfg.Calendar.RefreshSchedule, deps.calendar); err != nil {
			return nil, err
		}
	}
	if sched.JobCount() == 0 {
		return nil, nil
	}
	return sched, nil
}

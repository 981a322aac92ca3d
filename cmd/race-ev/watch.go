package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/race-ev/internal/health"
	"github.com/yourusername/race-ev/internal/metrics"
	"github.com/yourusername/race-ev/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-score the input on a cron schedule and serve health and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Schedule.Cron == "" {
			return fmt.Errorf("schedule.cron is required for watch")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		sched := scheduler.NewScheduler(a.pipeline, log)
		if err := sched.ScheduleRescore(cfg.Schedule.Cron); err != nil {
			return err
		}

		hcfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Schedule.HealthPort,
			Logger:      log,
			Runs:        sched,
		}
		if a.db != nil {
			hcfg.DB = a.db
		}
		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
			hcfg.MetricsHandler = metrics.Handler()
			hcfg.MetricsPath = cfg.Metrics.Path
		}
		server := health.NewServer(hcfg)
		if err := server.Start(ctx); err != nil {
			return err
		}

		// score once at startup so results exist before the first tick
		if _, err := sched.RunNow(ctx); err != nil {
			log.WithError(err).Warn("Initial scoring run failed")
		}
		server.SetReady(true)

		if err := sched.Start(); err != nil {
			return err
		}
		log.WithField("next_run", sched.GetNextRun()).Info("Watching for scheduled re-scoring")

		<-ctx.Done()
		server.SetReady(false)
		sched.Stop()
		return server.Shutdown()
	},
}

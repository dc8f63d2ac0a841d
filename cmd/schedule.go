package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the schedule command
	scheduleSpec   string
	scheduleYear   int
	scheduleDryRun bool
)

// scheduleCmd runs synchronization on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run synchronization on a cron schedule",
	Long: `Run synchronization for the current year on a cron schedule until
interrupted. A run that is still in progress when the next trigger fires is
never overlapped; the trigger is skipped instead.

Examples:
  # Every day at 06:00
  hour-sync schedule --cron "0 6 * * *"

  # Every hour, report only
  hour-sync schedule --cron "0 * * * *" --dry-run`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "0 6 * * *", "Cron expression for runs")
	scheduleCmd.Flags().IntVar(&scheduleYear, "year", 0, "Year to synchronize (0 = year at trigger time)")
	scheduleCmd.Flags().BoolVar(&scheduleDryRun, "dry-run", false, "Classify only, submit nothing")
	RootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	// Database pool, validator and archive are shared across triggers; only
	// the single-use browser client is rebuilt per run. Rebuilding the pool
	// each trigger would leak connections over the daemon's lifetime.
	d, err := buildDeps(cfg, l)
	if err != nil {
		return err
	}
	defer d.close(l)

	// One run at a time. A slow run holds the lock and later triggers skip.
	var busy sync.Mutex

	c := cron.New()
	_, err = c.AddFunc(scheduleSpec, func() {
		if !busy.TryLock() {
			l.Warn("previous run still in progress, skipping trigger")
			return
		}
		defer busy.Unlock()

		svc, err := buildService(cfg, l, d)
		if err != nil {
			l.Error("failed to build service", zap.Error(err))
			return
		}

		year := scheduleYear
		if year == 0 {
			year = time.Now().Year()
		}
		if _, err := svc.Run(context.Background(), year, scheduleDryRun); err != nil {
			l.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	l.Info("scheduler started", zap.String("cron", scheduleSpec))
	c.Start()

	// Block until interrupted, then let an in-flight run finish.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	l.Info("shutting down scheduler...")
	<-c.Stop().Done()
	return nil
}

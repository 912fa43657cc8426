package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openaudit/spendscan/internal/api"
	"github.com/openaudit/spendscan/internal/notify"
	"github.com/openaudit/spendscan/internal/pipeline"
	"github.com/openaudit/spendscan/internal/schedule"
)

var serveWithScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP extraction API",
	Long: `Serve starts the HTTP API: submit extraction jobs, poll their
status, and query stored allocations, statistics, and yearly summaries.

With --schedule the daily discovery sweep and weekly summary email run
inside the same process.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveWithScheduler, "schedule", false, "also run the cron scheduler in this process")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	orch := pipeline.NewOrchestrator(cfg, s.runner, s.fetcher, log)
	orch.Start(ctx)

	var sched *schedule.Scheduler
	if serveWithScheduler {
		mailer := notify.NewMailer(cfg, log)
		sched = schedule.New(cfg, s.keywords, s.fetcher, s.runner, s.store, mailer, log)
		if err := sched.Start(ctx); err != nil {
			return err
		}
	}

	srv := api.NewServer(orch, s.store, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if sched != nil {
			sched.Stop()
		}
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting spendscan", "port", cfg.Port, "store", cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

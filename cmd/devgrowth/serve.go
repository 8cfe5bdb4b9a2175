package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/arnold/devgrowth-api/internal/repository"
	"github.com/arnold/devgrowth-api/internal/routes"
	"github.com/arnold/devgrowth-api/internal/services"
)

func newServeCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, opts *Options) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	db, logger, err := open(cfg)
	if err != nil {
		slog.Error("failed to open database", slog.String("error", err.Error()))
		return err
	}
	defer closeDB(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logs := repository.NewDailyLogRepository(db)
	goals := repository.NewGoalRepository(db)
	app := routes.NewApp(routes.Deps{
		DailyLogs: services.NewDailyLogService(logs, goals, services.Paging{
			DefaultLimit: cfg.DefaultPageSize,
			MaxLimit:     cfg.MaxPageSize,
		}, services.NewMetrics(reg), logger),
		Goals:     services.NewGoalService(goals, logger),
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
		Gatherer:  reg,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}
	return nil
}

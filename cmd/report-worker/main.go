package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"homefinance/internal/amqp"
	"homefinance/internal/cli"
	"homefinance/internal/services"
	"homefinance/internal/worker"
)

func main() {
	consume := flag.Bool("consume", false, "log published report snapshots instead of building reports")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting report-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	var client *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		client, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
	} else if *consume {
		logger.Error("AMQP_URL is required to consume snapshots")
		os.Exit(1)
	} else {
		logger.Info("AMQP disabled - reports will be built but not published")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if client != nil {
			client.Close()
		}
	})

	if *consume {
		err := client.ConsumeReportSnapshots(ctx, func(ctx context.Context, msg *amqp.ReportSnapshotMessage) error {
			logger.InfoContext(ctx, "Report snapshot",
				"report_id", msg.ID,
				"generated_at", msg.GeneratedAt,
				"income_execution_pct", msg.Income.ExecutionPct.StringFixed(2),
				"expense_execution_pct", msg.Expense.ExecutionPct.StringFixed(2),
				"transactions", msg.Transactions,
				"absent_tables", msg.AbsentTables)
			return nil
		})
		if err != nil && !isShutdown(err) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
		cli.WaitForShutdown(ctx, done)
		return
	}

	res := cli.InitBackend(ctx, logger, cfg)
	defer res.Close()

	var publisher services.SnapshotPublisher
	if client != nil {
		publisher = client
	}
	svc := services.NewReportService(res.Backend, publisher, cfg.FetchTimeout)

	w := worker.NewReportWorker(svc, logger)
	if err := w.Run(ctx, cfg.ReportInterval); err != nil && !isShutdown(err) {
		logger.Error("Report worker stopped", "error", err)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Report-worker shutdown complete")
}

// isShutdown reports whether err only signals that ctx was cancelled.
func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}

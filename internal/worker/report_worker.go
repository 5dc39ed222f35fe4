package worker

import (
	"context"
	"log/slog"
	"time"

	"homefinance/internal/log"
	"homefinance/internal/services"
)

// ReportBuilder builds one report. *services.ReportService satisfies it.
type ReportBuilder interface {
	Build(ctx context.Context) (*services.Report, error)
}

// ReportWorker rebuilds the report on a fixed interval. Snapshots are
// published by the builder.
type ReportWorker struct {
	builder ReportBuilder
	logger  *slog.Logger
}

func NewReportWorker(builder ReportBuilder, logger *slog.Logger) *ReportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWorker{
		builder: builder,
		logger:  logger.With(log.FieldComponent, log.ComponentWorker),
	}
}

// RunOnce builds a single report.
func (w *ReportWorker) RunOnce(ctx context.Context) (*services.Report, error) {
	start := time.Now()
	report, err := w.builder.Build(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Report run failed", "error", err)
		return nil, err
	}
	w.logger.InfoContext(ctx, "Report run complete",
		"transactions", len(report.Transactions.Transactions),
		"absent_tables", report.Absent,
		"duration_ms", time.Since(start).Milliseconds())
	return report, nil
}

// Run builds a report immediately and then once per interval until ctx is
// done. Failed runs are logged and retried on the next tick.
func (w *ReportWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Report worker started", "interval", interval)
	_, _ = w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Report worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			if _, err := w.RunOnce(ctx); err == nil {
				w.logger.DebugContext(ctx, "Next report scheduled", "next_run", now.Add(interval).Format("15:04:05"))
			}
		}
	}
}

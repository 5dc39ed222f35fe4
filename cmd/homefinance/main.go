package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/text/language"

	"homefinance/internal/amqp"
	"homefinance/internal/backend"
	"homefinance/internal/cli"
	"homefinance/internal/config"
	"homefinance/internal/core"
	"homefinance/internal/format"
	"homefinance/internal/render"
	"homefinance/internal/services"
	"homefinance/internal/sheets/memory"
)

func main() {
	outFormat := flag.String("format", render.FormatText, "output format: "+strings.Join(render.Formats, ", "))
	locale := flag.String("locale", "", "locale for amounts, e.g. es-ES (default REPORT_LOCALE)")
	importDir := flag.String("import", "", "load the CSV seed files of this directory into the backend before reporting")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	tag := cfg.Locale()
	if *locale != "" {
		t, err := language.Parse(*locale)
		if err != nil {
			logger.Error("Invalid locale", "locale", *locale, "error", err)
			os.Exit(2)
		}
		tag = t
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	res := cli.InitBackend(ctx, logger, cfg)
	err := run(ctx, logger, cfg, res, options{format: *outFormat, tag: tag, importDir: *importDir}, os.Stdout)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type options struct {
	format    string
	tag       language.Tag
	importDir string
}

// run builds and writes one report. It owns res and closes it, together
// with the snapshot publisher, before returning.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, res *backend.BackendResult, opts options, stdout io.Writer) error {
	defer res.Close()

	if opts.importDir != "" {
		if err := importSeedFiles(ctx, res, opts.importDir); err != nil {
			logger.Error("Import failed", "dir", opts.importDir, "error", err)
			return err
		}
	}

	var publisher services.SnapshotPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without snapshots", "error", err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	svc := services.NewReportService(res.Backend, publisher, cfg.FetchTimeout)
	report, err := svc.Build(ctx)
	if err != nil {
		if errors.Is(err, core.ErrSourceUnavailable) {
			logger.Error("Data source unavailable", "backend", cfg.DataBackend, "error", err)
		} else {
			logger.Error("Failed to build report", "error", err)
		}
		return err
	}

	if err := render.Write(stdout, opts.format, report, format.DefaultOptions(opts.tag)); err != nil {
		logger.Error("Failed to render report", "format", opts.format, "error", err)
		return err
	}
	return nil
}

func importSeedFiles(ctx context.Context, res *backend.BackendResult, dir string) error {
	if res.Importer == nil {
		return errors.New("backend is read-only")
	}
	src, found := memory.LoadDir(dir)
	if found == 0 {
		return fmt.Errorf("no seed files (%s, %s, %s) found", memory.TransactionsFile, memory.IncomeBudgetFile, memory.ExpenseBudgetFile)
	}
	if err := res.Importer.ImportSource(ctx, src); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Imported seed files", "dir", dir, "files", found, "absent_tables", src.Absent())
	return nil
}

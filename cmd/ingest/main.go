// Command locstore-ingest parses raw location feed files and loads the
// strict-success hops into the index database.
//
// Usage: locstore-ingest [-lookup path] [-raw out.zst] [-report out.xlsx] [-dedupe] files...
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/app"
	"github.com/jengzang/locstore-backend-go/internal/config"
	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/events"
	"github.com/jengzang/locstore-backend-go/internal/ingest"
	"github.com/jengzang/locstore-backend-go/internal/logger"
	"github.com/jengzang/locstore-backend-go/internal/parser"
	"github.com/jengzang/locstore-backend-go/internal/report"
	"github.com/jengzang/locstore-backend-go/internal/repository"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
)

func main() {
	lookupPath := flag.String("lookup", "", "lookup table file (overrides LOCSTORE_LOOKUP_PATH)")
	rawPath := flag.String("raw", "", "write raw-profile lines here (.zst compresses)")
	reportPath := flag.String("report", "", "write the run report here (.xlsx or text)")
	dedupe := flag.Bool("dedupe", false, "sort and dedupe raw output per entity")
	workers := flag.Int("workers", 0, "parse workers (overrides LOCSTORE_INGEST_WORKERS)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: locstore-ingest [flags] files...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Args(), *lookupPath, *rawPath, *reportPath, *dedupe, *workers); err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, files []string, lookupPath, rawPath, reportPath string, dedupe bool, workers int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if lookupPath != "" {
		cfg.Lookup.Path = lookupPath
	}
	if workers > 0 {
		cfg.Ingest.Workers = workers
	}

	log, err := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	table, err := app.LoadTable(ctx, cfg, repository.NewCellRepository(db))
	if err != nil {
		return fmt.Errorf("failed to load lookup table: %w", err)
	}
	log.Info("ingest: lookup table loaded", zap.Int("entries", table.Len()))

	opts, err := app.ParserOptions(cfg)
	if err != nil {
		return err
	}
	p := parser.New(table, app.Normalizer(cfg), opts, log.Named("parser"))

	publisher, err := events.New(cfg.NATS.URL, cfg.NATS.Token, cfg.NATS.Subject, log.Named("events"))
	if err != nil {
		return err
	}
	defer publisher.Close()

	var rawOut io.WriteCloser
	if rawPath != "" {
		if rawOut, err = ingest.CreateRawFile(rawPath); err != nil {
			return err
		}
	}

	pipeline := ingest.New(p, rowkey.NewBuilder(opts.Legacy3G),
		repository.NewIndexRepository(db), repository.NewRunRepository(db), publisher,
		ingest.Options{
			Workers:   cfg.Ingest.Workers,
			BatchSize: cfg.Ingest.BatchSize,
			RawOut:    rawOut,
			Dedupe:    dedupe,
		}, log)

	total := report.New()
	for _, path := range files {
		res, err := ingestFile(ctx, pipeline, path)
		if err != nil {
			if rawOut != nil {
				rawOut.Close()
			}
			return fmt.Errorf("%s: %w", path, err)
		}
		total.Merge(res.Report)
	}

	if rawOut != nil {
		if err := rawOut.Close(); err != nil {
			return fmt.Errorf("failed to close raw output: %w", err)
		}
	}
	if reportPath != "" {
		return writeReport(total, reportPath)
	}
	return nil
}

func ingestFile(ctx context.Context, pipeline *ingest.Pipeline, path string) (*ingest.Result, error) {
	if path == "-" {
		return pipeline.Run(ctx, "stdin", os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return pipeline.Run(ctx, filepath.Base(path), r)
}

func writeReport(rep *report.Reporter, path string) error {
	if strings.HasSuffix(path, ".xlsx") {
		return rep.SaveXLSX(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	for _, d := range report.Dimensions {
		if _, err := fmt.Fprintf(f, "# %s\n", d); err != nil {
			return err
		}
		if err := rep.WriteText(f, d); err != nil {
			return err
		}
	}
	return f.Close()
}

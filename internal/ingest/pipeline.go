package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/locstore-backend-go/internal/events"
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/parser"
	"github.com/jengzang/locstore-backend-go/internal/report"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
)

// maxLineBytes bounds a single raw input line
const maxLineBytes = 1024 * 1024

// Loader writes scan cells into an index layout
type Loader interface {
	BulkLoad(ctx context.Context, layout models.Layout, cells []models.ScanCell) error
}

// RunStore records finished runs
type RunStore interface {
	Create(ctx context.Context, run *models.IngestRun) error
}

// Options tunes a pipeline
type Options struct {
	Workers   int
	BatchSize int
	RawOut    io.Writer // raw-profile lines, one per hop; nil disables
	Dedupe    bool      // sort and dedupe raw output per entity before writing
}

// Result is the outcome of one run
type Result struct {
	Run    models.IngestRun
	Report *report.Reporter
}

// Pipeline parses raw feed lines and loads the strict-success hops into
// both index layouts
type Pipeline struct {
	parser    *parser.Parser
	builder   *rowkey.Builder
	loader    Loader
	runs      RunStore
	publisher events.Publisher
	opts      Options
	logger    *zap.Logger
}

// New creates a pipeline. runs and publisher may be nil.
func New(p *parser.Parser, b *rowkey.Builder, loader Loader, runs RunStore, publisher events.Publisher, opts Options, logger *zap.Logger) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		parser:    p,
		builder:   b,
		loader:    loader,
		runs:      runs,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

type batchResult struct {
	lines    int64
	hops     int64
	rejected int64
	raw      []string
	entity   []models.ScanCell
	geo      []models.ScanCell
	report   *report.Reporter
}

// Run ingests every line of r. source names the input in the run record.
func (p *Pipeline) Run(ctx context.Context, source string, r io.Reader) (*Result, error) {
	run := models.IngestRun{
		ID:        uuid.New().String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	log := p.logger.With(zap.String("run", run.ID), zap.String("source", source))
	log.Info("ingest: starting")

	rep := report.New()
	var raw []string
	rawOut := p.rawWriter()

	g, gCtx := errgroup.WithContext(ctx)
	batches := make(chan []string)
	results := make(chan batchResult)

	g.Go(func() error {
		defer close(batches)
		return p.readBatches(gCtx, r, batches)
	})

	var workers sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for lines := range batches {
				res := p.process(lines)
				select {
				case results <- res:
				case <-gCtx.Done():
					return gCtx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	g.Go(func() error {
		for res := range results {
			if err := p.loader.BulkLoad(gCtx, models.LayoutEntity, res.entity); err != nil {
				return fmt.Errorf("failed to load entity index: %w", err)
			}
			if err := p.loader.BulkLoad(gCtx, models.LayoutGeo, res.geo); err != nil {
				return fmt.Errorf("failed to load geo index: %w", err)
			}

			run.Lines += res.lines
			run.Hops += res.hops
			run.Rejected += res.rejected
			run.Loaded += int64(len(res.entity))
			rep.Merge(res.report)

			if p.opts.Dedupe {
				raw = append(raw, res.raw...)
			} else if err := rawOut.write(res.raw); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("ingest: failed", zap.Error(err))
		return nil, err
	}

	if p.opts.Dedupe {
		if err := rawOut.write(report.Dedupe(raw)); err != nil {
			return nil, err
		}
	}
	if err := rawOut.flush(); err != nil {
		return nil, err
	}

	run.FinishedAt = time.Now().UTC()
	if p.runs != nil {
		if err := p.runs.Create(ctx, &run); err != nil {
			return nil, err
		}
	}
	if err := p.publisher.RunCompleted(ctx, run); err != nil {
		log.Warn("ingest: failed to publish completion", zap.Error(err))
	}

	log.Info("ingest: finished",
		zap.Int64("lines", run.Lines),
		zap.Int64("hops", run.Hops),
		zap.Int64("loaded", run.Loaded),
		zap.Int64("rejected", run.Rejected),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)))

	return &Result{Run: run, Report: rep}, nil
}

func (p *Pipeline) readBatches(ctx context.Context, r io.Reader, out chan<- []string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	batch := make([]string, 0, p.opts.BatchSize)
	send := func() error {
		if len(batch) == 0 {
			return nil
		}
		select {
		case out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		batch = make([]string, 0, p.opts.BatchSize)
		return nil
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		batch = append(batch, line)
		if len(batch) == p.opts.BatchSize {
			if err := send(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return send()
}

// process parses one batch and builds its cells
func (p *Pipeline) process(lines []string) batchResult {
	res := batchResult{lines: int64(len(lines)), report: report.New()}

	for _, line := range lines {
		hops := parser.Expand(p.parser.Parse(line))
		res.hops += int64(len(hops))
		res.report.AddAll(hops)

		for _, f := range hops {
			if p.opts.RawOut != nil {
				res.raw = append(res.raw, f.Raw())
			}
			if !f.Code.OK() {
				res.rejected++
				continue
			}

			cell, err := p.builder.Cell(f, models.LayoutEntity)
			if err != nil {
				res.rejected++
				continue
			}
			res.entity = append(res.entity, cell)

			// hops without a position only reach the entity index
			if cell, err := p.builder.Cell(f, models.LayoutGeo); err == nil {
				res.geo = append(res.geo, cell)
			}
		}
	}
	return res
}

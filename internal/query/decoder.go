package query

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// DefaultPageSize is used when a non-positive page size is requested
const DefaultPageSize = 1000

// CompactHeader names the columns of the compact projection
const CompactHeader = "time,lat,lon,entity,type"

// Cursor iterates the cells of one key range in key order.
// Next returns io.EOF once the range is exhausted; it may return the
// final cells together with io.EOF.
type Cursor interface {
	Next(ctx context.Context, n int) ([]models.ScanCell, error)
	Close() error
}

// Scanner opens range scans over an index. Cells at or before after
// (row key, qualifier) are skipped.
type Scanner interface {
	Open(ctx context.Context, r models.KeyRange, after Position) (Cursor, error)
}

// Decoder pages through an ordered list of key ranges and decodes the
// cells it reads.
type Decoder struct {
	scanner Scanner
	ranges  []models.KeyRange
	codec   Codec

	pos Position
	cur Cursor
}

// NewDecoder creates a decoder positioned at the first range
func NewDecoder(scanner Scanner, ranges []models.KeyRange, codec Codec) *Decoder {
	return &Decoder{
		scanner: scanner,
		ranges:  ranges,
		codec:   codec,
	}
}

// Position returns the resume point after the last cell returned.
func (d *Decoder) Position() Position {
	return d.pos
}

// Seek moves the decoder to p, dropping any open cursor.
func (d *Decoder) Seek(p Position) error {
	if p.Range < 0 || p.Range > len(d.ranges) {
		return fmt.Errorf("range index %d out of bounds", p.Range)
	}
	d.closeCursor()
	d.pos = p
	return nil
}

// Done reports whether every range has been drained
func (d *Decoder) Done() bool {
	return d.pos.Range >= len(d.ranges)
}

// Fetch returns up to max pipe-delimited lines.
func (d *Decoder) Fetch(ctx context.Context, max int) ([]string, error) {
	return d.fetchLines(ctx, max, false)
}

// FetchCompact returns up to max lines of the 5-column projection.
func (d *Decoder) FetchCompact(ctx context.Context, max int) ([]string, error) {
	return d.fetchLines(ctx, max, true)
}

// FetchRows returns up to max structured rows.
func (d *Decoder) FetchRows(ctx context.Context, max int) ([]models.DecodedRow, error) {
	cells, err := d.fetchCells(ctx, max)
	if err != nil {
		return nil, err
	}
	rows := make([]models.DecodedRow, len(cells))
	for i, c := range cells {
		rows[i], _ = d.codec.Row(c)
	}
	return rows, nil
}

func (d *Decoder) fetchLines(ctx context.Context, max int, compact bool) ([]string, error) {
	cells, err := d.fetchCells(ctx, max)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(cells))
	for i, c := range cells {
		lines[i] = d.codec.render(c, compact)
	}
	return lines, nil
}

// fetchCells reads cells across range boundaries. It returns io.EOF
// only when nothing was read and every range is exhausted. A failed call
// leaves the position where it started.
func (d *Decoder) fetchCells(ctx context.Context, max int) ([]models.ScanCell, error) {
	if max <= 0 {
		max = DefaultPageSize
	}
	start := d.pos

	var out []models.ScanCell
	for len(out) < max {
		if d.Done() {
			if len(out) == 0 {
				return nil, io.EOF
			}
			break
		}

		if d.cur == nil {
			cur, err := d.scanner.Open(ctx, d.ranges[d.pos.Range], d.pos)
			if err != nil {
				return nil, d.rewind(start, fmt.Errorf("failed to open range %d: %w", d.pos.Range, err))
			}
			d.cur = cur
		}

		cells, err := d.cur.Next(ctx, max-len(out))
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, d.rewind(start, fmt.Errorf("failed to scan range %d: %w", d.pos.Range, err))
		}
		out = append(out, cells...)
		if n := len(cells); n > 0 {
			d.pos.RowKey = cells[n-1].RowKey
			d.pos.Qualifier = cells[n-1].Qualifier
		}

		// a cursor that yields nothing is treated as drained
		if errors.Is(err, io.EOF) || len(cells) == 0 {
			zap.L().Debug("decoder: range exhausted",
				zap.Int("range", d.pos.Range),
				zap.String("tile", d.ranges[d.pos.Range].Tile))
			d.closeCursor()
			d.pos = Position{Range: d.pos.Range + 1}
		}
	}
	return out, nil
}

func (d *Decoder) rewind(p Position, err error) error {
	d.closeCursor()
	d.pos = p
	return err
}

// Close releases the open cursor, if any.
func (d *Decoder) Close() error {
	return d.closeCursor()
}

func (d *Decoder) closeCursor() error {
	if d.cur == nil {
		return nil
	}
	err := d.cur.Close()
	d.cur = nil
	return err
}

// WriteTo drains every remaining range into w, one line per cell.
// Compact output starts with a header row.
func (d *Decoder) WriteTo(ctx context.Context, w io.Writer, compact bool, page int) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	if compact {
		if _, err := bw.WriteString(CompactHeader + "\n"); err != nil {
			return written, err
		}
	}

	for {
		lines, err := d.fetchLines(ctx, page, compact)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, err
		}
		for _, line := range lines {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return written, fmt.Errorf("failed to write line: %w", err)
			}
			written++
		}
	}
	return written, bw.Flush()
}

package query

import (
	"context"
	"io"
	"sort"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// SliceScanner serves range scans from cells already in memory
type SliceScanner struct {
	cells []models.ScanCell
}

// NewSliceScanner copies cells and sorts them by row key and qualifier.
func NewSliceScanner(cells []models.ScanCell) *SliceScanner {
	sorted := make([]models.ScanCell, len(cells))
	copy(sorted, cells)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].RowKey != sorted[j].RowKey {
			return sorted[i].RowKey < sorted[j].RowKey
		}
		return sorted[i].Qualifier < sorted[j].Qualifier
	})
	return &SliceScanner{cells: sorted}
}

// Open implements Scanner.
func (s *SliceScanner) Open(_ context.Context, r models.KeyRange, after Position) (Cursor, error) {
	lo := sort.Search(len(s.cells), func(i int) bool { return s.cells[i].RowKey >= r.Start })
	hi := sort.Search(len(s.cells), func(i int) bool { return s.cells[i].RowKey >= r.End })
	if hi < lo {
		hi = lo
	}
	for lo < hi && !after.After(s.cells[lo].RowKey, s.cells[lo].Qualifier) {
		lo++
	}
	return &sliceCursor{cells: s.cells[lo:hi]}, nil
}

type sliceCursor struct {
	cells []models.ScanCell
}

func (c *sliceCursor) Next(ctx context.Context, n int) ([]models.ScanCell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n > len(c.cells) {
		n = len(c.cells)
	}
	out := c.cells[:n]
	c.cells = c.cells[n:]
	if len(c.cells) == 0 {
		return out, io.EOF
	}
	return out, nil
}

func (c *sliceCursor) Close() error {
	c.cells = nil
	return nil
}

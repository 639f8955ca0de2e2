package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/query"
)

// IndexRepository stores scan cells in one table per row-key layout
type IndexRepository struct {
	db *sql.DB
}

// NewIndexRepository creates a new index repository
func NewIndexRepository(db *sql.DB) *IndexRepository {
	return &IndexRepository{db: db}
}

func tableFor(layout models.Layout) (string, error) {
	switch layout {
	case models.LayoutEntity:
		return "entity_index", nil
	case models.LayoutGeo:
		return "geo_index", nil
	}
	return "", fmt.Errorf("unknown layout %q", layout)
}

// BulkLoad upserts cells into the layout's table in one transaction. A
// cell with an existing (row key, qualifier) replaces the stored one.
func (r *IndexRepository) BulkLoad(ctx context.Context, layout models.Layout, cells []models.ScanCell) error {
	table, err := tableFor(layout)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}

	return database.WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO `+table+`
			(row_key, qualifier, value, ts_ms) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, c := range cells {
			if _, err := stmt.ExecContext(ctx, c.RowKey, c.Qualifier, c.Value, c.Timestamp); err != nil {
				return fmt.Errorf("failed to load cell %s: %w", c.RowKey, err)
			}
		}
		return nil
	})
}

// Count returns the number of cells stored for layout
func (r *IndexRepository) Count(ctx context.Context, layout models.Layout) (int64, error) {
	table, err := tableFor(layout)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Scanner returns a range scanner over the layout's table.
func (r *IndexRepository) Scanner(layout models.Layout) (*IndexScanner, error) {
	table, err := tableFor(layout)
	if err != nil {
		return nil, err
	}
	return &IndexScanner{db: r.db, table: table}, nil
}

// IndexScanner serves keyset-paginated range scans over one table
type IndexScanner struct {
	db    *sql.DB
	table string
}

var _ query.Scanner = (*IndexScanner)(nil)

// Open implements query.Scanner.
func (s *IndexScanner) Open(_ context.Context, r models.KeyRange, after query.Position) (query.Cursor, error) {
	return &indexCursor{
		scanner:  s,
		rng:      r,
		lastKey:  after.RowKey,
		lastQual: after.Qualifier,
	}, nil
}

type indexCursor struct {
	scanner  *IndexScanner
	rng      models.KeyRange
	lastKey  string
	lastQual string
	done     bool
}

// Next reads the next page with a keyset query so that no rows are held
// open between calls.
func (c *indexCursor) Next(ctx context.Context, n int) ([]models.ScanCell, error) {
	if c.done {
		return nil, io.EOF
	}

	rows, err := c.scanner.db.QueryContext(ctx, `
		SELECT row_key, qualifier, value, ts_ms
		FROM `+c.scanner.table+`
		WHERE row_key >= ? AND row_key < ?
		  AND (row_key > ? OR (row_key = ? AND qualifier > ?))
		ORDER BY row_key, qualifier
		LIMIT ?`,
		c.rng.Start, c.rng.End, c.lastKey, c.lastKey, c.lastQual, n)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.scanner.table, err)
	}
	defer rows.Close()

	cells := make([]models.ScanCell, 0, n)
	for rows.Next() {
		var cell models.ScanCell
		if err := rows.Scan(&cell.RowKey, &cell.Qualifier, &cell.Value, &cell.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells = append(cells, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cells: %w", err)
	}

	if k := len(cells); k > 0 {
		c.lastKey, c.lastQual = cells[k-1].RowKey, cells[k-1].Qualifier
	}
	if len(cells) < n {
		c.done = true
		return cells, io.EOF
	}
	return cells, nil
}

func (c *indexCursor) Close() error {
	c.done = true
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/lookup"
)

// CellRepository handles the location lookaside table
type CellRepository struct {
	db *sql.DB
}

// NewCellRepository creates a new cell repository
func NewCellRepository(db *sql.DB) *CellRepository {
	return &CellRepository{db: db}
}

// Upsert stores rows, replacing existing ids
func (r *CellRepository) Upsert(ctx context.Context, rows []lookup.Row) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO cells (id, lat, lon, geohash) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET lat = excluded.lat, lon = excluded.lon, geohash = excluded.geohash`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.ID, row.Lat, row.Lon, row.Geohash); err != nil {
				return fmt.Errorf("failed to upsert cell %s: %w", row.ID, err)
			}
		}
		return nil
	})
}

// List returns every stored row in id order
func (r *CellRepository) List(ctx context.Context) ([]lookup.Row, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, lat, lon, geohash FROM cells ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	var out []lookup.Row
	for rows.Next() {
		var row lookup.Row
		if err := rows.Scan(&row.ID, &row.Lat, &row.Lon, &row.Geohash); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Table loads the lookaside table into memory
func (r *CellRepository) Table(ctx context.Context) (*lookup.Table, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.FromRows(rows)
}

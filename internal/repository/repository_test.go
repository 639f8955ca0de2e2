package repository

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/lookup"
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/query"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
)

const subscriber = "310410543442410"

func openTestDB(t *testing.T) *IndexRepository {
	t.Helper()
	conn, err := database.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewIndexRepository(conn)
}

func cellsAt(tss ...int64) []models.ScanCell {
	out := make([]models.ScanCell, len(tss))
	for i, ts := range tss {
		out[i] = models.ScanCell{
			RowKey:    rowkey.Entity(subscriber, ts, nil),
			Qualifier: "004G_TEST",
			Value:     "4|60|29|42.042345|-87.425352",
			Timestamp: ts * 1000,
		}
	}
	return out
}

func TestBulkLoadUpserts(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.BulkLoad(ctx, models.LayoutEntity, cellsAt(100, 101, 102)))
	require.NoError(t, repo.BulkLoad(ctx, models.LayoutEntity, cellsAt(102, 103)))

	n, err := repo.Count(ctx, models.LayoutEntity)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = repo.Count(ctx, models.LayoutGeo)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Error(t, repo.BulkLoad(ctx, models.Layout("nope"), cellsAt(1)))
}

func TestIndexScannerPaging(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.BulkLoad(ctx, models.LayoutEntity, cellsAt(99, 100, 101, 102, 103, 104, 105)))

	scanner, err := repo.Scanner(models.LayoutEntity)
	require.NoError(t, err)

	cur, err := scanner.Open(ctx, rowkey.EntityRange(subscriber, 100, 104), query.Position{})
	require.NoError(t, err)
	defer cur.Close()

	page, err := cur.Next(ctx, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(100000), page[0].Timestamp)

	page, err = cur.Next(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = cur.Next(ctx, 2)
	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, page, 1)
	assert.Equal(t, rowkey.Entity(subscriber, 104, nil), page[0].RowKey)
}

func TestIndexScannerWithDecoder(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.BulkLoad(ctx, models.LayoutEntity, cellsAt(100, 101, 102, 200)))

	scanner, err := repo.Scanner(models.LayoutEntity)
	require.NoError(t, err)

	ranges := []models.KeyRange{
		rowkey.EntityRange(subscriber, 100, 101),
		rowkey.EntityRange(subscriber, 150, 250),
	}
	d := query.NewDecoder(scanner, ranges, query.NewCodec(models.LayoutEntity, 15))

	lines, err := d.Fetch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{
		subscriber + "|0000000100|004G_TEST|4|60|29|42.042345|-87.425352",
		subscriber + "|0000000101|004G_TEST|4|60|29|42.042345|-87.425352",
		subscriber + "|0000000200|004G_TEST|4|60|29|42.042345|-87.425352",
	}, lines)

	_, err = d.Fetch(ctx, 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCellRepository(t *testing.T) {
	conn, err := database.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer conn.Close()

	repo := NewCellRepository(conn)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, []lookup.Row{
		{ID: "b", Lat: "1.5", Lon: "2.5"},
		{ID: "a", Lat: "42.042345", Lon: "-87.425352", Geohash: "dp3z4tdf3t"},
	}))
	require.NoError(t, repo.Upsert(ctx, []lookup.Row{{ID: "b", Lat: "3", Lon: "4"}}))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "3", rows[1].Lat)

	table, err := repo.Table(ctx)
	require.NoError(t, err)
	loc, ok := table.Get("b")
	require.True(t, ok)
	assert.Equal(t, 4.0, loc.Lon)
	assert.NotEmpty(t, loc.Geohash)
}

func TestRunRepository(t *testing.T) {
	conn, err := database.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer conn.Close()

	repo := NewRunRepository(conn)
	ctx := context.Background()
	base := time.Date(2014, 9, 17, 17, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		start := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, &models.IngestRun{
			ID: id, Source: "day.txt", Lines: 10, Hops: 14, Loaded: 12, Rejected: 2,
			StartedAt: start, FinishedAt: start.Add(time.Minute),
		}))
	}

	runs, total, err := repo.List(ctx, models.RunFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, runs, 2)
	assert.Equal(t, "r3", runs[0].ID)
	assert.Equal(t, int64(12), runs[0].Loaded)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Hour)))

	runs, _, err = repo.List(ctx, models.RunFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)
}

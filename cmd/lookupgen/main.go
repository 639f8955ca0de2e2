// Command locstore-lookupgen writes the versioned lookup file from a
// delimited cell list or from the cells table of the index database.
//
// Usage: locstore-lookupgen -out lookup.txt.zst [-csv cells.csv [-delim ,] [-import]] [-db index.db]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/lookup"
	"github.com/jengzang/locstore-backend-go/internal/repository"
)

func main() {
	out := flag.String("out", "", "lookup file to write (.zst compresses)")
	csvPath := flag.String("csv", "", "id,lat,lon[,geohash] source file")
	delim := flag.String("delim", ",", "field delimiter of the csv source")
	dbPath := flag.String("db", "", "index database holding the cells table")
	importRows := flag.Bool("import", false, "also upsert csv rows into the cells table")
	flag.Parse()

	if err := run(context.Background(), *out, *csvPath, *delim, *dbPath, *importRows); err != nil {
		fmt.Fprintln(os.Stderr, "lookupgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out, csvPath, delim, dbPath string, importRows bool) error {
	if out == "" {
		return fmt.Errorf("-out is required")
	}
	if csvPath == "" && dbPath == "" {
		return fmt.Errorf("one of -csv or -db is required")
	}

	var cells *repository.CellRepository
	if dbPath != "" {
		db, err := database.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		cells = repository.NewCellRepository(db)
	}

	var rows []lookup.Row
	if csvPath != "" {
		comma, size := utf8.DecodeRuneInString(delim)
		if size == 0 || size != len(delim) {
			return fmt.Errorf("delimiter must be a single character")
		}
		f, err := os.Open(csvPath)
		if err != nil {
			return err
		}
		rows, err = lookup.ReadCSV(f, comma)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", csvPath, err)
		}
	} else {
		var err error
		if rows, err = cells.List(ctx); err != nil {
			return err
		}
	}

	table, err := lookup.FromRows(rows)
	if err != nil {
		return err
	}

	if importRows && cells != nil && csvPath != "" {
		if err := cells.Upsert(ctx, table.Rows()); err != nil {
			return err
		}
	}

	if err := lookup.WriteFile(out, table); err != nil {
		return err
	}
	fmt.Printf("wrote %d entries to %s\n", table.Len(), out)
	return nil
}

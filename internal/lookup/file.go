package lookup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Header is the first line of every lookup file
const Header = "#locstore-lookup v1"

var (
	ErrBadHeader = errors.New("lookup: missing or unsupported header")
	ErrBadRow    = errors.New("lookup: malformed row")
)

// Read parses a versioned lookup file: a header line followed by
// id|lat|lon|geohash rows. Blank lines are skipped.
func Read(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read lookup header: %w", err)
		}
		return nil, ErrBadHeader
	}
	if strings.TrimSpace(sc.Text()) != Header {
		return nil, ErrBadHeader
	}

	entries := make(map[string]Location)
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Split(line, "|")
		if len(f) != 4 || f[0] == "" {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrBadRow)
		}
		loc, err := NewLocation(f[1], f[2], f[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrBadRow, err)
		}
		entries[f[0]] = loc
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lookup rows: %w", err)
	}

	return &Table{entries: entries}, nil
}

// Write serializes t in the versioned format, ids in sorted order.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return fmt.Errorf("failed to write lookup header: %w", err)
	}
	for _, id := range t.IDs() {
		loc := t.entries[id]
		if _, err := fmt.Fprintf(bw, "%s|%s|%s|%s\n", id, loc.LatText, loc.LonText, loc.Geohash); err != nil {
			return fmt.Errorf("failed to write lookup row: %w", err)
		}
	}
	return bw.Flush()
}

// LoadFile reads a lookup file from disk. Files ending in .zst are
// zstd-compressed.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup file: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return Read(f)
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()
	return Read(dec)
}

// WriteFile writes t to path, compressing when path ends in .zst.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create lookup file: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		if err := Write(f, t); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := Write(enc, t); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return f.Close()
}

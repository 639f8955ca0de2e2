package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV reads id,lat,lon[,geohash] rows. A first row whose latitude
// is not numeric is taken as a header and skipped.
func ReadCSV(r io.Reader, comma rune) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 3 || len(rec) > 4 {
			return nil, fmt.Errorf("line %d: %w: want 3 or 4 columns, got %d", line, ErrBadRow, len(rec))
		}
		if line == 1 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
				continue
			}
		}

		row := Row{
			ID:  strings.TrimSpace(rec[0]),
			Lat: strings.TrimSpace(rec[1]),
			Lon: strings.TrimSpace(rec[2]),
		}
		if len(rec) == 4 {
			row.Geohash = strings.TrimSpace(rec[3])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var header = []string{"type", "key", "count"}

// Workbook renders every dimension into its own sheet
func (r *Reporter) Workbook() (*excelize.File, error) {
	x := excelize.NewFile()

	for i, d := range Dimensions {
		name := string(d)
		idx, err := x.NewSheet(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if i == 0 {
			x.SetActiveSheet(idx)
		}

		for c, h := range header {
			cellName, _ := excelize.CoordinatesToCellName(c+1, 1)
			x.SetCellStr(name, cellName, h)
		}
		for rIdx, row := range r.Rows(d) {
			line := rIdx + 2
			x.SetCellStr(name, fmt.Sprintf("A%d", line), row.Type)
			x.SetCellStr(name, fmt.Sprintf("B%d", line), row.Key)
			x.SetCellValue(name, fmt.Sprintf("C%d", line), row.Count)
		}
	}
	x.DeleteSheet("Sheet1")
	return x, nil
}

// WriteXLSX writes the workbook to w
func (r *Reporter) WriteXLSX(w io.Writer) error {
	x, err := r.Workbook()
	if err != nil {
		return err
	}
	defer x.Close()

	if err := x.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path
func (r *Reporter) SaveXLSX(path string) error {
	x, err := r.Workbook()
	if err != nil {
		return err
	}
	defer x.Close()

	if err := x.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

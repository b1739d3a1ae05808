// Package export writes rendered dashboard views as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"autosales-dashboard/internal/models"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// excel caps sheet names at 31 characters
const maxSheetName = 31

var headers = []string{"Series", "Label", "Value"}

// Workbook builds one sheet per chart of view, named after the chart id.
// The caller owns the returned file and must Close it.
func Workbook(view models.View) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, c := range view.Charts {
		sheet := sheetName(c.ID)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", sheet, err)
		}

		if err := writeChart(f, sheet, c); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("style sheet %s: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, "A", "C", 22); err != nil {
			f.Close()
			return nil, fmt.Errorf("size sheet %s: %w", sheet, err)
		}
	}

	return f, nil
}

// Write streams the workbook for view to w.
func Write(w io.Writer, view models.View) error {
	f, err := Workbook(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeChart(f *excelize.File, sheet string, c models.Chart) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("header row %s: %w", sheet, err)
	}

	row := 2
	for _, s := range c.Series {
		for _, p := range s.Points {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []any{s.Name, p.Label, p.Value}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("row %d of %s: %w", row, sheet, err)
			}
			row++
		}
	}
	return nil
}

func sheetName(id string) string {
	if len(id) > maxSheetName {
		return id[:maxSheetName]
	}
	return id
}

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nestpack/internal/model"
)

// ExportXLSX writes the packed layout as an Excel workbook: a Placements
// sheet with one row per placed item and a Summary sheet with per-bin
// totals.
func ExportXLSX(path string, result model.PackResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const placements = "Placements"
	if err := f.SetSheetName("Sheet1", placements); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Bin", "Label", "Width (mm)", "Height (mm)", "X (mm)", "Y (mm)", "Rotated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(placements, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, bin := range result.Bins {
		for _, it := range bin.Items {
			values := []interface{}{bin.Index, it.Label, it.Width, it.Height, it.X, it.Y, it.Rotated}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(placements, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	summaryHeaders := []string{"Bin", "Items", "Used (mm²)", "Total (mm²)", "Efficiency (%)"}
	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summary, cell, h); err != nil {
			return err
		}
	}
	for i, bin := range result.Bins {
		values := []interface{}{bin.Index, len(bin.Items), bin.UsedArea(), bin.TotalArea(), bin.Efficiency()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return err
			}
		}
	}

	totalsRow := len(result.Bins) + 3
	cell, _ := excelize.CoordinatesToCellName(1, totalsRow)
	if err := f.SetCellValue(summary, cell, "Overall"); err != nil {
		return err
	}
	cell, _ = excelize.CoordinatesToCellName(2, totalsRow)
	if err := f.SetCellValue(summary, cell, result.ItemCount()); err != nil {
		return err
	}
	cell, _ = excelize.CoordinatesToCellName(5, totalsRow)
	if err := f.SetCellValue(summary, cell, result.TotalEfficiency()); err != nil {
		return err
	}

	return f.SaveAs(path)
}

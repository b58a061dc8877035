package catalog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dowan1041/ocie-helper/internal/model"
)

// ExportSheet is the worksheet name used by WriteXLSX.
const ExportSheet = "Equipment"

// ExportHeader is the header row of the exported sheet.
var ExportHeader = []string{
	"LIN",
	"Nomenclature",
	"Partial NSN",
	"Another Name",
	"Size",
	"Image",
	"Created At",
}

// WriteXLSX writes items to w as a single-sheet workbook. LINs are joined
// with " / " as in the UI.
func WriteXLSX(w io.Writer, items []model.Equipment) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("deleting default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &ExportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ExportHeader))
	if err := f.SetCellStyle(ExportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, e := range items {
		image := ""
		if e.Image != nil {
			image = *e.Image
		}
		row := []any{
			strings.Join(e.LIN, " / "),
			e.Nomenclature,
			e.PartialNSN,
			e.AnotherName,
			e.Size,
			image,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("converting coordinates: %w", err)
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	widths := []float64{24, 40, 12, 24, 12, 48, 22}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ExportSheet, col, col, width); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

package export

import (
	"fmt"
	"time"

	"inventory_viewer/internal/rows"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	InventorySheet = "Inventory"
	SummarySheet   = "Summary"
)

var headers = []string{"Row", "Supplier", "Code", "Description", "Color", "Remarks", "RMB", "PHP", "CNY Today", "CBM RMB", "CBM PHP", "DR", "CBM"}

var widths = []float64{6, 22, 14, 36, 12, 24, 12, 12, 10, 12, 12, 12, 12}

// Workbook builds an xlsx snapshot of a loaded table. Rows keep their display order and their sheet
// row number in the first column.
func Workbook(table rows.Table, exportedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	alertStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#DC2626"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create alert style: %w", err)
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(InventorySheet, cell, h)
		f.SetCellStyle(InventorySheet, cell, cell, headerStyle)
		f.SetColWidth(InventorySheet, col, col, widths[i])
	}

	for i, r := range table.Rows {
		line := i + 2
		values := []interface{}{
			r.OriginalIndex, r.Supplier, r.Code, r.Description, r.Color, r.Remarks,
			r.PriceNative, r.PricePrimary, r.CNYToday, r.CBMValue, r.CBMSecondary,
		}
		if err := f.SetSheetRow(InventorySheet, fmt.Sprintf("A%d", line), &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", r.OriginalIndex, err)
		}
		if r.IsColorAlert() {
			cell := fmt.Sprintf("E%d", line)
			f.SetCellStyle(InventorySheet, cell, cell, alertStyle)
		}
		setLink(f, fmt.Sprintf("L%d", line), r.DRLink)
		setLink(f, fmt.Sprintf("M%d", line), r.CBMLink)
	}

	if err := f.SetPanes(InventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		log.Debug().Err(err).Msg("Failed to freeze header row")
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"CNY Today", table.Rate},
		{"Aux Value", table.AuxValue},
		{"Rows", len(table.Rows)},
		{"Exported At", exportedAt.Format(time.RFC3339)},
	}
	for i, kv := range summary {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &kv); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}
	f.SetColWidth(SummarySheet, "A", "A", 14)
	f.SetColWidth(SummarySheet, "B", "B", 28)

	return f, nil
}

// WriteFile saves the snapshot to path.
func WriteFile(table rows.Table, path string, exportedAt time.Time) error {
	f, err := Workbook(table, exportedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Info().Str("path", path).Int("rows", len(table.Rows)).Msg("Exported inventory workbook")
	return nil
}

func setLink(f *excelize.File, cell, link string) {
	if link == "" {
		return
	}
	f.SetCellValue(InventorySheet, cell, "open")
	if err := f.SetCellHyperLink(InventorySheet, cell, link, "External"); err != nil {
		log.Debug().Err(err).Str("cell", cell).Msg("Failed to set hyperlink, keeping raw link")
		f.SetCellValue(InventorySheet, cell, link)
	}
}

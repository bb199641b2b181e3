package rows

import (
	"regexp"
	"slices"
	"strings"

	"inventory_viewer/internal/schema"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

// Decode turns the exported grid into typed rows. Row 0 is the header, rows 1-4 are preamble and data
// starts at the 6th sheet row. Rows with no supplier, code and description are dropped, and the
// result is reversed so the most recently appended row comes first.
func Decode(grid [][]string) Table {
	log.Debug().Int("rows", len(grid)).Msg("Decoding sheet export")

	table := Table{Rate: "0", AuxValue: "0", Rows: []SheetRow{}}
	if len(grid) > schema.HeaderRow {
		header := grid[schema.HeaderRow]
		table.Rate = extractRate(header)
		table.AuxValue = extractAuxValue(header)
	}

	offset := schema.FirstDataRow - 1
	if len(grid) <= offset {
		log.Debug().Int("rows", len(grid)).Msg("Export has no data rows")
		return table
	}

	for i, row := range grid[offset:] {
		sheetRow := extractSheetRow(row, i+schema.FirstDataRow)
		if isBlankRow(sheetRow) {
			continue
		}
		table.Rows = append(table.Rows, sheetRow)
	}
	slices.Reverse(table.Rows)

	log.Debug().
		Int("total_rows", len(grid)).
		Int("parsed_rows", len(table.Rows)).
		Str("rate", table.Rate).
		Str("aux_value", table.AuxValue).
		Msg("Finished decoding sheet export")
	return table
}

// extractRate finds the cell labelled "CNY today" and returns its right neighbour, falling back to a
// fixed position.
func extractRate(header []string) string {
	for i, cell := range header {
		if strings.Contains(strings.ToLower(cell), schema.RateLabel) {
			if v := extractStringField(header, i+1, ""); v != "" {
				return v
			}
			break
		}
	}
	return extractStringField(header, schema.RateFallbackIndex, "0")
}

// leadingNumber matches the numeric prefix of a cell such as "1234567 PHP".
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// extractAuxValue reads the header amount, divides it by 1000 and formats it with no decimals and
// thousands grouping. Only the leading number of the cell counts; trailing text is ignored.
func extractAuxValue(header []string) string {
	raw := strings.ReplaceAll(extractStringField(header, schema.AuxValueIndex, "0"), ",", "")
	amount, err := decimal.NewFromString(leadingNumber.FindString(strings.TrimSpace(raw)))
	if err != nil {
		amount = decimal.Zero
	}
	thousands := amount.Div(decimal.NewFromInt(1000)).Round(0)
	return groupPrinter.Sprintf("%d", thousands.IntPart())
}

// extractSheetRow maps one positional row through the read layout.
func extractSheetRow(row []string, rowIndex int) SheetRow {
	return SheetRow{
		Supplier:      readField(row, schema.Supplier, ""),
		Code:          readField(row, schema.Code, ""),
		Description:   readField(row, schema.Description, ""),
		Color:         readField(row, schema.Color, " "),
		Remarks:       readField(row, schema.Remarks, ""),
		DRLink:        readField(row, schema.DRLink, ""),
		PriceNative:   readField(row, schema.PriceNative, "0"),
		PricePrimary:  readField(row, schema.PricePrimary, "0"),
		CNYToday:      readField(row, schema.CNYToday, "0"),
		CBMValue:      readField(row, schema.CBMValue, ""),
		CBMSecondary:  readField(row, schema.CBMSecondary, ""),
		CBMLink:       readField(row, schema.CBMLink, ""),
		OriginalIndex: rowIndex,
	}
}

func readField(row []string, name schema.FieldName, def string) string {
	return extractStringField(row, schema.ReadIndex(name), def)
}

// extractStringField returns the cell at index, or def when it is missing or empty.
func extractStringField(row []string, index int, def string) string {
	if index >= 0 && len(row) > index && row[index] != "" {
		return row[index]
	}
	return def
}

func isBlankRow(r SheetRow) bool {
	return r.Supplier == "" && r.Code == "" && r.Description == ""
}

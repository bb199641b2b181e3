package rows

import (
	"strings"

	"inventory_viewer/internal/dates"

	"github.com/shopspring/decimal"
)

// SheetRow is one inventory line as read from the published export.
type SheetRow struct {
	Supplier     string `json:"supplier"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	Remarks      string `json:"remarks"`
	DRLink       string `json:"drLink"`
	CBMLink      string `json:"cbmLink"`
	PriceNative  string `json:"priceNative"`
	PricePrimary string `json:"pricePrimary"`
	CNYToday     string `json:"cnyToday"`
	CBMValue     string `json:"cbmValue"`
	CBMSecondary string `json:"cbmSecondary"`
	// OriginalIndex is the 1-based sheet row number and the join key for every write-back.
	// It shifts silently if rows are inserted, deleted or reordered in the sheet.
	OriginalIndex int `json:"originalIndex"`
}

// IsColorAlert reports whether the color tag should be flagged. The flag depends on Remarks being
// blank, not on Color.
func (r SheetRow) IsColorAlert() bool {
	return strings.TrimSpace(r.Remarks) == ""
}

// Table is the decoded export: rows newest first plus the two header-derived display values.
type Table struct {
	Rows     []SheetRow `json:"rows"`
	Rate     string     `json:"rate"`
	AuxValue string     `json:"auxValue"`
}

// NewRowData is the input of an append or update. Every field is optional; an absent field is written
// as an empty cell, never as zero.
type NewRowData struct {
	Date         dates.Value
	Supplier     string
	AmountNative decimal.NullDecimal
	QuantityUnit decimal.NullDecimal
	CNYToday     decimal.NullDecimal
	CNYMovingAvg decimal.NullDecimal
	CBMVolume    decimal.NullDecimal
	DRNumber     string
}

// Amount parses an optional numeric input. Blank input is absent; anything else must be a number.
func Amount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

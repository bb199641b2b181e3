package rows

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dataRow builds an export row wide enough to reach the remarks column.
func dataRow(cells map[int]string) []string {
	row := make([]string, 25)
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func preamble(header []string) [][]string {
	return [][]string{header, {}, {}, {}, {}}
}

func TestDecodeRateFromLabel(t *testing.T) {
	header := []string{"", "", "", "", "", "", "", "", "", "CNY today", "7.05"}
	grid := append(preamble(header), dataRow(map[int]string{1: "X", 2: "Y Co.", 4: "100"}))

	table := Decode(grid)
	assert.Equal(t, "7.05", table.Rate)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "X", table.Rows[0].Supplier)
	assert.Equal(t, "Y Co.", table.Rows[0].Description)
	assert.Equal(t, "100", table.Rows[0].PriceNative)
}

func TestDecodeRateLabelIsCaseInsensitive(t *testing.T) {
	header := []string{"Rates", "cny TODAY:", "6.98"}
	table := Decode([][]string{header})
	assert.Equal(t, "6.98", table.Rate)
}

func TestDecodeRateFallback(t *testing.T) {
	header := make([]string, 11)
	header[10] = "7.10"
	assert.Equal(t, "7.10", Decode([][]string{header}).Rate)

	// label present but no value next to it
	header = []string{"CNY today"}
	assert.Equal(t, "0", Decode([][]string{header}).Rate)

	assert.Equal(t, "0", Decode(nil).Rate)
}

func TestDecodeAuxValue(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1,234,567", "1,235"},
		{"2500", "3"},
		{"499", "0"},
		{"12,000,000", "12,000"},
		{"", "0"},
		{"n/a", "0"},
		{"1234567 PHP", "1,235"},
		{" 1,234,567.89 total", "1,235"},
		{"-2,600", "-3"},
		{"PHP 1234567", "0"},
	}
	for _, tt := range tests {
		header := make([]string, 9)
		header[8] = tt.raw
		assert.Equal(t, tt.want, Decode([][]string{header}).AuxValue, "aux value of %q", tt.raw)
	}
}

func TestDecodeShortGrid(t *testing.T) {
	for n := 0; n < 6; n++ {
		grid := make([][]string, n)
		for i := range grid {
			grid[i] = []string{"a", "b", "c"}
		}
		table := Decode(grid)
		assert.Empty(t, table.Rows, "grid with %d rows", n)
		assert.NotNil(t, table.Rows)
	}
}

func TestDecodeOriginalIndexAndOrder(t *testing.T) {
	grid := preamble([]string{})
	for i := 0; i < 4; i++ {
		grid = append(grid, dataRow(map[int]string{1: fmt.Sprintf("supplier-%d", i)}))
	}

	table := Decode(grid)
	require.Len(t, table.Rows, 4)
	// newest first
	assert.Equal(t, 9, table.Rows[0].OriginalIndex)
	assert.Equal(t, "supplier-3", table.Rows[0].Supplier)
	assert.Equal(t, 6, table.Rows[3].OriginalIndex)
	assert.Equal(t, "supplier-0", table.Rows[3].Supplier)
	for i := 1; i < len(table.Rows); i++ {
		assert.Greater(t, table.Rows[i-1].OriginalIndex, table.Rows[i].OriginalIndex)
	}
}

func TestDecodeDropsBlankIdentityRows(t *testing.T) {
	grid := preamble([]string{})
	grid = append(grid,
		dataRow(map[int]string{1: "Acme"}),
		// remarks, links and prices alone do not make a row
		dataRow(map[int]string{3: "https://drive.google.com/open?id=abc", 4: "55", 24: "note"}),
		dataRow(map[int]string{9: "CODE-1"}),
		[]string{""},
		dataRow(map[int]string{2: "only a description"}),
	)

	table := Decode(grid)
	require.Len(t, table.Rows, 3)
	// indexes keep counting over dropped rows
	assert.Equal(t, 10, table.Rows[0].OriginalIndex)
	assert.Equal(t, "only a description", table.Rows[0].Description)
	assert.Equal(t, 8, table.Rows[1].OriginalIndex)
	assert.Equal(t, "CODE-1", table.Rows[1].Code)
	assert.Equal(t, 6, table.Rows[2].OriginalIndex)
}

func TestDecodeDefaults(t *testing.T) {
	grid := append(preamble([]string{}), []string{"", "Acme"})

	table := Decode(grid)
	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, "Acme", row.Supplier)
	assert.Equal(t, "", row.Code)
	assert.Equal(t, " ", row.Color)
	assert.Equal(t, "", row.Remarks)
	assert.Equal(t, "0", row.PriceNative)
	assert.Equal(t, "0", row.PricePrimary)
	assert.Equal(t, "0", row.CNYToday)
	assert.Equal(t, "", row.CBMValue)
	assert.Equal(t, "", row.CBMSecondary)
	assert.Equal(t, "", row.DRLink)
	assert.Equal(t, "", row.CBMLink)
	assert.True(t, row.IsColorAlert())
}

func TestDecodeFullRow(t *testing.T) {
	grid := append(preamble([]string{}), dataRow(map[int]string{
		1:  "Acme",
		2:  "Steel brackets",
		3:  "https://drive.google.com/open?id=dr1",
		4:  "1200",
		9:  "7.02",
		16: "8,400",
		17: "https://drive.google.com/open?id=cbm1",
		18: "2.5",
		20: "26,250",
		23: "Jan 20",
		24: "paid",
	}))

	row := Decode(grid).Rows[0]
	assert.Equal(t, SheetRow{
		Supplier:      "Acme",
		Code:          "7.02",
		Description:   "Steel brackets",
		Color:         "Jan 20",
		Remarks:       "paid",
		DRLink:        "https://drive.google.com/open?id=dr1",
		CBMLink:       "https://drive.google.com/open?id=cbm1",
		PriceNative:   "1200",
		PricePrimary:  "8,400",
		CNYToday:      "7.02",
		CBMValue:      "2.5",
		CBMSecondary:  "26,250",
		OriginalIndex: 6,
	}, row)
	assert.False(t, row.IsColorAlert())
}

func TestIsColorAlert(t *testing.T) {
	assert.True(t, SheetRow{Color: "red", Remarks: ""}.IsColorAlert())
	assert.True(t, SheetRow{Color: "red", Remarks: "   "}.IsColorAlert())
	assert.False(t, SheetRow{Color: "", Remarks: "ok"}.IsColorAlert())
}

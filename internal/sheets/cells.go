package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

// UpdateCell writes a single cell verbatim. Attachment links go through here so the sheet never tries
// to interpret them.
func (c *Client) UpdateCell(ctx context.Context, spreadsheetID, cellRange string, value interface{}) error {
	values := [][]interface{}{
		{value},
	}
	if err := c.UpdateRange(ctx, spreadsheetID, cellRange, values, Raw); err != nil {
		log.Error().Err(err).Str("range", cellRange).Msg("Failed to update cell")
		return err
	}
	return nil
}

// CellString formats a cell returned by the values API. Missing cells are empty.
func CellString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) || row[index] == nil {
		return ""
	}
	switch v := row[index].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

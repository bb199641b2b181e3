package rows

import (
	"fmt"

	"inventory_viewer/internal/schema"
)

// Preserve splices existing attachment links into an encoded row. span is the values API response for
// the preserved span of the target row (see schema.PreservedSpan); trailing empty cells may be absent
// and an all-empty span may come back with no rows at all.
//
// The span is read before the row is written. An attachment uploaded by someone else in between is
// lost.
func Preserve(encoded []interface{}, span [][]interface{}) []interface{} {
	out := make([]interface{}, len(encoded))
	copy(out, encoded)

	var existing []interface{}
	if len(span) > 0 {
		existing = span[0]
	}

	from, _ := schema.PreservedSpan()
	start := schema.ColumnIndex(from)
	for _, f := range schema.PreservedFields() {
		offset := f.WriteIndex() - start
		out[f.WriteIndex()] = cellString(existing, offset)
	}
	return out
}

func cellString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) || row[index] == nil {
		return ""
	}
	return fmt.Sprintf("%v", row[index])
}

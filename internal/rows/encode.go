package rows

import (
	"inventory_viewer/internal/schema"

	"github.com/shopspring/decimal"
)

// EncodeRow builds the full A..AB positional row written at sheet row `row`. Literal columns come from
// data, formula columns are rendered against `row`, constants are re-asserted, and preserved
// attachment columns are left as empty placeholders for Preserve to fill.
//
// The write is a full replace: every column not covered by data ends up empty.
func EncodeRow(row int, data NewRowData) []interface{} {
	values := make([]interface{}, schema.WriteWidth())
	for i := range values {
		values[i] = ""
	}
	for _, f := range schema.Fields {
		if !f.Written() {
			continue
		}
		if f.Kind == schema.Literal {
			values[f.WriteIndex()] = literalValue(f.Name, data)
			continue
		}
		values[f.WriteIndex()] = f.Cell(row)
	}
	return values
}

func literalValue(name schema.FieldName, data NewRowData) interface{} {
	switch name {
	case schema.Date:
		if data.Date.IsZero() {
			return ""
		}
		return data.Date.Normalize()
	case schema.Supplier:
		return data.Supplier
	case schema.PriceNative:
		return optionalAmount(data.AmountNative)
	case schema.QuantityUnit:
		return optionalAmount(data.QuantityUnit)
	case schema.CNYToday:
		return optionalAmount(data.CNYToday)
	case schema.CNYMovingAvg:
		return optionalAmount(data.CNYMovingAvg)
	case schema.CBMValue:
		return optionalAmount(data.CBMVolume)
	case schema.DRNumber:
		return data.DRNumber
	default:
		return ""
	}
}

// optionalAmount keeps absent numbers empty so a stray zero never lands over a sheet formula.
func optionalAmount(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// NextRowIndex is the first free sheet row given the values of the reference (date) column: the count
// of existing rows plus one.
//
// Two appends that read the column before either writes compute the same row and the later write
// wins; there is no lock or revision check.
func NextRowIndex(referenceColumn [][]interface{}) int {
	return len(referenceColumn) + 1
}

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind describes how a written column gets its value.
type Kind int

const (
	// Literal columns carry a value supplied by the caller.
	Literal Kind = iota
	// Formula columns carry a template that references the row being written.
	Formula
	// Constant columns carry a fixed value on every write.
	Constant
	// Preserved columns are never overwritten with new content; their existing value is re-read
	// and written back.
	Preserved
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Formula:
		return "formula"
	case Constant:
		return "constant"
	case Preserved:
		return "preserved"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FieldName identifies a logical field of an inventory row.
type FieldName string

const (
	Supplier     FieldName = "supplier"
	Code         FieldName = "code"
	Description  FieldName = "description"
	Color        FieldName = "color"
	Remarks      FieldName = "remarks"
	DRLink       FieldName = "drLink"
	CBMLink      FieldName = "cbmLink"
	PriceNative  FieldName = "priceNative"
	PricePrimary FieldName = "pricePrimary"
	CNYToday     FieldName = "cnyToday"
	CBMValue     FieldName = "cbmValue"
	CBMSecondary FieldName = "cbmSecondary"

	Date         FieldName = "date"
	QuantityUnit FieldName = "quantityUnit"
	CNYMovingAvg FieldName = "cnyMovingAvg"
	DRNumber     FieldName = "drNumber"

	UnitCost      FieldName = "unitCost"
	NativeAtToday FieldName = "nativeAtToday"
	NativeAtAvg   FieldName = "nativeAtAvg"
	Markup        FieldName = "markup"
	CBMRate       FieldName = "cbmRate"
	ArrivalDate   FieldName = "arrivalDate"
	TermDays      FieldName = "termDays"
	DueDate       FieldName = "dueDate"
	CBMCopy       FieldName = "cbmCopy"
	CBMAltRate    FieldName = "cbmAltRate"
	CBMAltCost    FieldName = "cbmAltCost"
)

// Field is one entry of the column table. A field may be read, written, or both.
type Field struct {
	Name FieldName
	// ReadIndex is the 0-based position in a row of the published export, -1 if never read.
	ReadIndex int
	// Column is the write-side column letter, empty if never written.
	Column string
	Kind   Kind
	// Template renders a formula for the given 1-based row number. Set only for Formula fields.
	Template func(row int) string
	// Value is the fixed cell content of Constant fields.
	Value interface{}
}

// Written reports whether the field has a write-side column.
func (f Field) Written() bool { return f.Column != "" }

// Read reports whether the field has a read-side position.
func (f Field) Read() bool { return f.ReadIndex >= 0 }

// WriteIndex is the 0-based offset of the field's column within a written row (A=0).
func (f Field) WriteIndex() int {
	if !f.Written() {
		return -1
	}
	return ColumnIndex(f.Column)
}

// Cell renders the value a write places in this field's column for the given row.
func (f Field) Cell(row int) interface{} {
	switch f.Kind {
	case Formula:
		return f.Template(row)
	case Constant:
		return f.Value
	default:
		return ""
	}
}

func formula(format string, refs int) func(int) string {
	return func(row int) string {
		args := make([]interface{}, refs)
		for i := range args {
			args[i] = row
		}
		return fmt.Sprintf(format, args...)
	}
}

const (
	// FirstDataRow is the 1-based sheet row of the first inventory line.
	FirstDataRow = 6
	// HeaderRow is the 0-based row of the export holding the rate and aux value.
	HeaderRow = 0
	// RateLabel is searched case-insensitively in the header row; the rate sits one cell right of it.
	RateLabel = "cny today"
	// RateFallbackIndex is used when the label is absent.
	RateFallbackIndex = 10
	// AuxValueIndex holds the header amount shown divided by 1000.
	AuxValueIndex = 8

	// FirstColumn and LastColumn bound a written row.
	FirstColumn = "A"
	LastColumn  = "AB"

	// DateColumn is scanned to find the next free row on append.
	DateColumn = "B"
)

// Fields is the single authoritative table consumed by both the decoder and the encoder.
var Fields = []Field{
	{Name: Supplier, ReadIndex: 1, Column: "C", Kind: Literal},
	{Name: Description, ReadIndex: 2, Kind: Literal},
	{Name: Code, ReadIndex: 9, Kind: Literal},
	{Name: Color, ReadIndex: 23, Kind: Literal},
	{Name: Remarks, ReadIndex: 24, Kind: Literal},
	{Name: PricePrimary, ReadIndex: 16, Column: "Q", Kind: Formula, Template: formula("=M%d*P%d", 2)},
	{Name: CBMSecondary, ReadIndex: 20, Column: "U", Kind: Formula, Template: formula("=S%d*10500", 1)},

	{Name: Date, ReadIndex: -1, Column: "B", Kind: Literal},
	{Name: DRLink, ReadIndex: 3, Column: "D", Kind: Preserved},
	{Name: PriceNative, ReadIndex: 4, Column: "E", Kind: Literal},
	{Name: QuantityUnit, ReadIndex: -1, Column: "F", Kind: Literal},
	{Name: UnitCost, ReadIndex: -1, Column: "H", Kind: Formula, Template: formula(`=IFERROR(E%d/F%d,"")`, 2)},
	{Name: NativeAtToday, ReadIndex: -1, Column: "I", Kind: Formula, Template: formula("=E%d*J%d", 2)},
	{Name: CNYToday, ReadIndex: 9, Column: "J", Kind: Literal},
	{Name: NativeAtAvg, ReadIndex: -1, Column: "M", Kind: Formula, Template: formula("=E%d*O%d", 2)},
	{Name: CNYMovingAvg, ReadIndex: -1, Column: "O", Kind: Literal},
	{Name: Markup, ReadIndex: -1, Column: "P", Kind: Constant, Value: 1.05},
	{Name: CBMLink, ReadIndex: 17, Column: "R", Kind: Preserved},
	{Name: CBMValue, ReadIndex: 18, Column: "S", Kind: Literal},
	{Name: CBMRate, ReadIndex: -1, Column: "T", Kind: Constant, Value: 10500},
	{Name: ArrivalDate, ReadIndex: -1, Column: "V", Kind: Formula, Template: formula("=B%d+5", 1)},
	{Name: TermDays, ReadIndex: -1, Column: "W", Kind: Constant, Value: 30},
	{Name: DueDate, ReadIndex: -1, Column: "X", Kind: Formula, Template: formula("=V%d+30", 1)},
	{Name: DRNumber, ReadIndex: -1, Column: "Y", Kind: Literal},
	{Name: CBMCopy, ReadIndex: -1, Column: "Z", Kind: Formula, Template: formula("=S%d", 1)},
	{Name: CBMAltRate, ReadIndex: -1, Column: "AA", Kind: Constant, Value: 9500},
	{Name: CBMAltCost, ReadIndex: -1, Column: "AB", Kind: Formula, Template: formula("=Z%d*9500", 1)},
}

var byName = func() map[FieldName]Field {
	m := make(map[FieldName]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the table entry for name. It panics on unknown names, which are programming errors.
func Lookup(name FieldName) Field {
	f, ok := byName[name]
	if !ok {
		panic(fmt.Sprintf("schema: unknown field %q", name))
	}
	return f
}

// ReadIndex is shorthand for Lookup(name).ReadIndex.
func ReadIndex(name FieldName) int { return Lookup(name).ReadIndex }

// WriteWidth is the number of cells in a written row (A..AB).
func WriteWidth() int { return ColumnIndex(LastColumn) - ColumnIndex(FirstColumn) + 1 }

// PreservedFields returns the attachment fields in column order.
func PreservedFields() []Field {
	var out []Field
	for _, f := range Fields {
		if f.Kind == Preserved {
			out = append(out, f)
		}
	}
	sortByColumn(out)
	return out
}

// PreservedSpan returns the first and last preserved column letters, the narrow range re-read before
// an update.
func PreservedSpan() (string, string) {
	p := PreservedFields()
	return p[0].Column, p[len(p)-1].Column
}

func sortByColumn(fs []Field) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].WriteIndex() < fs[j].WriteIndex() })
}

// ColumnIndex converts a column letter ("A", "AB") to a 0-based index. Invalid input returns -1.
func ColumnIndex(col string) int {
	col = strings.ToUpper(strings.TrimSpace(col))
	if col == "" {
		return -1
	}
	n := 0
	for _, r := range col {
		if r < 'A' || r > 'Z' {
			return -1
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1
}

// ColumnLetter converts a 0-based index to a column letter.
func ColumnLetter(idx int) string {
	if idx < 0 {
		return ""
	}
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// quoteTab wraps a tab name for A1 notation. Tab names such as "2026" must be quoted.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// RowRange is the full written row, e.g. '2026'!A42:AB42.
func RowRange(tab string, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteTab(tab), FirstColumn, row, LastColumn, row)
}

// SpanRange addresses columns from..to on one row.
func SpanRange(tab, from, to string, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteTab(tab), from, row, to, row)
}

// CellRange addresses a single cell.
func CellRange(tab, col string, row int) string {
	return fmt.Sprintf("%s!%s%d", quoteTab(tab), col, row)
}

// ColumnRange addresses a whole column, e.g. '2026'!B:B.
func ColumnRange(tab, col string) string {
	return fmt.Sprintf("%s!%s:%s", quoteTab(tab), col, col)
}

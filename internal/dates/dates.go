// Package dates resolves the three wire formats a sheet date can arrive in (ISO, US slash,
// spreadsheet serial number) into a canonical YYYY-MM-DD string.
//
// The format is decided once, where the value is first read, and carried on the Value.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Format is the wire format a Value was read in.
type Format int

const (
	Unknown Format = iota
	ISO
	USSlash
	Serial
)

func (f Format) String() string {
	switch f {
	case ISO:
		return "iso"
	case USSlash:
		return "us-slash"
	case Serial:
		return "serial"
	default:
		return "unknown"
	}
}

const (
	// Layout is the canonical output layout.
	Layout = "2006-01-02"

	// serialMin and serialMax bound the numbers treated as serial dates (exclusive). This is a
	// heuristic window: an amount between them is read as a date.
	serialMin = 40000
	serialMax = 60000

	// unixEpochSerial is the serial number of 1970-01-01.
	unixEpochSerial = 25569
)

var (
	unixEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	usSlashRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})$`)
)

// Value is a date cell tagged with the format it was read in.
type Value struct {
	Format Format
	Raw    string
	serial float64
	month  int
	day    int
	year   string
}

// Parse classifies a string cell. Checks run in order: ISO (contains '-'), serial number, US slash.
// Anything else is Unknown and normalizes to itself.
func Parse(s string) Value {
	if strings.Contains(s, "-") {
		return Value{Format: ISO, Raw: s}
	}
	trimmed := strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && inSerialWindow(f) {
		return Value{Format: Serial, Raw: s, serial: f}
	}
	if m := usSlashRe.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return Value{Format: USSlash, Raw: s, month: month, day: day, year: year}
	}
	return Value{Format: Unknown, Raw: s}
}

// FromCell classifies a value returned by the values API. UNFORMATTED_VALUE reads deliver dates as
// float64 serial numbers; everything else arrives as a string.
func FromCell(v interface{}) Value {
	switch n := v.(type) {
	case nil:
		return Value{}
	case string:
		return Parse(n)
	case float64:
		return fromNumber(n)
	case float32:
		return fromNumber(float64(n))
	case int:
		return fromNumber(float64(n))
	case int64:
		return fromNumber(float64(n))
	default:
		return Parse(fmt.Sprintf("%v", v))
	}
}

// FromSerial builds a serial Value directly.
func FromSerial(n float64) Value {
	return Value{Format: Serial, Raw: strconv.FormatFloat(n, 'f', -1, 64), serial: n}
}

// FromTime is the ISO value of t's calendar day.
func FromTime(t time.Time) Value {
	return Value{Format: ISO, Raw: t.Format(Layout)}
}

func fromNumber(n float64) Value {
	raw := strconv.FormatFloat(n, 'f', -1, 64)
	if inSerialWindow(n) {
		return Value{Format: Serial, Raw: raw, serial: n}
	}
	return Value{Format: Unknown, Raw: raw}
}

func inSerialWindow(n float64) bool {
	return n > serialMin && n < serialMax
}

// Normalize returns the canonical YYYY-MM-DD form, or Raw unchanged for ISO and Unknown values.
func (v Value) Normalize() string {
	switch v.Format {
	case Serial:
		days := int(math.Floor(v.serial)) - unixEpochSerial
		return unixEpoch.AddDate(0, 0, days).Format(Layout)
	case USSlash:
		return fmt.Sprintf("%s-%02d-%02d", v.year, v.month, v.day)
	default:
		return v.Raw
	}
}

// IsZero reports whether the value carries no content.
func (v Value) IsZero() bool {
	return strings.TrimSpace(v.Raw) == ""
}

// Normalize is shorthand for Parse(s).Normalize().
func Normalize(s string) string {
	return Parse(s).Normalize()
}

// ToSerial is the inverse of serial normalization: the serial number of an ISO calendar date.
func ToSerial(iso string) (int, error) {
	t, err := time.Parse(Layout, iso)
	if err != nil {
		return 0, fmt.Errorf("failed to parse date %q: %w", iso, err)
	}
	days := int(math.Round(t.Sub(unixEpoch).Hours() / 24))
	return days + unixEpochSerial, nil
}

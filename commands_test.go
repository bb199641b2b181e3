package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"inventory_viewer/internal/app"
	"inventory_viewer/internal/dates"
	"inventory_viewer/internal/inventory"
	"inventory_viewer/internal/rows"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	code, err := extractCode("4/abc", "s1")
	require.NoError(t, err)
	assert.Equal(t, "4/abc", code)

	code, err = extractCode("http://localhost/?state=s1&code=4%2Fxyz&scope=drive", "s1")
	require.NoError(t, err)
	assert.Equal(t, "4/xyz", code)

	_, err = extractCode("http://localhost/?state=other&code=x", "s1")
	assert.ErrorIs(t, err, errInvalidInput)

	_, err = extractCode("http://localhost/?state=s1", "s1")
	assert.ErrorIs(t, err, errInvalidInput)

	_, err = extractCode("", "s1")
	assert.ErrorIs(t, err, errInvalidInput)
}

func TestPositionalRow(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	row := fs.Int("row", 0, "")
	require.NoError(t, fs.Parse([]string{"42"}))
	require.NoError(t, positionalRow(fs, row))
	assert.Equal(t, 42, *row)

	fs = flag.NewFlagSet("t", flag.ContinueOnError)
	row = fs.Int("row", 0, "")
	require.NoError(t, fs.Parse([]string{"abc"}))
	assert.ErrorIs(t, positionalRow(fs, row), errInvalidInput)

	fs = flag.NewFlagSet("t", flag.ContinueOnError)
	row = fs.Int("row", 0, "")
	require.NoError(t, fs.Parse(nil))
	assert.ErrorIs(t, positionalRow(fs, row), errInvalidInput)
}

func TestPositionalRowParsesTrailingFlags(t *testing.T) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	row := fs.Int("row", 0, "")
	var rf rowFlags
	rf.register(fs)
	require.NoError(t, parseFlags(fs, []string{"42", "-supplier", "Acme", "-dr", "DR-9"}))
	require.NoError(t, positionalRow(fs, row))
	assert.Equal(t, 42, *row)

	data, err := rf.apply(fs, rows.NewRowData{Supplier: "Old Co.", DRNumber: "DR-1", CBMVolume: decimal.NewNullDecimal(decimal.RequireFromString("2.5"))}, false)
	require.NoError(t, err)
	assert.Equal(t, "Acme", data.Supplier)
	assert.Equal(t, "DR-9", data.DRNumber)
	assert.Equal(t, "2.5", data.CBMVolume.Decimal.String())
}

func TestPositionalRowRejectsExtraArguments(t *testing.T) {
	tests := [][]string{
		{"42", "extra"},
		{"42", "-supplier", "Acme", "43"},
		{"-row", "42", "43"},
	}
	for _, args := range tests {
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		row := fs.Int("row", 0, "")
		fs.String("supplier", "", "")
		require.NoError(t, parseFlags(fs, args))
		assert.ErrorIs(t, positionalRow(fs, row), errInvalidInput, "%q", args)
	}
}

func TestPositionalRowBadTrailingFlag(t *testing.T) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	row := fs.Int("row", 0, "")
	require.NoError(t, parseFlags(fs, []string{"42", "-nope"}))
	assert.ErrorIs(t, positionalRow(fs, row), errInvalidInput)
}

func TestAttachTakesPositionalRow(t *testing.T) {
	e := &env{cfg: app.Config{Tab: "2026", SpreadsheetID: "sheet-id"}, stdout: io.Discard}

	err := runAttach(context.Background(), e, []string{"42"})
	require.ErrorIs(t, err, errInvalidInput)
	assert.EqualError(t, err, "invalid input: attach needs -file")

	err = runAttach(context.Background(), e, []string{"-file", "x.jpg"})
	assert.EqualError(t, err, "invalid input: a row number is required")

	path := filepath.Join(t.TempDir(), "cbm.jpg")
	require.NoError(t, os.WriteFile(path, []byte("\xff\xd8\xff\xe0"), 0o600))
	err = runAttach(context.Background(), e, []string{"42", "-file", path, "-type", "CBM"})
	assert.ErrorIs(t, err, inventory.ErrReadOnly, "flags after the row number are honored")
}

func TestRowFlagsApplyOnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	var rf rowFlags
	rf.register(fs)
	require.NoError(t, fs.Parse([]string{"-supplier", "Acme", "-cbm", "", "-amount", "1,500.25"}))

	current := rows.NewRowData{
		Date:      dates.Parse("2026-02-02"),
		Supplier:  "Old",
		CBMVolume: decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
		DRNumber:  "DR-1",
	}
	data, err := rf.apply(fs, current, false)
	require.NoError(t, err)
	assert.Equal(t, "Acme", data.Supplier)
	assert.Equal(t, "2026-02-02", data.Date.Normalize(), "unset flag keeps the current value")
	assert.Equal(t, "DR-1", data.DRNumber)
	assert.False(t, data.CBMVolume.Valid, "an explicitly blank flag clears the cell")
	assert.Equal(t, "1500.25", data.AmountNative.Decimal.String())
}

func TestRowFlagsRejectsBadNumber(t *testing.T) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	var rf rowFlags
	rf.register(fs)
	require.NoError(t, fs.Parse([]string{"-qty", "ten"}))

	_, err := rf.apply(fs, rows.NewRowData{}, true)
	assert.ErrorIs(t, err, errInvalidInput)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "invalid input: a row number is required", message(positionalRow(flag.NewFlagSet("t", flag.ContinueOnError), new(int))))
	assert.Equal(t, inventory.UserMessage(inventory.ErrReadOnly), message(inventory.ErrReadOnly))
}

func TestAddInReadOnlyMode(t *testing.T) {
	e := &env{cfg: app.Config{Tab: "2026", SpreadsheetID: "sheet-id"}, stdout: io.Discard}

	err := runAdd(context.Background(), e, []string{"-supplier", "Acme"})
	assert.ErrorIs(t, err, inventory.ErrReadOnly)
}

func TestListWithoutExportURL(t *testing.T) {
	e := &env{cfg: app.Config{Tab: "2026"}, stdout: io.Discard}
	err := runList(context.Background(), e, nil)
	assert.ErrorIs(t, err, inventory.ErrNotConfigured)
}

func TestLogoutRemovesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"x"}`), 0o600))

	var out bytes.Buffer
	e := &env{cfg: app.Config{TokenFile: path}, stdout: &out}
	require.NoError(t, runLogout(context.Background(), e, nil))
	assert.Equal(t, "Signed out.\n", out.String())

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDetectContentType(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "receipt.PNG")
	require.NoError(t, os.WriteFile(png, []byte("not really"), 0o600))
	raw := filepath.Join(dir, "receipt")
	require.NoError(t, os.WriteFile(raw, []byte("\xff\xd8\xff\xe0 jpeg body"), 0o600))

	f, err := os.Open(png)
	require.NoError(t, err)
	defer f.Close()
	ct, err := detectContentType(f)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	g, err := os.Open(raw)
	require.NoError(t, err)
	defer g.Close()
	ct, err = detectContentType(g)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	rest, err := io.ReadAll(g)
	require.NoError(t, err)
	assert.Len(t, rest, 14, "file is rewound after sniffing")
}

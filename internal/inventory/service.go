package inventory

import (
	"context"
	"fmt"
	"io"

	"inventory_viewer/internal/config"
	"inventory_viewer/internal/dates"
	"inventory_viewer/internal/drive"
	"inventory_viewer/internal/notifications"
	"inventory_viewer/internal/retry"
	"inventory_viewer/internal/rows"
	"inventory_viewer/internal/schema"
	"inventory_viewer/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ValuesStore is the authenticated part of the spreadsheet backend.
type ValuesStore interface {
	ReadRange(ctx context.Context, spreadsheetID, range_ string, render sheets.RenderOption) ([][]interface{}, error)
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}, input sheets.InputOption) error
	UpdateCell(ctx context.Context, spreadsheetID, cellRange string, value interface{}) error
}

// GridSource yields the published export as raw cells.
type GridSource interface {
	FetchGrid(ctx context.Context) ([][]string, error)
}

// Uploader stores attachment images.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, media io.Reader) (*drive.UploadResult, error)
}

// Notifier is told about every change after it has been written.
type Notifier interface {
	Notify(ctx context.Context, event notifications.Event) error
}

// Options wires a Service. Values, Uploader and Notifier may be nil: without Values every mutation
// fails with ErrReadOnly, without Uploader Attach fails with ErrNotConfigured.
type Options struct {
	SpreadsheetID string
	Tab           string
	Grid          GridSource
	Values        ValuesStore
	Uploader      Uploader
	Notifier      Notifier
	Resilience    config.ResilienceConfig
}

// Service is the operation boundary over one sheet tab. It holds no row state between calls: every
// write targets a 1-based sheet row number taken from rows.SheetRow.OriginalIndex, and that number is
// only as good as the last Load. Rows inserted or removed in the sheet since then shift it.
//
// There is no locking. Two writers racing on the same row or on an append both succeed and the
// later write wins.
type Service struct {
	spreadsheetID string
	tab           string
	grid          GridSource
	values        ValuesStore
	uploader      Uploader
	notifier      Notifier
	resilience    config.ResilienceConfig
}

func NewService(opts Options) *Service {
	return &Service{
		spreadsheetID: opts.SpreadsheetID,
		tab:           opts.Tab,
		grid:          opts.Grid,
		values:        opts.Values,
		uploader:      opts.Uploader,
		notifier:      opts.Notifier,
		resilience:    opts.Resilience,
	}
}

// ReadOnly reports whether mutations are refused.
func (s *Service) ReadOnly() bool { return s.values == nil }

// Load fetches and decodes the published export.
func (s *Service) Load(ctx context.Context) (rows.Table, error) {
	if s.grid == nil {
		return rows.Table{}, opError("load", 0, fmt.Errorf("%w: no export url", ErrNotConfigured))
	}

	grid, err := retry.WithRetry(ctx, s.resilience.ExportFetch, s.grid.FetchGrid)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load sheet export")
		return rows.Table{}, opError("load", 0, err)
	}

	table := rows.Decode(grid)
	log.Info().Int("rows", len(table.Rows)).Str("rate", table.Rate).Msg("Loaded inventory")
	return table, nil
}

// Append writes data as a new row after the last used row of the date column and returns its row
// number.
//
// The target row is computed from a read of the date column, then written in a second call. An
// append by someone else in between lands on the same row and one of the two is overwritten.
func (s *Service) Append(ctx context.Context, data rows.NewRowData) (int, error) {
	if err := s.checkWritable(); err != nil {
		return 0, opError("append", 0, err)
	}

	column := schema.ColumnRange(s.tab, schema.DateColumn)
	existing, err := s.read(ctx, column, sheets.Formatted)
	if err != nil {
		return 0, opError("append", 0, err)
	}

	row := rows.NextRowIndex(existing)
	if row < schema.FirstDataRow {
		return 0, opError("append", row, fmt.Errorf("%w: date column ends above row %d", ErrInvalidRow, schema.FirstDataRow))
	}

	log.Debug().Int("row", row).Int("existing", len(existing)).Msg("Appending inventory row")

	if err := s.write(ctx, row, rows.EncodeRow(row, data)); err != nil {
		return 0, opError("append", row, err)
	}

	log.Info().Int("row", row).Str("supplier", data.Supplier).Msg("Appended inventory row")
	s.notify(ctx, notifications.Event{Kind: notifications.RowAdded, Row: row, Supplier: data.Supplier, Detail: data.DRNumber})
	return row, nil
}

// Update replaces sheet row `row` with data. Every column is rewritten except the attachment links,
// which keep their current value.
//
// The links are read before the row is written. An attachment uploaded to this row in between is
// overwritten with the earlier value.
func (s *Service) Update(ctx context.Context, row int, data rows.NewRowData) error {
	if err := s.checkWritable(); err != nil {
		return opError("update", row, err)
	}
	if err := checkRow(row); err != nil {
		return opError("update", row, err)
	}

	from, to := schema.PreservedSpan()
	span, err := s.read(ctx, schema.SpanRange(s.tab, from, to, row), sheets.Formatted)
	if err != nil {
		return opError("update", row, err)
	}

	values := rows.Preserve(rows.EncodeRow(row, data), span)

	log.Debug().Int("row", row).Int("span_rows", len(span)).Msg("Updating inventory row")

	if err := s.write(ctx, row, values); err != nil {
		return opError("update", row, err)
	}

	log.Info().Int("row", row).Str("supplier", data.Supplier).Msg("Updated inventory row")
	s.notify(ctx, notifications.Event{Kind: notifications.RowUpdated, Row: row, Supplier: data.Supplier, Detail: data.DRNumber})
	return nil
}

// FetchRowForEdit reads the editable columns of a row as raw values, so numbers keep full precision
// and dates come back as serial numbers.
func (s *Service) FetchRowForEdit(ctx context.Context, row int) (rows.NewRowData, error) {
	if err := s.checkWritable(); err != nil {
		return rows.NewRowData{}, opError("read", row, err)
	}
	if err := checkRow(row); err != nil {
		return rows.NewRowData{}, opError("read", row, err)
	}

	resp, err := s.read(ctx, schema.SpanRange(s.tab, editFirst, editLast, row), sheets.Unformatted)
	if err != nil {
		return rows.NewRowData{}, opError("read", row, err)
	}

	var cells []interface{}
	if len(resp) > 0 {
		cells = resp[0]
	}
	return editForm(cells), nil
}

// Attach uploads an image and links it from the attachment column of `row`. The link is written as
// a raw string.
func (s *Service) Attach(ctx context.Context, row int, kind rows.Attachment, filename, contentType string, media io.Reader) (*drive.UploadResult, error) {
	if err := s.checkWritable(); err != nil {
		return nil, opError("attach", row, err)
	}
	if s.uploader == nil {
		return nil, opError("attach", row, fmt.Errorf("%w: no drive folder", ErrNotConfigured))
	}
	if err := checkRow(row); err != nil {
		return nil, opError("attach", row, err)
	}

	result, err := s.uploader.Upload(ctx, filename, contentType, media)
	if err != nil {
		return nil, opError("attach", row, err)
	}

	cell := schema.CellRange(s.tab, kind.Field().Column, row)
	err = retry.Do(ctx, s.resilience.SheetWrite, func(ctx context.Context) error {
		return s.values.UpdateCell(ctx, s.spreadsheetID, cell, result.DriveLink)
	})
	if err != nil {
		log.Error().Err(err).Str("file_id", result.FileID).Str("cell", cell).Msg("Uploaded attachment but failed to link it")
		return result, opError("attach", row, err)
	}

	log.Info().Int("row", row).Str("attachment", string(kind)).Str("file_id", result.FileID).Msg("Linked attachment")
	s.notify(ctx, notifications.Event{Kind: notifications.AttachmentSent, Row: row, Detail: string(kind), Link: result.WebViewLink})
	return result, nil
}

// FindRow returns the row loaded from sheet row `index`.
func FindRow(table rows.Table, index int) (rows.SheetRow, bool) {
	for _, r := range table.Rows {
		if r.OriginalIndex == index {
			return r, true
		}
	}
	return rows.SheetRow{}, false
}

func (s *Service) checkWritable() error {
	if s.values == nil {
		return ErrReadOnly
	}
	if s.spreadsheetID == "" {
		return fmt.Errorf("%w: no spreadsheet id", ErrNotConfigured)
	}
	return nil
}

func checkRow(row int) error {
	if row < schema.FirstDataRow {
		return fmt.Errorf("%w: %d is above the first data row %d", ErrInvalidRow, row, schema.FirstDataRow)
	}
	return nil
}

func (s *Service) read(ctx context.Context, range_ string, render sheets.RenderOption) ([][]interface{}, error) {
	return retry.WithRetry(ctx, s.resilience.SheetRead, func(ctx context.Context) ([][]interface{}, error) {
		return s.values.ReadRange(ctx, s.spreadsheetID, range_, render)
	})
}

func (s *Service) write(ctx context.Context, row int, values []interface{}) error {
	range_ := schema.RowRange(s.tab, row)
	return retry.Do(ctx, s.resilience.SheetWrite, func(ctx context.Context) error {
		return s.values.UpdateRange(ctx, s.spreadsheetID, range_, [][]interface{}{values}, sheets.UserEntered)
	})
}

func (s *Service) notify(ctx context.Context, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Int("row", event.Row).Msg("Failed to send notification")
	}
}

// The edit form covers B through Y.
const (
	editFirst = schema.DateColumn
	editLast  = "Y"
)

func editForm(cells []interface{}) rows.NewRowData {
	cell := func(name schema.FieldName) interface{} {
		idx := schema.Lookup(name).WriteIndex() - schema.ColumnIndex(editFirst)
		if idx < 0 || idx >= len(cells) {
			return nil
		}
		return cells[idx]
	}
	text := func(name schema.FieldName) string {
		idx := schema.Lookup(name).WriteIndex() - schema.ColumnIndex(editFirst)
		return sheets.CellString(cells, idx)
	}
	amount := func(name schema.FieldName) decimal.NullDecimal {
		d, err := rows.Amount(text(name))
		if err != nil {
			log.Warn().Err(err).Str("field", string(name)).Msg("Ignoring non-numeric cell in edit form")
			return decimal.NullDecimal{}
		}
		return d
	}

	date := dates.FromCell(cell(schema.Date))
	if !date.IsZero() {
		date = dates.Parse(date.Normalize())
	}

	return rows.NewRowData{
		Date:         date,
		Supplier:     text(schema.Supplier),
		AmountNative: amount(schema.PriceNative),
		QuantityUnit: amount(schema.QuantityUnit),
		CNYToday:     amount(schema.CNYToday),
		CNYMovingAvg: amount(schema.CNYMovingAvg),
		CBMVolume:    amount(schema.CBMValue),
		DRNumber:     text(schema.DRNumber),
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"inventory_viewer/internal/app"
	"inventory_viewer/internal/dates"
	"inventory_viewer/internal/inventory"
	"inventory_viewer/internal/rows"

	"github.com/shopspring/decimal"
)

// env carries what every command needs.
type env struct {
	cfg    app.Config
	stdout io.Writer
	stdin  io.Reader
}

func (e *env) service(ctx context.Context, writable bool) (*inventory.Service, error) {
	return app.InitializeService(ctx, e.cfg, writable)
}

// rowFlags binds the editable fields of a row to a flag set. Numbers are kept as strings until
// apply so a blank value can clear a cell.
type rowFlags struct {
	date     string
	supplier string
	amount   string
	quantity string
	cny      string
	cnyMA    string
	cbm      string
	dr       string
}

func (r *rowFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&r.date, "date", "", "purchase date (YYYY-MM-DD, M/D/YYYY or serial number)")
	fs.StringVar(&r.supplier, "supplier", "", "supplier name")
	fs.StringVar(&r.amount, "amount", "", "amount in RMB")
	fs.StringVar(&r.quantity, "qty", "", "quantity (sacks)")
	fs.StringVar(&r.cny, "cny", "", "CNY rate of the day")
	fs.StringVar(&r.cnyMA, "cny-ma", "", "CNY moving average rate")
	fs.StringVar(&r.cbm, "cbm", "", "cubic volume")
	fs.StringVar(&r.dr, "dr", "", "delivery receipt number")
}

// apply copies the flags that were set on the command line onto data. With all=true every flag is
// applied, set or not.
func (r *rowFlags) apply(fs *flag.FlagSet, data rows.NewRowData, all bool) (rows.NewRowData, error) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	use := func(name string) bool { return all || set[name] }

	if use("date") {
		data.Date = dates.Parse(r.date)
	}
	if use("supplier") {
		data.Supplier = r.supplier
	}
	if use("dr") {
		data.DRNumber = r.dr
	}

	amounts := []struct {
		name  string
		value string
		dst   *decimal.NullDecimal
	}{
		{"amount", r.amount, &data.AmountNative},
		{"qty", r.quantity, &data.QuantityUnit},
		{"cny", r.cny, &data.CNYToday},
		{"cny-ma", r.cnyMA, &data.CNYMovingAvg},
		{"cbm", r.cbm, &data.CBMVolume},
	}
	for _, a := range amounts {
		if !use(a.name) {
			continue
		}
		d, err := rows.Amount(a.value)
		if err != nil {
			return data, fmt.Errorf("%w: -%s %q is not a number", errInvalidInput, a.name, a.value)
		}
		*a.dst = d
	}
	return data, nil
}

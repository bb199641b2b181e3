package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"inventory_viewer/internal/dates"
	"inventory_viewer/internal/export"
	"inventory_viewer/internal/inventory"
	"inventory_viewer/internal/rows"
	"inventory_viewer/internal/view"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var errInvalidInput = errors.New("invalid input")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"list", "show the inventory, newest first", runList},
	{"show", "show one row with its attachment links", runShow},
	{"add", "append a new row", runAdd},
	{"edit", "update an existing row, keeping its attachments", runEdit},
	{"attach", "upload a DR or CBM image and link it from a row", runAttach},
	{"export", "save the inventory as an xlsx workbook", runExport},
	{"login", "sign in with Google", runLogin},
	{"logout", "forget the stored sign-in", runLogout},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errInvalidInput, err)
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("list")
	asJSON := fs.Bool("json", false, "print rows as JSON")
	limit := fs.Int("limit", 0, "show at most this many rows (0 for all)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	svc, err := e.service(ctx, false)
	if err != nil {
		return err
	}
	table, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	if *limit > 0 && len(table.Rows) > *limit {
		table.Rows = table.Rows[:*limit]
	}

	if *asJSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	view.NewPrinter(e.stdout).List(table)
	return nil
}

func runShow(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("show")
	row := fs.Int("row", 0, "sheet row number")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := positionalRow(fs, row); err != nil {
		return err
	}

	svc, err := e.service(ctx, false)
	if err != nil {
		return err
	}
	table, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	r, ok := inventory.FindRow(table, *row)
	if !ok {
		return fmt.Errorf("%w: row %d is not in the list", errInvalidInput, *row)
	}
	view.NewPrinter(e.stdout).Detail(r)
	return nil
}

func runAdd(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("add")
	var rf rowFlags
	rf.register(fs)
	reload := fs.Bool("reload", false, "print the list after writing")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	data, err := rf.apply(fs, rows.NewRowData{}, true)
	if err != nil {
		return err
	}
	if data.Date.IsZero() {
		data.Date = dates.FromTime(time.Now())
	}

	svc, err := e.service(ctx, true)
	if err != nil {
		return err
	}
	row, err := svc.Append(ctx, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Added row %d.\n", row)
	return maybeReload(ctx, e, svc, *reload)
}

func runEdit(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("edit")
	row := fs.Int("row", 0, "sheet row number")
	var rf rowFlags
	rf.register(fs)
	reload := fs.Bool("reload", false, "print the list after writing")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := positionalRow(fs, row); err != nil {
		return err
	}

	svc, err := e.service(ctx, true)
	if err != nil {
		return err
	}

	// unset flags keep what the sheet has now
	current, err := svc.FetchRowForEdit(ctx, *row)
	if err != nil {
		return err
	}
	data, err := rf.apply(fs, current, false)
	if err != nil {
		return err
	}

	if err := svc.Update(ctx, *row, data); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Updated row %d.\n", *row)
	return maybeReload(ctx, e, svc, *reload)
}

func runAttach(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("attach")
	row := fs.Int("row", 0, "sheet row number")
	kind := fs.String("type", "DR", "attachment column: DR or CBM")
	file := fs.String("file", "", "image to upload")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := positionalRow(fs, row); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: attach needs -file", errInvalidInput)
	}
	attachment, err := rows.ParseAttachment(*kind)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	defer f.Close()

	contentType, err := detectContentType(f)
	if err != nil {
		return err
	}

	svc, err := e.service(ctx, true)
	if err != nil {
		return err
	}
	result, err := svc.Attach(ctx, *row, attachment, *file, contentType, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Linked %s for row %d: %s\n", attachment, *row, result.WebViewLink)
	return nil
}

func runExport(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("export")
	out := fs.String("o", "", "output path (default inventory-<date>.xlsx)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	now := time.Now()
	path := *out
	if path == "" {
		path = fmt.Sprintf("inventory-%s.xlsx", now.Format("2006-01-02"))
	}

	svc, err := e.service(ctx, false)
	if err != nil {
		return err
	}
	table, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	if err := export.WriteFile(table, path, now); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Wrote %d rows to %s.\n", len(table.Rows), path)
	return nil
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("login")
	code := fs.String("code", "", "authorization code (prompted for when empty)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if e.cfg.ClientID == "" {
		return fmt.Errorf("%w: GOOGLE_CLIENT_ID is not set", inventory.ErrNotConfigured)
	}

	flow := e.cfg.AuthFlow()
	if *code == "" {
		state := uuid.NewString()
		fmt.Fprintf(e.stdout, "Open this page, sign in, then paste the address you were sent to:\n\n  %s\n\n> ", flow.AuthCodeURL(state))
		line, err := bufio.NewReader(e.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read code: %w", err)
		}
		got, err := extractCode(strings.TrimSpace(line), state)
		if err != nil {
			return err
		}
		*code = got
	}

	if _, err := flow.Exchange(ctx, *code); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "Signed in.")
	return nil
}

func runLogout(_ context.Context, e *env, args []string) error {
	if err := parseFlags(newFlagSet("logout"), args); err != nil {
		return err
	}
	if err := e.cfg.AuthFlow().Logout(); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "Signed out.")
	return nil
}

func maybeReload(ctx context.Context, e *env, svc *inventory.Service, reload bool) error {
	if !reload {
		return nil
	}
	table, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	view.NewPrinter(e.stdout).List(table)
	return nil
}

// positionalRow lets the row number be given as the first argument instead of -row. Flags after
// the row number are parsed too, since flag parsing stops at the first positional argument.
func positionalRow(fs *flag.FlagSet, row *int) error {
	if *row == 0 && fs.NArg() > 0 {
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("%w: %q is not a row number", errInvalidInput, fs.Arg(0))
		}
		*row = n
		if err := parseFlags(fs, fs.Args()[1:]); err != nil {
			return err
		}
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", errInvalidInput, fs.Args())
	}
	if *row <= 0 {
		return fmt.Errorf("%w: a row number is required", errInvalidInput)
	}
	return nil
}

// extractCode accepts either the bare code or the whole redirect address.
func extractCode(input, state string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: no authorization code given", errInvalidInput)
	}
	if !strings.Contains(input, "://") {
		return input, nil
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	q := u.Query()
	if got := q.Get("state"); got != "" && got != state {
		return "", fmt.Errorf("%w: sign-in state does not match, start again", errInvalidInput)
	}
	code := q.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: the address has no code parameter", errInvalidInput)
	}
	return code, nil
}

// detectContentType uses the extension, then the first bytes of the file. The file offset is reset
// afterwards.
func detectContentType(f *os.File) (string, error) {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name()))); t != "" {
		return t, nil
	}
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind %s: %w", f.Name(), err)
	}
	t := http.DetectContentType(head[:n])
	log.Debug().Str("file", f.Name()).Str("content_type", t).Msg("Detected content type")
	return t, nil
}

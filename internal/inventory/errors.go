package inventory

import (
	"errors"
	"fmt"
	"strings"

	"inventory_viewer/internal/auth"
)

var (
	// ErrNotConfigured means a required identifier (sheet, folder, export url) is missing.
	ErrNotConfigured = errors.New("not configured")
	// ErrReadOnly means a mutation was attempted without a signed-in identity.
	ErrReadOnly = errors.New("read-only mode")
	// ErrInvalidRow means the target row lies above the first data row.
	ErrInvalidRow = errors.New("invalid row")
)

// OpError records which service operation failed.
type OpError struct {
	Op  string
	Row int
	Err error
}

func (e *OpError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: %v", e.Op, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, row int, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Row: row, Err: err}
}

// UserMessage turns any error from the service into one line fit to show the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrReadOnly):
		return "Signing in is not configured, the sheet is read-only. Set GOOGLE_CLIENT_ID or GOOGLE_CREDENTIALS_FILE."
	case errors.Is(err, ErrNotConfigured):
		return fmt.Sprintf("Configuration missing: %s", rootMessage(err))
	case errors.Is(err, ErrInvalidRow):
		return rootMessage(err)
	case errors.Is(err, auth.ErrNoToken):
		return "Not logged in. Run `inventory login` first."
	case auth.IsAuthError(err):
		return "Session expired. Please log in again. Run `inventory login`."
	}

	op := "Request"
	var opErr *OpError
	if errors.As(err, &opErr) {
		op = capitalize(opErr.Op)
		err = opErr.Err
	}
	return fmt.Sprintf("%s failed: %s. Retry the command.", op, err.Error())
}

// rootMessage drops the OpError prefix so the sentinel detail reads on its own.
func rootMessage(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error()
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

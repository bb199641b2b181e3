package inventory

import (
	"errors"
	"fmt"
	"testing"

	"inventory_viewer/internal/auth"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"read only", opError("append", 0, ErrReadOnly), "Signing in is not configured, the sheet is read-only. Set GOOGLE_CLIENT_ID or GOOGLE_CREDENTIALS_FILE."},
		{"not configured", opError("attach", 9, fmt.Errorf("%w: no drive folder", ErrNotConfigured)), "Configuration missing: not configured: no drive folder"},
		{"invalid row", opError("update", 3, fmt.Errorf("%w: 3 is above the first data row 6", ErrInvalidRow)), "invalid row: 3 is above the first data row 6"},
		{"no token", fmt.Errorf("failed to build client: %w", auth.ErrNoToken), "Not logged in. Run `inventory login` first."},
		{"expired", opError("update", 42, &googleapi.Error{Code: 401, Message: "Invalid Credentials"}), "Session expired. Please log in again. Run `inventory login`."},
		{"transport", opError("update", 42, errors.New("connection reset")), "Update failed: connection reset. Retry the command."},
		{"bare", errors.New("boom"), "Request failed: boom. Retry the command."},
		{"transport on row 401", opError("update", 401, errors.New("dial tcp 10.0.0.1:443: connect: connection refused")), "Update failed: dial tcp 10.0.0.1:443: connect: connection refused. Retry the command."},
		{"transport on row 1403", opError("append", 1403, errors.New("unexpected EOF")), "Append failed: unexpected EOF. Retry the command."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestOpErrorMessage(t *testing.T) {
	err := opError("update", 42, errors.New("boom"))
	assert.EqualError(t, err, "update row 42: boom")
	assert.EqualError(t, opError("load", 0, errors.New("boom")), "load: boom")
	assert.NoError(t, opError("load", 0, nil))
}

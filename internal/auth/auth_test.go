package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", TokenFileName))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer", Expiry: expiry}))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.True(t, expiry.Equal(tok.Expiry))

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	// clearing twice is fine
	assert.NoError(t, store.Clear())
}

type countingSource struct {
	tokens []string
	calls  int
}

func (c *countingSource) Token() (*oauth2.Token, error) {
	tok := c.tokens[min(c.calls, len(c.tokens)-1)]
	c.calls++
	return &oauth2.Token{AccessToken: tok}, nil
}

func TestPersistingSourceSavesRefreshedTokens(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), TokenFileName))
	src := &persistingSource{
		base:  &countingSource{tokens: []string{"old", "new"}},
		store: store,
		last:  "old",
	}

	_, err := src.Token()
	require.NoError(t, err)
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken, "unchanged token is not rewritten")

	_, err = src.Token()
	require.NoError(t, err)
	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", tok.AccessToken)
}

func TestFlowTokenSourceRequiresLogin(t *testing.T) {
	flow := NewFlow("client", "", "http://localhost", NewFileStore(filepath.Join(t.TempDir(), TokenFileName)))
	_, err := flow.TokenSource(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestAuthCodeURL(t *testing.T) {
	flow := NewFlow("client-123", "secret", "http://localhost", NewFileStore(filepath.Join(t.TempDir(), TokenFileName)))
	u, err := url.Parse(flow.AuthCodeURL("state-1"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Contains(t, q.Get("scope"), "https://www.googleapis.com/auth/drive.file")
	assert.Contains(t, q.Get("scope"), "https://www.googleapis.com/auth/spreadsheets")
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrNoToken, true},
		{fmt.Errorf("failed to read sheet: %w", &googleapi.Error{Code: 401}), true},
		{fmt.Errorf("failed to update range: %w", &googleapi.Error{Code: 403}), true},
		{&googleapi.Error{Code: 500, Message: "backend error"}, false},
		{&oauth2.RetrieveError{ErrorCode: "invalid_grant"}, true},
		{errors.New("Invalid Credentials"), true},
		{errors.New("OAuth token expired"), true},
		{errors.New("connection reset by peer"), false},
		{&googleapi.Error{Code: 400, Message: "Request had invalid authentication credentials."}, true},
		{fmt.Errorf("update row 401: %w", errors.New("dial tcp 10.0.0.1:443: connect: connection refused")), false},
		{fmt.Errorf("update row 1403: %w", errors.New("unexpected EOF")), false},
		{fmt.Errorf("read row 42: %w", &url.Error{
			Op:  "Get",
			URL: "https://sheets.googleapis.com/v4/spreadsheets/id-401-403/values/'2026'!D401:R401",
			Err: errors.New("connection refused"),
		}), false},
		{fmt.Errorf("update row 401: %w", errors.New("OAuth token expired")), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAuthError(tt.err), "IsAuthError(%v)", tt.err)
	}
}

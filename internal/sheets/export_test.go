package sheets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=311571294",
		ExportURL("abc", "311571294"))
}

func TestFetchGridCacheBustsAndParses(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, "h0,h1,CNY today,7.05\n\n,Acme,\"Steel, galvanised\"\n")
	}))
	defer srv.Close()

	source := NewExportSource(srv.URL+"/export?format=csv&gid=1", srv.Client())
	source.now = func() time.Time { return time.UnixMilli(1700000000123) }

	grid, err := source.FetchGrid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1700000000123"}, gotQuery["t"])
	assert.Equal(t, []string{"csv"}, gotQuery["format"])

	require.Len(t, grid, 2)
	assert.Equal(t, []string{"h0", "h1", "CNY today", "7.05"}, grid[0])
	assert.Equal(t, []string{"", "Acme", "Steel, galvanised"}, grid[1])
}

func TestFetchGridHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewExportSource(srv.URL, srv.Client()).FetchGrid(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// ExportURL is the published CSV export of one tab.
func ExportURL(spreadsheetID, gid string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s",
		url.PathEscape(spreadsheetID), url.QueryEscape(gid))
}

// ExportSource reads the published CSV export. It needs no credentials.
type ExportSource struct {
	httpClient *http.Client
	url        string
	now        func() time.Time
}

func NewExportSource(exportURL string, httpClient *http.Client) *ExportSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ExportSource{
		httpClient: httpClient,
		url:        exportURL,
		now:        time.Now,
	}
}

// FetchGrid downloads the export and returns its cells. Every request carries a fresh `t` parameter
// so intermediate caches never serve a stale rate.
func (s *ExportSource) FetchGrid(ctx context.Context) ([][]string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	log.Debug().Str("url", u.String()).Msg("Fetching sheet export")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create export request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch export: HTTP %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}

	log.Debug().Int("rows", len(grid)).Msg("Fetched sheet export")
	return grid, nil
}

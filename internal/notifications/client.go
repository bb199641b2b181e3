package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"inventory_viewer/internal/config"
	"inventory_viewer/internal/retry"

	"github.com/rs/zerolog/log"
)

// Client posts inventory change messages to an ntfy topic.
type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	priority   string
	resilience retry.Config
}

// Event describes one change written to the sheet.
type Event struct {
	Kind     string
	Row      int
	Supplier string
	Detail   string
	Link     string
}

const (
	RowAdded       = "row_added"
	RowUpdated     = "row_updated"
	AttachmentSent = "attachment_uploaded"
)

type NotificationError struct {
	Type       string
	StatusCode int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s]: %v", e.Type, e.Underlying)
}

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(baseURL, topic string, enabled bool, priority string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		topic:      topic,
		enabled:    enabled,
		priority:   priority,
		resilience: config.DefaultResilienceConfig.Notify,
	}
}

// Enabled reports whether Notify sends anything.
func (c *Client) Enabled() bool { return c != nil && c.enabled }

// Notify sends one event. The sheet write it describes has already happened, so callers log the
// returned error and move on.
func (c *Client) Notify(ctx context.Context, event Event) error {
	if !c.Enabled() {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	cfg := c.resilience
	cfg.Retryable = func(err error) bool {
		var notifErr *NotificationError
		if errors.As(err, &notifErr) {
			return notifErr.IsRetryable()
		}
		return true
	}

	return retry.Do(ctx, cfg, func(ctx context.Context) error {
		return c.send(ctx, formatTitle(event), formatMessage(event))
	})
}

func (c *Client) send(ctx context.Context, title, message string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	log.Debug().
		Str("url", url).
		Str("title", title).
		Msg("Sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{Type: "client", Underlying: err}
	}

	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", title)
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Type: "network", Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().Int("status_code", resp.StatusCode).Msg("Notification sent successfully")
	return nil
}

func formatTitle(e Event) string {
	switch e.Kind {
	case RowAdded:
		return fmt.Sprintf("Inventory: row %d added", e.Row)
	case RowUpdated:
		return fmt.Sprintf("Inventory: row %d updated", e.Row)
	case AttachmentSent:
		return fmt.Sprintf("Inventory: %s image for row %d", e.Detail, e.Row)
	default:
		return fmt.Sprintf("Inventory: row %d changed", e.Row)
	}
}

func formatMessage(e Event) string {
	var sb strings.Builder
	if e.Supplier != "" {
		sb.WriteString(fmt.Sprintf("Supplier: %s\n", e.Supplier))
	}
	if e.Kind != AttachmentSent && e.Detail != "" {
		sb.WriteString(e.Detail + "\n")
	}
	if e.Link != "" {
		sb.WriteString(fmt.Sprintf("Link: %s\n", e.Link))
	}
	if sb.Len() == 0 {
		sb.WriteString(fmt.Sprintf("Row %d", e.Row))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}

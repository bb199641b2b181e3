package app

import (
	"context"
	"fmt"

	"inventory_viewer/internal/auth"
	"inventory_viewer/internal/drive"
	"inventory_viewer/internal/inventory"
	"inventory_viewer/internal/notifications"
	"inventory_viewer/internal/sheets"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// AuthFlow is the interactive sign-in for the configured OAuth client.
func (c Config) AuthFlow() *auth.Flow {
	return auth.NewFlow(c.ClientID, c.ClientSecret, c.RedirectURL, auth.NewFileStore(c.TokenFile))
}

// ClientOptions authenticates API clients: a service account when a credentials file is set,
// otherwise the stored user token.
func (c Config) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	if c.CredentialsFile != "" {
		log.Debug().Str("file", c.CredentialsFile).Msg("Using service account credentials")
		return []option.ClientOption{
			option.WithCredentialsFile(c.CredentialsFile),
			option.WithScopes(auth.Scopes...),
		}, nil
	}

	ts, err := c.AuthFlow().TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

// InitializeService builds the inventory service. In read-only mode, or when writing is not needed,
// only the export source is wired and mutations fail with inventory.ErrReadOnly.
func InitializeService(ctx context.Context, cfg Config, writable bool) (*inventory.Service, error) {
	log.Debug().Bool("writable", writable).Msg("Initializing clients")

	opts := inventory.Options{
		SpreadsheetID: cfg.SpreadsheetID,
		Tab:           cfg.Tab,
		Resilience:    cfg.Resilience,
	}
	if cfg.ExportURL != "" {
		opts.Grid = sheets.NewExportSource(cfg.ExportURL, nil)
	}

	if !writable || cfg.ReadOnly() {
		return inventory.NewService(opts), nil
	}

	clientOpts, err := cfg.ClientOptions(ctx)
	if err != nil {
		return nil, err
	}

	sheetsClient, err := sheets.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	opts.Values = sheetsClient

	if cfg.DriveFolderID != "" {
		uploader, err := drive.NewUploader(ctx, cfg.DriveFolderID, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create drive client: %w", err)
		}
		opts.Uploader = uploader
	}

	if notifier := InitializeNotificationClient(cfg); notifier.Enabled() {
		opts.Notifier = notifier
	}

	log.Debug().Msg("Clients initialized successfully")
	return inventory.NewService(opts), nil
}

// InitializeNotificationClient creates and returns the notification client
func InitializeNotificationClient(cfg Config) *notifications.Client {
	log.Debug().
		Bool("enabled", cfg.Notify.Enabled).
		Str("base_url", cfg.Notify.URL).
		Str("topic", cfg.Notify.Topic).
		Msg("Initializing notification client")

	client := notifications.NewClient(cfg.Notify.URL, cfg.Notify.Topic, cfg.Notify.Enabled, cfg.Notify.Priority)

	if cfg.Notify.Enabled {
		log.Info().Str("topic", cfg.Notify.Topic).Msg("Notifications enabled")
	}

	return client
}

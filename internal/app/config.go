package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"inventory_viewer/internal/auth"
	"inventory_viewer/internal/config"
	"inventory_viewer/internal/sheets"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
// Logs go to stderr so command output on stdout stays clean.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	zerolog.SetGlobalLevel(parseLevel(os.Getenv("LOGLEVEL"), os.Getenv("ENV")))

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

func parseLevel(level, env string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	case "":
		// a CLI stays quiet unless asked
		if env == "production" {
			return zerolog.ErrorLevel
		}
		return zerolog.WarnLevel
	default:
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to warn.", level)
		return zerolog.WarnLevel
	}
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

const (
	DefaultTab         = "2026"
	DefaultRedirectURL = "http://localhost"
)

type NotifyConfig struct {
	Enabled  bool
	URL      string
	Topic    string
	Priority string
}

// Config is everything the commands need, read once from the environment.
type Config struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	CredentialsFile string
	TokenFile       string

	SpreadsheetID string
	DriveFolderID string
	Tab           string
	ExportURL     string

	Notify     NotifyConfig
	Resilience config.ResilienceConfig
}

// LoadConfig reads the environment. Missing identifiers are not an error here: commands that need
// them fail with inventory.ErrNotConfigured.
func LoadConfig() (Config, error) {
	cfg := Config{
		ClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:     GetEnvWithDefault("GOOGLE_REDIRECT_URL", DefaultRedirectURL),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		TokenFile:       os.Getenv("TOKEN_FILE"),
		SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
		DriveFolderID:   os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		Tab:             GetEnvWithDefault("SHEET_TAB", DefaultTab),
		ExportURL:       os.Getenv("SHEET_CSV_URL"),
		Notify: NotifyConfig{
			Enabled:  GetEnvWithDefault("NTFY_ENABLED", "false") == "true",
			URL:      GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
			Topic:    GetEnvWithDefault("NTFY_TOPIC", "inventory"),
			Priority: os.Getenv("NTFY_PRIORITY"),
		},
		Resilience: config.DefaultResilienceConfig,
	}

	if cfg.ExportURL == "" && cfg.SpreadsheetID != "" {
		if gid := os.Getenv("SHEET_CSV_GID"); gid != "" {
			cfg.ExportURL = sheets.ExportURL(cfg.SpreadsheetID, gid)
		}
	}

	if cfg.TokenFile == "" {
		path, err := auth.DefaultTokenPath()
		if err != nil {
			return Config{}, fmt.Errorf("failed to locate token file: %w", err)
		}
		cfg.TokenFile = path
	}

	log.Debug().
		Str("tab", cfg.Tab).
		Bool("read_only", cfg.ReadOnly()).
		Bool("service_account", cfg.CredentialsFile != "").
		Bool("export_url", cfg.ExportURL != "").
		Msg("Loaded configuration")
	return cfg, nil
}

// ReadOnly reports whether no identity is configured at all. The list can still be shown from the
// published export.
func (c Config) ReadOnly() bool {
	return c.ClientID == "" && c.CredentialsFile == ""
}

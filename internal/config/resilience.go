package config

import (
	"time"

	"inventory_viewer/internal/retry"
)

// ResilienceConfig bounds every network call. Reads and writes get one attempt each: a failed
// mutation is reported to the user, who decides whether to run it again. Only idempotent follow-up
// calls retry on their own.
type ResilienceConfig struct {
	ExportFetch     retry.Config
	SheetRead       retry.Config
	SheetWrite      retry.Config
	DriveUpload     retry.Config
	DrivePermission retry.Config
	Notify          retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	ExportFetch: retry.Config{
		Timeout: 30 * time.Second,
	},
	SheetRead: retry.Config{
		Timeout: 15 * time.Second,
	},
	SheetWrite: retry.Config{
		Timeout: 15 * time.Second,
	},
	DriveUpload: retry.Config{
		Timeout: 2 * time.Minute,
	},
	DrivePermission: retry.Config{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Timeout:    10 * time.Second,
	},
	Notify: retry.Config{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    10 * time.Second,
	},
}

package driving

import "context"

// Setting is one configuration key with its effective value.
type Setting struct {
	Key   string
	Value string
}

// SettingsService reads and updates application settings.
type SettingsService interface {
	// List returns every recognised setting with its effective value.
	List() []Setting

	// Set parses value for key and persists it.
	Set(key, value string) error

	// Path returns where settings are stored.
	Path() string
}

// WatchService keeps the store and index in step with a corpus directory.
type WatchService interface {
	// Watch ingests and indexes files as they appear or change under dir.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, dir string) error
}

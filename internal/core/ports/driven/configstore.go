package driven

// ConfigStore provides access to application configuration.
// Nested tables are addressed with dot-separated keys such as "ingest.workers".
// Getters return the zero value when a key is missing or holds another type.
type ConfigStore interface {
	GetString(key string) string
	GetInt(key string) int

	// GetFloat widens integer values.
	GetFloat(key string) float64

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Path returns where the configuration is persisted.
	Path() string
}

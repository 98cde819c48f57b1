package memory

import (
	"sync"

	"github.com/folio-archive/folio/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Integers are stored as int64, the
// type the TOML decoder yields, so typed reads behave as they do against
// the config file.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: make(map[string]any)}
}

func (s *ConfigStore) GetString(key string) string {
	str, _ := s.value(key).(string)
	return str
}

func (s *ConfigStore) GetInt(key string) int {
	n, _ := s.value(key).(int64)
	return int(n)
}

func (s *ConfigStore) GetFloat(key string) float64 {
	switch v := s.value(key).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func (s *ConfigStore) Set(key string, value any) error {
	if n, ok := value.(int); ok {
		value = int64(n)
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// Path reports ":memory:".
func (s *ConfigStore) Path() string {
	return ":memory:"
}

// Len returns the number of stored keys.
func (s *ConfigStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *ConfigStore) value(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

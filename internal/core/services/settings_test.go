package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-archive/folio/internal/adapters/driven/storage/memory"
	"github.com/folio-archive/folio/internal/config"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

func TestSettingsService_ListDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	list := svc.List()
	assert.Contains(t, list, driving.Setting{Key: config.KeyIngestWorkers, Value: "4"})
	assert.Contains(t, list, driving.Setting{Key: config.KeySearchPageSize, Value: "20"})
	assert.Contains(t, list, driving.Setting{Key: config.KeyEEBODir, Value: ""})
	assert.Equal(t, ":memory:", svc.Path())
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set(config.KeyIndexWorkers, "8"))
	require.NoError(t, svc.Set(config.KeyIndexRate, "1.5"))
	require.NoError(t, svc.Set(config.KeyEEBODir, "/corpus/eebo"))

	s := svc.Settings()
	assert.Equal(t, 8, s.Index.Workers)
	assert.InDelta(t, 1.5, s.Index.RatePerSecond, 1e-9)
	assert.Equal(t, "/corpus/eebo", s.Corpus.EEBODir)
	assert.Equal(t, 8, store.GetInt(config.KeyIndexWorkers))
}

func TestSettingsService_SetRejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	assert.ErrorIs(t, svc.Set("llm.provider", "openai"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(config.KeyIngestBatchSize, "lots"), domain.ErrInvalidInput)
	assert.Zero(t, store.Len())
}

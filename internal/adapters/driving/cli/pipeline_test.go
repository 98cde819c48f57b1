package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-archive/folio/internal/core/ports/driving"
)

func TestIngestCmd_Dir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.ingest.report = driving.IngestReport{RunID: "run-1", Total: 5, Processed: 3, Skipped: 1, Errors: 1}

	out, err := execute(t, "ingest", "/corpus/eebo")
	require.NoError(t, err)
	assert.Equal(t, []string{"/corpus/eebo"}, mocks.ingest.dirs)
	assert.Contains(t, out, "Ingested")
	assert.Contains(t, out, "Files:     5")
	assert.Contains(t, out, "Processed: 3")
	assert.Contains(t, out, "Skipped:   1")
	assert.Contains(t, out, "Errors:    1")
	assert.Contains(t, out, "run-1")
}

func TestIngestCmd_ConfiguredDirs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settings.Corpus.EEBODir = "/data/eebo"
	settings.Corpus.PlayDir = "/data/plays"

	_, err := execute(t, "ingest")
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/eebo", "/data/plays"}, mocks.ingest.dirs)
}

func TestIngestCmd_NoDirs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus.eebo_dir")
}

func TestIngestCmd_ErrorStillReports(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.ingest.report = driving.IngestReport{Total: 2, Processed: 1}
	mocks.ingest.err = errors.New("listing corpus: root path error")

	out, err := execute(t, "ingest", "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest /missing")
	assert.Contains(t, out, "Processed: 1")
}

func TestIndexCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.index.report = driving.IndexReport{Total: 10, Succeeded: 9, Failed: 1}

	out, err := execute(t, "index", "--batch-size", "50", "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, 50, mocks.index.batchSize)
	assert.Equal(t, 2, mocks.index.workers)
	assert.Contains(t, out, "Works:     10")
	assert.Contains(t, out, "Succeeded: 9")
	assert.Contains(t, out, "Failed:    1")
}

func TestIndexCmd_DefaultsAreZero(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "index")
	require.NoError(t, err)
	assert.Zero(t, mocks.index.batchSize)
	assert.Zero(t, mocks.index.workers)
}

func TestIndexCmd_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.index.err = errors.New("counting works: closed")

	_, err := execute(t, "index")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index failed")
}

func TestBackfillCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.backfill.report = driving.BackfillReport{Checked: 4, Updated: 2, NoYear: 1, Failed: 1}

	out, err := execute(t, "backfill-years", "--batch-size", "25")
	require.NoError(t, err)
	assert.Equal(t, 25, mocks.backfill.batchSize)
	assert.Contains(t, out, "Checked: 4")
	assert.Contains(t, out, "Updated: 2")
	assert.Contains(t, out, "No year: 1")
	assert.Contains(t, out, "Failed:  1")
}

func TestBackfillCmd_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.backfill.err = errors.New("listing works: closed")

	_, err := execute(t, "backfill-years")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backfill failed")
}

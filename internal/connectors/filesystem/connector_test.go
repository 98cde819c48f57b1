package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-archive/folio/internal/core/domain"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("<TEI/>"), 0644))
}

func TestNew(t *testing.T) {
	connector := New("/corpus/eebo")

	require.NotNil(t, connector)
	assert.Equal(t, "/corpus/eebo", connector.Root())
}

func TestConnector_Files(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "A00002.xml"))
	writeFile(t, filepath.Join(root, "a", "A00001.XML"))
	writeFile(t, filepath.Join(root, "A00003.xml"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".hidden.xml"))
	writeFile(t, filepath.Join(root, ".git", "config.xml"))

	files, err := New(root).Files(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "A00003.xml"),
		filepath.Join(root, "a", "A00001.XML"),
		filepath.Join(root, "b", "A00002.xml"),
	}, files)
}

func TestConnector_Files_Empty(t *testing.T) {
	files, err := New(t.TempDir()).Files(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestConnector_Files_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := New("/non/existent/path").Files(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "single.xml")
		writeFile(t, file)

		_, err := New(file).Files(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "A1.xml"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(root).Files(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsCorpusFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/c/A1.xml", true},
		{"/c/A1.XML", true},
		{"/c/A1.Xml", true},
		{"/c/A1.xml.bak", false},
		{"/c/README", false},
		{"/c/A1.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorpusFile(tt.path))
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "A1.xml")
	writeFile(t, file)
	dir := filepath.Join(root, "sub.xml")
	require.NoError(t, os.Mkdir(dir, 0755))
	hidden := filepath.Join(root, ".A2.xml")
	writeFile(t, hidden)

	c := New(root)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want *domain.FileChange
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, &domain.FileChange{Path: file, Type: domain.ChangeCreated}},
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, &domain.FileChange{Path: file, Type: domain.ChangeUpdated}},
		{"write and chmod", fsnotify.Event{Name: file, Op: fsnotify.Write | fsnotify.Chmod}, &domain.FileChange{Path: file, Type: domain.ChangeUpdated}},
		{"remove", fsnotify.Event{Name: filepath.Join(root, "gone.xml"), Op: fsnotify.Remove},
			&domain.FileChange{Path: filepath.Join(root, "gone.xml"), Type: domain.ChangeDeleted}},
		{"rename", fsnotify.Event{Name: filepath.Join(root, "old.xml"), Op: fsnotify.Rename},
			&domain.FileChange{Path: filepath.Join(root, "old.xml"), Type: domain.ChangeDeleted}},
		{"chmod only", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, nil},
		{"not xml", fsnotify.Event{Name: filepath.Join(root, "a.txt"), Op: fsnotify.Create}, nil},
		{"directory", fsnotify.Event{Name: dir, Op: fsnotify.Create}, nil},
		{"hidden", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, nil},
		{"create of vanished file", fsnotify.Event{Name: filepath.Join(root, "brief.xml"), Op: fsnotify.Create}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.handleFsEvent(tt.ev))
		})
	}
}

func waitFor(t *testing.T, changes <-chan domain.FileChange, path string) domain.FileChange {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case change, ok := <-changes:
			require.True(t, ok, "channel closed before change for %s", path)
			if change.Path == path {
				return change
			}
		case <-timeout:
			t.Fatalf("timeout waiting for change to %s", path)
		}
	}
}

func TestConnector_Watch(t *testing.T) {
	t.Run("reports created and deleted files", func(t *testing.T) {
		root := t.TempDir()
		connector := New(root)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		file := filepath.Join(root, "A1.xml")
		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(file, []byte("<TEI/>"), 0644)
		}()
		change := waitFor(t, changes, file)
		assert.Contains(t, []domain.ChangeType{domain.ChangeCreated, domain.ChangeUpdated}, change.Type)

		require.NoError(t, os.Remove(file))
		for change.Type != domain.ChangeDeleted {
			change = waitFor(t, changes, file)
		}
	})

	t.Run("watches new subdirectories", func(t *testing.T) {
		root := t.TempDir()
		connector := New(root)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		sub := filepath.Join(root, "batch2")
		require.NoError(t, os.Mkdir(sub, 0755))
		time.Sleep(100 * time.Millisecond)

		file := filepath.Join(sub, "A2.xml")
		require.NoError(t, os.WriteFile(file, []byte("<TEI/>"), 0644))
		waitFor(t, changes, file)
	})

	t.Run("reports files in a directory moved into the tree", func(t *testing.T) {
		root := t.TempDir()
		staging := t.TempDir()
		connector := New(root)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		writeFile(t, filepath.Join(staging, "batch3", "A3.xml"))
		writeFile(t, filepath.Join(staging, "batch3", "nested", "A4.xml"))
		writeFile(t, filepath.Join(staging, "batch3", ".hidden", "A5.xml"))
		writeFile(t, filepath.Join(staging, "batch3", "notes.txt"))

		moved := filepath.Join(root, "batch3")
		require.NoError(t, os.Rename(filepath.Join(staging, "batch3"), moved))

		change := waitFor(t, changes, filepath.Join(moved, "A3.xml"))
		assert.Equal(t, domain.ChangeCreated, change.Type)
		change = waitFor(t, changes, filepath.Join(moved, "nested", "A4.xml"))
		assert.Equal(t, domain.ChangeCreated, change.Type)

		// The new subdirectory is watched as well.
		later := filepath.Join(moved, "nested", "A6.xml")
		require.NoError(t, os.WriteFile(later, []byte("<TEI/>"), 0644))
		waitFor(t, changes, later)
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		changes, err := New("/non/existent/path").Watch(context.Background())

		assert.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		connector := New(t.TempDir())
		defer connector.Close()
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("closes channel when connector is closed", func(t *testing.T) {
		connector := New(t.TempDir())
		changes, err := connector.Watch(context.Background())
		require.NoError(t, err)

		require.NoError(t, connector.Close())

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after Close")
		}
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		connector := New(t.TempDir())
		require.NoError(t, connector.Close())

		changes, err := connector.Watch(context.Background())

		assert.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "closed")
	})
}

func TestConnector_Close(t *testing.T) {
	connector := New("/tmp/test")

	assert.NoError(t, connector.Close())
	assert.NoError(t, connector.Close())
	assert.NoError(t, connector.Close())
}

// Package filesystem implements driven.CorpusSource over a local
// directory tree.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.CorpusSource = (*Connector)(nil)

// Extension is the suffix of corpus files, matched case-insensitively.
const Extension = ".xml"

// Connector enumerates and watches XML files below a root directory.
type Connector struct {
	rootPath string

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// New creates a connector rooted at rootPath.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// Root returns the directory the connector reads.
func (c *Connector) Root() string {
	return c.rootPath
}

func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("root path error: %s: %w", c.rootPath, domain.ErrNotFound)
		}
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory: %w", c.rootPath, domain.ErrInvalidInput)
	}
	return nil
}

// Files returns every corpus file under the root in lexical order.
// Hidden files and directories are skipped. Unreadable subdirectories
// are logged and skipped.
func (c *Connector) Files(ctx context.Context) ([]string, error) {
	if err := c.checkRoot(); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == c.rootPath {
				return err
			}
			logger.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != c.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsCorpusFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.rootPath, err)
	}

	sort.Strings(files)
	return files, nil
}

// Watch streams corpus file changes until ctx is cancelled or the
// connector is closed. Directories created or moved in after Watch starts
// are watched too, and the corpus files already inside them are reported
// as created. The channel is closed on exit.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("connector is closed")
	}
	if err := c.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if _, err := c.addTree(watcher, c.rootPath); err != nil {
		watcher.Close()
		return nil, err
	}
	c.watchers = append(c.watchers, watcher)

	changes := make(chan domain.FileChange)
	go c.eventLoop(ctx, watcher, changes)
	return changes, nil
}

func (c *Connector) eventLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.FileChange) {
	defer close(changes)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", c.rootPath, err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) && !isHidden(filepath.Base(ev.Name)) {
				files, err := c.addTree(watcher, ev.Name)
				if err != nil {
					logger.Warn("watch %s: %v", ev.Name, err)
				}
				for _, path := range files {
					if !send(ctx, changes, domain.FileChange{Path: path, Type: domain.ChangeCreated}) {
						return
					}
				}
				continue
			}
			change := c.handleFsEvent(ev)
			if change == nil {
				continue
			}
			if !send(ctx, changes, *change) {
				return
			}
		}
	}
}

// handleFsEvent maps a raw notification to a corpus change, or nil when
// the event concerns no corpus file.
func (c *Connector) handleFsEvent(ev fsnotify.Event) *domain.FileChange {
	if !IsCorpusFile(ev.Name) || isHidden(filepath.Base(ev.Name)) {
		return nil
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return &domain.FileChange{Path: ev.Name, Type: domain.ChangeDeleted}
	case ev.Has(fsnotify.Create):
		if !isRegular(ev.Name) {
			return nil
		}
		return &domain.FileChange{Path: ev.Name, Type: domain.ChangeCreated}
	case ev.Has(fsnotify.Write):
		if !isRegular(ev.Name) {
			return nil
		}
		return &domain.FileChange{Path: ev.Name, Type: domain.ChangeUpdated}
	default:
		return nil
	}
}

// send delivers change unless ctx is done first.
func send(ctx context.Context, changes chan<- domain.FileChange, change domain.FileChange) bool {
	select {
	case changes <- change:
		return true
	case <-ctx.Done():
		return false
	}
}

// addTree watches dir and every non-hidden directory below it, and returns
// the corpus files found on the way in lexical order.
func (c *Connector) addTree(watcher *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("root path error: %w", err)
		}
		if path != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if d.Type().IsRegular() && IsCorpusFile(path) {
				files = append(files, path)
			}
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	return files, err
}

// Close stops every active watch. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for _, w := range c.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.watchers = nil
	return errors.Join(errs...)
}

// IsCorpusFile reports whether path has the corpus file extension.
func IsCorpusFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

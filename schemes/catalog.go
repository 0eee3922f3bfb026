package schemes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrNoPath is returned by Reload and Watch on a catalog not loaded from a file.
var ErrNoPath = errors.New("catalog has no backing file")

// Catalog holds the scheme database. Reads are safe while a reload runs;
// readers see either the old or the new set, never a mix.
type Catalog struct {
	path string

	mu      sync.RWMutex
	schemes []Scheme
}

// NewCatalog creates an in-memory catalog. The slice is copied.
func NewCatalog(schemes []Scheme) *Catalog {
	return &Catalog{schemes: append([]Scheme(nil), schemes...)}
}

// LoadCatalog reads a JSON array of schemes from path.
func LoadCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the backing file, or "" for an in-memory catalog.
func (c *Catalog) Path() string { return c.path }

// Reload re-reads the backing file. On error the current schemes are kept.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return ErrNoPath
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read scheme catalog: %w", err)
	}
	var schemes []Scheme
	if err := json.Unmarshal(data, &schemes); err != nil {
		return fmt.Errorf("parse scheme catalog %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.schemes = schemes
	c.mu.Unlock()
	return nil
}

// Schemes returns a copy of every scheme.
func (c *Catalog) Schemes() []Scheme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Scheme(nil), c.schemes...)
}

// Len returns the number of schemes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.schemes)
}

// Filter returns the schemes a farmer in state with land acres may apply
// for, in catalog order.
func (c *Catalog) Filter(state string, land float64) []Scheme {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Scheme
	for _, s := range c.schemes {
		if s.EligibleFor(state, land) {
			out = append(out, s)
		}
	}
	return out
}

// Watch reloads the catalog whenever its file is written or replaced,
// until ctx is cancelled. A failed reload is logged and the previous
// schemes stay in place. The returned channel is closed when watching stops.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	if c.path == "" {
		return nil, ErrNoPath
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen.
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(c.path), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer watcher.Close()
		c.watch(ctx, watcher)
	}()
	return done, nil
}

func (c *Catalog) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	base := filepath.Base(c.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.Reload(); err != nil {
				slog.Warn("scheme catalog reload failed",
					slog.String("path", c.path),
					slog.Any("error", err))
				continue
			}
			slog.Debug("scheme catalog reloaded",
				slog.String("path", c.path),
				slog.Int("schemes", c.Len()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("scheme catalog watcher error", slog.Any("error", err))
		}
	}
}

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"promptlab/internal/infra"
)

const reloadDebounce = 150 * time.Millisecond

// Store serves the current catalog and swaps it when the backing file changes.
type Store struct {
	path   string
	logger *infra.Logger

	mu      sync.RWMutex
	current *Catalog
	subs    []func(*Catalog)
}

// NewStore loads path (or the embedded catalog when path is empty).
func NewStore(path string, logger *infra.Logger) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Store{path: path, logger: logger, current: c}, nil
}

// Current returns the active catalog. Callers must not modify it.
func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnReload registers fn to be called with every successfully reloaded catalog.
func (s *Store) OnReload(fn func(*Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Reload re-reads the file. On error the previous catalog stays active.
func (s *Store) Reload() error {
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = c
	subs := append([]func(*Catalog){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
	return nil
}

// Watch reloads the catalog whenever its file is written, until ctx ends.
// The parent directory is watched so editors that replace the file on save
// are picked up too. Watch is a no-op for the embedded catalog.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("catalog: watch %s: %w", target, err)
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if err := s.Reload(); err != nil {
					s.logger.Warn().Err(err).Str("path", target).Msg("catalog reload failed, keeping previous")
					continue
				}
				s.logger.Info().Str("path", target).Msg("catalog reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn().Err(err).Msg("catalog watcher error")
			}
		}
	}()
	return nil
}

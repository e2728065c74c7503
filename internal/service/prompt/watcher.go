package prompt

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store hands out the active registry and, when backed by a file, hot-reloads
// it on change. Reads always see a consistent registry; a reload swaps the
// whole value.
type Store struct {
	mu       sync.RWMutex
	registry *Registry
	path     string
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
}

// NewStore creates a store serving a fixed registry.
func NewStore(registry *Registry, logger *zap.Logger) *Store {
	return &Store{registry: registry, logger: logger}
}

// NewFileStore loads the registry from path and watches it for changes.
func NewFileStore(path string, logger *zap.Logger) (*Store, error) {
	registry, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	store := &Store{
		registry: registry,
		path:     path,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create registry watcher: %w", err)
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch registry file: %w", err)
	}
	store.watcher = fsWatcher
	go store.watchLoop()

	logger.Info("prompt registry hot reloading enabled", zap.String("path", path))
	return store, nil
}

// Registry returns the active registry value.
func (s *Store) Registry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// SetCurrent repoints a category's current selector. The repoint is published
// as a fresh registry value, like reload; registries handed out earlier stay
// untouched, so generation calls holding one read a consistent snapshot.
func (s *Store) SetCurrent(category Category, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.registry.clone()
	if err := next.SetCurrent(category, versionID); err != nil {
		return err
	}
	s.registry = next
	return nil
}

func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.reload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("prompt registry watcher error", zap.Error(err))
		case <-s.stopCh:
			return
		}
	}
}

func (s *Store) reload() {
	registry, err := LoadFile(s.path)
	if err != nil {
		// Keep serving the last consistent registry on a bad reload.
		s.logger.Error("prompt registry reload failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	s.mu.Lock()
	s.registry = registry
	s.mu.Unlock()
	s.logger.Info("prompt registry reloaded", zap.String("path", s.path))
}

// Close stops the file watcher.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.stopCh)
	return s.watcher.Close()
}

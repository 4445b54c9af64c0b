package views

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileStore is a file-based view store for CLI usage.
// Views are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based view store.
// If baseDir is empty, defaults to ~/.config/barchart/views/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "barchart", "views")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create views dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) viewPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Get retrieves a view by name.
func (s *FileStore) Get(ctx context.Context, name string) (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.viewPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound(name)
		}
		return nil, fmt.Errorf("read view file: %w", err)
	}

	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse view: %w", err)
	}
	return &v, nil
}

// Put creates or replaces a view.
func (s *FileStore) Put(ctx context.Context, v *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep identity and creation time across replacements.
	if data, err := os.ReadFile(s.viewPath(v.Name)); err == nil {
		var old View
		if json.Unmarshal(data, &old) == nil {
			v.ID = old.ID
			v.CreatedAt = old.CreatedAt
		}
	}
	v.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	if err := os.WriteFile(s.viewPath(v.Name), data, 0600); err != nil {
		return fmt.Errorf("write view file: %w", err)
	}
	return nil
}

// Delete removes a view by name.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.viewPath(name))
	if os.IsNotExist(err) {
		return NotFound(name)
	}
	if err != nil {
		return fmt.Errorf("remove view file: %w", err)
	}
	return nil
}

// List returns all views sorted by name.
func (s *FileStore) List(ctx context.Context) ([]*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read views dir: %w", err)
	}

	var views []*View
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var v View
		if err := json.Unmarshal(data, &v); err != nil {
			continue
		}
		views = append(views, &v)
	}

	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

// Close does nothing for file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

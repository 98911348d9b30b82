package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/providers"
)

type fileEntry struct {
	Value     []byte     `json:"value"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// FileAdapter implements the CacheProvider interface on a single JSON file, so the
// local store survives process restarts the way browser storage survives reloads.
// Every write rewrites the file through a temp file and rename.
type FileAdapter struct {
	mu   sync.Mutex
	path string
}

// NewFileAdapter creates a store at path, creating parent directories as needed
func NewFileAdapter(path string) (*FileAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileAdapter{path: path}, nil
}

func (a *FileAdapter) load() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)
	data, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt storage file %s: %w", a.path, err)
	}
	return entries, nil
}

func (a *FileAdapter) save(entries map[string]fileEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(a.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return os.Rename(tmp.Name(), a.path)
}

// Get retrieves a value
func (a *FileAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[key]
	if !ok || (entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt)) {
		return nil, fmt.Errorf("%w: %s", providers.ErrCacheMiss, key)
	}
	return entry.Value, nil
}

// Set stores a value
func (a *FileAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load()
	if err != nil {
		return err
	}
	entry := fileEntry{Value: value}
	if expirationSeconds > 0 {
		expiresAt := time.Now().Add(time.Duration(expirationSeconds) * time.Second)
		entry.ExpiresAt = &expiresAt
	}
	entries[key] = entry
	return a.save(entries)
}

// Delete removes a value
func (a *FileAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return a.save(entries)
}

// Exists checks if a live key is present
func (a *FileAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	if errors.Is(err, providers.ErrCacheMiss) {
		return false, nil
	}
	return err == nil, err
}

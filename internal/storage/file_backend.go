package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend implements storage using a local JSON file
type FileBackend struct {
	baseDir string
	mu      sync.RWMutex
	config  map[string]interface{}
}

// NewFileBackend creates a new file-based storage backend
func NewFileBackend(baseDir string) *FileBackend {
	return &FileBackend{
		baseDir: baseDir,
		config:  make(map[string]interface{}),
	}
}

func (f *FileBackend) Initialize(ctx context.Context) error {
	dir := filepath.Join(f.baseDir, "config")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadConfig(); err != nil {
		return fmt.Errorf("failed to load existing data: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.saveConfig()
}

func (f *FileBackend) Health(ctx context.Context) error {
	_, err := os.Stat(f.baseDir)
	return err
}

func (f *FileBackend) GetConfig(ctx context.Context, key string) (interface{}, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.config[key]
	if !ok {
		return nil, &ErrNotFound{Key: key}
	}
	return v, nil
}

// SetConfig persists immediately.
func (f *FileBackend) SetConfig(ctx context.Context, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config[key] = value
	return f.saveConfig()
}

func (f *FileBackend) DeleteConfig(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.config[key]; !ok {
		return &ErrNotFound{Key: key}
	}
	delete(f.config, key)
	return f.saveConfig()
}

func (f *FileBackend) ListConfigs(ctx context.Context) (map[string]interface{}, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]interface{}, len(f.config))
	for k, v := range f.config {
		out[k] = v
	}
	return out, nil
}

func (f *FileBackend) configPath() string {
	return filepath.Join(f.baseDir, "config", "config.json")
}

func (f *FileBackend) loadConfig() error {
	data, err := os.ReadFile(f.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &f.config)
}

// saveConfig writes to a temp file and renames it into place.
func (f *FileBackend) saveConfig() error {
	data, err := json.MarshalIndent(f.config, "", "  ")
	if err != nil {
		return err
	}
	path := f.configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

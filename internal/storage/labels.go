package storage

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	BaseDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// DetectBackendLabel returns a normalized label for the backend.
func DetectBackendLabel(backend Backend) string {
	switch b := backend.(type) {
	case *instrumentedBackend:
		return b.label
	case *RedisBackend:
		return "redis"
	case *FileBackend:
		return "file"
	case *MemoryBackend:
		return "memory"
	default:
		return "unknown"
	}
}

// Open builds, instruments and initializes the configured backend.
// "auto" picks redis when an address is set, file otherwise.
func Open(ctx context.Context, opts Options) (Backend, error) {
	kind := strings.ToLower(strings.TrimSpace(opts.Backend))
	if kind == "" || kind == "auto" {
		kind = "file"
		if opts.RedisAddr != "" {
			kind = "redis"
		}
	}
	var backend Backend
	switch kind {
	case "file":
		dir := opts.BaseDir
		if dir == "" {
			dir = "./data"
		}
		backend = NewFileBackend(dir)
	case "redis":
		rb, err := NewRedisBackend(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
		if err != nil {
			return nil, err
		}
		backend = rb
	case "memory":
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", opts.Backend)
	}
	if err := backend.Initialize(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("initialize %s storage: %w", kind, err)
	}
	return WithInstrumentation(backend, kind), nil
}

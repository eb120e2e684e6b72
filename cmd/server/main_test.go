package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"promptstudio-go/internal/config"
	"promptstudio-go/internal/constants"
	"promptstudio-go/internal/credential"
	"promptstudio-go/internal/monitoring"
	store "promptstudio-go/internal/storage"
)

func TestBuildStorageBackendUnsupported(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "unknown"
	cfg.Storage.BaseDir = t.TempDir()
	// unknown backend degrades to file
	b, err := buildStorageBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected file fallback, got %v", err)
	}
	defer b.Close()
	if got := store.DetectBackendLabel(b); got != "file" {
		t.Fatalf("backend label = %q, want file", got)
	}
}

func TestBuildStorageBackendAutoUsesFile(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.BaseDir = t.TempDir()
	b, err := buildStorageBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("auto backend failed: %v", err)
	}
	defer b.Close()
	if got := store.DetectBackendLabel(b); got != "file" {
		t.Fatalf("backend label = %q, want file", got)
	}
}

func TestBuildStorageBackendMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "memory"
	b, err := buildStorageBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("memory backend failed: %v", err)
	}
	if got := store.DetectBackendLabel(b); got != "memory" {
		t.Fatalf("backend label = %q, want memory", got)
	}
}

func TestDialerOptionsCopiesTimeouts(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.RequestTimeoutSec = 7
	cfg.Gemini.Model = "gemini-test"
	opts := dialerOptions(cfg)
	if opts.RequestTimeout != 7*time.Second {
		t.Fatalf("request timeout = %v", opts.RequestTimeout)
	}
	if opts.Model != "gemini-test" {
		t.Fatalf("model = %q", opts.Model)
	}
}

func TestKeySeedsPreferEnvThenConfig(t *testing.T) {
	t.Setenv("PROMPTSTUDIO_API_KEYS", "")
	cfg := config.Default()
	cfg.APIKeys = []string{"cfg-1", "cfg-2"}
	cfg.Storage.BaseDir = t.TempDir()

	backend, err := buildStorageBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	defer backend.Close()
	ks := credential.NewKeyStore(backend, nil, keySeeds(cfg)...)
	if err := ks.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(ks.Keys(), ","); got != "cfg-1,cfg-2" {
		t.Fatalf("keys = %q", got)
	}
	stored, err := backend.GetConfig(context.Background(), constants.APIKeysStorageKey)
	if err != nil || stored != "cfg-1\ncfg-2" {
		t.Fatalf("stored = %v, %v", stored, err)
	}
}

func TestStorageProbeSetsGauge(t *testing.T) {
	backend := store.WithInstrumentation(store.NewMemoryBackend(), "memory")
	if err := storageProbe(backend)(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if got := testutil.ToFloat64(monitoring.StorageUp.WithLabelValues("memory")); got != 1 {
		t.Fatalf("storage_up = %v, want 1", got)
	}
}

func TestWithFlagsKeepsDebugAcrossReloads(t *testing.T) {
	reloaded := config.Default()
	reloaded.Server.Debug = false

	got := withFlags(reloaded, true)
	if !got.Server.Debug {
		t.Fatal("debug flag lost after reload")
	}
	if reloaded.Server.Debug {
		t.Fatal("withFlags mutated the manager's config")
	}
	if withFlags(reloaded, false).Server.Debug {
		t.Fatal("debug enabled without flag")
	}
}

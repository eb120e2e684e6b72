package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"promptstudio-go/internal/constants"
	"promptstudio-go/internal/events"
	"promptstudio-go/internal/storage"
)

func TestKeyStoreSaveAndReload(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	hub := events.NewHub()

	var saved []events.CredentialsSaved
	hub.Subscribe(events.TopicCredentialsSaved, func(_ context.Context, ev events.Event) {
		saved = append(saved, ev.Payload.(events.CredentialsSaved))
	})

	ks := NewKeyStore(backend, hub)
	require.NoError(t, ks.Load(ctx))
	require.Empty(t, ks.Keys())

	n, err := ks.Save(ctx, "keyA\nkeyB\n\n")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "keyA\nkeyB\n\n", ks.Raw())
	require.Equal(t, []string{"keyA", "keyB"}, ks.Keys())
	require.Equal(t, []events.CredentialsSaved{{Count: 2}}, saved)

	stored, err := backend.GetConfig(ctx, constants.APIKeysStorageKey)
	require.NoError(t, err)
	require.Equal(t, "keyA\nkeyB\n\n", stored)

	reloaded := NewKeyStore(backend, nil)
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, []string{"keyA", "keyB"}, reloaded.Keys())
}

func TestKeyStoreSeedsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()

	ks := NewKeyStore(backend, nil,
		NewStaticSource("empty", "  \n"),
		NewStaticSource("config", "seed1\nseed2"),
	)
	require.NoError(t, ks.Load(ctx))
	require.Equal(t, []string{"seed1", "seed2"}, ks.Keys())

	// stored text wins over seeds on later loads
	_, err := ks.Save(ctx, "other")
	require.NoError(t, err)
	again := NewKeyStore(backend, nil, NewStaticSource("config", "seed1"))
	require.NoError(t, again.Load(ctx))
	require.Equal(t, []string{"other"}, again.Keys())
}

func TestKeyStoreRejectsNonStringValue(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.SetConfig(ctx, constants.APIKeysStorageKey, 42))
	require.Error(t, NewKeyStore(backend, nil).Load(ctx))
}

func TestEnvSource(t *testing.T) {
	t.Setenv("PROMPTSTUDIO_API_KEYS", "k1,k2")
	t.Setenv("PROMPTSTUDIO_API_KEY_2", "k4")
	t.Setenv("PROMPTSTUDIO_API_KEY_1", "k3")

	raw, err := NewEnvSource().Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"k1", "k2", "k3", "k4"}, ParseKeys(raw))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n\nb\n"), 0600))
	raw, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ParseKeys(raw))

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing")).Load(context.Background())
	require.Error(t, err)
}

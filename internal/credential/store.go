package credential

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/constants"
	"promptstudio-go/internal/events"
	"promptstudio-go/internal/monitoring"
	"promptstudio-go/internal/storage"
)

// KeyStore holds the raw API key text and persists it under a fixed storage key.
// Only the raw text is kept; callers parse it on every use.
type KeyStore struct {
	backend storage.Backend
	pub     events.Publisher
	seeds   []Source

	mu  sync.RWMutex
	raw string
}

// NewKeyStore builds a store over backend. Seeds are consulted in order by
// Load when the backend has no stored text yet.
func NewKeyStore(backend storage.Backend, pub events.Publisher, seeds ...Source) *KeyStore {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &KeyStore{backend: backend, pub: pub, seeds: seeds}
}

// Load reads the stored key text once at startup. When nothing is stored,
// the first seed that yields keys is saved as the initial text.
func (s *KeyStore) Load(ctx context.Context) error {
	v, err := s.backend.GetConfig(ctx, constants.APIKeysStorageKey)
	switch {
	case err == nil:
		raw, ok := v.(string)
		if !ok {
			return fmt.Errorf("stored %s has type %T, want string", constants.APIKeysStorageKey, v)
		}
		s.set(raw)
		log.WithField("keys", CountKeys(raw)).Info("api keys loaded from storage")
		return nil
	case storage.IsNotFound(err):
	default:
		return fmt.Errorf("load api keys: %w", err)
	}

	for _, src := range s.seeds {
		raw, err := src.Load(ctx)
		if err != nil {
			log.WithError(err).Warnf("key source %s failed", src.Name())
			continue
		}
		if CountKeys(raw) == 0 {
			continue
		}
		if _, err := s.Save(ctx, raw); err != nil {
			return fmt.Errorf("seed api keys from %s: %w", src.Name(), err)
		}
		log.WithField("source", src.Name()).Info("api keys seeded")
		return nil
	}
	s.set("")
	return nil
}

// Raw returns the latest raw key text.
func (s *KeyStore) Raw() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw
}

// Keys parses the latest raw text into the ordered key pool.
func (s *KeyStore) Keys() []string {
	return ParseKeys(s.Raw())
}

// Save stores raw verbatim and returns the number of usable keys in it.
func (s *KeyStore) Save(ctx context.Context, raw string) (int, error) {
	if err := s.backend.SetConfig(ctx, constants.APIKeysStorageKey, raw); err != nil {
		return 0, fmt.Errorf("save api keys: %w", err)
	}
	s.set(raw)
	n := CountKeys(raw)
	s.pub.Publish(ctx, events.TopicCredentialsSaved, events.CredentialsSaved{Count: n}, nil)
	return n, nil
}

func (s *KeyStore) set(raw string) {
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	monitoring.KeyPoolSize.Set(float64(CountKeys(raw)))
}

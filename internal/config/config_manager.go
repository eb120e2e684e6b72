package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/events"
)

// Manager owns the live configuration and reloads it when the file changes.
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	stopCh     chan struct{}
	stopOnce   sync.Once
	onChange   []func(*Config)
	lastMod    time.Time
	publisher  events.Publisher
}

// ChangeEvent is the payload broadcast on events.TopicConfigUpdated.
type ChangeEvent struct {
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
	Config    Config    `json:"config"`
}

// DiscoverPath returns the first existing default config location, or "".
func DiscoverPath() string {
	locations := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		filepath.Join(os.Getenv("HOME"), ".promptstudio", "config.yaml"),
		"/etc/promptstudio/config.yaml",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// NewManager loads configPath (discovering a default location when empty)
// and, if the file exists, starts watching it.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		configPath = DiscoverPath()
	}
	if strings.HasPrefix(configPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, configPath[1:])
	}

	cm := &Manager{
		configPath: configPath,
		stopCh:     make(chan struct{}),
	}
	if err := cm.load(); err != nil {
		if configPath != "" && !os.IsNotExist(err) {
			return nil, err
		}
		cfg, derr := Load("")
		if derr != nil {
			return nil, derr
		}
		cm.config = cfg
		log.WithField("path", configPath).Warn("using default configuration (no config file found)")
	}

	if cm.configPath != "" {
		if _, err := os.Stat(cm.configPath); err == nil {
			cm.startWatcher()
		}
	}
	return cm, nil
}

func (cm *Manager) load() error {
	if cm.configPath == "" {
		return os.ErrNotExist
	}
	info, err := os.Stat(cm.configPath)
	if err != nil {
		return err
	}
	cfg, err := Load(cm.configPath)
	if err != nil {
		return err
	}
	cm.mu.Lock()
	cm.config = cfg
	cm.lastMod = info.ModTime()
	cm.mu.Unlock()
	log.WithField("path", cm.configPath).Info("configuration loaded")
	return nil
}

// Path returns the watched file, or "" when running on defaults.
func (cm *Manager) Path() string { return cm.configPath }

// Get returns a copy of the current configuration.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	c := *cm.config
	return &c
}

// OnChange registers a callback for configuration changes
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.onChange = append(cm.onChange, fn)
}

// SetEventPublisher wires the event hub used to broadcast config updates.
func (cm *Manager) SetEventPublisher(p events.Publisher) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.publisher = p
}

// Close stops the watcher.
func (cm *Manager) Close() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}

func (cm *Manager) listenersSnapshot() ([]func(*Config), events.Publisher) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	callbacks := make([]func(*Config), len(cm.onChange))
	copy(callbacks, cm.onChange)
	return callbacks, cm.publisher
}

func (cm *Manager) emitChange(newCfg *Config) {
	callbacks, publisher := cm.listenersSnapshot()
	for _, fn := range callbacks {
		fn(newCfg)
	}
	if publisher != nil {
		publisher.Publish(context.Background(), events.TopicConfigUpdated, ChangeEvent{
			Path:      cm.configPath,
			UpdatedAt: time.Now().UTC(),
			Config:    *newCfg,
		}, nil)
	}
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

func (cm *Manager) startWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("failed to create file watcher, falling back to polling")
		cm.startPollingWatcher()
		return
	}

	// 监听目录以捕获原子写入（rename）
	configDir := filepath.Dir(cm.configPath)
	if err := watcher.Add(configDir); err != nil {
		log.WithError(err).WithField("dir", configDir).Warn("failed to watch config directory, falling back to polling")
		watcher.Close()
		cm.startPollingWatcher()
		return
	}
	target := filepath.Clean(cm.configPath)

	log.WithField("path", cm.configPath).Info("file watcher started using fsnotify")

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		debounceDuration := 100 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(debounceDuration, cm.checkAndReload)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("file watcher error")

			case <-cm.stopCh:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()
}

// startPollingWatcher is a fallback when fsnotify is not available
func (cm *Manager) startPollingWatcher() {
	ticker := time.NewTicker(5 * time.Second)
	log.WithField("interval", "5s").Info("file watcher started using polling")

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cm.checkAndReload()
			case <-cm.stopCh:
				return
			}
		}
	}()
}

func (cm *Manager) checkAndReload() {
	info, err := os.Stat(cm.configPath)
	if err != nil {
		return
	}
	cm.mu.RLock()
	lastMod := cm.lastMod
	cm.mu.RUnlock()
	if !info.ModTime().After(lastMod) {
		return
	}

	old := cm.Get()
	if err := cm.load(); err != nil {
		log.WithError(err).WithField("path", cm.configPath).Warn("failed to reload config")
		return
	}
	updated := cm.Get()
	cm.logConfigChanges(old, updated)
	cm.emitChange(updated)
}

func (cm *Manager) logConfigChanges(old, new *Config) {
	if old.Server.Debug != new.Server.Debug {
		log.WithFields(log.Fields{"field": "server.debug", "old": old.Server.Debug, "new": new.Server.Debug}).Info("config changed")
	}
	if old.Gemini.Model != new.Gemini.Model {
		log.WithFields(log.Fields{"field": "gemini.model", "old": old.Gemini.Model, "new": new.Gemini.Model}).Info("config changed")
	}
	if old.RateLimit != new.RateLimit {
		log.WithFields(log.Fields{"field": "rate_limit", "old": old.RateLimit, "new": new.RateLimit}).Info("config changed")
	}
	if old.Server.Port != new.Server.Port {
		log.WithFields(log.Fields{"field": "server.port", "old": old.Server.Port, "new": new.Server.Port}).Warn("port change requires restart")
	}
}

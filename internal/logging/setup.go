package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/config"
)

var (
	logMux        sync.Mutex
	logFileHandle *os.File
)

// Setup configures the global logrus logger from cfg. It can be called again
// on every config reload; the previous log file is closed.
func Setup(cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}
	logMux.Lock()
	defer logMux.Unlock()

	log.SetFormatter(formatterFor(cfg.Server))
	log.SetLevel(levelFor(cfg.Server))

	if logFileHandle != nil {
		_ = logFileHandle.Close()
		logFileHandle = nil
	}
	if cfg.Server.LogFile == "" {
		log.SetOutput(os.Stdout)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Server.LogFile), 0o755); err != nil {
		log.SetOutput(os.Stdout)
		return fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.Server.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(os.Stdout)
		return fmt.Errorf("open log file: %w", err)
	}
	logFileHandle = file
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// 文本格式仅用于调试；默认 JSON
func formatterFor(s config.ServerConfig) log.Formatter {
	format := strings.ToLower(s.LogFormat)
	if format == "" && s.Debug {
		format = "text"
	}
	if format == "text" {
		return &log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339Nano}
	}
	return &log.JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func levelFor(s config.ServerConfig) log.Level {
	if s.LogLevel != "" {
		if lvl, err := log.ParseLevel(s.LogLevel); err == nil {
			return lvl
		}
	}
	if s.Debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

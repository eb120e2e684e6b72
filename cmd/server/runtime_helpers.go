package main

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/config"
	"promptstudio-go/internal/constants"
	"promptstudio-go/internal/credential"
	"promptstudio-go/internal/monitoring"
	"promptstudio-go/internal/runtime"
	store "promptstudio-go/internal/storage"
	"promptstudio-go/internal/upstream/gemini"
)

func storageOptions(cfg *config.Config) store.Options {
	return store.Options{
		Backend:       cfg.Storage.Backend,
		BaseDir:       cfg.Storage.BaseDir,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
		RedisPrefix:   cfg.Storage.RedisPrefix,
	}
}

// buildStorageBackend opens the configured backend. When it cannot be
// reached the process degrades to the file backend, then to memory.
func buildStorageBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageInitTimeout)
	defer cancel()

	opts := storageOptions(cfg)
	backend, err := store.Open(ctx, opts)
	if err == nil {
		return backend, nil
	}
	if strings.EqualFold(opts.Backend, "memory") || strings.EqualFold(opts.Backend, "file") {
		return nil, err
	}
	// 存储后端初始化失败时降级为文件后端，避免服务无法启动
	log.WithError(err).WithField("backend", opts.Backend).Warn("storage backend unavailable; falling back to file backend")
	opts.Backend = "file"
	backend, err = store.Open(ctx, opts)
	if err == nil {
		return backend, nil
	}
	log.WithError(err).Error("file backend fallback failed; keys will not survive restarts")
	opts.Backend = "memory"
	return store.Open(ctx, opts)
}

func dialerOptions(cfg *config.Config) gemini.Options {
	g := cfg.Gemini
	return gemini.Options{
		Endpoint:              g.Endpoint,
		Model:                 g.Model,
		ProxyURL:              g.ProxyURL,
		Temperature:           g.Temperature,
		MaxTokens:             g.MaxTokens,
		DialTimeout:           g.DialTimeout(),
		TLSHandshakeTimeout:   g.TLSHandshakeTimeout(),
		ResponseHeaderTimeout: g.ResponseHeaderTimeout(),
		RequestTimeout:        g.RequestTimeout(),
	}
}

// keySeeds lists where initial keys come from when storage holds none:
// the environment first, then api_keys from the config file.
func keySeeds(cfg *config.Config) []credential.Source {
	seeds := []credential.Source{credential.NewEnvSource()}
	if len(cfg.APIKeys) > 0 {
		seeds = append(seeds, credential.NewStaticSource("config", strings.Join(cfg.APIKeys, "\n")))
	}
	return seeds
}

// storageProbe keeps promptstudio_storage_up current between /healthz calls.
func storageProbe(backend store.Backend) runtime.TaskFunc {
	label := store.DetectBackendLabel(backend)
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, constants.HealthCheckTimeout)
		defer cancel()
		if err := backend.Health(ctx); err != nil {
			monitoring.StorageUp.WithLabelValues(label).Set(0)
			return err
		}
		monitoring.StorageUp.WithLabelValues(label).Set(1)
		return nil
	}
}

// withFlags returns a copy of cfg with command-line overrides applied.
func withFlags(cfg *config.Config, debug bool) *config.Config {
	out := *cfg
	if debug {
		out.Server.Debug = true
	}
	return &out
}

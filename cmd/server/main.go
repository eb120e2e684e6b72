package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/config"
	"promptstudio-go/internal/constants"
	"promptstudio-go/internal/credential"
	"promptstudio-go/internal/events"
	"promptstudio-go/internal/logging"
	tracing "promptstudio-go/internal/monitoring/tracing"
	"promptstudio-go/internal/runtime"
	srv "promptstudio-go/internal/server"
	"promptstudio-go/internal/studio"
	"promptstudio-go/internal/taxonomy"
	"promptstudio-go/internal/upstream/gemini"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (default: discovered)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cm, err := config.NewManager(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	defer cm.Close()
	cfg := withFlags(cm.Get(), *debug)
	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}
	cm.OnChange(func(next *config.Config) {
		if err := logging.Setup(withFlags(next, *debug)); err != nil {
			log.WithError(err).Warn("failed to reconfigure logging")
		}
	})

	traceShutdown, err := tracing.Init(context.Background(), tracing.OptionsFromEnv())
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	if traceShutdown != nil {
		defer func() {
			if err := traceShutdown(context.Background()); err != nil {
				log.WithError(err).Warn("failed to shutdown tracing")
			}
		}()
	}
	log.WithFields(log.Fields{"version": constants.GetFullVersion(), "config": cm.Path()}).Info("Starting PromptStudio-Go")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := events.NewHub()
	cm.SetEventPublisher(hub)
	broadcaster := events.NewBroadcaster(constants.StatusHistorySize, cfg.Server.WSMaxConns)
	detach := broadcaster.Attach(hub, events.TopicStudioStatus, events.TopicCredentialsSaved)
	defer func() {
		detach()
		broadcaster.Stop()
	}()

	backend, err := buildStorageBackend(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("no storage backend available")
	}
	defer func() { _ = backend.Close() }()

	keys := credential.NewKeyStore(backend, hub, keySeeds(cfg)...)
	if err := keys.Load(ctx); err != nil {
		// 读取失败不阻断启动，所有功能会走兜底
		log.WithError(err).Warn("failed to load api keys")
	}

	service := studio.New(keys, gemini.NewDialer(dialerOptions(cfg)), taxonomy.MustLoad(), studio.WithPublisher(hub))
	engine := srv.BuildEngine(cfg, srv.Dependencies{
		Service:     service,
		Keys:        keys,
		Storage:     backend,
		Broadcaster: broadcaster,
		Config:      cm.Get,
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: engine}
	tasks := runtime.NewTaskManager(ctx)
	_ = tasks.Start("http", func(context.Context) error {
		log.Infof("PromptStudio listening on :%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	_ = tasks.StartPeriodic("storage-probe", constants.StorageProbeInterval, storageProbe(backend))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("Shutdown signal received")
	case name := <-tasks.Failed():
		log.WithField("task", name).Error("background task failed; shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
	if err := tasks.StopAll(shutdownCtx); err != nil {
		log.WithError(err).Warn("background tasks did not stop in time")
	}
	log.Info("Server stopped")
}

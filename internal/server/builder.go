package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/config"
	"promptstudio-go/internal/constants"
	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/events"
	studioh "promptstudio-go/internal/handlers/studio"
	mw "promptstudio-go/internal/middleware"
	store "promptstudio-go/internal/storage"
	"promptstudio-go/internal/studio"
)

// Dependencies encapsulates runtime services required to build the HTTP engine.
type Dependencies struct {
	Service     *studio.Service
	Keys        studioh.KeyStore
	Storage     store.Backend
	Broadcaster *events.Broadcaster
	// Config returns the live configuration; management key checks follow reloads.
	Config func() *config.Config
}

// BuildEngine constructs the studio Gin engine.
func BuildEngine(cfg *config.Config, deps Dependencies) *gin.Engine {
	get := deps.Config
	if get == nil {
		get = func() *config.Config { return cfg }
	}

	engine := gin.New()
	applyStandardEngineSettings(engine, cfg)

	engine.GET("/healthz", healthHandler(deps.Storage))
	engine.GET("/metrics", mw.MetricsHandler)

	guard := mw.ManagementGuard(
		func() bool { return get().ManagementEnabled() },
		config.ManagementKeyValidator(get),
	)
	studioh.New(deps.Service, deps.Keys).RegisterRoutes(engine, guard, deps.Broadcaster)

	engine.NoRoute(func(c *gin.Context) {
		apierrors.WriteError(c, http.StatusNotFound, "route not found: "+c.Request.URL.Path)
	})
	log.WithField("ws_max_conns", cfg.Server.WSMaxConns).Debug("studio engine built")
	return engine
}

// healthHandler reports ok when the storage backend answers a health probe.
func healthHandler(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		if backend == nil {
			c.String(http.StatusOK, "ok")
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), constants.HealthCheckTimeout)
		defer cancel()
		start := time.Now()
		if err := backend.Health(ctx); err != nil {
			log.WithError(err).WithField("backend", store.DetectBackendLabel(backend)).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"storage": store.DetectBackendLabel(backend),
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"storage":    store.DetectBackendLabel(backend),
			"latency_ms": time.Since(start).Milliseconds(),
		})
	}
}

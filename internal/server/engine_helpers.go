package server

import (
	"github.com/gin-gonic/gin"

	"promptstudio-go/internal/config"
	"promptstudio-go/internal/constants"
	mw "promptstudio-go/internal/middleware"
)

// applyStandardEngineSettings installs the common middleware chain.
func applyStandardEngineSettings(engine *gin.Engine, cfg *config.Config) {
	if !cfg.Server.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	_ = engine.SetTrustedProxies(nil)
	engine.MaxMultipartMemory = constants.MaxImageUploadBytes

	engine.Use(mw.Recovery(), mw.RequestID(), mw.RequestLogger())
	engine.Use(mw.CORS(cfg.Server.CORSOrigins))
	engine.Use(mw.Metrics())
	if cfg.RateLimit.Enabled {
		engine.Use(mw.RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
}

package studio

import (
	"github.com/gin-gonic/gin"

	"promptstudio-go/internal/events"
)

// RegisterRoutes mounts the studio API on r. guard protects key updates.
func (h *Handler) RegisterRoutes(r gin.IRouter, guard gin.HandlerFunc, b *events.Broadcaster) {
	api := r.Group("/api")
	api.GET("/taxonomy", h.Taxonomy)
	api.GET("/settings/keys", h.GetKeys)
	if guard != nil {
		api.PUT("/settings/keys", guard, h.PutKeys)
	} else {
		api.PUT("/settings/keys", h.PutKeys)
	}
	api.POST("/optimize", h.Optimize)
	api.POST("/suggest", h.Suggest)
	api.POST("/generate", h.Generate)
	api.POST("/lyrics", h.Lyrics)
	api.POST("/analyze-image", h.AnalyzeImage)
	api.POST("/prompt/assemble", h.Assemble)

	if b != nil {
		r.GET("/ws/status", StatusStream(b))
	}
}

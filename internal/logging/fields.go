package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// gin context keys shared by middleware and handlers.
const (
	KeyRequestID = "request_id"
	KeyFeature   = "feature"
	KeySource    = "source"
)

// Tag records which studio feature served the request and whether the answer
// came from the model or a fallback. Request logs pick both up.
func Tag(c *gin.Context, feature, source string) {
	c.Set(KeyFeature, feature)
	c.Set(KeySource, source)
}

// WithReq builds a log entry with request_id, method, path and ip, plus
// feature/source when a handler tagged the request. Extras win on conflicts.
func WithReq(c *gin.Context, extras log.Fields) *log.Entry {
	if c == nil || c.Request == nil {
		return log.WithFields(extras)
	}
	path := c.FullPath()
	if path == "" && c.Request.URL != nil {
		path = c.Request.URL.Path
	}
	fields := log.Fields{
		"request_id": c.GetString(KeyRequestID),
		"method":     c.Request.Method,
		"path":       path,
		"ip":         c.ClientIP(),
	}
	if v := c.GetString(KeyFeature); v != "" {
		fields[KeyFeature] = v
	}
	if v := c.GetString(KeySource); v != "" {
		fields[KeySource] = v
	}
	for k, v := range extras {
		fields[k] = v
	}
	return log.WithFields(fields)
}

// DurationMS converts a duration to integer milliseconds for logging.
func DurationMS(d time.Duration) int64 { return d.Milliseconds() }

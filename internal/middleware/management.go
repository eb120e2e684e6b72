package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/logging"
	"promptstudio-go/internal/monitoring"
	"promptstudio-go/internal/netutil"
)

// ManagementGuard protects key-changing routes. When enabled reports false
// every request passes; otherwise the token must satisfy validate.
func ManagementGuard(enabled func() bool, validate func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled == nil || !enabled() {
			monitoring.ManagementAccessTotal.WithLabelValues("open").Inc()
			c.Next()
			return
		}
		token := managementToken(c)
		if token == "" {
			monitoring.ManagementAccessTotal.WithLabelValues("missing").Inc()
			apierrors.WriteError(c, http.StatusUnauthorized, "management key required")
			return
		}
		if !validate(token) {
			monitoring.ManagementAccessTotal.WithLabelValues("denied").Inc()
			logging.WithReq(c, log.Fields{"client_source": netutil.ClientSource(c)}).Warn("management key rejected")
			apierrors.WriteError(c, http.StatusForbidden, "invalid management key")
			return
		}
		monitoring.ManagementAccessTotal.WithLabelValues("granted").Inc()
		c.Next()
	}
}

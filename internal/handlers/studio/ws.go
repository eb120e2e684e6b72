package studio

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/events"
	"promptstudio-go/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StatusStream upgrades to a websocket that relays studio status events.
func StatusStream(b *events.Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		if b.ConnectionCount() >= b.MaxConnections() {
			apierrors.WriteError(c, http.StatusServiceUnavailable, events.ErrMaxConnectionsReached.Error())
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.WithReq(c, nil).WithError(err).Warn("websocket upgrade failed")
			return
		}
		if err := b.Serve(c.Request.Context(), conn); err != nil && !errors.Is(err, events.ErrMaxConnectionsReached) {
			logging.WithReq(c, log.Fields{"error": err.Error()}).Debug("status stream closed")
		}
	}
}

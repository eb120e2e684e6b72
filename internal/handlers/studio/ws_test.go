package studio

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"promptstudio-go/internal/events"
	"promptstudio-go/internal/monitoring"
)

func TestStatusStreamClientGaugeTracksConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b := events.NewBroadcaster(8, 4)
	r := gin.New()
	r.GET("/ws/status", StatusStream(b))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/status"
	for i := 0; i < 2; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		require.Eventually(t, func() bool { return b.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)
		require.Equal(t, float64(1), testutil.ToFloat64(monitoring.WebSocketClients))

		require.NoError(t, conn.Close())
		require.Eventually(t, func() bool { return b.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
		require.Eventually(t, func() bool {
			return testutil.ToFloat64(monitoring.WebSocketClients) == 0
		}, 2*time.Second, 10*time.Millisecond)
	}
	require.Never(t, func() bool {
		return testutil.ToFloat64(monitoring.WebSocketClients) != 0
	}, 100*time.Millisecond, 10*time.Millisecond)
}

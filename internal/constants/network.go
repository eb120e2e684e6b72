package constants

import "time"

// HTTP Client 连接池配置。每次调用只有一个在途请求，保守即可。
const (
	BaseMaxIdleConns        = 64
	BaseMaxIdleConnsPerHost = 16
	BaseIdleConnTimeout     = 90 * time.Second

	DefaultKeepAlive = 30 * time.Second
)

// HTTP 超时配置
const (
	DefaultDialTimeout           = 10 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 60 * time.Second
	DefaultExpectContinueTimeout = 2 * time.Second
)

// MaxImageUploadBytes bounds multipart image uploads for image analysis.
const MaxImageUploadBytes = 8 << 20

// StatusHistorySize is how many studio.status messages a new WebSocket client can replay.
const StatusHistorySize = 128

package constants

import "time"

const (
	// UpstreamGenerateTimeout enforces max duration for a single generateContent attempt.
	UpstreamGenerateTimeout = 90 * time.Second
	// ServerShutdownTimeout bounds graceful HTTP server shutdown.
	ServerShutdownTimeout = 30 * time.Second
	// StorageInitTimeout bounds backend initialization at startup.
	StorageInitTimeout = 10 * time.Second
	// HealthCheckTimeout bounds the storage probe behind /healthz.
	HealthCheckTimeout = 3 * time.Second
	// StorageProbeInterval is how often the server re-checks storage health.
	StorageProbeInterval = 30 * time.Second
)

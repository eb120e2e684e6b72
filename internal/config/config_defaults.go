package config

import (
	"promptstudio-go/internal/constants"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
			WSMaxConns:  64,
		},
		Storage: StorageConfig{
			Backend:     "auto",
			BaseDir:     "./data",
			RedisPrefix: "promptstudio:",
		},
		Gemini: GeminiConfig{
			Endpoint:                 constants.DefaultEndpoint,
			Model:                    constants.DefaultModel,
			Temperature:              constants.DefaultTemperature,
			MaxTokens:                constants.MaxOutputTokens,
			DialTimeoutSec:           int(constants.DefaultDialTimeout.Seconds()),
			TLSHandshakeTimeoutSec:   int(constants.DefaultTLSHandshakeTimeout.Seconds()),
			ResponseHeaderTimeoutSec: int(constants.DefaultResponseHeaderTimeout.Seconds()),
			RequestTimeoutSec:        int(constants.UpstreamGenerateTimeout.Seconds()),
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
	}
}

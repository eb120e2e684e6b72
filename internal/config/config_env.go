package config

import (
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROMPTSTUDIO_"

func env(name string) string { return getenv(EnvPrefix+name, "") }

// mergeEnv overlays PROMPTSTUDIO_* variables onto cfg. Unset variables leave
// the current value alone.
func mergeEnv(cfg *Config) {
	setIntFromEnv(EnvPrefix+"PORT", func(v int) { cfg.Server.Port = v })
	setToggleFromEnv(EnvPrefix+"DEBUG", func(v bool) { cfg.Server.Debug = v })
	if v := env("LOG_FILE"); v != "" {
		cfg.Server.LogFile = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = strings.ToLower(v)
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Server.LogFormat = strings.ToLower(v)
	}
	if v := env("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitAndTrim(v, ",")
	}
	setIntFromEnv(EnvPrefix+"WS_MAX_CONNS", func(v int) { cfg.Server.WSMaxConns = v })

	if v := env("MANAGEMENT_KEY"); v != "" {
		cfg.Security.ManagementKey = v
	}
	if v := env("MANAGEMENT_KEY_HASH"); v != "" {
		cfg.Security.ManagementKeyHash = v
	}

	if v := env("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := env("STORAGE_BASE_DIR"); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := env("REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := env("REDIS_PASSWORD"); v != "" {
		cfg.Storage.RedisPassword = v
	}
	setIntFromEnv(EnvPrefix+"REDIS_DB", func(v int) { cfg.Storage.RedisDB = v })
	if v := env("REDIS_PREFIX"); v != "" {
		cfg.Storage.RedisPrefix = v
	}

	if v := env("GEMINI_ENDPOINT"); v != "" {
		cfg.Gemini.Endpoint = v
	}
	if v := env("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	cfg.Gemini.ProxyURL = firstNonEmpty(env("PROXY_URL"), cfg.Gemini.ProxyURL)
	if v := env("GEMINI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Gemini.Temperature = f
		}
	}
	setIntFromEnv(EnvPrefix+"GEMINI_MAX_OUTPUT_TOKENS", func(v int) { cfg.Gemini.MaxTokens = v })
	setIntFromEnv(EnvPrefix+"DIAL_TIMEOUT_SEC", func(v int) { cfg.Gemini.DialTimeoutSec = v })
	setIntFromEnv(EnvPrefix+"TLS_HANDSHAKE_TIMEOUT_SEC", func(v int) { cfg.Gemini.TLSHandshakeTimeoutSec = v })
	setIntFromEnv(EnvPrefix+"RESPONSE_HEADER_TIMEOUT_SEC", func(v int) { cfg.Gemini.ResponseHeaderTimeoutSec = v })
	setIntFromEnv(EnvPrefix+"REQUEST_TIMEOUT_SEC", func(v int) { cfg.Gemini.RequestTimeoutSec = v })

	setToggleFromEnv(EnvPrefix+"RATE_LIMIT_ENABLED", func(v bool) { cfg.RateLimit.Enabled = v })
	setIntFromEnv(EnvPrefix+"RATE_LIMIT_RPS", func(v int) { cfg.RateLimit.RPS = v })
	setIntFromEnv(EnvPrefix+"RATE_LIMIT_BURST", func(v int) { cfg.RateLimit.Burst = v })
}

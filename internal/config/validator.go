package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s=%s]: %s", e.Field, e.Value, e.Message)
}

// ValidationResult holds the results of configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Valid    bool
}

// AddError adds a validation error
func (r *ValidationResult) AddError(field, value, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
	r.Valid = false
}

// AddWarning adds a validation warning
func (r *ValidationResult) AddWarning(field, value, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: message})
}

var validBackends = []string{"auto", "file", "redis", "memory"}

var validLogLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}

// Validate validates the configuration and returns validation results
func (c *Config) Validate() ValidationResult {
	result := ValidationResult{Valid: true}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		result.AddError("server.port", strconv.Itoa(c.Server.Port), "port must be between 1 and 65535")
	}
	if c.Server.LogLevel != "" && !contains(validLogLevels, c.Server.LogLevel) {
		result.AddError("server.log_level", c.Server.LogLevel,
			fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	if c.Server.LogFormat != "" && c.Server.LogFormat != "json" && c.Server.LogFormat != "text" {
		result.AddError("server.log_format", c.Server.LogFormat, "must be json or text")
	}
	if c.Server.WSMaxConns < 0 {
		result.AddError("server.ws_max_conns", strconv.Itoa(c.Server.WSMaxConns), "must not be negative")
	}

	if !contains(validBackends, c.Storage.Backend) {
		result.AddError("storage.backend", c.Storage.Backend,
			fmt.Sprintf("must be one of: %s", strings.Join(validBackends, ", ")))
	}
	switch c.Storage.Backend {
	case "redis":
		if c.Storage.RedisAddr == "" {
			result.AddError("storage.redis_addr", "", "required when using redis backend")
		}
	case "file":
		if c.Storage.BaseDir == "" {
			result.AddWarning("storage.base_dir", "", "using default directory")
		}
	case "memory":
		result.AddWarning("storage.backend", "memory", "saved api keys are lost on restart")
	}

	if c.Gemini.Endpoint != "" {
		if u, err := url.Parse(c.Gemini.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			result.AddError("gemini.endpoint", c.Gemini.Endpoint, "invalid URL format")
		}
	}
	if c.Gemini.ProxyURL != "" {
		if _, err := url.Parse(c.Gemini.ProxyURL); err != nil {
			result.AddError("gemini.proxy_url", c.Gemini.ProxyURL, "invalid proxy URL format")
		}
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		result.AddWarning("gemini.temperature", strconv.FormatFloat(c.Gemini.Temperature, 'f', -1, 64),
			"temperature should be between 0 and 2")
	}
	if c.Gemini.DialTimeoutSec < 1 || c.Gemini.DialTimeoutSec > 300 {
		result.AddWarning("gemini.dial_timeout_sec", strconv.Itoa(c.Gemini.DialTimeoutSec),
			"dial_timeout_sec should be between 1 and 300")
	}
	if c.Gemini.ResponseHeaderTimeoutSec < 1 || c.Gemini.ResponseHeaderTimeoutSec > 600 {
		result.AddWarning("gemini.response_header_timeout_sec", strconv.Itoa(c.Gemini.ResponseHeaderTimeoutSec),
			"response_header_timeout_sec should be between 1 and 600")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			result.AddError("rate_limit.rps", strconv.Itoa(c.RateLimit.RPS),
				"must be positive when rate limiting is enabled")
		}
		if c.RateLimit.Burst <= 0 {
			result.AddError("rate_limit.burst", strconv.Itoa(c.RateLimit.Burst),
				"must be positive when rate limiting is enabled")
		}
	}

	if c.Security.ManagementKey == "" && c.Security.ManagementKeyHash == "" {
		result.AddWarning("security.management_key", "", "no management key set, anyone can replace the api keys")
	}

	return result
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

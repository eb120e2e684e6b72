package config

import "golang.org/x/crypto/bcrypt"

// ManagementEnabled reports whether key updates require a management key.
func (c *Config) ManagementEnabled() bool {
	return c != nil && (c.Security.ManagementKey != "" || c.Security.ManagementKeyHash != "")
}

// CheckManagementKey verifies whether the provided key matches the configured management credential.
func CheckManagementKey(cfg *Config, candidate string) bool {
	if cfg == nil || candidate == "" {
		return false
	}
	if cfg.Security.ManagementKey != "" && candidate == cfg.Security.ManagementKey {
		return true
	}
	if cfg.Security.ManagementKeyHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.Security.ManagementKeyHash), []byte(candidate)); err == nil {
			return true
		}
	}
	return false
}

// ManagementKeyValidator returns a closure suitable for middleware validation.
// The closure reads the latest configuration on every call.
func ManagementKeyValidator(get func() *Config) func(string) bool {
	return func(candidate string) bool {
		return CheckManagementKey(get(), candidate)
	}
}

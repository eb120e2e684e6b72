package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeFile parses path into a copy of base. The extension picks the codec;
// unknown extensions try YAML then JSON.
func decodeFile(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON)")
			}
		}
	}
	return &cfg, nil
}

// Load builds a configuration from defaults, the optional file at path and
// the environment, then expands paths and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fromFile, err := decodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = fromFile
	}
	mergeEnv(cfg)
	if err := cfg.ValidateAndExpandPaths(); err != nil {
		return nil, err
	}
	if res := cfg.Validate(); !res.Valid {
		return nil, res.Errors[0]
	}
	return cfg, nil
}

// expandPath expands ~ and environment variables in file paths
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %v", err)
		}
		path = filepath.Join(home, path[2:])
	}
	path = os.ExpandEnv(path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot convert to absolute path: %v", err)
	}
	return absPath, nil
}

// ValidateAndExpandPaths expands file paths in place.
func (c *Config) ValidateAndExpandPaths() error {
	var err error
	if c.Storage.BaseDir != "" {
		if c.Storage.BaseDir, err = expandPath(c.Storage.BaseDir); err != nil {
			return fmt.Errorf("invalid storage.base_dir path: %v", err)
		}
	}
	if c.Server.LogFile != "" {
		if c.Server.LogFile, err = expandPath(c.Server.LogFile); err != nil {
			return fmt.Errorf("invalid server.log_file path: %v", err)
		}
	}
	return nil
}

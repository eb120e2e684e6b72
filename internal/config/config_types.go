package config

import "time"

// Config 主配置结构体，按功能域划分。文件与环境变量都映射到这里。
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Security  SecurityConfig  `yaml:"security" json:"security"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Gemini    GeminiConfig    `yaml:"gemini" json:"gemini"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// APIKeys seeds the key pool when storage holds nothing yet.
	APIKeys []string `yaml:"api_keys" json:"api_keys"`
}

// ServerConfig HTTP 服务相关配置
type ServerConfig struct {
	Port        int      `yaml:"port" json:"port"`
	Debug       bool     `yaml:"debug" json:"debug"`
	LogFile     string   `yaml:"log_file" json:"log_file"`
	LogLevel    string   `yaml:"log_level" json:"log_level"`
	LogFormat   string   `yaml:"log_format" json:"log_format"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
	// WSMaxConns caps concurrent /ws/status clients.
	WSMaxConns int `yaml:"ws_max_conns" json:"ws_max_conns"`
}

// SecurityConfig 管理密钥。两者都为空时 PUT /api/settings/keys 不做校验。
type SecurityConfig struct {
	ManagementKey     string `yaml:"management_key" json:"-"`
	ManagementKeyHash string `yaml:"management_key_hash" json:"-"`
}

// StorageConfig 存储后端配置
type StorageConfig struct {
	Backend       string `yaml:"backend" json:"backend"`
	BaseDir       string `yaml:"base_dir" json:"base_dir"`
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"-"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix" json:"redis_prefix"`
}

// GeminiConfig 上游 generateContent 配置
type GeminiConfig struct {
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	Model       string  `yaml:"model" json:"model"`
	ProxyURL    string  `yaml:"proxy_url" json:"proxy_url"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_output_tokens" json:"max_output_tokens"`

	DialTimeoutSec           int `yaml:"dial_timeout_sec" json:"dial_timeout_sec"`
	TLSHandshakeTimeoutSec   int `yaml:"tls_handshake_timeout_sec" json:"tls_handshake_timeout_sec"`
	ResponseHeaderTimeoutSec int `yaml:"response_header_timeout_sec" json:"response_header_timeout_sec"`
	RequestTimeoutSec        int `yaml:"request_timeout_sec" json:"request_timeout_sec"`
}

// RateLimitConfig 每个客户端的令牌桶限流
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	RPS     int  `yaml:"rps" json:"rps"`
	Burst   int  `yaml:"burst" json:"burst"`
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// DialTimeout converts DialTimeoutSec.
func (g GeminiConfig) DialTimeout() time.Duration { return seconds(g.DialTimeoutSec) }

func (g GeminiConfig) TLSHandshakeTimeout() time.Duration { return seconds(g.TLSHandshakeTimeoutSec) }

func (g GeminiConfig) ResponseHeaderTimeout() time.Duration {
	return seconds(g.ResponseHeaderTimeoutSec)
}

func (g GeminiConfig) RequestTimeout() time.Duration { return seconds(g.RequestTimeoutSec) }

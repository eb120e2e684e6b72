package constants

// Retryable upstream status codes. Anything else aborts key rotation.
const (
	StatusTooManyRequests    = 429
	StatusInternalError      = 500
	StatusServiceUnavailable = 503
)

// RateLimitMessageHint is matched case-insensitively against failure messages
// that carry no status code.
const RateLimitMessageHint = "too many requests"

// 错误处理配置
const (
	MaxErrorMessageLength = 200
	KeySuffixLength       = 4
)

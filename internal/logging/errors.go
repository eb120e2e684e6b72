package logging

import "net/http"

// ErrorKind labels a finished request for logs.
func ErrorKind(status int, hasErr bool) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "denied"
	case status == http.StatusRequestEntityTooLarge:
		return "too_large"
	case status >= 500 && status < 600:
		return "server_error"
	case status >= 400 && status < 500:
		return "client_error"
	}
	if hasErr {
		return "error"
	}
	return "ok"
}

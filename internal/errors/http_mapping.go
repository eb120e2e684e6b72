package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const maxUpstreamMessage = 200

// FromResponse builds a BackendError from a non-2xx status and the raw body.
func FromResponse(statusCode int, body []byte) *BackendError {
	msg, reason := extractUpstreamMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d error", statusCode)
	}
	if reason == "" {
		reason = StatusName(statusCode)
	}
	return &BackendError{Status: statusCode, Message: msg, Reason: reason}
}

func extractUpstreamMessage(body []byte) (string, string) {
	if len(body) == 0 {
		return "", ""
	}
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		if m := res.Get("error.message").String(); m != "" {
			return m, res.Get("error.status").String()
		}
	}
	msg := []rune(string(body))
	if len(msg) > maxUpstreamMessage {
		return string(msg[:maxUpstreamMessage]) + "...", ""
	}
	return string(msg), ""
}

// StatusName maps an HTTP status to the Gemini symbolic status.
func StatusName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_ARGUMENT"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "PERMISSION_DENIED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RESOURCE_EXHAUSTED"
	case http.StatusInternalServerError:
		return "INTERNAL"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	case http.StatusGatewayTimeout:
		return "DEADLINE_EXCEEDED"
	default:
		return "UNKNOWN"
	}
}

// NewEnvelope fills a GeminiError for the given status and message.
func NewEnvelope(status int, msg string) GeminiError {
	var env GeminiError
	env.Error.Code = status
	env.Error.Message = msg
	env.Error.Status = StatusName(status)
	return env
}

// WriteError aborts the gin request with a Gemini-style error body.
func WriteError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, NewEnvelope(status, msg))
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel errors shared by the invoker, the feature services and the HTTP layer.
var (
	// ErrNoCredentials means the key pool is empty; no AI call was made.
	ErrNoCredentials = stderrors.New("no api keys configured")
	// ErrExhausted means every key failed with a retryable error.
	ErrExhausted = stderrors.New("all api keys exhausted")
	// ErrShape means the backend answered but the payload was unusable.
	ErrShape = stderrors.New("unexpected response shape")
	// ErrEmptyInput rejects a feature request whose required text is blank.
	ErrEmptyInput = stderrors.New("input is empty")
)

// BackendError is a non-2xx answer from the generative backend.
type BackendError struct {
	Status  int
	Message string
	// Reason is the backend's symbolic status (e.g. RESOURCE_EXHAUSTED).
	Reason string
}

func (e *BackendError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("backend status %d (%s): %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status reported by the backend.
func (e *BackendError) StatusCode() int { return e.Status }

// StatusOf extracts the backend status from err, or 0 when err is not a BackendError.
func StatusOf(err error) int {
	var be *BackendError
	if stderrors.As(err, &be) {
		return be.Status
	}
	return 0
}

// GeminiError mirrors the Gemini error envelope. It is used both to parse
// upstream failures and to shape this service's own error responses.
type GeminiError struct {
	Error struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Status  string                 `json:"status"`
		Details map[string]interface{} `json:"details,omitempty"`
	} `json:"error"`
}

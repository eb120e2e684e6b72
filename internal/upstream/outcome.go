package upstream

import (
	"errors"
	"strings"

	"promptstudio-go/internal/constants"
	apierrors "promptstudio-go/internal/errors"
)

// OutcomeKind is the class of a single attempt result.
type OutcomeKind int

const (
	// OutcomeSuccess stops rotation and returns the value.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRetryable moves on to the next key.
	OutcomeRetryable
	// OutcomeFatal stops rotation and surfaces the error.
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the classification of one attempt together with a short reason.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// Classify maps an attempt error onto an Outcome. Only backend statuses
// 429, 500 and 503, or a message mentioning "too many requests", rotate to
// the next key; every other failure is fatal.
func Classify(err error) Outcome {
	if err == nil {
		return Outcome{Kind: OutcomeSuccess}
	}
	var be *apierrors.BackendError
	if errors.As(err, &be) {
		switch be.Status {
		case constants.StatusTooManyRequests:
			return Outcome{Kind: OutcomeRetryable, Reason: "rate_limited"}
		case constants.StatusInternalError, constants.StatusServiceUnavailable:
			return Outcome{Kind: OutcomeRetryable, Reason: "overloaded"}
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), constants.RateLimitMessageHint) {
		return Outcome{Kind: OutcomeRetryable, Reason: "rate_limited"}
	}
	if be != nil {
		return Outcome{Kind: OutcomeFatal, Reason: strings.ToLower(apierrors.StatusName(be.Status))}
	}
	var te *apierrors.TransportError
	if errors.As(err, &te) {
		return Outcome{Kind: OutcomeFatal, Reason: te.Kind}
	}
	if errors.Is(err, apierrors.ErrShape) {
		return Outcome{Kind: OutcomeFatal, Reason: "shape"}
	}
	return Outcome{Kind: OutcomeFatal, Reason: apierrors.ClassifyTransport(err)}
}

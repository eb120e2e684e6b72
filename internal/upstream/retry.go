package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"promptstudio-go/internal/credential"
	apierrors "promptstudio-go/internal/errors"
)

// Attempt records one key's try within an invocation.
type Attempt struct {
	KeySuffix string        `json:"key"`
	Outcome   string        `json:"outcome"`
	Reason    string        `json:"reason,omitempty"`
	Status    int           `json:"status,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Result is what a successful or empty-pool invocation returns.
type Result[T any] struct {
	// Available is false when the key pool was empty and nothing was called.
	Available bool
	Value     T
	Attempts  []Attempt
}

// InvokeError is returned when rotation ends without a value. It wraps the
// cause (the fatal error, or the last retryable one joined with ErrExhausted)
// and carries the attempt log.
type InvokeError struct {
	Kind     OutcomeKind
	Attempts []Attempt
	Err      error
}

func (e *InvokeError) Error() string {
	state := "failed"
	if e.Kind == OutcomeRetryable {
		state = "exhausted"
	}
	return fmt.Sprintf("upstream %s after %d attempt(s): %v", state, len(e.Attempts), e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }

// AttemptsOf extracts the attempt log from an invocation error.
func AttemptsOf(err error) []Attempt {
	var ie *InvokeError
	if errors.As(err, &ie) {
		return ie.Attempts
	}
	return nil
}

type invokeOptions struct {
	observer func(context.Context, Attempt)
	logger   *log.Entry
}

// InvokeOption customizes Invoke.
type InvokeOption func(*invokeOptions)

// WithObserver registers a hook called after every attempt.
func WithObserver(fn func(context.Context, Attempt)) InvokeOption {
	return func(o *invokeOptions) { o.observer = fn }
}

// WithLogger sets the entry used for per-attempt logs.
func WithLogger(entry *log.Entry) InvokeOption {
	return func(o *invokeOptions) { o.logger = entry }
}

// Invoke runs op against the keys strictly in order, building a fresh client
// for each key with dial. The first success wins. A retryable failure moves on
// to the next key; a fatal one is returned at once. With no keys, op is never
// called and Result.Available is false.
func Invoke[C, T any](
	ctx context.Context,
	keys []string,
	dial func(key string) C,
	op func(ctx context.Context, client C) (T, error),
	opts ...InvokeOption,
) (Result[T], error) {
	o := invokeOptions{logger: log.NewEntry(log.StandardLogger())}
	for _, opt := range opts {
		opt(&o)
	}

	var res Result[T]
	if len(keys) == 0 {
		return res, nil
	}
	res.Available = true

	var lastRetryable error
	for i, key := range keys {
		start := time.Now()
		value, err := op(ctx, dial(key))
		outcome := Classify(err)
		at := Attempt{
			KeySuffix: credential.Suffix(key),
			Outcome:   outcome.Kind.String(),
			Reason:    outcome.Reason,
			Status:    apierrors.StatusOf(err),
			Duration:  time.Since(start),
		}
		res.Attempts = append(res.Attempts, at)
		if o.observer != nil {
			o.observer(ctx, at)
		}

		entry := o.logger.WithFields(log.Fields{
			"feature": Feature(ctx),
			"attempt": i + 1,
			"key":     at.KeySuffix,
			"status":  at.Status,
		})
		switch outcome.Kind {
		case OutcomeSuccess:
			res.Value = value
			entry.Debug("upstream attempt succeeded")
			return res, nil
		case OutcomeRetryable:
			entry.WithError(err).Warn("upstream attempt failed, rotating to next key")
			lastRetryable = err
		default:
			entry.WithError(err).Error("upstream attempt failed with fatal error")
			return res, &InvokeError{Kind: OutcomeFatal, Attempts: res.Attempts, Err: err}
		}
	}

	cause := apierrors.ErrExhausted
	if lastRetryable != nil {
		cause = fmt.Errorf("%w: %w", apierrors.ErrExhausted, lastRetryable)
	}
	return res, &InvokeError{Kind: OutcomeRetryable, Attempts: res.Attempts, Err: cause}
}

package upstream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "promptstudio-go/internal/errors"
)

// fakeClient answers from a per-key script.
type fakeClient struct {
	key    string
	script map[string]error
	text   string
}

func scripted(calls *[]string, script map[string]error, text string) (func(string) fakeClient, func(context.Context, fakeClient) (string, error)) {
	dial := func(key string) fakeClient { return fakeClient{key: key, script: script, text: text} }
	op := func(_ context.Context, c fakeClient) (string, error) {
		*calls = append(*calls, c.key)
		if err := c.script[c.key]; err != nil {
			return "", err
		}
		return c.text, nil
	}
	return dial, op
}

func TestInvokeEmptyPoolNeverCallsOp(t *testing.T) {
	var calls []string
	dial, op := scripted(&calls, nil, "x")
	res, err := Invoke(context.Background(), nil, dial, op)
	require.NoError(t, err)
	require.False(t, res.Available)
	require.Empty(t, calls)
	require.Empty(t, res.Attempts)
}

func TestInvokeRotatesPastRateLimits(t *testing.T) {
	var calls []string
	script := map[string]error{
		"key-one-aaaa": &apierrors.BackendError{Status: 429, Message: "quota"},
		"key-two-bbbb": &apierrors.BackendError{Status: 429, Message: "quota"},
	}
	dial, op := scripted(&calls, script, "Generated Lyrics")

	var observed []Attempt
	res, err := Invoke(context.Background(),
		[]string{"key-one-aaaa", "key-two-bbbb", "key-three-cccc"},
		dial, op,
		WithObserver(func(_ context.Context, a Attempt) { observed = append(observed, a) }),
	)
	require.NoError(t, err)
	require.True(t, res.Available)
	require.Equal(t, "Generated Lyrics", res.Value)
	require.Equal(t, []string{"key-one-aaaa", "key-two-bbbb", "key-three-cccc"}, calls)
	require.Len(t, res.Attempts, 3)
	require.Equal(t, "retryable", res.Attempts[0].Outcome)
	require.Equal(t, 429, res.Attempts[0].Status)
	require.Equal(t, "…aaaa", res.Attempts[0].KeySuffix)
	require.Equal(t, "success", res.Attempts[2].Outcome)
	require.Equal(t, res.Attempts, observed)
}

func TestInvokeStopsOnFatal(t *testing.T) {
	var calls []string
	script := map[string]error{"k1": &apierrors.BackendError{Status: 403, Message: "denied"}}
	dial, op := scripted(&calls, script, "unused")

	_, err := Invoke(context.Background(), []string{"k1", "k2"}, dial, op)
	require.Error(t, err)
	require.Equal(t, []string{"k1"}, calls)
	require.Equal(t, 403, apierrors.StatusOf(err))
	require.False(t, errors.Is(err, apierrors.ErrExhausted))

	var ie *InvokeError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, OutcomeFatal, ie.Kind)
	require.Len(t, ie.Attempts, 1)
}

func TestInvokeFatalAfterRetryableStopsRotation(t *testing.T) {
	var calls []string
	script := map[string]error{
		"k1": &apierrors.BackendError{Status: 429, Message: "quota"},
		"k2": &apierrors.BackendError{Status: 403, Message: "denied"},
	}
	dial, op := scripted(&calls, script, "never reached")

	res, err := Invoke(context.Background(), []string{"k1", "k2", "k3"}, dial, op)
	require.Error(t, err)
	require.True(t, res.Available)
	require.Equal(t, []string{"k1", "k2"}, calls)
	require.False(t, errors.Is(err, apierrors.ErrExhausted))

	var ie *InvokeError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, OutcomeFatal, ie.Kind)
	require.Len(t, ie.Attempts, 2)
	require.Equal(t, "retryable", ie.Attempts[0].Outcome)
	require.Equal(t, 403, ie.Attempts[1].Status)
}

func TestInvokeExhaustedReturnsLastRetryable(t *testing.T) {
	var calls []string
	script := map[string]error{
		"k1": &apierrors.BackendError{Status: 503, Message: "first"},
		"k2": &apierrors.BackendError{Status: 429, Message: "last"},
	}
	dial, op := scripted(&calls, script, "unused")

	_, err := Invoke(context.Background(), []string{"k1", "k2"}, dial, op)
	require.ErrorIs(t, err, apierrors.ErrExhausted)

	var be *apierrors.BackendError
	require.True(t, errors.As(err, &be))
	require.Equal(t, "last", be.Message)
	require.Len(t, AttemptsOf(err), 2)
}

func TestInvokeSuccessSkipsLaterKeys(t *testing.T) {
	var calls []string
	dial, op := scripted(&calls, nil, "ok")
	res, err := Invoke(context.Background(), []string{"k1", "k2", "k3"}, dial, op)
	require.NoError(t, err)
	require.Equal(t, "ok", res.Value)
	require.Equal(t, []string{"k1"}, calls)
}

package upstream

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "promptstudio-go/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want OutcomeKind
	}{
		{"nil", nil, OutcomeSuccess},
		{"429", &apierrors.BackendError{Status: 429}, OutcomeRetryable},
		{"500", &apierrors.BackendError{Status: 500}, OutcomeRetryable},
		{"503 wrapped", fmt.Errorf("call: %w", &apierrors.BackendError{Status: 503}), OutcomeRetryable},
		{"message hint", errors.New("Too Many Requests, slow down"), OutcomeRetryable},
		{"400", &apierrors.BackendError{Status: 400}, OutcomeFatal},
		{"401", &apierrors.BackendError{Status: 401}, OutcomeFatal},
		{"403", &apierrors.BackendError{Status: 403}, OutcomeFatal},
		{"404", &apierrors.BackendError{Status: 404}, OutcomeFatal},
		{"502", &apierrors.BackendError{Status: 502}, OutcomeFatal},
		{"403 with hint", &apierrors.BackendError{Status: 403, Message: "too many requests"}, OutcomeRetryable},
		{"transport", &apierrors.TransportError{Kind: apierrors.KindDNS, Err: errors.New("no such host")}, OutcomeFatal},
		{"context", context.Canceled, OutcomeFatal},
		{"shape", fmt.Errorf("decode: %w", apierrors.ErrShape), OutcomeFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err).Kind)
		})
	}
}

func TestFeatureContext(t *testing.T) {
	require.Equal(t, "unknown", Feature(context.Background()))
	require.Equal(t, "lyrics", Feature(WithFeature(context.Background(), "lyrics")))
}

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "promptstudio-go/internal/errors"
)

func newTestDialer(t *testing.T, handler http.HandlerFunc) *Dialer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDialerWithHTTPClient(Options{Endpoint: srv.URL, Model: "gemini-test", Temperature: 0.7}, srv.Client())
}

func TestGenerateSendsKeyAndParsesText(t *testing.T) {
	var gotKey, gotPath string
	var payload map[string]any
	d := newTestDialer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Generated "},{"text":"Lyrics"}]}}]}`))
	})

	text, err := d.Dial("key-123").Generate(context.Background(), TextRequest("write lyrics"))
	require.NoError(t, err)
	require.Equal(t, "Generated Lyrics", text)
	require.Equal(t, "key-123", gotKey)
	require.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)

	gen, ok := payload["generationConfig"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 0.7, gen["temperature"])
}

func TestGenerateMapsErrorEnvelope(t *testing.T) {
	d := newTestDialer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := d.Dial("k").Generate(context.Background(), TextRequest("x"))
	var be *apierrors.BackendError
	require.True(t, errors.As(err, &be))
	require.Equal(t, 429, be.Status)
	require.Equal(t, "Quota exceeded", be.Message)
	require.Equal(t, "RESOURCE_EXHAUSTED", be.Reason)
}

func TestGenerateEmptyCandidatesIsShapeError(t *testing.T) {
	d := newTestDialer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := d.Dial("k").Generate(context.Background(), TextRequest("x"))
	require.ErrorIs(t, err, apierrors.ErrShape)
	require.Contains(t, err.Error(), "SAFETY")
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	d := NewDialerWithHTTPClient(Options{Endpoint: url}, http.DefaultClient)
	_, err := d.Dial("k").Generate(context.Background(), TextRequest("x"))
	var te *apierrors.TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, 0, apierrors.StatusOf(err))
}

func TestImageRequestAsksForJSON(t *testing.T) {
	req := ImageRequest("describe", "image/png", "aGVsbG8=")
	require.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
	require.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MimeType)
}

func TestDialerDefaults(t *testing.T) {
	d := NewDialer(Options{})
	require.Equal(t, "gemini-2.5-flash", d.Model())
	require.Equal(t, "/v1beta/models/m:generateContent", BuildGeneratePath("m"))
}

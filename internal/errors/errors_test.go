package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestFromResponseParsesGeminiEnvelope(t *testing.T) {
	body := []byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	be := FromResponse(429, body)
	require.Equal(t, 429, be.Status)
	require.Equal(t, "Resource has been exhausted", be.Message)
	require.Equal(t, "RESOURCE_EXHAUSTED", be.Reason)
}

func TestFromResponsePlainBody(t *testing.T) {
	be := FromResponse(503, []byte("upstream down"))
	require.Equal(t, "upstream down", be.Message)
	require.Equal(t, "UNAVAILABLE", be.Reason)

	be = FromResponse(500, nil)
	require.Equal(t, "HTTP 500 error", be.Message)
}

func TestFromResponseTruncatesOnRuneBoundary(t *testing.T) {
	body := []byte("a" + strings.Repeat("ư", maxUpstreamMessage))
	be := FromResponse(502, body)
	require.True(t, utf8.ValidString(be.Message))
	require.Equal(t, "a"+strings.Repeat("ư", maxUpstreamMessage-1)+"...", be.Message)
}

func TestStatusOfUnwraps(t *testing.T) {
	err := fmt.Errorf("attempt 2: %w", &BackendError{Status: 403, Message: "denied"})
	require.Equal(t, 403, StatusOf(err))
	require.Equal(t, 0, StatusOf(stderrors.New("plain")))
}

func TestClassifyTransport(t *testing.T) {
	require.Equal(t, KindCanceled, ClassifyTransport(context.Canceled))
	require.Equal(t, KindTimeout, ClassifyTransport(fmt.Errorf("post: %w", context.DeadlineExceeded)))
	require.Equal(t, KindConnReset, ClassifyTransport(stderrors.New("read: connection reset by peer")))
	require.Equal(t, KindOther, ClassifyTransport(stderrors.New("boom")))
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	WriteError(c, http.StatusBadRequest, "input is empty")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":{"code":400,"message":"input is empty","status":"INVALID_ARGUMENT"}}`, w.Body.String())
}

package studio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/events"
	"promptstudio-go/internal/fallback"
	"promptstudio-go/internal/taxonomy"
	"promptstudio-go/internal/upstream/gemini"
)

type staticKeys []string

func (k staticKeys) Keys() []string { return k }

// fakeGemini answers per API key: a status code, or 200 with body.
type fakeGemini struct {
	mu     sync.Mutex
	calls  []string
	status map[string]int
	body   string
}

func (f *fakeGemini) handler(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("x-goog-api-key")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	if code, ok := f.status[key]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"error":{"code":` + strconv.Itoa(code) + `,"message":"boom","status":"X"}}`))
		return
	}
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeGemini) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func textBody(s string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + quote(s) + `}]}}]}`
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

type recorder struct {
	mu     sync.Mutex
	events []events.StudioStatus
}

func (r *recorder) Publish(_ context.Context, topic string, payload any, _ map[string]string) {
	if topic != events.TopicStudioStatus {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, payload.(events.StudioStatus))
	r.mu.Unlock()
}

func newService(t *testing.T, keys []string, fg *fakeGemini) (*Service, *recorder) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(fg.handler))
	t.Cleanup(srv.Close)
	d := gemini.NewDialerWithHTTPClient(gemini.Options{Endpoint: srv.URL, Model: "m"}, srv.Client())
	rec := &recorder{}
	return New(staticKeys(keys), d, taxonomy.MustLoad(), WithPublisher(rec)), rec
}

func TestOptimizeIdeaNoKeysUsesFallback(t *testing.T) {
	fg := &fakeGemini{}
	s, rec := newService(t, nil, fg)

	res, err := s.OptimizeIdea(context.Background(), Request{Input: "một bản tình ca buồn dưới mưa"})
	require.NoError(t, err)
	require.Equal(t, SourceFallback, res.Source)
	require.Equal(t, ReasonNoCredentials, res.Reason)
	require.Equal(t, fallback.OptimizeIdea("một bản tình ca buồn dưới mưa"), res.Text)
	require.Empty(t, fg.Calls())
	require.Len(t, rec.events, 1)
	require.Equal(t, FeatureOptimize, rec.events[0].Feature)
}

func TestOptimizeIdeaRotatesPastRateLimit(t *testing.T) {
	fg := &fakeGemini{
		status: map[string]int{"k1": http.StatusTooManyRequests, "k2": http.StatusServiceUnavailable},
		body:   textBody("  An airy dream-pop tune  "),
	}
	s, _ := newService(t, []string{"k1", "k2", "k3", "k4"}, fg)

	res, err := s.OptimizeIdea(context.Background(), Request{Input: "dreamy"})
	require.NoError(t, err)
	require.Equal(t, SourceAI, res.Source)
	require.Equal(t, "An airy dream-pop tune", res.Text)
	require.Equal(t, []string{"k1", "k2", "k3"}, fg.Calls())
	require.Len(t, res.Attempts, 3)
	require.Equal(t, "Đã tối ưu hóa ý tưởng!", res.Notice)
}

func TestFatalStopsRotationAndFallsBack(t *testing.T) {
	fg := &fakeGemini{status: map[string]int{"k1": http.StatusForbidden}, body: textBody("unused")}
	s, rec := newService(t, []string{"k1", "k2"}, fg)

	res, err := s.GenerateLyrics(context.Background(), LyricsRequest{Topic: "biển", Style: "Sad rain", Lang: "vi"})
	require.NoError(t, err)
	require.Equal(t, SourceFallback, res.Source)
	require.Equal(t, ReasonFatal, res.Reason)
	require.Equal(t, []string{"k1"}, fg.Calls())
	require.Equal(t, fallback.GenerateLyrics("biển", "Sad rain", "vi"), res.Text)
	require.Contains(t, res.Notice, "dự phòng")
	require.Equal(t, ReasonFatal, rec.events[0].Reason)
}

func TestFatalMidRotationFallsBack(t *testing.T) {
	fg := &fakeGemini{
		status: map[string]int{"k1": http.StatusTooManyRequests, "k2": http.StatusForbidden},
		body:   textBody("never reached"),
	}
	s, _ := newService(t, []string{"k1", "k2", "k3"}, fg)

	res, err := s.OptimizeIdea(context.Background(), Request{Input: "dreamy"})
	require.NoError(t, err)
	require.Equal(t, SourceFallback, res.Source)
	require.Equal(t, ReasonFatal, res.Reason)
	require.Equal(t, []string{"k1", "k2"}, fg.Calls())
	require.Len(t, res.Attempts, 2)
	require.Equal(t, fallback.OptimizeIdea("dreamy"), res.Text)
}

func TestExhaustedFallsBack(t *testing.T) {
	fg := &fakeGemini{status: map[string]int{"a": 500, "b": 429}}
	s, _ := newService(t, []string{"a", "b"}, fg)

	res, err := s.GeneratePrompt(context.Background(), Request{Input: "sad rock"})
	require.NoError(t, err)
	require.Equal(t, ReasonExhausted, res.Reason)
	require.Equal(t, fallback.GeneratePrompt("sad rock"), res.Text)
	require.NotEmpty(t, res.Suggestions)
}

func TestEmptyInputIsRejected(t *testing.T) {
	s, _ := newService(t, []string{"k"}, &fakeGemini{})
	_, err := s.OptimizeIdea(context.Background(), Request{Input: "   "})
	require.True(t, errors.Is(err, apierrors.ErrEmptyInput))

	_, err = s.GenerateLyrics(context.Background(), LyricsRequest{})
	require.True(t, errors.Is(err, apierrors.ErrEmptyInput))

	_, err = s.SuggestTags(Request{})
	require.True(t, errors.Is(err, apierrors.ErrEmptyInput))

	_, err = s.AnalyzeImage(context.Background(), ImageRequest{})
	require.True(t, errors.Is(err, apierrors.ErrEmptyInput))
}

func TestLyricsDefaults(t *testing.T) {
	s, _ := newService(t, nil, &fakeGemini{})
	res, err := s.GenerateLyrics(context.Background(), LyricsRequest{Style: "Epic battle"})
	require.NoError(t, err)
	require.Equal(t, fallback.GenerateLyrics("Tình yêu", "Epic battle", "vi"), res.Text)
}

func TestAnalyzeImageUsesAIJSON(t *testing.T) {
	fg := &fakeGemini{body: textBody(`{"topic":"Hoàng hôn trên biển","tags":["Chillwave","Calm"]}`)}
	s, _ := newService(t, []string{"k"}, fg)

	res, err := s.AnalyzeImage(context.Background(), ImageRequest{Data: []byte{1, 2, 3}, MimeType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, SourceAI, res.Source)
	require.Equal(t, "Hoàng hôn trên biển", res.Topic)
	require.Equal(t, []string{"Chillwave", "Calm"}, res.Tags)
}

func TestAnalyzeImageMarkdownIsShapeFailure(t *testing.T) {
	fg := &fakeGemini{body: textBody("```json\n{\"topic\":\"x\",\"tags\":[]}\n```")}
	s, _ := newService(t, []string{"k1", "k2"}, fg)

	data := []byte("png")
	res, err := s.AnalyzeImage(context.Background(), ImageRequest{Data: data})
	require.NoError(t, err)
	require.Equal(t, ReasonShape, res.Reason)
	require.Equal(t, fallback.AnalyzeImage(data), res.ImageAnalysis)
	require.Equal(t, []string{"k1"}, fg.Calls())
}

func TestParseImageAnalysis(t *testing.T) {
	_, err := ParseImageAnalysis(`{"topic":"","tags":[]}`)
	require.ErrorIs(t, err, apierrors.ErrShape)
	_, err = ParseImageAnalysis(`{"topic":"x","tags":"a"}`)
	require.ErrorIs(t, err, apierrors.ErrShape)
	_, err = ParseImageAnalysis(`{"topic":"x","tags":[1]}`)
	require.ErrorIs(t, err, apierrors.ErrShape)

	got, err := ParseImageAnalysis(` {"topic":"x","tags":[]} `)
	require.NoError(t, err)
	require.Equal(t, "x", got.Topic)
	require.Empty(t, got.Tags)
}

func TestSuggestTags(t *testing.T) {
	s, _ := newService(t, []string{"k"}, &fakeGemini{})
	res, err := s.SuggestTags(Request{Input: "buồn"})
	require.NoError(t, err)
	require.Contains(t, res.Suggestions, fallback.Suggestion{Category: taxonomy.Moods, Tag: "Sad"})

	res, err = s.SuggestTags(Request{Input: "qqqq"})
	require.NoError(t, err)
	require.Empty(t, res.Suggestions)
	require.Equal(t, "Không tìm thấy thẻ liên quan", res.Notice)
}

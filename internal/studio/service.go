// Package studio resolves the AI-assisted features. Every call ends in a
// usable result: the AI answer when a key produces a valid one, otherwise the
// deterministic fallback.
package studio

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/events"
	"promptstudio-go/internal/monitoring"
	"promptstudio-go/internal/monitoring/tracing"
	"promptstudio-go/internal/taxonomy"
	"promptstudio-go/internal/upstream"
	"promptstudio-go/internal/upstream/gemini"
)

// Feature names used in logs, metrics and status events.
const (
	FeatureOptimize = "optimize"
	FeatureGenerate = "generate"
	FeatureLyrics   = "lyrics"
	FeatureImage    = "analyze_image"
	FeatureSuggest  = "suggest"
)

// Resolution sources.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Fallback reasons.
const (
	ReasonNoCredentials = "no_credentials"
	ReasonFatal         = "fatal"
	ReasonExhausted     = "exhausted"
	ReasonShape         = "shape"
)

// KeySource yields the current key pool. It is consulted on every call.
type KeySource interface {
	Keys() []string
}

// Resolution describes how a feature request was answered.
type Resolution struct {
	Source   string             `json:"source"`
	Reason   string             `json:"reason,omitempty"`
	Attempts []upstream.Attempt `json:"attempts,omitempty"`
	Notice   string             `json:"notice"`
}

// Service wires the key pool, the Gemini dialer and the fallbacks together.
type Service struct {
	keys   KeySource
	dialer *gemini.Dialer
	tax    *taxonomy.Taxonomy
	pub    events.Publisher
	logger *log.Entry
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets where studio.status events go.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithLogger sets the base log entry.
func WithLogger(entry *log.Entry) Option {
	return func(s *Service) {
		if entry != nil {
			s.logger = entry
		}
	}
}

// New builds a Service.
func New(keys KeySource, dialer *gemini.Dialer, tax *taxonomy.Taxonomy, opts ...Option) *Service {
	s := &Service{
		keys:   keys,
		dialer: dialer,
		tax:    tax,
		pub:    events.NopPublisher{},
		logger: log.WithField("component", "studio"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Taxonomy returns the catalogue the service suggests from.
func (s *Service) Taxonomy() *taxonomy.Taxonomy { return s.tax }

// attempt runs op through the rotating invoker. ok reports whether the AI
// answer can be used; otherwise res.Reason says why not.
func attempt[T any](ctx context.Context, s *Service, feature string, op func(context.Context, *gemini.Client) (T, error)) (T, Resolution, bool) {
	ctx = upstream.WithFeature(ctx, feature)
	ctx, span := tracing.StartSpan(ctx, "studio", "studio."+feature)
	defer span.End()

	var keys []string
	if s.keys != nil {
		keys = s.keys.Keys()
	}
	var zero T
	if s.dialer == nil {
		keys = nil
	}

	observe := func(ctx context.Context, a upstream.Attempt) {
		monitoring.RecordAttempt(feature, a.Outcome, a.Duration)
	}
	logger := s.logger.WithField("feature", feature)
	res, err := upstream.Invoke(ctx, keys, dialFunc(s.dialer), op,
		upstream.WithObserver(observe), upstream.WithLogger(logger))

	r := Resolution{Attempts: res.Attempts}
	switch {
	case !res.Available:
		r.Source, r.Reason = SourceFallback, ReasonNoCredentials
	case err != nil:
		r.Source, r.Reason = SourceFallback, reasonOf(err)
		span.RecordError(err)
		logger.WithError(err).WithFields(log.Fields{
			"reason":   r.Reason,
			"attempts": len(res.Attempts),
		}).Info("falling back to local generator")
	default:
		r.Source = SourceAI
		return res.Value, r, true
	}
	return zero, r, false
}

func dialFunc(d *gemini.Dialer) func(string) *gemini.Client {
	return func(key string) *gemini.Client { return d.Dial(key) }
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, apierrors.ErrShape):
		return ReasonShape
	case errors.Is(err, apierrors.ErrExhausted):
		return ReasonExhausted
	default:
		return ReasonFatal
	}
}

// finish fills the notice, records metrics and publishes the status event.
func (s *Service) finish(ctx context.Context, feature string, r *Resolution, done string) {
	r.Notice = noticeFor(r, done)
	monitoring.RecordResolution(feature, r.Source, r.Reason)
	s.pub.Publish(ctx, events.TopicStudioStatus, events.StudioStatus{
		Feature:  feature,
		Source:   r.Source,
		Reason:   r.Reason,
		Attempts: len(r.Attempts),
		Notice:   r.Notice,
	}, nil)
}

func noticeFor(r *Resolution, done string) string {
	if r.Source == SourceAI || r.Reason == ReasonNoCredentials || r.Reason == "" {
		return done
	}
	return done + " (AI lỗi, đang dùng mẫu dự phòng)"
}

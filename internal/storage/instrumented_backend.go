package storage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"promptstudio-go/internal/monitoring"
	"promptstudio-go/internal/monitoring/tracing"
)

// WithInstrumentation wraps a backend with tracing and metrics instrumentation.
func WithInstrumentation(inner Backend, label string) Backend {
	if inner == nil {
		return nil
	}
	if label == "" {
		label = "unknown"
	}
	return &instrumentedBackend{Backend: inner, label: label}
}

type instrumentedBackend struct {
	Backend
	label string
}

func (i *instrumentedBackend) GetConfig(ctx context.Context, key string) (interface{}, error) {
	var result interface{}
	err := i.instrument(ctx, "get_config", func(ctx context.Context) error {
		var innerErr error
		result, innerErr = i.Backend.GetConfig(ctx, key)
		return innerErr
	})
	return result, err
}

func (i *instrumentedBackend) SetConfig(ctx context.Context, key string, value interface{}) error {
	return i.instrument(ctx, "set_config", func(ctx context.Context) error {
		return i.Backend.SetConfig(ctx, key, value)
	})
}

func (i *instrumentedBackend) DeleteConfig(ctx context.Context, key string) error {
	return i.instrument(ctx, "delete_config", func(ctx context.Context) error {
		return i.Backend.DeleteConfig(ctx, key)
	})
}

func (i *instrumentedBackend) ListConfigs(ctx context.Context) (map[string]interface{}, error) {
	var result map[string]interface{}
	err := i.instrument(ctx, "list_configs", func(ctx context.Context) error {
		var innerErr error
		result, innerErr = i.Backend.ListConfigs(ctx)
		return innerErr
	})
	return result, err
}

func (i *instrumentedBackend) instrument(ctx context.Context, operation string, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracing.StartSpan(ctx, "storage", i.label+"/"+operation)
	span.SetAttributes(
		attribute.String("storage.backend", i.label),
		attribute.String("storage.operation", operation),
	)
	start := time.Now()
	err := fn(ctx)
	// a missing key is a normal answer, not a backend failure
	opErr := err
	if IsNotFound(err) {
		opErr = nil
	}
	tracing.Finish(span, opErr)
	monitoring.RecordStorageOperation(i.label, operation, time.Since(start), opErr)
	return err
}

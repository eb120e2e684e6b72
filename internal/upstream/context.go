package upstream

import (
	"context"
)

type ctxKey int

const (
	ctxFeature ctxKey = iota
)

// WithFeature 将功能名称（optimize、lyrics 等）附着到 context 中，供日志与指标使用。
func WithFeature(ctx context.Context, feature string) context.Context {
	if feature == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxFeature, feature)
}

// Feature 从 context 中读取功能名称，缺省为 "unknown"。
func Feature(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(ctxFeature).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

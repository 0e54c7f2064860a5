// Пакет ctxmeta: метаданные запроса, которые прокидываются через context.Context
// (request_id, trace_id, span_id). HTTP-слой и логгер зависят от него, но не друг от друга.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey string

// KeyRequestID: ключ request_id в контексте.
const KeyRequestID ctxKey = "request_id"

// WithRequestID кладёт request_id в контекст (пустой id и nil-контекст не меняются).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id; пустое значение считается отсутствующим.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeyRequestID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// TraceIDFromContext: trace_id активного спана OpenTelemetry.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return sc.TraceID().String(), true
}

// SpanIDFromContext: span_id активного спана OpenTelemetry.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

// Fields собирает метаданные контекста в поля zap (только непустые).
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if rid, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, zap.String("request_id", rid))
	}
	if tid, ok := TraceIDFromContext(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := SpanIDFromContext(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	return fields
}

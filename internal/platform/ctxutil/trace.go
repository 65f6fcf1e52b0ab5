package ctxutil

import "context"

type traceDataKey struct{}

// TraceData correlates one inbound request across logs, spans and SSE events.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// LogFields returns the request-scoped key/value pairs present on ctx, ready to
// append to a logger call.
func LogFields(ctx context.Context) []any {
	var fields []any
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}
	if id := GetIdentity(ctx); id != nil {
		if id.UID != "" {
			fields = append(fields, "user_id", id.UID)
		}
		if id.SessionID != "" {
			fields = append(fields, "session_id", id.SessionID)
		}
	}
	return fields
}

// Default returns ctx, or a background context when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

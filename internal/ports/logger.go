package ports

import "context"

// Logger: контракт логгера для прикладных слоёв; контекст несёт request_id/trace_id.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any)
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}

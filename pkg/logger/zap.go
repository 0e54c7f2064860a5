package logger

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Gunvolt24/orders_ingest/pkg/ctxmeta"
)

// ZapLogger пишет JSON-логи сервиса, одна запись на строку, ts в UTC.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger пишет в stdout. level: debug|info|warn|error.
func NewZapLogger(isProd bool, level string) (*ZapLogger, func() error, error) {
	return NewZapLoggerTo(zapcore.Lock(os.Stdout), isProd, level)
}

// NewZapLoggerTo пишет в произвольный приёмник (используется в тестах).
func NewZapLoggerTo(w io.Writer, isProd bool, level string) (*ZapLogger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), lvl)

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if !isProd {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1), zap.Development())
	}

	base := zap.New(core, opts...)
	loggerWrap := &ZapLogger{
		base:  base,
		sugar: base.Sugar(),
	}

	cleanup := func() error { return loggerWrap.base.Sync() }
	return loggerWrap, cleanup, nil
}

// NewNop: логгер, который ничего не пишет.
func NewNop() *ZapLogger {
	base := zap.NewNop()
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.MessageKey = "msg"
	cfg.EncodeTime = utcTimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	return cfg
}

func utcTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(time.RFC3339Nano))
}

func (z *ZapLogger) Debugf(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Debugf(format, args...)
}
func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Errorf(format, args...)
}

// withCtx добавляет request_id и trace_id, если они есть в контексте.
func (z *ZapLogger) withCtx(ctx context.Context) *zap.SugaredLogger {
	fields := ctxmeta.Fields(ctx)
	if len(fields) == 0 {
		return z.sugar
	}
	return z.base.With(fields...).Sugar()
}

func (z *ZapLogger) Base() *zap.Logger { return z.base }

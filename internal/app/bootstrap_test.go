package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_ingest/config"
	"github.com/Gunvolt24/orders_ingest/internal/app"
	"github.com/Gunvolt24/orders_ingest/internal/repo/mongodb"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый консьюмер, который ждёт отмены контекста
type fakeConsumer struct {
	runCalls   int32
	stopped    int32
	closeCalls int32
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	<-ctx.Done()
	atomic.StoreInt32(&f.stopped, 1)
	return ctx.Err()
}
func (f *fakeConsumer) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

func TestAppRun_GracefulShutdown(t *testing.T) {
	// HTTP-сервер на случайном свободном порту
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	fc := &fakeConsumer{}
	a := &app.App{
		Logger:        nopLogger{},
		HTTPServer:    srv,
		KafkaConsumer: fc,
	}

	// Запуск и быстрая остановка
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if atomic.LoadInt32(&fc.runCalls) == 0 {
		t.Fatalf("consumer.Run should be called")
	}
	if atomic.LoadInt32(&fc.stopped) == 0 {
		t.Fatalf("Run must wait for consumer.Run to return")
	}
	// закрытие консьюмера принадлежит cleanup из Bootstrap
	if n := atomic.LoadInt32(&fc.closeCalls); n != 0 {
		t.Fatalf("consumer.Close called %d times by Run", n)
	}
}

// Ошибка HTTP-сервера останавливает и консьюмера
func TestAppRun_ListenErrorStopsConsumer(t *testing.T) {
	fc := &fakeConsumer{}
	a := &app.App{
		Logger:        nopLogger{},
		HTTPServer:    &http.Server{Addr: "127.0.0.1:-1", Handler: http.NewServeMux()},
		KafkaConsumer: fc,
	}

	require.Error(t, a.Run(context.Background()))
	require.Equal(t, int32(1), atomic.LoadInt32(&fc.stopped))
	require.Zero(t, atomic.LoadInt32(&fc.closeCalls))
}

// Kafka выключена: консьюмера нет, Run работает только с HTTP
func TestAppRun_WithoutConsumer(t *testing.T) {
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, a.Run(ctx))
}

// Ошибка прослушивания порта возвращается из Run
func TestAppRun_ListenErrorReturned(t *testing.T) {
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: &http.Server{Addr: "127.0.0.1:-1", Handler: http.NewServeMux()},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.Error(t, a.Run(ctx))
}

func loadConfig(t *testing.T, prefix string) *config.Config {
	t.Helper()
	t.Setenv(prefix+"_LOGGER_LEVEL", "error")
	cfg, err := config.LoadWithPrefix(prefix)
	require.NoError(t, err)
	return &cfg
}

// Адрес базы не задан: сервис стартует, health-проверки отвечают 503 без обращения к сети
func TestBootstrap_UnconfiguredMongo_Serves503(t *testing.T) {
	cfg := loadConfig(t, "ORDER_APP_UNCONF")

	a, cleanup, err := app.Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	require.Nil(t, a.KafkaConsumer)

	for _, path := range []string{"/healthz", "/ready"} {
		w := httptest.NewRecorder()
		a.HTTPServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		require.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		require.JSONEq(t, `{"detail":"no mongo client configured"}`, w.Body.String(), path)
	}

	w := httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/count", http.NoBody))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "no mongo client configured")

	w = httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
}

// TLS включён, CA-файла нет: фатальная ошибка конфигурации
func TestBootstrap_TLSMissingCA_Fatal(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		host   string
	}{
		{"with mongo host", "ORDER_APP_TLS", "localhost"},
		{"without mongo target", "ORDER_APP_TLS_NOHOST", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.host != "" {
				t.Setenv(tc.prefix+"_MONGO_HOST", tc.host)
			}
			t.Setenv(tc.prefix+"_TLS_ENABLED", "true")
			t.Setenv(tc.prefix+"_TLS_CA_FILE", filepath.Join(t.TempDir(), "missing-ca.pem"))
			cfg := loadConfig(t, tc.prefix)

			_, cleanup, err := app.Bootstrap(context.Background(), cfg)
			defer cleanup()

			require.Error(t, err)
			require.True(t, errors.Is(err, mongodb.ErrTLSFileMissing), "got %v", err)
		})
	}
}

// Kafka включена: консьюмер создаётся (подключение к брокеру ленивое)
func TestBootstrap_KafkaEnabled_CreatesConsumer(t *testing.T) {
	const p = "ORDER_APP_KAFKA"
	t.Setenv(p+"_KAFKA_ENABLED", "true")
	t.Setenv(p+"_KAFKA_BROKERS", "127.0.0.1:1")
	cfg := loadConfig(t, p)

	a, cleanup, err := app.Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, a.KafkaConsumer)
}

package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/Gunvolt24/orders_ingest/config"
	"github.com/Gunvolt24/orders_ingest/internal/clock"
	"github.com/Gunvolt24/orders_ingest/internal/kafka"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
	"github.com/Gunvolt24/orders_ingest/internal/repo/mongodb"
	rest "github.com/Gunvolt24/orders_ingest/internal/transport/http"
	"github.com/Gunvolt24/orders_ingest/internal/usecase"
	"github.com/Gunvolt24/orders_ingest/pkg/logger"
	"github.com/Gunvolt24/orders_ingest/pkg/metrics"
	"github.com/Gunvolt24/orders_ingest/pkg/telemetry"
	"github.com/Gunvolt24/orders_ingest/pkg/validate"
)

// disconnectTimeout: сколько ждать отключения пула Mongo при остановке.
const disconnectTimeout = 5 * time.Second

// App: собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // nil, если Kafka выключена
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup: функция освобождения ресурсов.
type Cleanup func()

// applyGinMode: устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// mongoOptions переносит секции Mongo и TLS конфигурации в опции подключения.
func mongoOptions(cfg *config.Config) *mongodb.Options {
	return &mongodb.Options{
		URI:                    cfg.Mongo.URI,
		Host:                   cfg.Mongo.Host,
		Port:                   cfg.Mongo.Port,
		Username:               cfg.Mongo.Username,
		Password:               cfg.Mongo.Password,
		Params:                 cfg.Mongo.Params,
		Database:               cfg.Mongo.Database,
		Collection:             cfg.Mongo.Collection,
		ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout,
		ConnectTimeout:         cfg.Mongo.ConnectTimeout,
		MaxPoolSize:            cfg.Mongo.MaxPoolSize,
		AppName:                cfg.Mongo.AppName,
		TLS: mongodb.TLSOptions{
			Enabled:     cfg.TLS.Enabled,
			CAFile:      cfg.TLS.CAFile,
			CertKeyFile: cfg.TLS.CertKeyFile,
			Insecure:    cfg.TLS.Insecure,
		},
	}
}

// Bootstrap: собирает зависимости и возвращает приложение, функцию очистки и ошибку.
// Ошибка означает неверную конфигурацию (TLS-файлы, адрес базы); недоступная база ошибкой не является.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		return nil, func() {}, err
	}

	if cfg.Metrics.Enabled {
		metrics.MustRegister()
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию: no-op.
	shutdownTrace := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Пул Mongo: один на процесс, разделяется всеми обработчиками.
	mongoOpts := mongoOptions(cfg)
	if cfg.Tracing.Enabled {
		mongoOpts.Monitor = otelmongo.NewMonitor()
	}
	conn, err := mongodb.Connect(ctx, mongoOpts, logg)
	if err != nil {
		logg.Errorf(ctx, "fatal mongo configuration: %v", err)
		_ = shutdownTrace(context.Background())
		_ = cleanupLogger()
		return nil, func() {}, err
	}

	// Сборка зависимостей доменного слоя.
	orderRepo := mongodb.NewOrderRepository(conn)
	orderValidator := validate.NewOrderValidator()
	orderService := usecase.NewOrderService(orderRepo, conn, logg, orderValidator, clock.NewSystem())

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	httpHandler := rest.NewHandler(orderService, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, rest.RouterConfig{
		AccessLog:       logg.Base(),
		Metrics:         cfg.Metrics.Enabled,
		OTelServiceName: otelServiceName,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var consumer ports.MessageConsumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(kafka.FromConfig(&cfg.Kafka), orderService, logg)
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		KafkaConsumer:   consumer,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		bg := context.Background()
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(bg, "kafka consumer close error: %v", err)
			}
		}

		dctx, cancel := context.WithTimeout(bg, disconnectTimeout)
		if err := conn.Close(dctx); err != nil {
			logg.Warnf(bg, "mongo close error: %v", err)
		}
		cancel()

		if err := shutdownTrace(bg); err != nil {
			logg.Warnf(bg, "shutdown tracing: %v", err)
		}
		if err := cleanupLogger(); err != nil {
			logg.Warnf(bg, "cleanup logger: %v", err)
		}
	}

	return app, cleanup, nil
}

// Run: запускает HTTP-сервер и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Консьюмер останавливается отменой consumerCtx; закрывает его cleanup из Bootstrap.
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	consumerDone := make(chan struct{})

	if a.KafkaConsumer != nil {
		go func() {
			defer close(consumerDone)
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(consumerCtx); err != nil && consumerCtx.Err() == nil {
				errCh <- err
			}
		}()
	} else {
		close(consumerDone)
	}

	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Errorf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	stopConsumer()
	<-consumerDone

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}

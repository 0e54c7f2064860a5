package mongodb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/pkg/logger"
)

func TestConnect_Unconfigured(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	conn, err := Connect(ctx, &Options{Database: "app", Collection: "orders"}, logger.NewNop())
	require.NoError(t, err)
	require.Equal(t, domain.ConnUninitialized, conn.State())

	require.True(t, errors.Is(conn.Ping(ctx), domain.ErrStoreNotConfigured))

	repo := NewOrderRepository(conn)
	_, err = repo.Count(ctx)
	require.True(t, errors.Is(err, domain.ErrStoreNotConfigured))

	require.NoError(t, conn.Close(ctx))
	require.Equal(t, domain.ConnClosed, conn.State())
	require.True(t, errors.Is(conn.Ping(ctx), domain.ErrStoreClosed))
	require.NoError(t, conn.Close(ctx))
}

func TestConnect_TLSEnabledMissingCAIsFatal(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), &Options{
		Host: "localhost",
		TLS:  TLSOptions{Enabled: true, CAFile: filepath.Join(t.TempDir(), "ca.pem")},
	}, logger.NewNop())
	require.True(t, errors.Is(err, ErrTLSFileMissing), "got %v", err)
}

// Без адреса базы включённый TLS с отсутствующим CA всё равно прерывает старт.
func TestConnect_TLSEnabledMissingCA_NoTargetIsFatal(t *testing.T) {
	t.Parallel()

	conn, err := Connect(context.Background(), &Options{
		Database:   "app",
		Collection: "orders",
		TLS:        TLSOptions{Enabled: true, CAFile: filepath.Join(t.TempDir(), "ca.pem")},
	}, logger.NewNop())
	require.Nil(t, conn)
	require.True(t, errors.Is(err, ErrTLSFileMissing), "got %v", err)
}

func TestConnect_InvalidURIIsFatal(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), &Options{URI: "postgres://nope"}, logger.NewNop())
	require.True(t, errors.Is(err, ErrInvalidTarget), "got %v", err)
}

// Недоступный сервер: старт не падает, состояние DEGRADED, ping и запросы возвращают ошибку.
func TestConnect_UnreachableIsDegraded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	conn, err := Connect(ctx, &Options{
		URI:                    "mongodb://127.0.0.1:1/?directConnection=true",
		Database:               "app",
		Collection:             "orders",
		ServerSelectionTimeout: 200 * time.Millisecond,
		ConnectTimeout:         200 * time.Millisecond,
	}, logger.NewNop())
	require.NoError(t, err)
	defer func() { _ = conn.Close(ctx) }()

	require.Equal(t, domain.ConnDegraded, conn.State())
	require.Error(t, conn.Ping(ctx))

	_, err = NewOrderRepository(conn).Insert(ctx, &domain.Order{OrderID: "A1", CreatedAt: time.Now()})
	require.Error(t, err)
	require.Equal(t, domain.ConnDegraded, conn.State())
}

//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
	"github.com/Gunvolt24/orders_ingest/internal/repo/mongodb"
	"github.com/Gunvolt24/orders_ingest/pkg/logger"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeOrder: валидный заказ с уникальным orderId и текущим временем.
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	o := domain.Order{
		OrderID:   "ord-" + UniqSuffix(),
		CreatedAt: time.Now().UTC(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithOrderID(id string) func(*domain.Order) {
	return func(o *domain.Order) { o.OrderID = id }
}

// MongoOptions: опции подключения к тестовому контейнеру с уникальной коллекцией.
func MongoOptions(uri string) *mongodb.Options {
	return &mongodb.Options{
		URI:                    uri,
		Database:               "itest",
		Collection:             "orders_" + UniqSuffix(),
		ServerSelectionTimeout: 5 * time.Second,
		ConnectTimeout:         5 * time.Second,
		MaxPoolSize:            10,
		AppName:                "orders-ingest-itest",
	}
}

// ConnectMongo открывает Conn и закрывает его по окончании теста.
func ConnectMongo(t *testing.T, ctx context.Context, opts *mongodb.Options) *mongodb.Conn {
	t.Helper()

	var log ports.Logger = logger.NewNop()
	conn, err := mongodb.Connect(ctx, opts, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(context.Background()) })
	return conn
}

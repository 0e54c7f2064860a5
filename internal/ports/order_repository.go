package ports

import (
	"context"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
)

// OrderRepository: хранилище заказов (append-only).
type OrderRepository interface {
	// Insert сохраняет новый документ и возвращает идентификатор, назначенный базой.
	Insert(ctx context.Context, order *domain.Order) (string, error)
	// Count: число документов в коллекции.
	Count(ctx context.Context) (int64, error)
}

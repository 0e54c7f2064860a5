package ports

import (
	"context"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
)

// OrderService: прикладной сервис, который видит HTTP-слой.
type OrderService interface {
	PlaceOrder(ctx context.Context, in *domain.OrderInput) (string, error)
	CountOrders(ctx context.Context) (int64, error)
	Health(ctx context.Context) error
}

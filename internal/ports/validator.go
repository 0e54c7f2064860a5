package ports

import (
	"context"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
)

type OrderValidator interface {
	Validate(ctx context.Context, in *domain.OrderInput) error
}

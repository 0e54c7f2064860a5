package ports

import (
	"context"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
)

// HealthChecker: живая проверка подключения к базе.
type HealthChecker interface {
	Ping(ctx context.Context) error
	State() domain.ConnState
}

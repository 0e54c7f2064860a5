package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/orders_ingest/internal/clock"
	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
	"github.com/Gunvolt24/orders_ingest/pkg/metrics"
	"github.com/Gunvolt24/orders_ingest/pkg/validate"
)

// Источники заказов для метрики orders_inserted_total.
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
)

// Проверка, что OrderService удовлетворяет интерфейсу OrderService.
var _ ports.OrderService = (*OrderService)(nil)

// OrderService: прикладная логика приёма заказов (без знаний о транспорте).
type OrderService struct {
	repo      ports.OrderRepository // append-only хранилище
	health    ports.HealthChecker   // живая проверка подключения
	log       ports.Logger
	validator ports.OrderValidator
	clock     clock.Clock // момент приёма заказа (ts)
}

// NewOrderService: DI-конструктор.
func NewOrderService(
	repo ports.OrderRepository,
	health ports.HealthChecker,
	log ports.Logger,
	validator ports.OrderValidator,
	clk clock.Clock,
) *OrderService {
	return &OrderService{
		repo:      repo,
		health:    health,
		log:       log,
		validator: validator,
		clock:     clk,
	}
}

// PlaceOrder валидирует вход, ставит метку времени UTC и вставляет документ.
// Возвращает _id в hex. Ошибки валидации оборачивают validate.ErrInvalidOrder.
func (s *OrderService) PlaceOrder(ctx context.Context, in *domain.OrderInput) (string, error) {
	if err := s.validator.Validate(ctx, in); err != nil {
		s.log.Warnf(ctx, "validation failed err=%v", err)
		return "", err
	}
	return s.insert(ctx, domain.NewOrder(in, s.clock.Now()), SourceHTTP)
}

// SaveFromMessage: сохранить заказ, пришедший из очереди (raw JSON).
// Схема та же, что у POST /orders.
func (s *OrderService) SaveFromMessage(ctx context.Context, raw []byte) error {
	in, err := validate.ValidateOrderFromJSON(ctx, s.validator, raw)
	if err != nil {
		s.log.Warnf(ctx, "message rejected err=%v", err)
		return err
	}
	_, err = s.insert(ctx, domain.NewOrder(in, s.clock.Now()), SourceKafka)
	return err
}

func (s *OrderService) insert(ctx context.Context, order *domain.Order, source string) (string, error) {
	id, err := s.repo.Insert(ctx, order)
	if err != nil {
		s.log.Errorf(ctx, "repo.Insert failed order_id=%s source=%s err=%v", order.OrderID, source, err)
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	order.ID = id

	metrics.OrdersInserted.WithLabelValues(source).Inc()
	s.log.Infof(ctx, "order inserted order_id=%s id=%s ts=%s source=%s", order.OrderID, id, order.Timestamp(), source)
	return id, nil
}

// CountOrders: число документов в коллекции, без кэширования.
func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.log.Errorf(ctx, "repo.Count failed err=%v", err)
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// Health пингует базу и логирует смену состояния подключения.
func (s *OrderService) Health(ctx context.Context) error {
	before := s.health.State()
	err := s.health.Ping(ctx)
	if after := s.health.State(); after != before {
		s.log.Infof(ctx, "mongo connection state %s -> %s", before, after)
	}
	if err != nil {
		s.log.Warnf(ctx, "health check failed err=%v", err)
		return err
	}
	return nil
}

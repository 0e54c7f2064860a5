package domain

import "time"

// TimestampLayout: формат поля ts (ISO-8601, UTC, микросекунды).
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// OrderInput: тело запроса на создание заказа.
type OrderInput struct {
	OrderID string `json:"orderId" validate:"required"`
}

// Order: сохранённый заказ. ID назначает база при вставке.
type Order struct {
	ID        string    `json:"id,omitempty"`
	OrderID   string    `json:"orderId"`
	CreatedAt time.Time `json:"-"`
}

// NewOrder собирает заказ из входных данных и момента приёма.
func NewOrder(in *OrderInput, now time.Time) *Order {
	return &Order{
		OrderID:   in.OrderID,
		CreatedAt: now.UTC(),
	}
}

// Timestamp возвращает значение поля ts в формате хранилища.
func (o *Order) Timestamp() string {
	return o.CreatedAt.UTC().Format(TimestampLayout)
}

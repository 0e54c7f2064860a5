package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// orderDocument: схема документа в коллекции: {_id, orderId, ts}.
type orderDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	OrderID string             `bson:"orderId"`
	TS      string             `bson:"ts"`
}

// OrderRepository: append-only хранилище заказов в коллекции MongoDB.
type OrderRepository struct {
	conn *Conn
}

// NewOrderRepository: конструктор OrderRepository.
func NewOrderRepository(conn *Conn) *OrderRepository { return &OrderRepository{conn: conn} }

// Insert вставляет новый документ; _id назначает драйвер. Дубликаты orderId допускаются.
func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) (string, error) {
	coll, err := r.conn.Collection()
	if err != nil {
		return "", err
	}

	res, err := coll.InsertOne(ctx, orderDocument{
		OrderID: order.OrderID,
		TS:      order.Timestamp(),
	})
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return insertedIDString(res.InsertedID), nil
}

// Count: число документов в коллекции без фильтра.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	coll, err := r.conn.Collection()
	if err != nil {
		return 0, err
	}

	n, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func insertedIDString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

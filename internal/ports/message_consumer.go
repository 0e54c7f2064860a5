package ports

import "context"

// MessageConsumer: фоновый источник заказов (очередь сообщений).
// Run блокируется до отмены контекста.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}

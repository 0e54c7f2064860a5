package kafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orders_ingest/pkg/metrics"
	"github.com/Gunvolt24/orders_ingest/pkg/validate"
)

// handleMessage сохраняет заказ и решает, коммитить ли оффсет.
func (c *Consumer) handleMessage(ctx context.Context, msg *kafka.Message) bool {
	topic := c.reader.Config().Topic

	saveCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.saver.SaveFromMessage(saveCtx, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case errors.Is(err, validate.ErrInvalidOrder):
		// мусор повторно не читаем
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid message partition=%d offset=%d: %v (skipped)", msg.Partition, msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "store failed partition=%d offset=%d: %v (will retry without commit)", msg.Partition, msg.Offset, err)
		return false
	}
}

// commit фиксирует оффсет; ошибка только логируется.
func (c *Consumer) commit(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil {
		c.log.Warnf(ctx, "commit failed partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
	}
}

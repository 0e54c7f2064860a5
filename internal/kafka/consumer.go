package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orders_ingest/internal/ports"
	"github.com/Gunvolt24/orders_ingest/pkg/ctxmeta"
	"github.com/Gunvolt24/orders_ingest/pkg/metrics"
)

// Проверка, что Consumer удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.MessageConsumer = (*Consumer)(nil)

// headerRequestID: заголовок сообщения с идентификатором запроса от продюсера.
const headerRequestID = "X-Request-ID"

// reader: минимальный контракт над kafka.Reader (подменяется моками в тестах).
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// messageSaver: приём заказа из сырого JSON (тот же путь, что у POST /orders).
type messageSaver interface {
	SaveFromMessage(ctx context.Context, raw []byte) error
}

// Consumer читает {"orderId": "..."} из топика и передаёт в сервис заказов.
// Коммит ручной: успех и мусор коммитятся, ошибки хранилища нет (at-least-once).
type Consumer struct {
	reader         reader
	saver          messageSaver
	log            ports.Logger
	processTimeout time.Duration
	pauseAfterFail time.Duration
	fetchBackoff   *backoff
	closeOnce      sync.Once
}

func NewConsumer(cfg *ConsumerConfig, saver messageSaver, log ports.Logger) *Consumer {
	return newConsumer(kafka.NewReader(cfg.ReaderConfig()), cfg, saver, log)
}

func newConsumer(r reader, cfg *ConsumerConfig, saver messageSaver, log ports.Logger) *Consumer {
	c := cfg.withDefaults()
	return &Consumer{
		reader:         r,
		saver:          saver,
		log:            log,
		processTimeout: c.ProcessTimeout,
		pauseAfterFail: min(c.RetryInitial, 500*time.Millisecond),
		fetchBackoff:   newBackoff(c.RetryInitial, c.RetryMax, time.Now().UnixNano()),
	}
}

// Run блокируется до отмены контекста и возвращает ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)
	defer c.log.Infof(context.Background(), "kafka consumer stopped topic=%s", rc.Topic)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// брокер или сеть: ждём и повторяем
			pause := c.fetchBackoff.Next()
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, pause)
			if !sleepCtx(ctx, pause) {
				return ctx.Err()
			}
			continue
		}
		c.fetchBackoff.Reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		msgCtx := ctxmeta.WithRequestID(ctx, messageRequestID(&msg))
		if c.handleMessage(msgCtx, &msg) {
			c.commit(msgCtx, &msg)
			continue
		}
		// без коммита: сообщение вернётся после ребаланса или рестарта
		if !sleepCtx(ctx, c.fetchBackoff.jitter(c.pauseAfterFail)) {
			return ctx.Err()
		}
	}
}

// Close закрывает reader. Повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}

// messageRequestID: заголовок X-Request-ID или координаты сообщения.
func messageRequestID(msg *kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == headerRequestID && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return fmt.Sprintf("kafka-%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
}

package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orders_ingest/config"
)

// ConsumerConfig: параметры чтения топика с заказами.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|earliest или last|latest (по умолчанию)

	ProcessTimeout time.Duration // таймаут на вставку одного сообщения
	RetryInitial   time.Duration // первая пауза после ошибки брокера
	RetryMax       time.Duration // потолок паузы
}

// FromConfig переносит секцию Kafka конфигурации сервиса.
func FromConfig(k *config.Kafka) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        k.Brokers,
		Topic:          k.Topic,
		GroupID:        k.GroupID,
		StartOffset:    k.StartOffset,
		ProcessTimeout: k.ProcessTimeout,
		RetryInitial:   k.RetryInitial,
		RetryMax:       k.RetryMax,
	}
}

// ReaderConfig: конфиг kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		StartOffset:    parseStartOffset(c.StartOffset),
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0,
	}
}

func parseStartOffset(s string) int64 {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "earliest":
		return kafka.FirstOffset
	default:
		return kafka.LastOffset
	}
}

func (c *ConsumerConfig) withDefaults() ConsumerConfig {
	out := *c
	if out.ProcessTimeout <= 0 {
		out.ProcessTimeout = 5 * time.Second
	}
	if out.RetryInitial <= 0 {
		out.RetryInitial = time.Second
	}
	if out.RetryMax < out.RetryInitial {
		out.RetryMax = 30 * time.Second
	}
	return out
}

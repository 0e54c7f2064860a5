//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrdersTopic: уникальная пара topic/group для одного теста.
// Пример: base="orders-itc-TestX" → "orders-itc-TestX-1a2b3c4d5e6f".
func OrdersTopic(base string) (topic, group string) {
	topic = base + "-" + UniqSuffix()
	return topic, topic + "-group"
}

// CreateTopic создаёт однопартиционный топик через контроллер кластера
// и ждёт, пока он появится в метаданных. Уже существующий топик не ошибка.
func CreateTopic(ctx context.Context, bootstrap, topic string) error {
	addr := brokerAddr(bootstrap)

	ctrl, err := controllerAddr(addr)
	if err != nil {
		return fmt.Errorf("kafka controller: %w", err)
	}

	admin, err := kafka.Dial("tcp", ctrl)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", ctrl, err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}

	return awaitPartitions(ctx, addr, topic, 10*time.Second)
}

// PublishOrders пишет сырые payload'ы в топик по одному сообщению, с подтверждением всех реплик.
func PublishOrders(ctx context.Context, brokers []string, topic string, payloads ...[]byte) error {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: false,
	}
	defer w.Close()

	msgs := make([]kafka.Message, 0, len(payloads))
	for _, p := range payloads {
		msgs = append(msgs, kafka.Message{Value: p})
	}
	return w.WriteMessages(ctx, msgs...)
}

func controllerAddr(addr string) (string, error) {
	conn, err := kafka.Dial("tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	b, err := conn.Controller()
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port)), nil
}

// brokerAddr: первый адрес из bootstrap-строки без схемы ("PLAINTEXT://h:p,h2:p2" → "h:p").
func brokerAddr(bootstrap string) string {
	first, _, _ := strings.Cut(bootstrap, ",")
	first = strings.TrimSpace(first)
	if u, err := url.Parse(first); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Host
	}
	return first
}

func awaitPartitions(ctx context.Context, addr, topic string, within time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, within)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	var lastErr error
	for {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err == nil {
			parts, perr := conn.ReadPartitions(topic)
			_ = conn.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("topic %q not ready: %w", topic, lastErr)
			}
			return fmt.Errorf("topic %q not ready: %w", topic, ctx.Err())
		case <-tick.C:
		}
	}
}

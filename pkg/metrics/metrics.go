package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of handled HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

var (
	OrdersInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_inserted_total",
			Help: "Number of orders stored in the collection",
		},
		[]string{"source"}, // http|kafka
	)
	MongoPingFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mongo_ping_failures_total",
			Help: "Number of failed mongo pings",
		},
	)
	MongoConnectionState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_connection_state",
			Help: "Connection state: 0 uninitialized, 1 connected, 2 degraded, 3 closed",
		},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister регистрирует коллекторы в глобальном реестре; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequests, HTTPRequestDuration,
			OrdersInserted, MongoPingFailures, MongoConnectionState,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
		)
	})
}

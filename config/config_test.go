package config_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	cfg "github.com/Gunvolt24/orders_ingest/config"
)

// TestLoadWithPrefix_Defaults: значения по умолчанию без переменных окружения.
func TestLoadWithPrefix_Defaults(t *testing.T) {
	t.Parallel()

	c, err := cfg.LoadWithPrefix("ORDER_TEST_DEFAULTS")
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	// HTTP
	if c.HTTP.Addr != ":8080" || c.HTTP.GinMode != "release" {
		t.Fatalf("HTTP defaults wrong: %+v", c.HTTP)
	}
	if c.HTTP.ReadTimeout != 10*time.Second || c.HTTP.WriteTimeout != 10*time.Second {
		t.Fatalf("HTTP timeouts wrong: %+v", c.HTTP)
	}
	if c.HTTP.HandlerTimeout != 0 || c.HTTP.GracefulTimeout != 5*time.Second {
		t.Fatalf("HTTP handler/graceful timeouts wrong: %+v", c.HTTP)
	}

	if !c.Metrics.Enabled {
		t.Fatalf("Metrics.Enabled: want true")
	}
	if c.Tracing.Enabled || c.Tracing.ServiceName != "orders-ingest" || c.Tracing.SampleRatio != 1 {
		t.Fatalf("Tracing defaults wrong: %+v", c.Tracing)
	}

	// Mongo
	if c.Mongo.Configured() {
		t.Fatalf("Mongo must be unconfigured by default: %+v", c.Mongo)
	}
	if c.Mongo.Database != "app" || c.Mongo.Collection != "orders" || c.Mongo.Port != 27017 {
		t.Fatalf("Mongo defaults wrong: %+v", c.Mongo)
	}
	if c.Mongo.ServerSelectionTimeout != 3*time.Second || c.Mongo.MaxPoolSize != 100 {
		t.Fatalf("Mongo pool/timeouts wrong: %+v", c.Mongo)
	}

	// TLS
	if c.TLS.Enabled || c.TLS.CAFile != "" || c.TLS.CertKeyFile != "" {
		t.Fatalf("TLS defaults wrong: %+v", c.TLS)
	}

	// Kafka
	if c.Kafka.Enabled {
		t.Fatalf("Kafka must be disabled by default")
	}
	if !slices.Equal(c.Kafka.Brokers, []string{"kafka:9092"}) || c.Kafka.Topic != "orders" {
		t.Fatalf("Kafka defaults wrong: %+v", c.Kafka)
	}

	if !c.Logger.IsProd || c.Logger.Level != "info" {
		t.Fatalf("Logger defaults wrong: %+v", c.Logger)
	}
}

func TestLoadWithPrefix_Overrides(t *testing.T) {
	const p = "ORDER_TEST_OVR"

	t.Setenv(p+"_HTTP_ADDR", ":9999")
	t.Setenv(p+"_HTTP_GIN_MODE", "debug")
	t.Setenv(p+"_HTTP_HANDLER_TIMEOUT", "4500ms")

	t.Setenv(p+"_METRICS_ENABLED", "false")

	t.Setenv(p+"_TRACING_OTEL_ENABLED", "true")
	t.Setenv(p+"_TRACING_OTEL_SAMPLE_RATIO", "0.25")

	t.Setenv(p+"_MONGO_HOST", "mongo.internal")
	t.Setenv(p+"_MONGO_PORT", "27018")
	t.Setenv(p+"_MONGO_USERNAME", "app")
	t.Setenv(p+"_MONGO_PASSWORD", "s3cr3t")
	t.Setenv(p+"_MONGO_PARAMS", "authSource=admin")
	t.Setenv(p+"_MONGO_DATABASE", "shop")
	t.Setenv(p+"_MONGO_COLLECTION", "incoming")
	t.Setenv(p+"_MONGO_SERVER_SELECTION_TIMEOUT", "5s")

	t.Setenv(p+"_TLS_ENABLED", "true")
	t.Setenv(p+"_TLS_CA_FILE", "/etc/ssl/ca.pem")
	t.Setenv(p+"_TLS_CERT_KEY_FILE", "/etc/ssl/client.pem")

	t.Setenv(p+"_KAFKA_ENABLED", "true")
	t.Setenv(p+"_KAFKA_BROKERS", "k1:9092,k2:9093")

	t.Setenv(p+"_LOGGER_IS_PROD", "false")
	t.Setenv(p+"_LOGGER_LEVEL", "debug")

	c, err := cfg.LoadWithPrefix(p)
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	if c.HTTP.Addr != ":9999" || c.HTTP.GinMode != "debug" || c.HTTP.HandlerTimeout != 4500*time.Millisecond {
		t.Fatalf("HTTP overrides wrong: %+v", c.HTTP)
	}
	if c.Metrics.Enabled {
		t.Fatalf("Metrics.Enabled override wrong")
	}
	if !c.Tracing.Enabled || c.Tracing.SampleRatio != 0.25 {
		t.Fatalf("Tracing overrides wrong: %+v", c.Tracing)
	}
	if !c.Mongo.Configured() || c.Mongo.Host != "mongo.internal" || c.Mongo.Port != 27018 ||
		c.Mongo.Username != "app" || c.Mongo.Password != "s3cr3t" || c.Mongo.Params != "authSource=admin" {
		t.Fatalf("Mongo target overrides wrong: %+v", c.Mongo)
	}
	if c.Mongo.Database != "shop" || c.Mongo.Collection != "incoming" || c.Mongo.ServerSelectionTimeout != 5*time.Second {
		t.Fatalf("Mongo overrides wrong: %+v", c.Mongo)
	}
	if !c.TLS.Enabled || c.TLS.CAFile != "/etc/ssl/ca.pem" || c.TLS.CertKeyFile != "/etc/ssl/client.pem" {
		t.Fatalf("TLS overrides wrong: %+v", c.TLS)
	}
	if !c.Kafka.Enabled || !slices.Equal(c.Kafka.Brokers, []string{"k1:9092", "k2:9093"}) {
		t.Fatalf("Kafka overrides wrong: %+v", c.Kafka)
	}
	if c.Logger.IsProd || c.Logger.Level != "debug" {
		t.Fatalf("Logger overrides wrong: %+v", c.Logger)
	}
}

func TestLoadWithPrefix_InvalidValue_ReturnsError(t *testing.T) {
	const p = "ORDER_TEST_BAD"
	t.Setenv(p+"_MONGO_SERVER_SELECTION_TIMEOUT", "not-a-duration")

	if _, err := cfg.LoadWithPrefix(p); err == nil {
		t.Fatalf("expected error for invalid duration, got nil")
	}
}

func TestLoadWithPrefix_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"empty collection", "_MONGO_COLLECTION", " "},
		{"empty database", "_MONGO_DATABASE", " "},
		{"port out of range", "_MONGO_PORT", "70000"},
		{"zero selection timeout", "_MONGO_SERVER_SELECTION_TIMEOUT", "0s"},
		{"sample ratio above one", "_TRACING_OTEL_SAMPLE_RATIO", "1.5"},
		{"unknown log level", "_LOGGER_LEVEL", "loud"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			const p = "ORDER_TEST_VALIDATE"
			t.Setenv(p+tc.key, tc.value)

			_, err := cfg.LoadWithPrefix(p)
			if !errors.Is(err, cfg.ErrInvalidConfig) {
				t.Fatalf("want ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMongo_Configured(t *testing.T) {
	t.Parallel()

	if (&cfg.Mongo{}).Configured() {
		t.Fatalf("empty Mongo must not be configured")
	}
	if !(&cfg.Mongo{URI: "mongodb://localhost"}).Configured() {
		t.Fatalf("URI must make Mongo configured")
	}
	if !(&cfg.Mongo{Host: "db"}).Configured() {
		t.Fatalf("Host must make Mongo configured")
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// DefaultPrefix: префикс переменных окружения сервиса (ORDER_HTTP_ADDR и т.д.).
const DefaultPrefix = "ORDER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"release" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	// 0: без собственного таймаута, работает только server selection timeout драйвера.
	HandlerTimeout  time.Duration `default:"0s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout time.Duration `default:"5s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Metrics struct {
	Enabled bool `default:"true" envconfig:"ENABLED"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"orders-ingest" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Mongo: цель подключения. URI имеет приоритет над отдельными полями Host/Port/....
type Mongo struct {
	URI                    string        `envconfig:"URI"`
	Host                   string        `envconfig:"HOST"`
	Port                   int           `default:"27017" envconfig:"PORT"`
	Username               string        `envconfig:"USERNAME"`
	Password               string        `envconfig:"PASSWORD"`
	Params                 string        `envconfig:"PARAMS"`
	Database               string        `default:"app" envconfig:"DATABASE"`
	Collection             string        `default:"orders" envconfig:"COLLECTION"`
	ServerSelectionTimeout time.Duration `default:"3s" envconfig:"SERVER_SELECTION_TIMEOUT"`
	ConnectTimeout         time.Duration `default:"5s" envconfig:"CONNECT_TIMEOUT"`
	MaxPoolSize            uint64        `default:"100" envconfig:"MAX_POOL_SIZE"`
	AppName                string        `default:"orders-ingest" envconfig:"APP_NAME"`
}

// Configured: задан ли хоть какой-то адрес базы.
func (m *Mongo) Configured() bool {
	return strings.TrimSpace(m.URI) != "" || strings.TrimSpace(m.Host) != ""
}

type TLS struct {
	Enabled     bool   `default:"false" envconfig:"ENABLED"`
	CAFile      string `envconfig:"CA_FILE"`
	CertKeyFile string `envconfig:"CERT_KEY_FILE"`
	Insecure    bool   `default:"false" envconfig:"INSECURE"`
}

type Kafka struct {
	Enabled        bool          `default:"false" envconfig:"ENABLED"`
	Brokers        []string      `default:"kafka:9092" envconfig:"BROKERS"`
	Topic          string        `default:"orders" envconfig:"TOPIC"`
	GroupID        string        `default:"orders-ingest" envconfig:"GROUP_ID"`
	StartOffset    string        `default:"last" envconfig:"START_OFFSET"`
	ProcessTimeout time.Duration `default:"5s" envconfig:"PROCESS_TIMEOUT"`
	RetryInitial   time.Duration `default:"1s" envconfig:"RETRY_INITIAL"`
	RetryMax       time.Duration `default:"30s" envconfig:"RETRY_MAX"`
}

type Logger struct {
	IsProd bool   `default:"true" envconfig:"IS_PROD"`
	Level  string `default:"info" envconfig:"LEVEL"`
}

type Config struct {
	HTTP    HTTP
	Metrics Metrics
	Tracing Tracing
	Mongo   Mongo
	TLS     TLS
	Kafka   Kafka
	Logger  Logger
}

// ErrInvalidConfig: базовая ошибка валидации конфигурации.
var ErrInvalidConfig = errors.New("invalid config")

// Load читает конфигурацию с префиксом ORDER.
func Load() (Config, error) {
	return LoadWithPrefix(DefaultPrefix)
}

// LoadWithPrefix читает конфигурацию с произвольным префиксом и валидирует её.
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate проверяет значения, которые envconfig пропускает как синтаксически корректные.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mongo.Database) == "" {
		return fmt.Errorf("%w: mongo database is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Mongo.Collection) == "" {
		return fmt.Errorf("%w: mongo collection is empty", ErrInvalidConfig)
	}
	if c.Mongo.Port <= 0 || c.Mongo.Port > 65535 {
		return fmt.Errorf("%w: mongo port %d out of range", ErrInvalidConfig, c.Mongo.Port)
	}
	if c.Mongo.ServerSelectionTimeout <= 0 {
		return fmt.Errorf("%w: mongo server selection timeout must be positive", ErrInvalidConfig)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing sample ratio %.2f not in [0,1]", ErrInvalidConfig, c.Tracing.SampleRatio)
	}
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("%w: logger level: %v", ErrInvalidConfig, err)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka enabled without brokers", ErrInvalidConfig)
	}
	return nil
}

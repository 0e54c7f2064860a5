package mongodb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Gunvolt24/orders_ingest/internal/domain"
	"github.com/Gunvolt24/orders_ingest/internal/ports"
	"github.com/Gunvolt24/orders_ingest/pkg/metrics"
)

// Проверка, что Conn удовлетворяет интерфейсу HealthChecker.
var _ ports.HealthChecker = (*Conn)(nil)

// Conn: общее на весь процесс подключение (пул драйвера) и его состояние.
// Пул драйвера потокобезопасен, поэтому Conn разделяется всеми обработчиками без блокировок.
type Conn struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        ports.Logger

	state     atomic.Int32
	closeOnce sync.Once
}

// Connect открывает пул и сразу делает ping. Неудачный ping только логируется (DEGRADED).
// Ошибка возвращается лишь для ошибок конфигурации: TLS-файлы, некорректный адрес.
// Если адрес не задан, возвращается Conn без клиента (UNINITIALIZED), но TLS-файлы всё равно проверяются.
func Connect(ctx context.Context, opts *Options, log ports.Logger) (*Conn, error) {
	c := &Conn{log: log}
	c.setState(domain.ConnUninitialized)

	// TLS проверяется и без адреса: включённый TLS без файлов остаётся ошибкой конфигурации.
	tlsCfg, warnings, err := LoadTLS(opts.TLS)
	for _, w := range warnings {
		log.Warnf(ctx, "mongo tls: %s", w)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo tls: %w", err)
	}

	if !opts.Configured() {
		log.Warnf(ctx, "mongo uri not set; health checks will fail until provided")
		return c, nil
	}

	uri, err := BuildURI(opts)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, opts.clientOptions(uri, tlsCfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	c.client = client
	c.collection = client.Database(opts.Database).Collection(opts.Collection)

	log.Infof(ctx, "mongo client created uri=%s db=%s collection=%s tls=%t",
		RedactURI(uri), opts.Database, opts.Collection, tlsCfg != nil)

	if err := c.Ping(ctx); err != nil {
		log.Warnf(ctx, "mongo connection failed at startup: %v", err)
	} else {
		log.Infof(ctx, "connected to mongodb")
	}
	return c, nil
}

// Ping выполняет команду ping на admin и переводит состояние в CONNECTED или DEGRADED.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.usable(); err != nil {
		return err
	}

	err := c.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	if err != nil {
		metrics.MongoPingFailures.Inc()
		c.transition(domain.ConnDegraded)
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	c.transition(domain.ConnConnected)
	return nil
}

// State: текущее состояние подключения.
func (c *Conn) State() domain.ConnState {
	return domain.ConnState(c.state.Load())
}

// Collection: рабочая коллекция заказов.
func (c *Conn) Collection() (*mongo.Collection, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	return c.collection, nil
}

// Close отключает пул. Повторные вызовы ничего не делают.
func (c *Conn) Close(ctx context.Context) (retErr error) {
	c.closeOnce.Do(func() {
		c.setState(domain.ConnClosed)
		if c.client == nil {
			return
		}
		if err := c.client.Disconnect(ctx); err != nil {
			retErr = fmt.Errorf("mongo disconnect: %w", err)
			return
		}
		c.log.Infof(ctx, "mongo client closed")
	})
	return retErr
}

func (c *Conn) usable() error {
	if c.State() == domain.ConnClosed {
		return domain.ErrStoreClosed
	}
	if c.client == nil {
		return domain.ErrStoreNotConfigured
	}
	return nil
}

func (c *Conn) setState(s domain.ConnState) {
	c.state.Store(int32(s))
	metrics.MongoConnectionState.Set(float64(s))
}

// transition меняет состояние по результату ping; закрытое подключение не воскрешается.
func (c *Conn) transition(to domain.ConnState) {
	for {
		cur := c.state.Load()
		if domain.ConnState(cur) == domain.ConnClosed || domain.ConnState(cur) == to {
			return
		}
		if c.state.CompareAndSwap(cur, int32(to)) {
			metrics.MongoConnectionState.Set(float64(to))
			return
		}
	}
}

package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Gunvolt24/orders_ingest/internal/ports"
	"github.com/Gunvolt24/orders_ingest/pkg/httpx"
	"github.com/Gunvolt24/orders_ingest/pkg/validate"
)

// maxBodyBytes: предел тела POST /orders.
const maxBodyBytes = 1 << 20

type Handler struct {
	service ports.OrderService
	log     ports.Logger
	timeout time.Duration // 0: только server selection timeout драйвера
}

func NewHandler(service ports.OrderService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// RouterConfig: опциональные части пайплайна.
type RouterConfig struct {
	AccessLog       *zap.Logger // nil: access-лог выключен
	Metrics         bool        // /metrics и счётчики запросов
	OTelServiceName string      // пусто: без otelgin
}

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	accessLog := cfg.AccessLog
	if accessLog == nil {
		accessLog = zap.NewNop()
	}

	r.Use(httpx.RequestIDMiddleware())
	if cfg.OTelServiceName != "" {
		r.Use(otelgin.Middleware(cfg.OTelServiceName))
	}
	if cfg.Metrics {
		r.Use(httpx.Metrics())
	}
	// логгер снаружи Recovery: паника тоже попадает в access-лог со статусом 500
	r.Use(httpx.RequestLogger(accessLog))
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	if cfg.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.POST("/orders", h.createOrder)
	r.GET("/orders/count", h.countOrders)
	r.GET("/healthz", h.health)
	r.GET("/ready", h.health)

	allowed := allowedMethods(r.Routes())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		if methods, ok := allowed[c.Request.URL.Path]; ok {
			c.Header("Allow", methods)
		}
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "method not allowed"})
	})

	return r
}

// createOrder обрабатывает POST /orders: {"orderId": "..."} -> {"inserted": true, "id": "<hex>"}.
func (h *Handler) createOrder(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "cannot read body"})
		return
	}

	in, err := validate.DecodeOrderInput(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.service.PlaceOrder(ctx, in)
	if err != nil {
		h.fail(c, "PlaceOrder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": true, "id": id})
}

// countOrders обрабатывает GET /orders/count, ответ {"count": n}.
func (h *Handler) countOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.service.CountOrders(ctx)
	if err != nil {
		h.fail(c, "CountOrders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// health обслуживает GET /healthz и GET /ready живым ping базы.
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.service.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail: ошибка валидации: 400, всё остальное от хранилища: 503.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, validate.ErrInvalidOrder) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// allowedMethods: значение заголовка Allow для каждого зарегистрированного пути.
func allowedMethods(routes gin.RoutesInfo) map[string]string {
	byPath := make(map[string][]string)
	for _, ri := range routes {
		byPath[ri.Path] = append(byPath[ri.Path], ri.Method)
	}
	out := make(map[string]string, len(byPath))
	for path, methods := range byPath {
		sort.Strings(methods)
		out[path] = strings.Join(methods, ", ")
	}
	return out
}

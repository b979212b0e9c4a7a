package handlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine. gatherer may be nil, then /metrics is not mounted.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", h.Health)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/candidates", h.ListCandidates)
		orders.GET("/:id/activity", h.OrderActivity)
		orders.POST("/:id/quotes", h.SubmitQuote)
		orders.POST("/:id/accept", h.AcceptQuote)
		orders.POST("/:id/waiting", h.StartWaiting)
		orders.POST("/:id/working", h.StartWorking)
		orders.POST("/:id/complete", h.CompleteOrder)
		orders.POST("/:id/cancel", h.CancelOrder)

		orders.POST("/:id/readiness/view", h.RecordReadinessView)
		orders.POST("/:id/readiness/ready", h.ConfirmReady)
		orders.POST("/:id/readiness/not-ready", h.ConfirmNotReady)
		orders.GET("/:id/readiness/deadline", h.ReadinessDeadline)

		orders.POST("/:id/payment-confirmation", h.ConfirmPayment)
		orders.GET("/:id/changes", h.StreamOrderChanges)

		v1.GET("/customers/:id/wallet", h.GetWallet)

		v1.GET("/diagnostics", h.RunDiagnostics)
		v1.POST("/diagnostics/fix", h.FixAll)
	}

	return r
}

// NewServer wraps handler in an http.Server whose request contexts derive
// from ctx, so long-lived change streams end as soon as ctx is cancelled.
func NewServer(ctx context.Context, addr string, handler http.Handler, readTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: readTimeout,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
			slog.Error("HTTP request failed", attrs...)
			return
		}
		slog.Debug("HTTP request", attrs...)
	}
}

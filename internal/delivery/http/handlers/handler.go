package handlers

import (
	"context"
	"net/http"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/changefeed"
	auditusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/audit"
	orderusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/order"
	paymentusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/payment"
	readinessusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/readiness"
	"github.com/gin-gonic/gin"
)

// ActivityJournal reads the persisted order activity log.
type ActivityJournal interface {
	History(ctx context.Context, orderID string) ([]logger.OrderEventLog, error)
}

// ChangeFeed delivers "re-read" cues for store changes.
type ChangeFeed interface {
	Subscribe(table string, filter changefeed.Filter, handler changefeed.Handler) (unsubscribe func())
}

type Handler struct {
	Orders    orderusecase.OrderUsecase
	Readiness readinessusecase.ReadinessUsecase
	Payments  paymentusecase.PaymentUsecase
	Audit     auditusecase.AuditUsecase
	Journal   ActivityJournal
	Feed      ChangeFeed
	// Ping проверяет доступность БД для /health.
	Ping func(ctx context.Context) error
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
}

// respondDomainError maps the error taxonomy onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	switch domain.ErrorKind(err) {
	case "validation":
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case "not_found":
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case "conflict":
		respondError(c, http.StatusConflict, "CONFLICT", err.Error())
	case "reconciliation":
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "RECONCILIATION_FAILED", "Payment could not be confirmed, please retry")
	case "store":
		_ = c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is temporarily unavailable, please retry")
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (h *Handler) Health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

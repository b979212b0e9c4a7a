package usecase

import (
	"log/slog"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

// recordError - метрика и лог неуспешной операции. Конфликты и ошибки валидации ожидаемы, пишем в debug.
func (uc *DefaultOrderUsecase) recordError(operation string, err error) {
	kind := domain.ErrorKind(err)
	if kind == "store" || kind == "internal" {
		slog.Error("order operation failed", "operation", operation, "error", err)
	} else {
		slog.Debug("order operation rejected", "operation", operation, "kind", kind, "error", err)
	}

	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordOrderError(operation, kind)
}

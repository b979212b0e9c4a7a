package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/response"
	"github.com/gin-gonic/gin"
)

func (h *Handler) RunDiagnostics(c *gin.Context) {
	report, err := h.Audit.RunDiagnostics(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromDiagnostics(report))
}

func (h *Handler) FixAll(c *gin.Context) {
	var req request.FixRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	summary, err := h.Audit.FixAll(c.Request.Context(), req.Rules...)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromFixSummary(summary))
}

package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/response"
	"github.com/gin-gonic/gin"
)

// RecordReadinessView всегда отвечает 202: отметка просмотра не влияет на клиента.
func (h *Handler) RecordReadinessView(c *gin.Context) {
	h.Readiness.RecordReadinessView(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func (h *Handler) ConfirmReady(c *gin.Context) {
	var req request.ReadinessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	order, err := h.Readiness.ConfirmReady(c.Request.Context(), c.Param("id"), req.SpecialistID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) ConfirmNotReady(c *gin.Context) {
	var req request.NotReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.Readiness.ConfirmNotReady(c.Request.Context(), c.Param("id"), req.SpecialistID, req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) ReadinessDeadline(c *gin.Context) {
	d, err := h.Readiness.Deadline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromDeadline(d))
}

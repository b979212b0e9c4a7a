package handlers

import (
	"net/http"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-booking-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/order"
	"github.com/gin-gonic/gin"
)

// CreateOrder handles POST /api/v1/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := &orderdto.CreateOrderInput{
		CustomerID:  req.CustomerID,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
		BookingTime: req.BookingTime,
		QuoteWindow: time.Duration(req.ExpiresInMinutes) * time.Minute,
	}
	if req.BookingDate != "" {
		date, err := time.Parse("2006-01-02", req.BookingDate)
		if err != nil {
			respondDomainError(c, domain.NewValidation("booking_date", "expected YYYY-MM-DD"))
			return
		}
		input.BookingDate = &date
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, response.FromOrder(order))
}

// ListOrders handles GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	var q request.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.Orders.ListOrders(c.Request.Context(), domain.OrderFilter{
		Status:       domain.OrderStatus(q.Status),
		CustomerID:   q.CustomerID,
		SpecialistID: q.SpecialistID,
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := response.OrderListResponse{
		Orders: make([]response.OrderResponse, 0, len(out.Orders)),
		Total:  out.Total,
		Page:   out.Page,
		Limit:  out.Limit,
	}
	for _, o := range out.Orders {
		resp.Orders = append(resp.Orders, response.FromOrder(o))
	}
	respondOK(c, http.StatusOK, resp)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.Orders.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) ListCandidates(c *gin.Context) {
	candidates, err := h.Orders.ListCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	resp := make([]response.CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		resp = append(resp, response.FromCandidate(cand))
	}
	respondOK(c, http.StatusOK, resp)
}

func (h *Handler) OrderActivity(c *gin.Context) {
	orderID := c.Param("id")
	if _, err := h.Orders.GetOrderByID(c.Request.Context(), orderID); err != nil {
		respondDomainError(c, err)
		return
	}
	rows, err := h.Journal.History(c.Request.Context(), orderID)
	if err != nil {
		respondDomainError(c, &domain.StoreError{Op: "order activity", Err: err})
		return
	}
	resp := make([]response.ActivityResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, response.ActivityResponse{
			Event:     row.Event,
			Status:    row.Status,
			Stage:     row.Stage,
			Details:   row.Details,
			Timestamp: row.Timestamp,
		})
	}
	respondOK(c, http.StatusOK, resp)
}

// SubmitQuote handles POST /api/v1/orders/:id/quotes
func (h *Handler) SubmitQuote(c *gin.Context) {
	var req request.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cand, err := h.Orders.SubmitQuote(c.Request.Context(), &orderdto.SubmitQuoteInput{
		OrderID:      c.Param("id"),
		SpecialistID: req.SpecialistID,
		Price:        req.Price,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, response.FromCandidate(cand))
}

// AcceptQuote handles POST /api/v1/orders/:id/accept
func (h *Handler) AcceptQuote(c *gin.Context) {
	var req request.AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.Orders.AcceptQuote(c.Request.Context(), c.Param("id"), req.SpecialistID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) StartWaiting(c *gin.Context) {
	var req request.StartWaitingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	order, err := h.Orders.StartWaiting(c.Request.Context(), c.Param("id"), time.Duration(req.WindowMinutes)*time.Minute)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) StartWorking(c *gin.Context) {
	order, err := h.Orders.StartWorking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) CompleteOrder(c *gin.Context) {
	order, err := h.Orders.CompleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) CancelOrder(c *gin.Context) {
	var req request.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	order, err := h.Orders.CancelOrder(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromOrder(order))
}

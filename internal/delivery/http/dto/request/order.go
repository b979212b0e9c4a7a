package request

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	CustomerID  string `json:"customer_id" binding:"required"`
	ServiceType string `json:"service_type" binding:"required"`
	Notes       string `json:"notes"`
	// BookingDate - YYYY-MM-DD
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	// ExpiresInMinutes - окно приёма котировок; 0 = значение из конфига.
	ExpiresInMinutes int `json:"expires_in_minutes"`
}

type SubmitQuoteRequest struct {
	SpecialistID string          `json:"specialist_id" binding:"required"`
	Price        decimal.Decimal `json:"price"`
}

type AcceptQuoteRequest struct {
	SpecialistID string `json:"specialist_id" binding:"required"`
}

type StartWaitingRequest struct {
	WindowMinutes int `json:"window_minutes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type ListOrdersQuery struct {
	Status       string `form:"status"`
	CustomerID   string `form:"customer_id"`
	SpecialistID string `form:"specialist_id"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

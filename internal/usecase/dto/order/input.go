package orderdto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	CustomerID  string
	ServiceType string
	Notes       string
	// BookingDate is a calendar date; only Y/M/D are used.
	BookingDate *time.Time
	// BookingTime is free text: a named slot, "HH:MM", "h:mm AM" or a range.
	BookingTime string
	// QuoteWindow overrides the default quoting window; zero keeps the default.
	QuoteWindow time.Duration
}

type SubmitQuoteInput struct {
	OrderID      string
	SpecialistID string
	Price        decimal.Decimal
}

package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-booking-service/internal/delivery/http/dto/response"
	paymentdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/payment"
	"github.com/gin-gonic/gin"
)

// ConfirmPayment handles POST /api/v1/orders/:id/payment-confirmation
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req request.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.Payments.ConfirmPayment(c.Request.Context(), &paymentdto.ConfirmPaymentInput{
		OrderID:        c.Param("id"),
		AmountMatches:  req.AmountMatches,
		AmountReceived: req.AmountReceived,
		InvoiceAmount:  req.InvoiceAmount,
		Cause:          req.Cause,
		Note:           req.Note,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := response.PaymentConfirmationResponse{
		Order:        response.FromOrder(out.Order),
		Confirmation: response.FromConfirmation(out.Confirmation),
	}
	if out.WalletTransaction != nil {
		wt := response.FromWalletTransaction(*out.WalletTransaction)
		resp.WalletTransaction = &wt
	}
	respondOK(c, http.StatusCreated, resp)
}

// GetWallet handles GET /api/v1/customers/:id/wallet
func (h *Handler) GetWallet(c *gin.Context) {
	statement, err := h.Payments.GetWallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, response.FromWalletStatement(statement))
}

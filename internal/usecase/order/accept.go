package usecase

import (
	"context"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/order"
)

// RejectionAnotherOffer is written on candidacies that lost to the accepted quote.
const RejectionAnotherOffer = "another offer selected"

func (uc *DefaultOrderUsecase) SubmitQuote(ctx context.Context, input *orderdto.SubmitQuoteInput) (*domain.OrderSpecialist, error) {
	if input.SpecialistID == "" {
		return nil, domain.NewValidation("specialist_id", "is required")
	}
	if !input.Price.IsPositive() {
		return nil, domain.NewValidation("price", "must be greater than zero")
	}
	if _, err := uc.Contacts.GetSpecialistContact(ctx, input.SpecialistID); err != nil {
		return nil, err
	}

	now := uc.now()
	candidacy, err := uc.OrderRepo.SubmitQuote(ctx, input.OrderID, input.SpecialistID, input.Price.Round(2), now)
	if err != nil {
		uc.recordError("quote", err)
		return nil, err
	}

	uc.Events.Emit(ctx, domain.OrderEvent{
		Type:         domain.EventQuoteSubmitted,
		OrderID:      input.OrderID,
		Status:       string(domain.StatusQuoted),
		SpecialistID: input.SpecialistID,
		Amount:       candidacy.QuotedPrice.StringFixed(2),
		Currency:     uc.Currency,
		OccurredAt:   now,
	})
	uc.Metrics.RecordTransition("quoted")
	return candidacy, nil
}

// AcceptQuote assigns the specialist, takes their quote as the invoice amount
// and rejects every other open candidacy.
func (uc *DefaultOrderUsecase) AcceptQuote(ctx context.Context, orderID, specialistID string) (*domain.Order, error) {
	if specialistID == "" {
		return nil, domain.NewValidation("specialist_id", "is required")
	}

	now := uc.now()
	order, err := uc.OrderRepo.AcceptQuote(ctx, orderID, specialistID, RejectionAnotherOffer, now)
	if err != nil {
		uc.recordError("accept", err)
		return nil, err
	}

	uc.Events.Emit(ctx, domain.NewOrderEvent(domain.EventQuoteAccepted, order, now))
	uc.Metrics.RecordTransition("accepted")
	return order, nil
}

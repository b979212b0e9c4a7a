package repository

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-booking-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()
	customer := testutil.CreateCustomer(t, db, "")

	date := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:             uuid.NewString(),
		OrderNumber:    "BK000001",
		CustomerID:     customer.ID,
		ServiceType:    "pedicure",
		Status:         domain.StatusPending,
		BookingDate:    &date,
		BookingTimeRaw: "2:30 PM",
		Currency:       "SAR",
		CreatedAt:      testutil.BaseTime,
		UpdatedAt:      testutil.BaseTime,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "BK000001", got.OrderNumber)
	assert.Equal(t, domain.StageNone, got.TrackingStage)
	assert.Equal(t, domain.ReadinessNone, got.Readiness.Status)
	assert.Equal(t, domain.BookingTimeFixed, got.BookingTime.Kind)
	assert.Equal(t, 14, got.BookingTime.Start.Hour)
	require.NotNil(t, got.BookingDate)
	assert.Equal(t, date, *got.BookingDate)

	_, err = repo.GetOrderByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders_FiltersAndPages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultOrderRepository(db)
	alice := testutil.CreateCustomer(t, db, "")
	bob := testutil.CreateCustomer(t, db, "")

	for i := 0; i < 3; i++ {
		testutil.CreateOrder(t, db, alice.ID, testutil.WithCreatedAt(testutil.BaseTime.Add(time.Duration(i)*time.Minute)))
	}
	testutil.CreateOrder(t, db, bob.ID, testutil.WithStatus(domain.StatusCancelled))

	orders, total, err := repo.ListOrders(context.Background(), domain.OrderFilter{CustomerID: alice.ID, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))

	orders, total, err = repo.ListOrders(context.Background(), domain.OrderFilter{Status: domain.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, bob.ID, orders[0].CustomerID)
}

func TestApplyStatusUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()
	customer := testutil.CreateCustomer(t, db, "")
	specialist := testutil.CreateSpecialist(t, db, "")

	t.Run("moves upcoming to waiting", func(t *testing.T) {
		order := testutil.CreateOrder(t, db, customer.ID,
			testutil.WithStatus(domain.StatusUpcoming), testutil.WithSpecialist(specialist.ID))
		ends := testutil.BaseTime.Add(domain.DefaultWaitingWindow)

		updated, err := repo.ApplyStatusUpdate(ctx, domain.StatusUpdate{
			OrderID:           order.ID,
			FromStatuses:      []domain.OrderStatus{domain.StatusUpcoming},
			FromStages:        []domain.TrackingStage{domain.StageNone},
			Status:            domain.StatusInProgress,
			Stage:             domain.StageWaiting,
			WaitingStartedAt:  testutil.Ptr(testutil.BaseTime),
			WaitingEndsAt:     &ends,
			RequireSpecialist: true,
			At:                testutil.BaseTime,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Equal(t, domain.StageWaiting, updated.TrackingStage)
		require.NotNil(t, updated.WaitingEndsAt)
		assert.True(t, ends.Equal(*updated.WaitingEndsAt))
	})

	t.Run("stale source status conflicts", func(t *testing.T) {
		order := testutil.CreateOrder(t, db, customer.ID, testutil.WithStatus(domain.StatusCompleted))
		_, err := repo.ApplyStatusUpdate(ctx, domain.StatusUpdate{
			OrderID:      order.ID,
			FromStatuses: []domain.OrderStatus{domain.StatusUpcoming},
			Status:       domain.StatusCancelled,
			At:           testutil.BaseTime,
		})
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("missing specialist is reported", func(t *testing.T) {
		order := testutil.CreateOrder(t, db, customer.ID, testutil.WithStatus(domain.StatusUpcoming))
		_, err := repo.ApplyStatusUpdate(ctx, domain.StatusUpdate{
			OrderID:           order.ID,
			FromStatuses:      []domain.OrderStatus{domain.StatusUpcoming},
			Status:            domain.StatusInProgress,
			Stage:             domain.StageWaiting,
			RequireSpecialist: true,
			At:                testutil.BaseTime,
		})
		assert.ErrorIs(t, err, domain.ErrNoSpecialistAssigned)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := repo.ApplyStatusUpdate(ctx, domain.StatusUpdate{
			OrderID:      uuid.NewString(),
			FromStatuses: []domain.OrderStatus{domain.StatusPending},
			Status:       domain.StatusCancelled,
			At:           testutil.BaseTime,
		})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestQuoteFlow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()
	customer := testutil.CreateCustomer(t, db, "")
	first := testutil.CreateSpecialist(t, db, "")
	second := testutil.CreateSpecialist(t, db, "")
	order := testutil.CreateOrder(t, db, customer.ID)

	_, err := repo.SubmitQuote(ctx, order.ID, first.ID, dec("90.00"), testutil.BaseTime)
	require.NoError(t, err)
	_, err = repo.SubmitQuote(ctx, order.ID, second.ID, dec("110.00"), testutil.BaseTime.Add(time.Minute))
	require.NoError(t, err)

	// повторная котировка обновляет цену
	requote, err := repo.SubmitQuote(ctx, order.ID, first.ID, dec("95.00"), testutil.BaseTime.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, dec("95").Equal(requote.QuotedPrice))

	candidates, err := repo.ListCandidates(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	accepted, err := repo.AcceptQuote(ctx, order.ID, first.ID, "another specialist was chosen", testutil.BaseTime.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpcoming, accepted.Status)
	assert.Equal(t, first.ID, accepted.SpecialistID)
	assert.True(t, dec("95").Equal(accepted.TotalAmount))

	var rejected models.OrderSpecialistModel
	require.NoError(t, db.First(&rejected, "order_id = ? AND specialist_id = ?", order.ID, second.ID).Error)
	require.NotNil(t, rejected.IsAccepted)
	assert.False(t, *rejected.IsAccepted)

	_, err = repo.AcceptQuote(ctx, order.ID, second.ID, "", testutil.BaseTime)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))

	_, err = repo.SubmitQuote(ctx, order.ID, second.ID, dec("80.00"), testutil.BaseTime)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestSubmitQuote_ClosedAfterExpiry(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()
	customer := testutil.CreateCustomer(t, db, "")
	specialist := testutil.CreateSpecialist(t, db, "")
	order := testutil.CreateOrder(t, db, customer.ID, testutil.WithExpiresAt(testutil.BaseTime.Add(10*time.Minute)))

	_, err := repo.SubmitQuote(ctx, order.ID, specialist.ID, dec("90.00"), testutil.BaseTime)
	require.NoError(t, err)

	_, err = repo.SubmitQuote(ctx, order.ID, specialist.ID, dec("85.00"), testutil.BaseTime.Add(10*time.Minute))
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestAcceptQuote_UnknownCandidate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultOrderRepository(db)
	customer := testutil.CreateCustomer(t, db, "")
	order := testutil.CreateOrder(t, db, customer.ID, testutil.WithStatus(domain.StatusQuoted))

	_, err := repo.AcceptQuote(context.Background(), order.ID, uuid.NewString(), "", testutil.BaseTime)
	assert.ErrorIs(t, err, domain.ErrSpecialistNotFound)
}

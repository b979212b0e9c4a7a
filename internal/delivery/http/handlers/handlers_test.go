package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/changefeed"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/repository/consistency/engine"
	"github.com/LavaJover/shvark-booking-service/internal/testutil"
	auditusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/audit"
	"github.com/LavaJover/shvark-booking-service/internal/usecase/events"
	orderusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/order"
	paymentusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/payment"
	readinessusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/readiness"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	db      *gorm.DB
	handler *Handler
	feed    *changefeed.Feed
	router  *gin.Engine
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	clock := testutil.FixedClock(testutil.BaseTime)
	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)
	journal := logger.NewPGOrderJournal(db)
	emitter := events.NewEmitter(nil, journal, nil)
	messenger := events.NewMessenger(nil, bookingMetrics, nil)

	orderRepo := repository.NewDefaultOrderRepository(db)
	contactRepo := repository.NewDefaultContactRepository(db)

	orders, err := orderusecase.NewDefaultOrderUsecase(orderRepo, contactRepo, emitter, bookingMetrics, "SAR")
	require.NoError(t, err)
	orders.Clock = clock

	readiness := readinessusecase.NewDefaultReadinessUsecase(
		repository.NewDefaultReadinessRepository(db),
		orderRepo, contactRepo, messenger, emitter, bookingMetrics,
		readinessusecase.DefaultPolicy(),
	)
	readiness.Clock = clock

	payments := paymentusecase.NewDefaultPaymentUsecase(
		repository.NewDefaultPaymentRepository(db),
		orderRepo, contactRepo, messenger, emitter, bookingMetrics,
		"SAR", paymentusecase.LangEN,
	)
	payments.Clock = clock

	audit := auditusecase.NewDefaultAuditUsecase(engine.NewDefaultEngine(db, nil), emitter, bookingMetrics)
	audit.Clock = clock

	feed := changefeed.NewFeed(nil)
	h := &Handler{
		Orders:    orders,
		Readiness: readiness,
		Payments:  payments,
		Audit:     audit,
		Journal:   journal,
		Feed:      feed,
		Ping:      func(ctx context.Context) error { return nil },
	}
	return &testServer{db: db, handler: h, feed: feed, router: NewRouter(h, registry)}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	assert.Equal(t, true, resp["success"])
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %v", resp["data"])
	return d
}

func errorCode(resp map[string]interface{}) string {
	e, _ := resp["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestCreateOrder(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")

	w, resp := s.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id":        customer.ID,
		"service_type":       "manicure",
		"booking_date":       "2025-03-14",
		"booking_time":       "10:30",
		"expires_in_minutes": 45,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := data(t, resp)
	assert.Equal(t, "2025-03-14T09:45:00Z", order["expires_at"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "2025-03-14", order["booking_date"])
	assert.Equal(t, "10:30", order["booking_time"])
	assert.Equal(t, "0.00", order["total_amount"])
	assert.NotEmpty(t, order["order_number"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/orders/"+order["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order["id"], data(t, resp)["id"])
}

func TestCreateOrder_Invalid(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing customer", gin.H{"service_type": "manicure"}},
		{"bad date", gin.H{"customer_id": "c-1", "service_type": "manicure", "booking_date": "14.03.2025"}},
		{"bad time", gin.H{"customer_id": "c-1", "service_type": "manicure", "booking_time": "25:99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, http.MethodPost, "/api/v1/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "VALIDATION_ERROR", errorCode(resp))
		})
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	s := setupTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))
}

func TestQuoteAcceptAndTracking(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	specialist := testutil.CreateSpecialist(t, s.db, "")
	order := testutil.CreateOrder(t, s.db, customer.ID)
	base := "/api/v1/orders/" + order.ID

	// без назначенного специалиста ожидание не начинается
	w, resp := s.do(t, http.MethodPost, base+"/waiting", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(resp))

	w, resp = s.do(t, http.MethodPost, base+"/quotes", gin.H{"specialist_id": specialist.ID, "price": "180.5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "180.50", data(t, resp)["quoted_price"])

	w, _ = s.do(t, http.MethodPost, base+"/quotes", gin.H{"price": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.do(t, http.MethodPost, base+"/accept", gin.H{"specialist_id": specialist.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	accepted := data(t, resp)
	assert.Equal(t, "upcoming", accepted["status"])
	assert.Equal(t, specialist.ID, accepted["specialist_id"])
	assert.Equal(t, "180.50", accepted["total_amount"])

	w, resp = s.do(t, http.MethodGet, base+"/candidates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	candidates, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, candidates, 1)
	assert.Equal(t, true, candidates[0].(map[string]interface{})["is_accepted"])

	w, _ = s.do(t, http.MethodPost, base+"/waiting", gin.H{"window_minutes": 180})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.do(t, http.MethodPost, base+"/waiting", gin.H{"window_minutes": 30})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	waiting := data(t, resp)
	assert.Equal(t, "in_progress", waiting["status"])
	assert.Equal(t, "waiting", waiting["tracking_stage"])
	assert.NotNil(t, waiting["waiting_ends_at"])

	w, resp = s.do(t, http.MethodPost, base+"/working", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "working", data(t, resp)["tracking_stage"])

	w, resp = s.do(t, http.MethodPost, base+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", data(t, resp)["status"])

	w, resp = s.do(t, http.MethodPost, base+"/cancel", gin.H{"reason": "too late"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(resp))

	w, resp = s.do(t, http.MethodGet, base+"/activity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	activity, ok := resp["data"].([]interface{})
	require.True(t, ok)
	var names []string
	for _, row := range activity {
		names = append(names, row.(map[string]interface{})["event"].(string))
	}
	assert.Equal(t, []string{
		string(domain.EventQuoteSubmitted),
		string(domain.EventQuoteAccepted),
		string(domain.EventWaitingStarted),
		string(domain.EventWorkingStarted),
		string(domain.EventOrderCompleted),
	}, names)
}

func TestListOrders(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	testutil.CreateOrder(t, s.db, customer.ID)
	testutil.CreateOrder(t, s.db, customer.ID, testutil.WithStatus(domain.StatusCancelled))

	w, resp := s.do(t, http.MethodGet, "/api/v1/orders?status=pending&customer_id="+customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := data(t, resp)
	assert.Equal(t, float64(1), list["total"])
	assert.Len(t, list["orders"], 1)

	w, _ = s.do(t, http.MethodGet, "/api/v1/orders?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmPayment(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	specialist := testutil.CreateSpecialist(t, s.db, "")
	order := testutil.CreateOrder(t, s.db, customer.ID,
		testutil.WithStatus(domain.StatusInProgress),
		testutil.WithStage(domain.StageWorking),
		testutil.WithSpecialist(specialist.ID),
		testutil.WithTotal("150.00"))
	path := "/api/v1/orders/" + order.ID + "/payment-confirmation"

	w, resp := s.do(t, http.MethodPost, path, gin.H{"amount_matches": false, "amount_received": "200", "cause": "bonus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(resp))

	w, resp = s.do(t, http.MethodPost, path, gin.H{"amount_matches": false, "amount_received": "200", "cause": "wallet"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := data(t, resp)

	confirmation := out["confirmation"].(map[string]interface{})
	assert.Equal(t, "wallet", confirmation["difference_cause"])
	assert.Equal(t, "50.00", confirmation["difference_amount"])

	tx, ok := out["wallet_transaction"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "50.00", tx["amount"])
	assert.Equal(t, "50.00", tx["balance_after"])
	assert.Equal(t, float64(1), tx["wallet_version"])

	payment := out["order"].(map[string]interface{})["payment"].(map[string]interface{})
	assert.Equal(t, domain.PaymentStatusReceived, payment["status"])
	assert.Equal(t, confirmation["id"], payment["confirmation_id"])

	w, resp = s.do(t, http.MethodPost, path, gin.H{"amount_matches": true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(resp))

	w, resp = s.do(t, http.MethodGet, "/api/v1/customers/"+customer.ID+"/wallet", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	wallet := data(t, resp)
	assert.Equal(t, "50.00", wallet["balance"])
	assert.Equal(t, float64(1), wallet["version"])
	assert.Len(t, wallet["transactions"], 1)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	s := setupTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/orders/missing/payment-confirmation", gin.H{"amount_matches": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))

	w, resp = s.do(t, http.MethodGet, "/api/v1/customers/nobody/wallet", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))
}

func TestReadinessEndpoints(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	specialist := testutil.CreateSpecialist(t, s.db, "")
	order := testutil.CreateOrder(t, s.db, customer.ID,
		testutil.WithStatus(domain.StatusUpcoming),
		testutil.WithSpecialist(specialist.ID),
		testutil.WithBooking(testutil.BaseTime, "10:30"),
		testutil.WithReadiness(domain.ReadinessPending, testutil.Ptr(testutil.BaseTime.Add(-10*time.Minute))))
	base := "/api/v1/orders/" + order.ID + "/readiness"

	w, resp := s.do(t, http.MethodPost, base+"/view", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, true, resp["success"])

	// просмотр несуществующего заказа тоже 202
	w, _ = s.do(t, http.MethodPost, "/api/v1/orders/missing/readiness/view", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w, resp = s.do(t, http.MethodGet, base+"/deadline", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	deadline := data(t, resp)
	assert.Equal(t, float64(90*60), deadline["remaining_seconds"])
	assert.Equal(t, "2025-03-14T10:30:00Z", deadline["at"])

	w, _ = s.do(t, http.MethodPost, base+"/ready", gin.H{"specialist_id": "someone-else"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = s.do(t, http.MethodPost, base+"/ready", gin.H{"specialist_id": specialist.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	readiness := data(t, resp)["readiness"].(map[string]interface{})
	assert.Equal(t, "ready", readiness["status"])
	assert.NotNil(t, readiness["notification_viewed_at"])

	w, _ = s.do(t, http.MethodPost, base+"/not-ready", gin.H{"specialist_id": specialist.ID, "reason": "sick"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDiagnosticsAndFix(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	order := testutil.CreateOrder(t, s.db, customer.ID,
		testutil.WithStatus(domain.StatusCancelled), testutil.WithStage(domain.StageWorking))

	w, resp := s.do(t, http.MethodGet, "/api/v1/diagnostics", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := data(t, resp)
	assert.Equal(t, float64(1), report["total"])

	var found bool
	for _, r := range report["rules"].([]interface{}) {
		rule := r.(map[string]interface{})
		if rule["rule"] == "cancelled-with-stage" {
			found = true
			assert.Equal(t, float64(1), rule["count"])
			assert.Equal(t, true, rule["auto_fix"])
		}
	}
	assert.True(t, found)

	w, resp = s.do(t, http.MethodPost, "/api/v1/diagnostics/fix", gin.H{"rules": []string{"no-such-rule"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(resp))

	w, resp = s.do(t, http.MethodPost, "/api/v1/diagnostics/fix", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := data(t, resp)
	assert.Equal(t, float64(1), summary["fixed"])
	assert.Equal(t, float64(1), summary["per_rule"].(map[string]interface{})["cancelled-with-stage"])

	var row models.OrderModel
	require.NoError(t, s.db.First(&row, "id = ?", order.ID).Error)
	assert.Nil(t, row.TrackingStage)
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])

	s.handler.Ping = func(ctx context.Context) error { return errors.New("connection refused") }
	w, resp = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(resp))
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	_, _ = s.do(t, http.MethodPost, "/api/v1/orders", gin.H{"customer_id": customer.ID, "service_type": "pedicure"})

	w, _ := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking_")
}

func TestStreamOrderChanges(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	order := testutil.CreateOrder(t, s.db, customer.ID)

	w, resp := s.do(t, http.MethodGet, "/api/v1/orders/missing/changes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		// заголовки уходят вместе с первым событием
		for s.feed.SubscriberCount() < len(orderTables) {
			time.Sleep(10 * time.Millisecond)
		}
		s.feed.Publish(changefeed.Event{Table: "payment_confirmations", Op: "INSERT", ID: "pc-1", OrderID: "other"})
		s.feed.Publish(changefeed.Event{Table: "orders", Op: "UPDATE", ID: order.ID})
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/orders/"+order.ID+"/changes", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "text/event-stream"), res.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(res.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "event:changed", lines[0])
	assert.Contains(t, lines[1], `"table":"orders"`)
	assert.Contains(t, lines[1], `"op":"UPDATE"`)
	cancel()
}

func TestStreamOrderChanges_EndsWithServerContext(t *testing.T) {
	s := setupTestServer(t)
	customer := testutil.CreateCustomer(t, s.db, "")
	order := testutil.CreateOrder(t, s.db, customer.ID)

	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	srv := httptest.NewUnstartedServer(s.router)
	srv.Config = NewServer(serverCtx, "", s.router, time.Second)
	srv.Start()
	defer srv.Close()

	go func() {
		for s.feed.SubscriberCount() < len(orderTables) {
			time.Sleep(10 * time.Millisecond)
		}
		stopServer()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/orders/"+order.ID+"/changes", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "stream must close once the server context is cancelled")
	defer res.Body.Close()

	_, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return s.feed.SubscriberCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityapp "domehouse/internal/app/handlers/availability"
	checkoutapp "domehouse/internal/app/handlers/checkout"
	"domehouse/internal/app/policies"
	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
	"domehouse/internal/domain/pricing"
	"domehouse/internal/infra/config"
	"domehouse/internal/infra/obs"
	"domehouse/internal/infra/storage/memory"
)

type stubPayments struct {
	sessionID string
	err       error
}

func (s stubPayments) CreateCheckoutSession(ctx context.Context, in policies.CheckoutInput) (policies.CheckoutSession, error) {
	if s.err != nil {
		return policies.CheckoutSession{}, s.err
	}
	return policies.CheckoutSession{ID: s.sessionID}, nil
}

type stubVerifier struct {
	event policies.CheckoutEvent
	err   error
}

func (s stubVerifier) VerifyEvent(payload []byte, signature string) (policies.CheckoutEvent, error) {
	if s.err != nil {
		return policies.CheckoutEvent{}, s.err
	}
	return s.event, nil
}

func testServer(t *testing.T, payments policies.PaymentsPort, verifier policies.WebhookVerifier) (http.Handler, *memory.BookingRepository) {
	t.Helper()

	rules := calendar.Rules{
		Blocked: calendar.BlockedSet{
			{Year: 2022, Month: time.March}: calendar.NewDaySet(20, 21, 22),
		},
		Weekend:     calendar.DefaultWeekend,
		HorizonDays: calendar.DefaultHorizonDays,
		Location:    time.UTC,
		Now: func() time.Time {
			return time.Date(2022, time.March, 1, 9, 0, 0, 0, time.UTC)
		},
	}
	rates := pricing.Ratebook{DefaultWeekday: 30, DefaultWeekend: 50, Weekend: calendar.DefaultWeekend}
	repo := memory.NewBookingRepository()

	start := &checkoutapp.StartSessionHandler{
		Bookings:  repo,
		Rules:     rules,
		Rates:     rates,
		Payments:  payments,
		Events:    policies.NoopEvents{},
		Locks:     domainbooking.NewRangeLock(),
		PublicKey: "pk_test_abc",
		BaseURL:   "https://dome.example",
	}
	confirm := &checkoutapp.ConfirmPaymentHandler{
		Bookings: repo,
		Verifier: verifier,
		Events:   policies.NoopEvents{},
	}
	month := &availabilityapp.MonthViewHandler{Bookings: repo, Rules: rules, Rates: rates}
	selection := &availabilityapp.SelectionHandler{Bookings: repo, Rules: rules, Rates: rates}

	srv := NewServer(
		config.Config{Env: "test", HTTPAddr: ":0"},
		obs.Middleware{},
		obs.HealthHandlers{},
		Handlers{
			Checkout:     CheckoutHandler{StartSession: start},
			Webhook:      WebhookHandler{ConfirmPayment: confirm},
			Availability: AvailabilityHandler{MonthView: month, Select: selection},
		},
	)
	return srv.Handler, repo
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutSessionEndpoint(t *testing.T) {
	h, repo := testServer(t, stubPayments{sessionID: "cs_test_9"}, stubVerifier{})

	rec := doJSON(t, h, http.MethodPost, "/api/checkout-session", map[string]string{
		"from": "2022-03-07",
		"to":   "2022-03-10",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status    string `json:"status"`
		SessionID string `json:"sessionId"`
		PublicKey string `json:"publicKey"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "cs_test_9", resp.SessionID)
	assert.Equal(t, "pk_test_abc", resp.PublicKey)

	stored, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCheckoutSessionRejectsWrongMethod(t *testing.T) {
	h, repo := testServer(t, stubPayments{sessionID: "cs_test_9"}, stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/checkout-session", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	stored, _ := repo.All(context.Background())
	assert.Empty(t, stored, "no side effects on rejected method")
}

func TestCheckoutSessionStatuses(t *testing.T) {
	t.Run("bad body", func(t *testing.T) {
		h, _ := testServer(t, stubPayments{sessionID: "cs"}, stubVerifier{})
		rec := doJSON(t, h, http.MethodPost, "/api/checkout-session", map[string]string{"from": "2022-03-07"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("unavailable dates", func(t *testing.T) {
		h, _ := testServer(t, stubPayments{sessionID: "cs"}, stubVerifier{})
		rec := doJSON(t, h, http.MethodPost, "/api/checkout-session", map[string]string{
			"from": "2022-03-19",
			"to":   "2022-03-21",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
	t.Run("processor down", func(t *testing.T) {
		h, _ := testServer(t, stubPayments{err: errors.New("boom")}, stubVerifier{})
		rec := doJSON(t, h, http.MethodPost, "/api/checkout-session", map[string]string{
			"from": "2022-03-07",
			"to":   "2022-03-10",
		})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestPaymentWebhookEndpoint(t *testing.T) {
	t.Run("signature failure", func(t *testing.T) {
		h, _ := testServer(t, stubPayments{}, stubVerifier{err: errors.New("bad signature")})
		req := httptest.NewRequest(http.MethodPost, "/api/payment-webhook", bytes.NewBufferString(`{}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("acknowledged", func(t *testing.T) {
		h, _ := testServer(t, stubPayments{}, stubVerifier{event: policies.CheckoutEvent{
			Type:      policies.EventCheckoutCompleted,
			SessionID: "cs_unknown",
		}})
		req := httptest.NewRequest(http.MethodPost, "/api/payment-webhook", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received": true}`, rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		h, _ := testServer(t, stubPayments{}, stubVerifier{})
		req := httptest.NewRequest(http.MethodGet, "/api/payment-webhook", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCalendarEndpoint(t *testing.T) {
	h, _ := testServer(t, stubPayments{}, stubVerifier{})

	rec := doJSON(t, h, http.MethodGet, "/api/calendar/2022/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view availabilityapp.MonthView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Days, 31)

	rec = doJSON(t, h, http.MethodGet, "/api/calendar/2022/13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionEndpoint(t *testing.T) {
	h, _ := testServer(t, stubPayments{}, stubVerifier{})

	rec := doJSON(t, h, http.MethodPost, "/api/selection", map[string]string{
		"from":    "2022-03-07",
		"clicked": "2022-03-10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res availabilityapp.SelectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Accepted)
	assert.Equal(t, 3, res.Nights)
	assert.Equal(t, int64(120), res.TotalCost)

	rec = doJSON(t, h, http.MethodPost, "/api/selection", map[string]string{"clicked": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := testServer(t, stubPayments{}, stubVerifier{})

	rec := doJSON(t, h, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ready"}`, rec.Body.String())
}

func TestReadyzReportsStoreOutage(t *testing.T) {
	srv := NewServer(
		config.Config{Env: "test", HTTPAddr: ":0"},
		obs.Middleware{},
		obs.HealthHandlers{Ready: func() error { return errors.New("mongo down") }},
		Handlers{},
	)

	rec := doJSON(t, srv.Handler, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

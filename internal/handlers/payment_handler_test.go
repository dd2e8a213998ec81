package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorpay/backend/internal/config"
	"github.com/vendorpay/backend/internal/models"
	"github.com/vendorpay/backend/internal/services"
	"github.com/vendorpay/backend/internal/store"
)

func newPaymentRouter(t *testing.T) (*chi.Mux, store.Store) {
	t.Helper()
	st := store.NewMemory()
	cfg := &config.PaymentsConfig{DefaultBaseAmount: 10000}
	ps := services.NewPaymentService(st, services.LogNotifier{}, services.NewPINChecker(), services.NoopSink{}, cfg)
	h := NewPaymentHandler(ps)

	r := chi.NewRouter()
	r.Post("/payments/run", h.RunScheduled)
	r.Post("/payments/on-demand/{vendorId}", h.OnDemand)
	r.Get("/payments/pending", h.ListPending)
	r.Post("/payments/pending/{pendingId}/retry", h.Retry)
	r.Get("/payments/history", h.History)
	r.Get("/accounts", h.Accounts)
	r.Post("/payments/mirror", h.MirrorReport)
	return r, st
}

func TestPaymentHandler_OnDemand(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, st store.Store) {
		t.Helper()
		require.NoError(t, st.SetVendors(ctx, []models.Vendor{
			{ID: "v1", Name: "Alpha Supplies", PaymentType: models.PaymentTypeOnDemand, AssignedAccount: "acc2", BaseAmount: 15000},
		}))
	}

	t.Run("correct PIN pays", func(t *testing.T) {
		r, st := newPaymentRouter(t)
		seed(t, st)

		body, _ := json.Marshal(OnDemandRequest{PIN: "1234"})
		req := httptest.NewRequest("POST", "/payments/on-demand/v1", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Result   services.OnDemandResult `json:"result"`
			Messages []string                `json:"messages"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.True(t, resp.Result.Paid)
		assert.Equal(t, int64(15000), resp.Result.Amount)
		assert.Equal(t, "acc2", resp.Result.AccountID)
		assert.NotEmpty(t, resp.Messages)

		accounts, _ := st.GetAccounts(ctx)
		assert.Equal(t, int64(35000), accounts[1].Balance)
	})

	t.Run("wrong PIN is unauthorized", func(t *testing.T) {
		r, st := newPaymentRouter(t)
		seed(t, st)

		body, _ := json.Marshal(OnDemandRequest{PIN: "0000"})
		req := httptest.NewRequest("POST", "/payments/on-demand/v1", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		accounts, _ := st.GetAccounts(ctx)
		assert.Equal(t, int64(50000), accounts[1].Balance)
	})

	t.Run("missing PIN fails validation", func(t *testing.T) {
		r, st := newPaymentRouter(t)
		seed(t, st)

		req := httptest.NewRequest("POST", "/payments/on-demand/v1", bytes.NewBufferString(`{"skipNext":true}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown vendor 404s", func(t *testing.T) {
		r, _ := newPaymentRouter(t)

		body, _ := json.Marshal(OnDemandRequest{PIN: "1234"})
		req := httptest.NewRequest("POST", "/payments/on-demand/ghost", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("skipNext flag sets the skip for scheduled vendors", func(t *testing.T) {
		r, st := newPaymentRouter(t)
		require.NoError(t, st.SetVendors(ctx, []models.Vendor{
			{ID: "v1", Name: "Alpha Supplies", PaymentType: models.PaymentTypeWeekly, AssignedAccount: "acc1", BaseAmount: 10000},
		}))

		body, _ := json.Marshal(OnDemandRequest{PIN: "1234", SkipNext: true})
		req := httptest.NewRequest("POST", "/payments/on-demand/v1", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		vendors, _ := st.GetVendors(ctx)
		assert.True(t, vendors[0].SkipNext)
	})
}

func TestPaymentHandler_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown pending id 404s", func(t *testing.T) {
		r, _ := newPaymentRouter(t)

		req := httptest.NewRequest("POST", "/payments/pending/ghost/retry", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("queued entry retried after top-up", func(t *testing.T) {
		r, st := newPaymentRouter(t)
		require.NoError(t, st.SetVendors(ctx, []models.Vendor{
			{ID: "v1", Name: "Alpha Supplies", PaymentType: models.PaymentTypeWeekly, AssignedAccount: "acc1", BaseAmount: 10000},
		}))
		require.NoError(t, st.SetPending(ctx, []models.PendingPayment{
			{ID: "p1", VendorID: "v1", VendorName: "Alpha Supplies", Amount: 10000, Reason: models.ReasonInsufficientFunds},
		}))

		req := httptest.NewRequest("POST", "/payments/pending/p1/retry", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Result services.RetryResult `json:"result"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.True(t, resp.Result.Paid)

		pending, _ := st.GetPending(ctx)
		assert.Empty(t, pending)
	})
}

func TestPaymentHandler_Listings(t *testing.T) {
	ctx := context.Background()

	t.Run("accounts bootstrap on first read", func(t *testing.T) {
		r, _ := newPaymentRouter(t)

		req := httptest.NewRequest("GET", "/accounts", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Accounts []models.Account `json:"accounts"`
			Count    int              `json:"count"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, int64(100000), resp.Accounts[0].Balance)
	})

	t.Run("pending and history list stored entries", func(t *testing.T) {
		r, st := newPaymentRouter(t)
		require.NoError(t, st.SetPending(ctx, []models.PendingPayment{
			{ID: "p1", VendorID: "v1", Amount: 10000, Reason: models.ReasonInsufficientFunds},
		}))
		require.NoError(t, st.SetHistory(ctx, []models.PaymentRecord{
			{ID: "r1", VendorID: "v1", Amount: 10000, Kind: models.PaymentKindScheduled},
		}))

		req := httptest.NewRequest("GET", "/payments/pending", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var pendingResp map[string]any
		json.Unmarshal(w.Body.Bytes(), &pendingResp)
		assert.Equal(t, float64(1), pendingResp["count"])

		req = httptest.NewRequest("GET", "/payments/history", nil)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var historyResp map[string]any
		json.Unmarshal(w.Body.Bytes(), &historyResp)
		assert.Equal(t, float64(1), historyResp["count"])
	})
}

func TestPaymentHandler_RunScheduled(t *testing.T) {
	t.Run("run always answers with a summary", func(t *testing.T) {
		r, _ := newPaymentRouter(t)

		req := httptest.NewRequest("POST", "/payments/run", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Contains(t, resp, "summary")
		assert.Contains(t, resp, "messages")
	})
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorpay/backend/internal/models"
	"github.com/vendorpay/backend/internal/store"
)

func TestExportService_ExportHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("one pacs.008 per payment", func(t *testing.T) {
		st := store.NewMemory()
		paidAt := time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC)
		require.NoError(t, st.SetHistory(ctx, []models.PaymentRecord{
			{ID: "r1", VendorID: "v1", VendorName: "Alpha Supplies", AccountID: "acc1", Amount: 10000, Kind: models.PaymentKindScheduled, PaidAt: paidAt},
			{ID: "r2", VendorID: "v2", VendorName: "Beta Freight", AccountID: "acc2", Amount: 20000, Kind: models.PaymentKindOnDemand, PaidAt: paidAt},
		}))

		service := NewExportService(st)
		r := httptest.NewRequest("GET", "/payments/export", nil)
		w := httptest.NewRecorder()
		service.ExportHistory(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			MessageType string   `json:"messageType"`
			Count       int      `json:"count"`
			Messages    []string `json:"messages"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "pacs.008.001.08", resp.MessageType)
		assert.Equal(t, 2, resp.Count)
		require.Len(t, resp.Messages, 2)
		assert.True(t, strings.HasPrefix(resp.Messages[0], "<?xml"))
		assert.Contains(t, resp.Messages[0], "Alpha Supplies")
		assert.Contains(t, resp.Messages[1], "Beta Freight")
	})

	t.Run("empty history exports nothing", func(t *testing.T) {
		service := NewExportService(store.NewMemory())
		r := httptest.NewRequest("GET", "/payments/export", nil)
		w := httptest.NewRecorder()
		service.ExportHistory(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, float64(0), resp["count"])
	})
}

func TestExportService_CreatePacs008(t *testing.T) {
	service := NewExportService(store.NewMemory())
	rec := models.PaymentRecord{
		ID: "r1", VendorID: "v1", VendorName: "Alpha Supplies",
		AccountID: "acc1", Amount: 12550, Kind: models.PaymentKindScheduled,
		PaidAt: time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC),
	}
	accounts := []models.Account{{ID: "acc1", Name: "Account 1", Balance: 90000}}

	doc, err := service.CreatePacs008(&rec, accounts)
	require.NoError(t, err)
	assert.Equal(t, 12550.0/100, doc.GrpHdr.TtlIntrBkSttlmAmt.Value)
	require.Len(t, doc.CdtTrfTxInf, 1)
	assert.Equal(t, "Account 1", string(*doc.CdtTrfTxInf[0].Dbtr.Nm))
	assert.Equal(t, "Alpha Supplies", string(*doc.CdtTrfTxInf[0].Cdtr.Nm))
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vendorpay/backend/internal/models"
)

// MirrorSink receives best-effort copies of the vendor list and the
// balance/history report for an external tabular view. Sink failures are
// logged and never block core state, which is committed before any push.
type MirrorSink interface {
	MirrorVendors(ctx context.Context, vendors []models.Vendor) error
	MirrorReport(ctx context.Context, accounts []models.Account, history []models.PaymentRecord) error
}

// NoopSink discards everything; used when no mirror URL is configured.
type NoopSink struct{}

func (NoopSink) MirrorVendors(ctx context.Context, vendors []models.Vendor) error {
	return nil
}

func (NoopSink) MirrorReport(ctx context.Context, accounts []models.Account, history []models.PaymentRecord) error {
	return nil
}

// WebhookSink POSTs JSON row sets to a spreadsheet-bridge endpoint.
type WebhookSink struct {
	url    string
	client *http.Client
}

func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type vendorRow struct {
	Name            string `json:"name"`
	PaymentType     string `json:"paymentType"`
	AssignedAccount string `json:"assignedAccount"`
}

type reportPayload struct {
	Accounts []models.Account       `json:"accounts"`
	History  []models.PaymentRecord `json:"history"`
}

func (s *WebhookSink) MirrorVendors(ctx context.Context, vendors []models.Vendor) error {
	rows := make([]vendorRow, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, vendorRow{
			Name:            v.Name,
			PaymentType:     v.PaymentType,
			AssignedAccount: v.AssignedAccount,
		})
	}
	return s.post(ctx, "vendors", rows)
}

func (s *WebhookSink) MirrorReport(ctx context.Context, accounts []models.Account, history []models.PaymentRecord) error {
	return s.post(ctx, "report", reportPayload{Accounts: accounts, History: history})
}

func (s *WebhookSink) post(ctx context.Context, sheet string, payload any) error {
	body, err := json.Marshal(map[string]any{"sheet": sheet, "rows": payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "VendorPay-Mirror/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("mirror endpoint returned %d", resp.StatusCode)
}

package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vendorpay/backend/internal/models"
)

type MockMirrorSink struct {
	mock.Mock
}

func (m *MockMirrorSink) MirrorVendors(ctx context.Context, vendors []models.Vendor) error {
	args := m.Called(ctx, vendors)
	return args.Error(0)
}

func (m *MockMirrorSink) MirrorReport(ctx context.Context, accounts []models.Account, history []models.PaymentRecord) error {
	args := m.Called(ctx, accounts, history)
	return args.Error(0)
}

// stubNotifier scripts the interactive prompts and records everything the
// engine reported.
type stubNotifier struct {
	pin         string
	pinOK       bool
	confirmSkip bool
	messages    []string
	confirms    []string
}

func (n *stubNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

func (n *stubNotifier) Confirm(message string) bool {
	n.confirms = append(n.confirms, message)
	return n.confirmSkip
}

func (n *stubNotifier) PromptSecret(message string) (string, bool) {
	return n.pin, n.pinOK
}

// staticPIN accepts exactly one PIN value.
type staticPIN struct {
	want string
}

func (c staticPIN) VerifyPIN(pin string) bool {
	return pin == c.want
}

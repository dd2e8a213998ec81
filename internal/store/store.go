package store

import (
	"context"

	"github.com/vendorpay/backend/internal/models"
)

// Redis keys for the persisted collections. The shape mirrors the browser
// local storage this replaced: one JSON array per key.
const (
	KeyVendors  = "vendors"
	KeyAccounts = "accounts"
	KeyPending  = "pending_payments"
	KeyHistory  = "payment_history"
)

// The two fixed funding accounts, created once when the store is empty.
const (
	DefaultAccountID = "acc1"
	ReserveAccountID = "acc2"

	defaultAccountBalance = 100000 // $1,000.00
	reserveAccountBalance = 50000  // $500.00
)

// Store persists the vendor, account, pending-payment and payment-history
// collections. Implementations are process-local and single-user; callers
// read a whole collection, mutate it, and write it back.
type Store interface {
	GetVendors(ctx context.Context) ([]models.Vendor, error)
	SetVendors(ctx context.Context, vendors []models.Vendor) error

	// GetAccounts bootstraps the two fixed accounts when none exist.
	GetAccounts(ctx context.Context) ([]models.Account, error)
	SetAccounts(ctx context.Context, accounts []models.Account) error

	GetPending(ctx context.Context) ([]models.PendingPayment, error)
	SetPending(ctx context.Context, pending []models.PendingPayment) error

	GetHistory(ctx context.Context) ([]models.PaymentRecord, error)
	SetHistory(ctx context.Context, history []models.PaymentRecord) error
}

func bootstrapAccounts() []models.Account {
	return []models.Account{
		{ID: DefaultAccountID, Name: "Account 1", Balance: defaultAccountBalance},
		{ID: ReserveAccountID, Name: "Account 2", Balance: reserveAccountBalance},
	}
}

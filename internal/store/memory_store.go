package store

import (
	"context"
	"sync"

	"github.com/vendorpay/backend/internal/models"
)

// Memory keeps all collections in process memory. Used by tests and as the
// fallback when redis is unreachable at startup.
type Memory struct {
	mu       sync.Mutex
	vendors  []models.Vendor
	accounts []models.Account
	pending  []models.PendingPayment
	history  []models.PaymentRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) GetVendors(ctx context.Context) ([]models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.vendors), nil
}

func (s *Memory) SetVendors(ctx context.Context, vendors []models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors = copySlice(vendors)
	return nil
}

func (s *Memory) GetAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accounts == nil {
		s.accounts = bootstrapAccounts()
	}
	return copySlice(s.accounts), nil
}

func (s *Memory) SetAccounts(ctx context.Context, accounts []models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = copySlice(accounts)
	return nil
}

func (s *Memory) GetPending(ctx context.Context) ([]models.PendingPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.pending), nil
}

func (s *Memory) SetPending(ctx context.Context, pending []models.PendingPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = copySlice(pending)
	return nil
}

func (s *Memory) GetHistory(ctx context.Context) ([]models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.history), nil
}

func (s *Memory) SetHistory(ctx context.Context, history []models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = copySlice(history)
	return nil
}

func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vendorpay/backend/internal/audit"
	"github.com/vendorpay/backend/internal/config"
	"github.com/vendorpay/backend/internal/models"
	"github.com/vendorpay/backend/internal/store"
)

// PaymentService is the payment engine: it decides which vendors are due,
// debits accounts, and manages the pending retry queue. All state flows
// through the injected Store; outcomes are reported through the Notifier.
type PaymentService struct {
	store    store.Store
	notifier Notifier
	pins     CredentialChecker
	mirror   MirrorSink
	audit    *audit.Logger
	cfg      *config.PaymentsConfig
	now      func() time.Time
}

func NewPaymentService(st store.Store, notifier Notifier, pins CredentialChecker, mirror MirrorSink, cfg *config.PaymentsConfig) *PaymentService {
	if cfg == nil {
		cfg = config.LoadPaymentsConfig()
	}
	if mirror == nil {
		mirror = NoopSink{}
	}
	return &PaymentService{
		store:    st,
		notifier: notifier,
		pins:     pins,
		mirror:   mirror,
		audit:    audit.NewLogger(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithNotifier returns a copy of the service reporting through n. The HTTP
// shell uses this to answer prompts from request fields.
func (ps *PaymentService) WithNotifier(n Notifier) *PaymentService {
	clone := *ps
	clone.notifier = n
	return &clone
}

// RunSummary is the outcome of one scheduled pass.
type RunSummary struct {
	Processed int   `json:"processed"`
	Paid      int   `json:"paid"`
	Skipped   int   `json:"skipped"`
	Queued    int   `json:"queued"`
	TotalPaid int64 `json:"totalPaid"`
}

// OnDemandResult is the outcome of a single on-demand payment.
type OnDemandResult struct {
	Paid        bool                   `json:"paid"`
	Amount      int64                  `json:"amount"`
	AccountID   string                 `json:"accountId,omitempty"`
	SkippedNext bool                   `json:"skippedNext"`
	Pending     *models.PendingPayment `json:"pending,omitempty"`
}

// RetryResult is the outcome of retrying one pending payment.
type RetryResult struct {
	Paid      bool   `json:"paid"`
	Amount    int64  `json:"amount"`
	AccountID string `json:"accountId,omitempty"`
}

// RunScheduled processes every vendor once in stored order. Payments are
// executed sequentially so each balance check sees prior debits from the
// same pass; a vendor whose payment fails does not debit, leaving funds
// for later vendors. The run always completes and always reports a
// summary, whatever the per-vendor outcomes.
func (ps *PaymentService) RunScheduled(ctx context.Context) (*RunSummary, error) {
	accounts, err := ps.store.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if len(accounts) == 0 {
		ps.notifier.Notify("No payment accounts are configured; scheduled run aborted.")
		return nil, ErrNoAccounts
	}

	vendors, err := ps.store.GetVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	pending, err := ps.store.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending: %w", err)
	}
	history, err := ps.store.GetHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	today := ps.now()
	summary := &RunSummary{}

	for i := range vendors {
		v := &vendors[i]
		if !IsDue(*v, today) {
			continue
		}
		summary.Processed++

		if v.SkipNext {
			v.SkipNext = false
			summary.Skipped++
			ps.audit.LogSkip(v.ID)
			log.Printf("[PAYMENT] Skipped scheduled payment for %s (paid on-demand earlier)", v.Name)
			continue
		}

		amount := DueAmount(*v, ps.cfg.DefaultBaseAmount)
		out := ps.executePayment(v, amount, v.AssignedAccount, accounts)
		if out.paid {
			summary.Paid++
			summary.TotalPaid += amount
			rec := ps.newRecord(v, out.accountID, amount, models.PaymentKindScheduled)
			history = append(history, rec)
			ps.audit.LogPayment(rec.ID, v.ID, out.accountID, amount, rec.Kind)
		} else {
			summary.Queued++
			entry := ps.newPending(v, amount, out.reason)
			pending = append(pending, entry)
			ps.audit.LogQueued(v.ID, amount, out.reason)
		}
	}

	if err := ps.persist(ctx, vendors, accounts, pending, history); err != nil {
		return nil, err
	}

	ps.notifier.Notify(fmt.Sprintf("Scheduled payments processed: %d paid, %d skipped, %d queued as pending.",
		summary.Paid, summary.Skipped, summary.Queued))

	ps.mirrorReport(ctx, accounts, history)
	return summary, nil
}

// PayOnDemand triggers a single payment for one vendor, gated by a PIN
// prompt. Date gating is bypassed; the amount follows the classification
// rule unless configuration forces a flat amount. When a regularly
// scheduled vendor is paid early, the user is offered a one-time skip of
// the next scheduled occurrence.
func (ps *PaymentService) PayOnDemand(ctx context.Context, vendorID string) (*OnDemandResult, error) {
	pin, ok := ps.notifier.PromptSecret("Enter PIN to authorize the on-demand payment")
	if !ok {
		return nil, ErrCancelled
	}
	if !ps.pins.VerifyPIN(pin) {
		log.Printf("[PAYMENT] On-demand payment refused: PIN mismatch for vendor %s", vendorID)
		return nil, ErrInvalidCredential
	}

	accounts, err := ps.store.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	vendors, err := ps.store.GetVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	v := findVendor(vendors, vendorID)
	if v == nil {
		return nil, fmt.Errorf("vendor %s: %w", vendorID, ErrNotFound)
	}

	pending, err := ps.store.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending: %w", err)
	}
	history, err := ps.store.GetHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	amount := DueAmount(*v, ps.cfg.DefaultBaseAmount)
	if ps.cfg.OnDemandAmount > 0 {
		amount = ps.cfg.OnDemandAmount
	}
	accountID := v.AssignedAccount
	if ps.cfg.OnDemandAccount != "" {
		accountID = ps.cfg.OnDemandAccount
	}

	result := &OnDemandResult{Amount: amount}
	out := ps.executePayment(v, amount, accountID, accounts)
	if out.paid {
		result.Paid = true
		result.AccountID = out.accountID
		rec := ps.newRecord(v, out.accountID, amount, models.PaymentKindOnDemand)
		history = append(history, rec)
		ps.audit.LogPayment(rec.ID, v.ID, out.accountID, amount, rec.Kind)

		if v.PaymentType != models.PaymentTypeOnDemand {
			if ps.notifier.Confirm(fmt.Sprintf("Skip next scheduled payment for %s?", v.Name)) {
				v.SkipNext = true
				result.SkippedNext = true
			}
		}
	} else {
		entry := ps.newPending(v, amount, out.reason)
		pending = append(pending, entry)
		result.Pending = &entry
		ps.audit.LogQueued(v.ID, amount, out.reason)
	}

	if err := ps.persist(ctx, vendors, accounts, pending, history); err != nil {
		return nil, err
	}

	if result.Paid {
		ps.notifier.Notify(fmt.Sprintf("On-demand payment of %s to %s completed.", formatCents(amount), v.Name))
	} else {
		ps.notifier.Notify(fmt.Sprintf("On-demand payment to %s queued as pending: %s.", v.Name, out.reason))
	}
	return result, nil
}

// RetryPending re-attempts one queued payment with its stored amount. A
// successful retry removes exactly that entry; a failed retry changes
// nothing, so retrying a still-unpayable entry is idempotent.
func (ps *PaymentService) RetryPending(ctx context.Context, pendingID string) (*RetryResult, error) {
	pending, err := ps.store.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending: %w", err)
	}
	idx := -1
	for i := range pending {
		if pending[i].ID == pendingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("pending payment %s: %w", pendingID, ErrNotFound)
	}
	entry := pending[idx]

	vendors, err := ps.store.GetVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	v := findVendor(vendors, entry.VendorID)
	if v == nil {
		return nil, fmt.Errorf("vendor %s: %w", entry.VendorID, ErrNotFound)
	}

	accounts, err := ps.store.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	out := ps.executePayment(v, entry.Amount, v.AssignedAccount, accounts)
	if !out.paid {
		// Nothing moved and nothing is persisted; the entry stays queued.
		ps.notifier.Notify(fmt.Sprintf("Retry for %s failed again: %s.", entry.VendorName, out.reason))
		return &RetryResult{Amount: entry.Amount}, nil
	}

	history, err := ps.store.GetHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	rec := ps.newRecord(v, out.accountID, entry.Amount, models.PaymentKindRetry)
	history = append(history, rec)
	ps.audit.LogPayment(rec.ID, v.ID, out.accountID, entry.Amount, rec.Kind)

	pending = append(pending[:idx], pending[idx+1:]...)
	if err := ps.persist(ctx, vendors, accounts, pending, history); err != nil {
		return nil, err
	}

	ps.notifier.Notify(fmt.Sprintf("Pending payment of %s to %s cleared.", formatCents(entry.Amount), entry.VendorName))
	return &RetryResult{Paid: true, Amount: entry.Amount, AccountID: out.accountID}, nil
}

// Accounts returns the current account balances.
func (ps *PaymentService) Accounts(ctx context.Context) ([]models.Account, error) {
	return ps.store.GetAccounts(ctx)
}

// Pending returns the retry queue in stored order.
func (ps *PaymentService) Pending(ctx context.Context) ([]models.PendingPayment, error) {
	return ps.store.GetPending(ctx)
}

// History returns the completed-payment log.
func (ps *PaymentService) History(ctx context.Context) ([]models.PaymentRecord, error) {
	return ps.store.GetHistory(ctx)
}

// MirrorReport pushes balances and payment history to the mirror sink.
// Best-effort: a sink failure is logged and reported, core state is
// already committed.
func (ps *PaymentService) MirrorReport(ctx context.Context) error {
	accounts, err := ps.store.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	history, err := ps.store.GetHistory(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if err := ps.mirror.MirrorReport(ctx, accounts, history); err != nil {
		log.Printf("[MIRROR] Report sync failed: %v", err)
		return err
	}
	return nil
}

type paymentOutcome struct {
	paid      bool
	accountID string
	reason    string
}

// executePayment attempts to move amount from the resolved account. The
// debit is all-or-nothing: on any failure path the balance is untouched
// and the outcome carries a pending-queue reason. Unexpected faults are
// recovered and classified as execution errors; this never panics out.
func (ps *PaymentService) executePayment(v *models.Vendor, amount int64, accountID string, accounts []models.Account) (out paymentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PAYMENT] Execution fault paying %s: %v", v.Name, r)
			ps.audit.LogError(v.ID, fmt.Errorf("execution fault: %v", r))
			out = paymentOutcome{reason: models.ReasonExecutionError}
		}
	}()

	acct := findAccount(accounts, accountID)
	if acct == nil {
		if ps.cfg.StrictAccounts {
			return paymentOutcome{reason: models.ReasonNoAccount}
		}
		// Repair to the default account at use time.
		acct = &accounts[0]
	}

	if acct.Balance < amount {
		return paymentOutcome{reason: models.ReasonInsufficientFunds}
	}

	acct.Balance -= amount
	paidAt := ps.now()
	v.LastPaid = &paidAt
	return paymentOutcome{paid: true, accountID: acct.ID}
}

func (ps *PaymentService) persist(ctx context.Context, vendors []models.Vendor, accounts []models.Account, pending []models.PendingPayment, history []models.PaymentRecord) error {
	if err := ps.store.SetVendors(ctx, vendors); err != nil {
		return fmt.Errorf("persist vendors: %w", err)
	}
	if err := ps.store.SetAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("persist accounts: %w", err)
	}
	if err := ps.store.SetPending(ctx, pending); err != nil {
		return fmt.Errorf("persist pending: %w", err)
	}
	if err := ps.store.SetHistory(ctx, history); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

func (ps *PaymentService) mirrorReport(ctx context.Context, accounts []models.Account, history []models.PaymentRecord) {
	if err := ps.mirror.MirrorReport(ctx, accounts, history); err != nil {
		log.Printf("[MIRROR] Report sync failed: %v", err)
	}
}

func (ps *PaymentService) newRecord(v *models.Vendor, accountID string, amount int64, kind string) models.PaymentRecord {
	return models.PaymentRecord{
		ID:         uuid.New().String(),
		VendorID:   v.ID,
		VendorName: v.Name,
		AccountID:  accountID,
		Amount:     amount,
		Kind:       kind,
		PaidAt:     ps.now(),
	}
}

func (ps *PaymentService) newPending(v *models.Vendor, amount int64, reason string) models.PendingPayment {
	return models.PendingPayment{
		ID:         uuid.New().String(),
		VendorID:   v.ID,
		VendorName: v.Name,
		Amount:     amount,
		Reason:     reason,
		CreatedAt:  ps.now(),
	}
}

func findVendor(vendors []models.Vendor, id string) *models.Vendor {
	for i := range vendors {
		if vendors[i].ID == id {
			return &vendors[i]
		}
	}
	return nil
}

func findAccount(accounts []models.Account, id string) *models.Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}

func formatCents(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}

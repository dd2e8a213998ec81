package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vendorpay/backend/internal/services"
)

// PaymentHandler exposes the payment engine over HTTP. Each mutating
// request gets its own notifier so interactive prompts (PIN entry,
// skip-next confirmation) are answered from request fields and the
// engine's messages come back in the response body.
type PaymentHandler struct {
	payments  *services.PaymentService
	validator *services.ValidationHelper
}

func NewPaymentHandler(ps *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		payments:  ps,
		validator: services.NewValidationHelper(),
	}
}

// OnDemandRequest is the on-demand payment payload.
type OnDemandRequest struct {
	PIN      string `json:"pin" validate:"required"`
	SkipNext bool   `json:"skipNext"`
}

// requestNotifier answers the engine's prompts from request fields and
// collects notifications for the response.
type requestNotifier struct {
	pin         string
	confirmSkip bool
	messages    []string
}

func (n *requestNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

func (n *requestNotifier) Confirm(message string) bool {
	n.messages = append(n.messages, message)
	return n.confirmSkip
}

func (n *requestNotifier) PromptSecret(message string) (string, bool) {
	if n.pin == "" {
		return "", false
	}
	return n.pin, true
}

// RunScheduled triggers a scheduled payment pass
// @Summary Run scheduled payments
// @Description Process every vendor due today: weekly vendors on Fridays, biweekly vendors on alternate Fridays
// @Tags payments
// @Produce json
// @Success 200 {object} object{summary=services.RunSummary,messages=[]string}
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /payments/run [post]
func (h *PaymentHandler) RunScheduled(w http.ResponseWriter, r *http.Request) {
	rn := &requestNotifier{}
	summary, err := h.payments.WithNotifier(rn).RunScheduled(r.Context())
	if err != nil {
		log.Printf("[PAYMENT] Scheduled run failed: %v", err)
		services.SendErrorResponse(w, err.Error(), services.StatusForError(err), nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]any{
		"summary":  summary,
		"messages": rn.messages,
	})
}

// OnDemand pays a single vendor immediately
// @Summary Pay a vendor on demand
// @Description Pay one vendor now, outside the schedule. Requires the payment PIN. Set skipNext to skip the vendor's next scheduled payment.
// @Tags payments
// @Accept json
// @Produce json
// @Param vendorId path string true "Vendor ID"
// @Param request body OnDemandRequest true "PIN and skip choice"
// @Success 200 {object} object{result=services.OnDemandResult,messages=[]string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /payments/on-demand/{vendorId} [post]
func (h *PaymentHandler) OnDemand(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req OnDemandRequest
	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	rn := &requestNotifier{pin: req.PIN, confirmSkip: req.SkipNext}
	result, err := h.payments.WithNotifier(rn).PayOnDemand(r.Context(), vendorID)
	if err != nil {
		log.Printf("[PAYMENT] On-demand payment for %s failed: %v", vendorID, err)
		services.SendErrorResponse(w, err.Error(), services.StatusForError(err), nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]any{
		"result":   result,
		"messages": rn.messages,
	})
}

// Retry re-attempts one pending payment
// @Summary Retry a pending payment
// @Description Re-attempt a queued payment with its original amount. The entry is removed only when the retry succeeds.
// @Tags payments
// @Produce json
// @Param pendingId path string true "Pending payment ID"
// @Success 200 {object} object{result=services.RetryResult,messages=[]string}
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /payments/pending/{pendingId}/retry [post]
func (h *PaymentHandler) Retry(w http.ResponseWriter, r *http.Request) {
	pendingID := chi.URLParam(r, "pendingId")

	rn := &requestNotifier{}
	result, err := h.payments.WithNotifier(rn).RetryPending(r.Context(), pendingID)
	if err != nil {
		log.Printf("[PAYMENT] Retry for %s failed: %v", pendingID, err)
		services.SendErrorResponse(w, err.Error(), services.StatusForError(err), nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]any{
		"result":   result,
		"messages": rn.messages,
	})
}

// ListPending lists the retry queue
// @Summary List pending payments
// @Tags payments
// @Produce json
// @Success 200 {object} object{pending=[]models.PendingPayment,count=int}
// @Failure 500 {object} services.ErrorResponse
// @Router /payments/pending [get]
func (h *PaymentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.payments.Pending(r.Context())
	if err != nil {
		services.SendErrorResponse(w, "Failed to load pending payments", http.StatusInternalServerError, nil)
		return
	}
	services.WriteJSON(w, http.StatusOK, map[string]any{
		"pending": pending,
		"count":   len(pending),
	})
}

// History lists completed payments
// @Summary List payment history
// @Tags payments
// @Produce json
// @Success 200 {object} object{history=[]models.PaymentRecord,count=int}
// @Failure 500 {object} services.ErrorResponse
// @Router /payments/history [get]
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.payments.History(r.Context())
	if err != nil {
		services.SendErrorResponse(w, "Failed to load payment history", http.StatusInternalServerError, nil)
		return
	}
	services.WriteJSON(w, http.StatusOK, map[string]any{
		"history": history,
		"count":   len(history),
	})
}

// Accounts lists account balances
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} object{accounts=[]models.Account,count=int}
// @Failure 500 {object} services.ErrorResponse
// @Router /accounts [get]
func (h *PaymentHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.payments.Accounts(r.Context())
	if err != nil {
		services.SendErrorResponse(w, "Failed to load accounts", http.StatusInternalServerError, nil)
		return
	}
	services.WriteJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// MirrorReport pushes balances and history to the mirror endpoint
// @Summary Push mirror report
// @Description Send current balances and payment history to the configured spreadsheet mirror
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 502 {object} services.ErrorResponse
// @Router /payments/mirror [post]
func (h *PaymentHandler) MirrorReport(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.MirrorReport(r.Context()); err != nil {
		services.SendErrorResponse(w, "Mirror push failed", http.StatusBadGateway, nil)
		return
	}
	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Mirror updated"})
}

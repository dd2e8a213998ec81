package services

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vendorpay/backend/internal/config"
	"github.com/vendorpay/backend/internal/models"
	"github.com/vendorpay/backend/internal/store"
)

// VendorService owns the vendor list: CRUD plus the pending-queue cascade
// on delete. Vendor changes are mirrored to the external sheet
// best-effort after the store commit.
type VendorService struct {
	store     store.Store
	validator *ValidationHelper
	mirror    MirrorSink
	cfg       *config.PaymentsConfig
}

func NewVendorService(st store.Store, mirror MirrorSink, cfg *config.PaymentsConfig) *VendorService {
	if cfg == nil {
		cfg = config.LoadPaymentsConfig()
	}
	if mirror == nil {
		mirror = NoopSink{}
	}
	return &VendorService{
		store:     st,
		validator: NewValidationHelper(),
		mirror:    mirror,
		cfg:       cfg,
	}
}

// VendorRequest is the create/update payload.
type VendorRequest struct {
	Name            string `json:"name" validate:"required,min=1"`
	PaymentType     string `json:"paymentType" validate:"omitempty,oneof=Weekly Biweekly On-Demand"`
	AssignedAccount string `json:"assignedAccount"`
	BaseAmount      int64  `json:"baseAmount" validate:"omitempty,gt=0"` // in cents
}

// ListVendors returns the vendor list in stored order
// @Summary List vendors
// @Tags vendors
// @Produce json
// @Success 200 {object} object{vendors=[]models.Vendor,count=int}
// @Failure 500 {object} ErrorResponse
// @Router /vendors [get]
func (vs *VendorService) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := vs.store.GetVendors(r.Context())
	if err != nil {
		log.Printf("[VENDOR] Failed to load vendors: %v", err)
		SendErrorResponse(w, "Failed to load vendors", http.StatusInternalServerError, nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// CreateVendor adds a vendor
// @Summary Create a vendor
// @Description Add a vendor. Payment type defaults by list position when omitted; base amount defaults to the configured constant.
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendor body VendorRequest true "Vendor data"
// @Success 201 {object} models.Vendor
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /vendors [post]
func (vs *VendorService) CreateVendor(w http.ResponseWriter, r *http.Request) {
	req, ok := vs.decodeVendorRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	vendors, err := vs.store.GetVendors(ctx)
	if err != nil {
		SendErrorResponse(w, "Failed to load vendors", http.StatusInternalServerError, nil)
		return
	}
	accounts, err := vs.store.GetAccounts(ctx)
	if err != nil {
		SendErrorResponse(w, "Failed to load accounts", http.StatusInternalServerError, nil)
		return
	}

	v := models.Vendor{
		ID:              uuid.New().String(),
		Name:            req.Name,
		PaymentType:     req.PaymentType,
		AssignedAccount: req.AssignedAccount,
		BaseAmount:      req.BaseAmount,
	}
	if v.PaymentType == "" {
		// Legacy rule: new vendors without an explicit type inherit the
		// classification of the slot they land in.
		v.PaymentType = ClassifyByPosition(len(vendors))
	}
	if v.BaseAmount <= 0 {
		v.BaseAmount = vs.cfg.DefaultBaseAmount
	}
	repairAssignedAccount(&v, accounts)

	vendors = append(vendors, v)
	if err := vs.store.SetVendors(ctx, vendors); err != nil {
		log.Printf("[VENDOR] Failed to persist vendor %s: %v", v.Name, err)
		SendErrorResponse(w, "Failed to save vendor", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[VENDOR] Created vendor %s (%s, %s)", v.Name, v.PaymentType, v.ID)
	vs.mirrorVendors(ctx, vendors)
	WriteJSON(w, http.StatusCreated, v)
}

// UpdateVendor edits a vendor
// @Summary Update a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendorId path string true "Vendor ID"
// @Param vendor body VendorRequest true "Vendor data"
// @Success 200 {object} models.Vendor
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /vendors/{vendorId} [put]
func (vs *VendorService) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")

	req, ok := vs.decodeVendorRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	vendors, err := vs.store.GetVendors(ctx)
	if err != nil {
		SendErrorResponse(w, "Failed to load vendors", http.StatusInternalServerError, nil)
		return
	}
	v := findVendor(vendors, vendorID)
	if v == nil {
		SendErrorResponse(w, "Vendor not found", http.StatusNotFound, nil)
		return
	}
	accounts, err := vs.store.GetAccounts(ctx)
	if err != nil {
		SendErrorResponse(w, "Failed to load accounts", http.StatusInternalServerError, nil)
		return
	}

	v.Name = req.Name
	if req.PaymentType != "" {
		v.PaymentType = req.PaymentType
	}
	if req.AssignedAccount != "" {
		v.AssignedAccount = req.AssignedAccount
	}
	if req.BaseAmount > 0 {
		v.BaseAmount = req.BaseAmount
	}
	repairAssignedAccount(v, accounts)

	if err := vs.store.SetVendors(ctx, vendors); err != nil {
		SendErrorResponse(w, "Failed to save vendor", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[VENDOR] Updated vendor %s (%s)", v.Name, v.ID)
	vs.mirrorVendors(ctx, vendors)
	WriteJSON(w, http.StatusOK, v)
}

// DeleteVendor removes a vendor and its queued payments
// @Summary Delete a vendor
// @Description Remove a vendor. Every pending payment referencing it is removed as well.
// @Tags vendors
// @Produce json
// @Param vendorId path string true "Vendor ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /vendors/{vendorId} [delete]
func (vs *VendorService) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")
	ctx := r.Context()

	if err := vs.Delete(ctx, vendorID); err != nil {
		if err == ErrNotFound {
			SendErrorResponse(w, "Vendor not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[VENDOR] Failed to delete vendor %s: %v", vendorID, err)
		SendErrorResponse(w, "Failed to delete vendor", http.StatusInternalServerError, nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Vendor deleted"})
}

// Delete removes the vendor and cascades over the pending queue.
func (vs *VendorService) Delete(ctx context.Context, vendorID string) error {
	vendors, err := vs.store.GetVendors(ctx)
	if err != nil {
		return err
	}

	kept := vendors[:0]
	found := false
	for _, v := range vendors {
		if v.ID == vendorID {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return ErrNotFound
	}

	pending, err := vs.store.GetPending(ctx)
	if err != nil {
		return err
	}
	keptPending := pending[:0]
	for _, p := range pending {
		if p.VendorID == vendorID {
			continue
		}
		keptPending = append(keptPending, p)
	}

	if err := vs.store.SetVendors(ctx, kept); err != nil {
		return err
	}
	if err := vs.store.SetPending(ctx, keptPending); err != nil {
		return err
	}

	log.Printf("[VENDOR] Deleted vendor %s, removed %d pending entries", vendorID, len(pending)-len(keptPending))
	vs.mirrorVendors(ctx, kept)
	return nil
}

func (vs *VendorService) decodeVendorRequest(w http.ResponseWriter, r *http.Request) (VendorRequest, bool) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req VendorRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return req, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return req, false
	}

	if err := vs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return req, false
	}
	return req, true
}

func (vs *VendorService) mirrorVendors(ctx context.Context, vendors []models.Vendor) {
	if err := vs.mirror.MirrorVendors(ctx, vendors); err != nil {
		log.Printf("[MIRROR] Vendor sync failed: %v", err)
	}
}

// repairAssignedAccount points the vendor at the default account when its
// assignment references nothing that exists.
func repairAssignedAccount(v *models.Vendor, accounts []models.Account) {
	if len(accounts) == 0 {
		return
	}
	if findAccount(accounts, v.AssignedAccount) == nil {
		v.AssignedAccount = accounts[0].ID
	}
}

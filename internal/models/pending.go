package models

import "time"

// Pending payment failure classifications.
const (
	ReasonInsufficientFunds = "Insufficient funds"
	ReasonNoAccount         = "No account assigned"
	ReasonExecutionError    = "Execution error"
)

// PendingPayment is a retry-queue record for a payment attempt that did
// not clear. VendorName is denormalized so the entry stays displayable
// after its vendor is deleted.
type PendingPayment struct {
	ID         string    `json:"id"`
	VendorID   string    `json:"vendorId"`
	VendorName string    `json:"vendorName"`
	Amount     int64     `json:"amount"` // in cents
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

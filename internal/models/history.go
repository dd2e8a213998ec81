package models

import "time"

// How a completed payment was triggered.
const (
	PaymentKindScheduled = "SCHEDULED"
	PaymentKindOnDemand  = "ON_DEMAND"
	PaymentKindRetry     = "RETRY"
)

// PaymentRecord is one completed payment in the history log. Records feed
// the report mirror and the ISO 20022 export.
type PaymentRecord struct {
	ID         string    `json:"id"`
	VendorID   string    `json:"vendorId"`
	VendorName string    `json:"vendorName"`
	AccountID  string    `json:"accountId"`
	Amount     int64     `json:"amount"` // in cents
	Kind       string    `json:"kind"`
	PaidAt     time.Time `json:"paidAt"`
}

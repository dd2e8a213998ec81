package models

import "time"

// Payment scheduling classifications. The legacy sheet derived these from
// list position, which silently reclassified vendors on reorder; the type
// is now an explicit field set at creation. ClassifyByPosition in services
// keeps the positional rule for bootstrap/migration only.
const (
	PaymentTypeWeekly   = "Weekly"
	PaymentTypeBiweekly = "Biweekly"
	PaymentTypeOnDemand = "On-Demand"
)

// Vendor is a payee with a scheduling classification and a funding account.
type Vendor struct {
	ID              string     `json:"id"`
	Name            string     `json:"name" validate:"required"`
	PaymentType     string     `json:"paymentType" validate:"required,oneof=Weekly Biweekly On-Demand"`
	AssignedAccount string     `json:"assignedAccount"`
	BaseAmount      int64      `json:"baseAmount" validate:"gt=0"` // in cents
	LastPaid        *time.Time `json:"lastPaid,omitempty"`
	SkipNext        bool       `json:"skipNext"`
}

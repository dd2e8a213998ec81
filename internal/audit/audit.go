package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	RecordID  string    `json:"record_id,omitempty"`
	VendorID  string    `json:"vendor_id"`
	AccountID string    `json:"account_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

// Logger emits one JSON line per money-movement event.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (a *Logger) LogPayment(recordID, vendorID, accountID string, amount int64, kind string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "PAYMENT",
		RecordID:  recordID,
		VendorID:  vendorID,
		AccountID: accountID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   map[string]string{"kind": kind},
	})
}

func (a *Logger) LogSkip(vendorID string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "SKIP",
		VendorID:  vendorID,
		Status:    "SKIPPED",
	})
}

func (a *Logger) LogQueued(vendorID string, amount int64, reason string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "QUEUED",
		VendorID:  vendorID,
		Amount:    amount,
		Status:    "PENDING",
		Details:   map[string]string{"reason": reason},
	})
}

func (a *Logger) LogError(vendorID string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "ERROR",
		VendorID:  vendorID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}

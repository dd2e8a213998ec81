package models

// Account is a named balance pool payments are debited from. Balance is
// held in cents and never goes negative: a debit that would overdraw is
// rejected outright, not clamped.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"` // in cents
}

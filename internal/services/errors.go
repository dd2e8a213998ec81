package services

import "errors"

// Payment-path errors that reach the shell. Everything else is handled
// locally: insufficient funds and execution faults become pending-queue
// entries and never surface as hard failures.
var (
	// ErrNoAccounts means the store holds no accounts at all; nothing is
	// attempted until configuration is repaired.
	ErrNoAccounts = errors.New("no accounts configured")
	// ErrInvalidCredential is a PIN or login mismatch; no state changes.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNotFound covers operations referencing a missing vendor or
	// pending-payment id.
	ErrNotFound = errors.New("not found")
	// ErrCancelled means the user dismissed the secret prompt.
	ErrCancelled = errors.New("cancelled")
)

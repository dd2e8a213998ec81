package services

import "log"

// Notifier is the user-facing message channel the payment engine reports
// through. The HTTP shell answers Confirm and PromptSecret from request
// fields; headless callers get the log-only implementation.
type Notifier interface {
	// Notify delivers a fire-and-forget informational message.
	Notify(message string)
	// Confirm asks a yes/no question and blocks until answered.
	Confirm(message string) bool
	// PromptSecret asks for a secret value; ok is false when dismissed.
	PromptSecret(message string) (secret string, ok bool)
}

// LogNotifier writes notifications to the process log and declines every
// interactive prompt, so unattended runs never block.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Printf("[NOTIFY] %s", message)
}

func (LogNotifier) Confirm(message string) bool {
	log.Printf("[NOTIFY] declined (unattended): %s", message)
	return false
}

func (LogNotifier) PromptSecret(message string) (string, bool) {
	return "", false
}

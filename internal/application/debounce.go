package application

import "sync"

// ErrorDebouncer suppresses repeated reports of an identical error across
// consecutive passes. A message is reported on first occurrence and whenever
// it differs from the previously reported one; a successful pass clears the
// memory so an old message reappearing later is reported again.
type ErrorDebouncer struct {
	mu          sync.Mutex
	lastMessage string
}

// ShouldReport records err's message and reports whether it should be
// surfaced, i.e. whether it differs from the last reported message.
func (d *ErrorDebouncer) ShouldReport(err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	msg := err.Error()
	if msg == d.lastMessage {
		return false
	}
	d.lastMessage = msg
	return true
}

// Clear forgets the last reported message. Called after a successful pass.
func (d *ErrorDebouncer) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastMessage = ""
}

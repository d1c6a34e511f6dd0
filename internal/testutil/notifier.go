package testutil

import (
	"slices"
	"sync"
)

// RecordingNotifier keeps every message it was asked to show.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

// Messages returns the notified messages in order. Never nil.
func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := []string{}
	return append(out, n.messages...)
}

// Last returns the most recent message, or "".
func (n *RecordingNotifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

// Contains reports whether message was notified at least once.
func (n *RecordingNotifier) Contains(message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Contains(n.messages, message)
}

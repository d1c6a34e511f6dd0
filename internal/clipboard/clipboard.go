// Package clipboard provides cards.Clipboard implementations.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"pwcards/internal/cards"
)

// System writes to the operating system clipboard.
type System struct{}

var _ cards.Clipboard = System{}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing to system clipboard: %w", err)
	}
	return nil
}

// Memory keeps the last written text. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
}

var _ cards.Clipboard = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.writes++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// New returns the clipboard selected by kind: "system" (default) or "memory".
func New(kind string) (cards.Clipboard, error) {
	switch kind {
	case "system", "":
		return System{}, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard type: %q", kind)
	}
}

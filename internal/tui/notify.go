package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pwcards/internal/cards"
)

// Notifications carries messages from the view-models to the status line.
// Notify never blocks; when the buffer is full the message is dropped.
type Notifications struct {
	ch chan string
}

var _ cards.Notifier = (*Notifications)(nil)

func NewNotifications() *Notifications {
	return &Notifications{ch: make(chan string, 16)}
}

func (n *Notifications) Notify(message string) {
	select {
	case n.ch <- message:
	default:
	}
}

type notificationMsg string

// wait returns a command that delivers the next notification.
func (n *Notifications) wait() tea.Cmd {
	return func() tea.Msg {
		return notificationMsg(<-n.ch)
	}
}

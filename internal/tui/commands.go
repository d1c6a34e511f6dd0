package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pwcards/internal/cards"
	"pwcards/internal/model"
)

type loadedMsg struct{ err error }

// submittedMsg carries the form generation the submit was started for.
type submittedMsg struct {
	gen   uint64
	entry model.PasswordEntry
	err   error
}

type deletedMsg struct {
	id  string
	err error
}

func loadCmd(ctx context.Context, s *cards.Session) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: s.List.Load(ctx)}
	}
}

func submitCmd(ctx context.Context, s *cards.Session, gen uint64) tea.Cmd {
	return func() tea.Msg {
		entry, err := s.Submit(ctx)
		return submittedMsg{gen: gen, entry: entry, err: err}
	}
}

func deleteCmd(ctx context.Context, s *cards.Session, id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: s.Delete(ctx, id)}
	}
}

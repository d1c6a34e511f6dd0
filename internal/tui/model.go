// Package tui implements the interactive root view on top of cards.Session.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pwcards/internal/cards"
)

type screen int

const (
	screenList screen = iota
	screenForm
)

// Model is the root Bubble Tea model. The session is shared state; the
// model only keeps what the terminal needs on top of it.
type Model struct {
	ctx     context.Context
	session *cards.Session
	notes   *Notifications

	screen screen

	// list screen
	search    textinput.Model
	searching bool
	cursor    int
	loading   bool

	// form screen
	inputs     []textinput.Model
	focus      int
	submitting bool

	status string
	width  int
	height int
}

// New creates the root model. notes must be the Notifier the session's
// view-models were built with.
func New(ctx context.Context, session *cards.Session, notes *Notifications) Model {
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "

	return Model{
		ctx:     ctx,
		session: session,
		notes:   notes,
		screen:  screenList,
		search:  search,
		loading: true,
	}
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(ctx context.Context, session *cards.Session, notes *Notifications) error {
	p := tea.NewProgram(New(ctx, session, notes), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive view: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.ctx, m.session), m.notes.wait())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case notificationMsg:
		m.status = string(msg)
		return m, m.notes.wait()

	case loadedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case deletedMsg:
		if msg.err == nil {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case submittedMsg:
		return m.handleSubmitted(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	if m.screen == screenForm {
		return m.updateForm(msg)
	}
	return m.updateList(msg)
}

func (m Model) View() string {
	if m.screen == screenForm {
		return m.viewForm()
	}
	return m.viewList()
}

func (m Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.session.Form.Generation() {
		// the form was closed or reopened since; only the list may have changed
		m.clampCursor()
		return m, nil
	}
	m.submitting = false

	switch {
	case msg.err == nil:
		m.screen = screenList
		m.status = ""
		m.clampCursor()
	case errors.Is(msg.err, cards.ErrSubmitInProgress):
		// the earlier submit reports its own result
	default:
		var verrs cards.ValidationErrors
		if errors.As(msg.err, &verrs) {
			m.status = ""
		}
	}
	return m, nil
}

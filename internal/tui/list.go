package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pwcards/internal/cards"
	"pwcards/internal/model"
)

const loadFailedBanner = "Could not load passwords. Press r to retry."

func (m Model) rows() []model.PasswordEntry {
	return m.session.List.FilteredEntries()
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) current() (model.PasswordEntry, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.PasswordEntry{}, false
	}
	return rows[m.cursor], true
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if m.searching {
		if ok && (key.Type == tea.KeyEsc || key.Type == tea.KeyEnter) {
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.session.List.SetSearch(m.search.Value())
		m.clampCursor()
		return m, cmd
	}
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, tea.Batch(m.search.Focus(), textinput.Blink)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, loadCmd(m.ctx, m.session)
	case "n":
		if m.session.OpenCreate() {
			return m.openForm()
		}
	case "enter":
		if entry, ok := m.current(); ok && m.session.OpenEdit(entry) {
			return m.openForm()
		}
	case "d":
		if entry, ok := m.current(); ok {
			return m, deleteCmd(m.ctx, m.session, entry.ID)
		}
	}
	return m, nil
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Passwords"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	state, _ := m.session.List.LoadState()
	switch {
	case state == cards.LoadFailed:
		b.WriteString(bannerStyle.Render(loadFailedBanner))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteString("\n")
	}

	if state == cards.LoadLoaded || m.session.List.Len() > 0 {
		if empty := m.session.List.EmptyMessage(); empty != "" {
			b.WriteString(dimStyle.Render(empty))
			b.WriteString("\n")
		}
		for i, e := range m.rows() {
			line := fmt.Sprintf("%-24s %s", e.Name, dimStyle.Render(e.Username))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("/ search  enter edit  n new  d delete  r reload  q quit"))
	return b.String()
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pwcards/internal/cards"
)

type formField struct {
	name        string
	label       string
	placeholder string
}

var formFields = []formField{
	{cards.FieldURL, "URL", "https://example.com/login"},
	{cards.FieldName, "Name", "Example"},
	{cards.FieldUsername, "Username", "person@mail.io"},
	{cards.FieldPassword, "Password", "**************"},
}

const passwordInput = 3

// openForm switches to the form screen with inputs seeded from the draft.
func (m Model) openForm() (tea.Model, tea.Cmd) {
	draft := cards.DraftFields(m.session.Form.Draft())

	m.inputs = make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.placeholder
		in.SetValue(draft[f.name])
		m.inputs[i] = in
	}
	m.applyEchoMode()

	m.screen = screenForm
	m.status = ""
	m.submitting = false
	m.focus = 0
	return m, m.inputs[0].Focus()
}

func (m *Model) applyEchoMode() {
	in := &m.inputs[passwordInput]
	if m.session.Form.ShowPassword() {
		in.EchoMode = textinput.EchoNormal
	} else {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '*'
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = (i%n + n) % n
	return m.inputs[m.focus].Focus()
}

// syncDraft copies every input into the form draft.
func (m Model) syncDraft() {
	for i, f := range formFields {
		// field names come from formFields, so SetField cannot fail
		_ = m.session.Form.SetField(f.name, m.inputs[i].Value())
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok {
		switch key.String() {
		case "esc":
			m.session.Cancel()
			m.screen = screenList
			m.status = ""
			return m, nil
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "ctrl+t":
			m.session.Form.ToggleShowPassword()
			m.applyEchoMode()
			return m, nil
		case "ctrl+y":
			m.syncDraft()
			if err := m.session.Form.CopyPassword(); err != nil {
				m.status = err.Error()
			}
			return m, nil
		case "ctrl+s", "enter":
			if m.submitting {
				return m, nil
			}
			m.syncDraft()
			m.submitting = true
			return m, submitCmd(m.ctx, m.session, m.session.Form.Generation())
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.session.Form.Title()))
	b.WriteString("\n")

	errs := m.session.Form.Errors()
	for i, f := range formFields {
		label := f.label
		if i == m.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := errs[f.name]; ok {
			b.WriteString(labelStyle.Render(""))
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("Saving..."))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("ctrl+s save  ctrl+y copy password  ctrl+t show/hide  tab next  esc cancel"))
	return b.String()
}

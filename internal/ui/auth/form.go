// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the login and registration forms of the TUI.
package auth

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/session"
	"github.com/garcessebastian/camila-tui/internal/ui/styles"
)

// Mode selects between the two forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// field indexes into the form's focus order. The terms checkbox and
// submit button participate in the same tab cycle as the inputs.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldTerms
	fieldSubmit
)

// ResultMsg carries the outcome of a submitted form.
type ResultMsg struct {
	Account *model.Account
	Err     error
}

// Form is the login/register view.
type Form struct {
	theme *styles.Theme
	ctrl  *session.Controller
	mode  Mode

	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	terms    bool

	focus      int
	submitting bool
	errText    string

	// Account is set after a successful submit.
	Account *model.Account
	Done    bool
}

// New builds a form in the given mode.
func New(theme *styles.Theme, ctrl *session.Controller, mode Mode) Form {
	name := textinput.New()
	name.Placeholder = "Nombre completo"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "correo@ejemplo.com"
	email.CharLimit = 200

	password := textinput.New()
	password.Placeholder = "Contraseña"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 200

	f := Form{
		theme:    theme,
		ctrl:     ctrl,
		mode:     mode,
		name:     name,
		email:    email,
		password: password,
	}
	f.focus = f.firstField()
	f.applyFocus()
	return f
}

func (f *Form) firstField() int {
	if f.mode == ModeRegister {
		return fieldName
	}
	return fieldEmail
}

// Init satisfies tea.Model.
func (f Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input and submission results.
func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		f.submitting = false
		if msg.Err != nil {
			f.errText = msg.Err.Error()
			return f, nil
		}
		f.Account = msg.Account
		f.Done = true
		return f, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			return f, tea.Quit
		case key.Matches(msg, keyNext):
			f.moveFocus(1)
			return f, nil
		case key.Matches(msg, keyPrev):
			f.moveFocus(-1)
			return f, nil
		case key.Matches(msg, keyToggle) && f.focus == fieldTerms:
			f.terms = !f.terms
			return f, nil
		case key.Matches(msg, keySubmit):
			if f.focus == fieldTerms {
				f.terms = !f.terms
				return f, nil
			}
			if f.focus == fieldSubmit || f.focus == fieldPassword {
				return f.submit()
			}
			f.moveFocus(1)
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldEmail:
		f.email, cmd = f.email.Update(msg)
	case fieldPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

var (
	keyQuit   = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	keyNext   = key.NewBinding(key.WithKeys("tab", "down"))
	keyPrev   = key.NewBinding(key.WithKeys("shift+tab", "up"))
	keyToggle = key.NewBinding(key.WithKeys(" "))
	keySubmit = key.NewBinding(key.WithKeys("enter"))
)

func (f *Form) moveFocus(delta int) {
	first := f.firstField()
	f.focus += delta
	if f.focus < first {
		f.focus = fieldSubmit
	}
	if f.focus > fieldSubmit {
		f.focus = first
	}
	f.applyFocus()
}

func (f *Form) applyFocus() {
	f.name.Blur()
	f.email.Blur()
	f.password.Blur()
	switch f.focus {
	case fieldName:
		f.name.Focus()
	case fieldEmail:
		f.email.Focus()
	case fieldPassword:
		f.password.Focus()
	}
}

func (f Form) submit() (tea.Model, tea.Cmd) {
	if f.submitting {
		return f, nil
	}
	f.submitting = true
	f.errText = ""

	mode := f.mode
	ctrl := f.ctrl
	name, email, password, terms := f.name.Value(), f.email.Value(), f.password.Value(), f.terms

	return f, func() tea.Msg {
		var account *model.Account
		var err error
		if mode == ModeRegister {
			account, err = ctrl.Register(context.Background(), name, email, password, terms)
		} else {
			account, err = ctrl.Login(context.Background(), email, password, terms)
		}
		return ResultMsg{Account: account, Err: err}
	}
}

// View renders the form box.
func (f Form) View() string {
	t := f.theme

	title := "Iniciar sesión"
	if f.mode == ModeRegister {
		title = "Crear cuenta"
	}

	var rows []string
	rows = append(rows, t.FormTitle.Render(title), "")

	if f.mode == ModeRegister {
		rows = append(rows, t.FormLabel.Render("Nombre"), f.name.View(), "")
	}
	rows = append(rows,
		t.FormLabel.Render("Correo"), f.email.View(), "",
		t.FormLabel.Render("Contraseña"), f.password.View(), "",
	)

	check := "[ ]"
	if f.terms {
		check = "[x]"
	}
	termsLine := check + " Acepto los términos y condiciones"
	if f.focus == fieldTerms {
		termsLine = t.FormFocused.Render(termsLine)
	} else {
		termsLine = t.FormBlurred.Render(termsLine)
	}
	rows = append(rows, termsLine, "")

	button := t.ButtonInactive.Render(title)
	if f.focus == fieldSubmit {
		button = t.ButtonActive.Render(title)
	}
	if f.submitting {
		button = t.ButtonInactive.Render("Enviando...")
	}
	rows = append(rows, button)

	if f.errText != "" {
		rows = append(rows, "", t.FormError.Render(f.errText))
	}

	return t.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

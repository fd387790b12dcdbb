// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbot-tui/internal/authflow"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

// FormKind identifies which auth overlay is open.
type FormKind int

const (
	FormLogin FormKind = iota
	FormRegister
)

func (k FormKind) String() string {
	if k == FormRegister {
		return "Sign Up"
	}
	return "Login"
}

type formField struct {
	name  string
	label string
	input textinput.Model
}

// AuthForm is a login or registration overlay.
type AuthForm struct {
	kind   FormKind
	state  *authflow.FormState
	fields []formField
	focus  int
	hint   string
}

// NewLoginForm creates an empty login overlay.
func NewLoginForm() *AuthForm {
	return newAuthForm(FormLogin, []formField{
		newField(authflow.FieldUsername, "Username", false),
		newField(authflow.FieldPassword, "Password", true),
	})
}

// NewRegisterForm creates an empty registration overlay. policyHint is
// shown under the fields.
func NewRegisterForm(policyHint string) *AuthForm {
	f := newAuthForm(FormRegister, []formField{
		newField(authflow.FieldUsername, "Username", false),
		newField(authflow.FieldEmail, "Email", false),
		newField(authflow.FieldPassword, "Password", true),
		newField(authflow.FieldConfirmPassword, "Confirm password", true),
	})
	f.hint = policyHint
	return f
}

func newAuthForm(kind FormKind, fields []formField) *AuthForm {
	f := &AuthForm{kind: kind, state: authflow.NewFormState(), fields: fields}
	f.fields[0].input.Focus()
	return f
}

func newField(name, label string, secret bool) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return formField{name: name, label: label, input: ti}
}

// Kind returns the overlay kind.
func (f *AuthForm) Kind() FormKind {
	return f.kind
}

// State returns the form state shared with the submission goroutine.
func (f *AuthForm) State() *authflow.FormState {
	return f.state
}

// Focused returns the name of the focused field.
func (f *AuthForm) Focused() string {
	return f.fields[f.focus].name
}

// SetValue fills a field, e.g. to carry a username from registration to login.
func (f *AuthForm) SetValue(field, value string) {
	for i := range f.fields {
		if f.fields[i].name == field {
			f.fields[i].input.SetValue(value)
			f.state.Set(field, value)
		}
	}
}

// SetNotice shows an informational line, e.g. after registration.
func (f *AuthForm) SetNotice(msg string) {
	f.state.SetNotice(msg)
}

// Close dismisses the overlay; a pending submission's result is dropped.
func (f *AuthForm) Close() {
	f.state.Close()
}

// Sync copies state back into the inputs after a submission reset them.
func (f *AuthForm) Sync() {
	for i := range f.fields {
		if v := f.state.Value(f.fields[i].name); v != f.fields[i].input.Value() {
			f.fields[i].input.SetValue(v)
		}
	}
}

// Update handles key input. Enter and Esc are handled by the caller.
func (f *AuthForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.moveFocus(1)
			return nil
		case "shift+tab", "up":
			f.moveFocus(-1)
			return nil
		}
	}

	if f.state.Loading() {
		return nil
	}

	field := &f.fields[f.focus]
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	f.state.Set(field.name, field.input.Value())
	return cmd
}

func (f *AuthForm) moveFocus(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// View renders the overlay box.
func (f *AuthForm) View(theme *styles.Theme) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render(f.kind.String()))
	b.WriteString("\n")

	for i, field := range f.fields {
		label := theme.FormLabel
		if i == f.focus {
			label = theme.FormLabelFocused
		}
		b.WriteString(label.Render(field.label))
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}

	if f.hint != "" {
		b.WriteString(theme.FormHint.Render(f.hint))
		b.WriteString("\n")
	}

	switch {
	case f.state.Loading():
		b.WriteString("\n" + theme.ThinkingText.Render("Please wait..."))
	case f.state.Error() != "":
		b.WriteString("\n" + styles.RenderError(f.state.Error()))
	case f.state.Notice() != "":
		b.WriteString("\n" + styles.RenderSuccess(f.state.Notice()))
	}

	help := "enter submit  tab next  esc close"
	if f.kind == FormLogin {
		help += "  ctrl+r sign up"
	} else {
		help += "  ctrl+l login"
	}
	b.WriteString("\n" + theme.FormHint.Render(help))

	return theme.FormBox.Render(b.String())
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbot-tui/internal/authflow"
	convo "github.com/jeranaias/chatbot-tui/internal/chat"
	"github.com/jeranaias/chatbot-tui/internal/commands"
	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/components"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

// Deps are the collaborators the view drives.
type Deps struct {
	Context  context.Context
	Session  *session.Manager
	Chat     *convo.Session
	Login    *authflow.Login
	Register *authflow.Registration
	Theme    *styles.Theme
	Render   components.RendererOptions
	Title    string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	deps     Deps
	keyMap   KeyMap
	theme    *styles.Theme
	renderer *components.MessageRenderer

	commands  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	authState session.State
	user      *model.User
	sending   bool
	overlay   *components.AuthForm

	notice  string
	errText string
}

// New creates the chat screen.
func New(deps Deps) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Theme == nil {
		deps.Theme = styles.NewTheme()
	}
	if deps.Title == "" {
		deps.Title = "chatbot"
	}

	// Create text input with prompt
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	// Create spinner with ASCII-compatible animation
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = deps.Theme.Spinner

	reg := commands.NewRegistry()

	return Model{
		deps:      deps,
		commands:  reg,
		parser:    commands.NewParser(reg),
		completer: commands.NewCompleter(reg),
		keyMap:    DefaultKeyMap(),
		theme:     deps.Theme,
		renderer:  components.NewMessageRenderer(deps.Theme, deps.Render, 80),
		viewport:  vp,
		input:     ti,
		spinner:   sp,
		authState: deps.Session.State(),
		user:      deps.Session.User(),
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the session bootstrap.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.deps.Session.BootstrapCmd(m.deps.Context),
	)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Overlay returns the open auth form, or nil.
func (m Model) Overlay() *components.AuthForm {
	return m.overlay
}

// Sending reports whether a chat request is in flight.
func (m Model) Sending() bool {
	return m.sending
}

// Notice returns the transient status line.
func (m Model) Notice() string {
	return m.notice
}

// ErrorText returns the transient error line.
func (m Model) ErrorText() string {
	return m.errText
}

// AuthState returns the session state last seen by the view.
func (m Model) AuthState() session.State {
	return m.authState
}

// InputValue returns the text in the input line.
func (m Model) InputValue() string {
	return m.input.Value()
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// refresh re-renders the thread into the viewport and scrolls to the end.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderer.RenderThread(m.deps.Chat.History()))
	m.viewport.GotoBottom()
}

func (m *Model) setNotice(msg string) {
	m.notice = msg
	m.errText = ""
}

func (m *Model) setError(msg string) {
	m.errText = msg
	m.notice = ""
}

func (m *Model) openLogin() {
	m.closeOverlay()
	m.overlay = components.NewLoginForm()
	m.input.Blur()
}

func (m *Model) openRegister() {
	m.closeOverlay()
	hint := ""
	if m.deps.Register != nil {
		hint = m.deps.Register.Policy().Message
	}
	m.overlay = components.NewRegisterForm(hint)
	m.input.Blur()
}

func (m *Model) closeOverlay() {
	if m.overlay != nil {
		m.overlay.Close()
		m.overlay = nil
	}
	m.input.Focus()
}

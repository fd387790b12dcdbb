// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbot-tui/internal/authflow"
	convo "github.com/jeranaias/chatbot-tui/internal/chat"
	"github.com/jeranaias/chatbot-tui/internal/commands"
	"github.com/jeranaias/chatbot-tui/internal/config"
	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/components"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader is the input side of the chat REPL.
type LineReader interface {
	// ReadInput reads one line and records it in history.
	ReadInput(prompt string) (string, error)
	// Ask reads one line without recording it.
	Ask(prompt string) (string, error)
	// Password reads one line without echo or history.
	Password(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support and Tab
// completion of slash commands.
func NewChatCLI(completer *commands.Completer) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if completer != nil {
		line.SetCompleter(completer.Lines)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Ask reads a line that is not added to history.
func (c *ChatCLI) Ask(prompt string) (string, error) {
	return c.line.Prompt(prompt)
}

// Password reads a line without echo.
func (c *ChatCLI) Password(prompt string) (string, error) {
	return c.line.PasswordPrompt(prompt)
}

// SaveHistory persists command history to file with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode",
		Long: `Chat in line mode, without the full-screen interface.

Commands during chat:
  /login      log in
  /register   create an account
  /logout     end the session
  /clear      clear the conversation
  /status     show the session
  /quit       exit (Ctrl+D also exits)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*opts, func(app *App) error {
				repl := NewREPL(app, nil, cmd.OutOrStdout())
				in := NewChatCLI(commands.NewCompleter(repl.commands))
				defer in.Close()
				repl.in = in
				return repl.Run(cmd.Context())
			})
		},
	}
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-mode chat loop.
type REPL struct {
	app      *App
	in       LineReader
	out      io.Writer
	renderer *components.MessageRenderer
	commands *commands.Registry
	parser   *commands.Parser
}

// NewREPL creates a chat loop. Bot messages appended to the app's chat
// session are printed as they arrive.
func NewREPL(app *App, in LineReader, out io.Writer) *REPL {
	reg := commands.NewRegistry()
	r := &REPL{
		app:      app,
		in:       in,
		out:      out,
		commands: reg,
		parser:   commands.NewParser(reg),
		renderer: components.NewMessageRenderer(styles.NewTheme(), components.RendererOptions{
			Markdown:       app.Config.UI.Markdown && ColorsEnabled(),
			ShowTimestamps: app.Config.UI.ShowTimestamps,
		}, GetTerminalWidth()),
	}
	app.Chat.OnAppend(func(msg model.Message) {
		if !msg.IsUser() {
			fmt.Fprintln(r.out, r.renderer.Render(msg))
			fmt.Fprintln(r.out)
		}
	})
	return r
}

// Run bootstraps the session and reads input until /quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	state := r.app.Session.Bootstrap(ctx)
	r.printWelcome(state)

	for {
		input, err := r.in.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and end of input all end the session
			fmt.Fprintln(r.out)
			return nil
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			if !r.handleSlashCommand(ctx, trimmed) {
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

func (r *REPL) printWelcome(state session.State) {
	fmt.Fprintln(r.out, TitleStyle.Render("chatbot")+" "+DimStyle.Render(r.app.Config.API.BaseURL))
	if state == session.StateAuthenticated {
		fmt.Fprintln(r.out, SuccessStyle.Render("Logged in as "+r.app.Session.User().Username))
	} else {
		fmt.Fprintln(r.out, WarningStyle.Render("Not logged in.")+" "+DimStyle.Render("Use /login or /register."))
	}
	fmt.Fprintln(r.out, DimStyle.Render("Type /help for commands."))
	fmt.Fprintln(r.out)
}

// send submits one message. Ctrl+C cancels the request in flight.
func (r *REPL) send(ctx context.Context, input string) {
	sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	res := r.app.Chat.Send(sendCtx, input)
	switch res.Outcome {
	case convo.OutcomeLoginRequired:
		r.printError("Please log in first with /login")
	case convo.OutcomeExpired:
		fmt.Fprintln(r.out, DimStyle.Render("Use /login to continue."))
	}
}

// handleSlashCommand runs a command and reports whether the loop continues.
func (r *REPL) handleSlashCommand(ctx context.Context, input string) bool {
	result := r.parser.Parse(input)
	if result.Error != nil {
		r.printError(result.Error.Error())
		return true
	}

	switch result.Command.Action {
	case commands.ActionQuit:
		return false
	case commands.ActionHelp:
		r.printHelp()
	case commands.ActionLogin:
		r.login(ctx)
	case commands.ActionRegister:
		r.register(ctx)
	case commands.ActionLogout:
		if !r.app.Session.Authenticated() {
			r.printError("Not logged in")
			break
		}
		if err := r.app.Session.Logout(ctx); err != nil {
			r.printError("Logged out, but the saved token could not be removed")
			break
		}
		fmt.Fprintln(r.out, SuccessStyle.Render("Logged out"))
	case commands.ActionClear:
		r.app.Chat.Reset()
		fmt.Fprintln(r.out, DimStyle.Render("Conversation cleared"))
	case commands.ActionStatus:
		writeStatus(r.out, r.app.Session.Status())
	}
	return true
}

func (r *REPL) login(ctx context.Context) {
	if r.app.Session.Authenticated() {
		r.printError("Already logged in; use /logout first")
		return
	}
	username, err := r.in.Ask("Username: ")
	if err != nil {
		return
	}
	password, err := r.in.Password("Password: ")
	if err != nil {
		return
	}

	user, err := r.app.Login.Submit(ctx, username, password)
	if err != nil {
		r.printError(authflow.Message(err))
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("Logged in as "+user.Username))
}

func (r *REPL) register(ctx context.Context) {
	var in authflow.RegisterInput
	var err error
	if in.Username, err = r.in.Ask("Username: "); err != nil {
		return
	}
	if in.Email, err = r.in.Ask("Email: "); err != nil {
		return
	}
	fmt.Fprintln(r.out, DimStyle.Render(r.app.Register.Policy().Message))
	if in.Password, err = r.in.Password("Password: "); err != nil {
		return
	}
	if in.ConfirmPassword, err = r.in.Password("Confirm password: "); err != nil {
		return
	}

	res, err := r.app.Register.Submit(ctx, in)
	if err != nil {
		r.printError(authflow.Message(err))
		return
	}
	fmt.Fprintln(r.out, SuccessStyle.Render(res.Message)+" "+DimStyle.Render("Use /login to sign in as "+res.Username+"."))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, TitleStyle.Render("Commands"))
	for _, c := range r.commands.Help() {
		desc := c.Description
		if len(c.Aliases) > 0 {
			desc += DimStyle.Render(" (" + strings.Join(c.Aliases, ", ") + ")")
		}
		fmt.Fprintln(r.out, "  "+RenderLabel(c.Name)+desc)
	}
}

func (r *REPL) printError(msg string) {
	fmt.Fprintln(r.out, ErrorStyle.Render(styles.StatusIndicators.Error)+" "+msg)
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/askbase/askbase-cli/internal/adapters/driving/tui/styles"
	"github.com/askbase/askbase-cli/internal/core/domain"
)

// conversationStarted carries the created conversation and welcome content.
type conversationStarted struct {
	conversation *domain.Conversation
	welcome      *domain.WelcomeContent
	err          error
}

// answerReceived carries the result of a sent message.
type answerReceived struct {
	result *domain.ChatResult
	err    error
}

// entry is one rendered transcript line group.
type entry struct {
	role       string
	text       string
	confidence *float64
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	document     *domain.Document
	conversation *domain.Conversation

	input      textinput.Model
	viewport   viewport.Model
	transcript []entry

	status  string
	waiting bool
	err     error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application for the given document.
func NewApp(ports *Ports, doc *domain.Document) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if doc == nil {
		return nil, ErrMissingDocument
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.CharLimit = 0
	ti.Focus()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   styles.DefaultStyles(),
		document: doc,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Starting conversation...",
		waiting:  true,
		width:    80,
		height:   24,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Conversation returns the active conversation, nil until started.
func (a *App) Conversation() *domain.Conversation {
	return a.conversation
}

// Init starts the conversation and the input cursor blink.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.startConversation())
}

func (a *App) startConversation() tea.Cmd {
	return func() tea.Msg {
		conv, welcome, err := a.ports.Chat.StartConversation(a.ctx, a.document.ID, "")
		return conversationStarted{conversation: conv, welcome: welcome, err: err}
	}
}

func (a *App) sendMessage(text string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.ports.Chat.Send(a.ctx, a.conversation.ID, text)
		return answerReceived{result: result, err: err}
	}
}

// Update handles messages and updates the view state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case conversationStarted:
		a.waiting = false
		if msg.err != nil {
			a.err = msg.err
			a.status = "Error: " + msg.err.Error()
			return a, nil
		}
		a.conversation = msg.conversation
		a.appendWelcome(msg.welcome)
		a.status = fmt.Sprintf("Chatting with %s", a.document.Filename)
		a.refreshTranscript()
		return a, nil

	case answerReceived:
		a.waiting = false
		if msg.err != nil {
			a.err = msg.err
			a.status = "Error: " + msg.err.Error()
			return a, nil
		}
		a.transcript = append(a.transcript, entry{
			role:       domain.RoleAssistant,
			text:       msg.result.Answer,
			confidence: msg.result.Confidence,
		})
		a.status = fmt.Sprintf("Chatting with %s", a.document.Filename)
		a.refreshTranscript()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		return a, tea.Quit
	case tea.KeyEnter:
		text := strings.TrimSpace(a.input.Value())
		if text == "" || a.waiting || a.conversation == nil {
			return a, nil
		}
		a.input.Reset()
		a.transcript = append(a.transcript, entry{role: domain.RoleUser, text: text})
		a.waiting = true
		a.status = "Thinking..."
		a.refreshTranscript()
		return a, a.sendMessage(text)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// appendWelcome turns best-effort welcome content into the opening
// assistant entry. Absent content leaves the transcript empty.
func (a *App) appendWelcome(welcome *domain.WelcomeContent) {
	if welcome == nil || (welcome.Summary == "" && len(welcome.SuggestedQuestions) == 0) {
		return
	}

	var b strings.Builder
	if welcome.Summary != "" {
		b.WriteString(welcome.Summary)
	}
	if len(welcome.SuggestedQuestions) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("You could ask:")
		for _, q := range welcome.SuggestedQuestions {
			b.WriteString("\n  - " + q)
		}
	}

	a.transcript = append(a.transcript, entry{role: domain.RoleAssistant, text: b.String()})
}

// layout recomputes the viewport dimensions from the terminal size.
func (a *App) layout() {
	_, th := a.styles.Transcript.GetFrameSize()
	_, ih := a.styles.InputField.GetFrameSize()
	reserved := 1 + ih + 1 + 2 // header + input frame + status + spacers
	vh := a.height - reserved - th
	if vh < 3 {
		vh = 3
	}
	a.viewport.Height = vh
	a.viewport.Width = max(20, a.width-4)
	a.input.Width = max(20, a.width-8)
}

func (a *App) refreshTranscript() {
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.transcript) == 0 {
		return a.styles.Muted.Render("No messages yet.")
	}

	wrap := lipgloss.NewStyle().Width(max(20, a.viewport.Width-2))
	parts := make([]string, 0, len(a.transcript))
	for _, e := range a.transcript {
		label := a.styles.AssistantLabel.Render("askbase")
		if e.role == domain.RoleUser {
			label = a.styles.UserLabel.Render("you")
		}
		block := label + "\n" + wrap.Render(e.text)
		if e.confidence != nil {
			block += "\n" + a.styles.Muted.Render(fmt.Sprintf("confidence %.2f", *e.confidence))
		}
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n\n")
}

// View renders the chat layout.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := a.styles.Title.Render("askbase chat") +
		a.styles.Muted.Render("  "+a.document.Filename)
	transcript := a.styles.Transcript.Render(a.viewport.View())
	input := a.styles.InputField.Render(a.input.View())

	status := a.styles.StatusBar.Render(a.status)
	if a.err != nil {
		status = a.styles.Error.Render(a.status)
	}

	return header + "\n" + transcript + "\n" + input + "\n" + status
}

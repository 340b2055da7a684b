// ABOUTME: Bubble Tea chat interface over the contract conversation
// ABOUTME: Questions run as async commands; the status line tracks model and total cost
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/answerbot/internal/models"
)

// ChatPort is the TUI-facing subset of a conversation
type ChatPort interface {
	Ask(ctx context.Context, model models.ChatModel, question string) (*models.Turn, error)
	Reset()
	TotalCost() float64
}

// answerMsg carries a finished turn back into Update
type answerMsg struct {
	turn *models.Turn
	err  error
}

type entry struct {
	question string
	answer   string
	summary  string
	failed   bool
}

// Model is the Bubble Tea model for the chat screen
type Model struct {
	ctx      context.Context
	port     ChatPort
	model    models.ChatModel
	input    textinput.Model
	viewport viewport.Model
	entries  []entry
	status   string
	busy     bool
	ready    bool
}

// New creates a chat screen that asks questions with model
func New(ctx context.Context, port ChatPort, model models.ChatModel) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the contract and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		port:     port,
		model:    model,
		input:    ti,
		viewport: vp,
		status:   "Ready.",
	}
}

// Init initializes the model (text input cursor blink)
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		// header + status + input line
		reserved := 3 + qh + th
		m.viewport.Width = max(20, msg.Width-transcriptBoxStyle.GetHorizontalFrameSize())
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case answerMsg:
		m.busy = false
		if len(m.entries) == 0 {
			return m, nil
		}
		last := &m.entries[len(m.entries)-1]
		if msg.err != nil {
			last.failed = true
			last.answer = msg.err.Error()
			m.status = "Error: " + msg.err.Error()
		} else {
			last.answer = msg.turn.Answer
			last.summary = msg.turn.Summary()
			m.status = "Answered."
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		case "ctrl+t":
			m.model = m.model.Next()
			m.status = "Switched to " + m.model.String() + "."
			return m, nil
		case "ctrl+l":
			if m.busy {
				return m, nil
			}
			m.port.Reset()
			m.entries = nil
			m.status = "Conversation cleared."
			m.refresh()
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.input.SetValue("")
			m.entries = append(m.entries, entry{question: q})
			m.status = "Thinking with " + m.model.String() + "..."
			m.refresh()
			return m, m.ask(q)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	ctx, port, model := m.ctx, m.port, m.model
	return func() tea.Msg {
		turn, err := port.Ask(ctx, model, question)
		return answerMsg{turn: turn, err: err}
	}
}

// View renders header, transcript, input, and status line
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Contract Answerbot")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.statusLine())
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) statusLine() string {
	return fmt.Sprintf("%s | Model: %s | Total cost: $%.5f | ctrl+t model, ctrl+l clear, ctrl+c quit",
		m.status, m.model, m.port.TotalCost())
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return hintStyle.Render("No questions yet.")
	}

	width := max(20, m.viewport.Width)
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Width(width).Render("You: " + e.question))
		b.WriteString("\n")
		switch {
		case e.failed:
			b.WriteString(errorStyle.Width(width).Render(e.answer))
		case e.answer == "" && e.summary == "":
			b.WriteString(hintStyle.Render("..."))
		default:
			b.WriteString(lipgloss.NewStyle().Width(width).Render(e.answer))
			b.WriteString("\n")
			b.WriteString(hintStyle.Render(e.summary))
		}
	}
	return b.String()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run starts the full-screen chat program and blocks until it exits
func Run(ctx context.Context, port ChatPort, model models.ChatModel) error {
	p := tea.NewProgram(New(ctx, port, model), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

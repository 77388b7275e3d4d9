package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/prompt"
	"github.com/CrisMolina12/CatchaiIA/internal/service"
)

// FilesChangedMsg asks the model to re-ingest Files, replacing the current documents.
type FilesChangedMsg struct {
	Files []string
}

type answerMsg struct{ result service.Result }

type panelMsg struct {
	title string
	body  string
}

type ingestedMsg struct {
	result *domain.IngestResult
	err    error
}

type resetMsg struct {
	rebound bool
	err     error
}

// RebindFunc reloads the credential after a reset and reports whether it changed.
type RebindFunc func(ctx context.Context) (bool, error)

// Option configures a Model.
type Option func(*Model)

// WithRebind runs fn after every /reset so a switched API key takes effect.
func WithRebind(fn RebindFunc) Option {
	return func(m *Model) { m.rebind = fn }
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx      context.Context
	orch     *service.Orchestrator
	rebind   RebindFunc
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	panel    string
	status   string
	busy     bool
	ready    bool

	// pending holds the latest file list that arrived while busy
	pending    []string
	hasPending bool
}

// New creates the chat view over orch. The session may already hold documents.
func New(ctx context.Context, orch *service.Orchestrator, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents, or /help"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := Model{
		ctx:      ctx,
		orch:     orch,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		status:   "Ready.",
	}
	for _, opt := range opts {
		opt(&m)
	}
	if res := orch.Session().Result(); res != nil {
		m.panel = renderDocuments(res)
	} else {
		m.status = service.NoDocumentsAnswer
	}
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 + th // header, input line, status
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(line)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case answerMsg:
		m.busy = false
		m.status = statusFor(msg.result.Kind)
		m.refresh()
		return m.drain()

	case panelMsg:
		m.busy = false
		m.panel = titleStyle.Render(msg.title) + "\n" + msg.body
		m.status = "Ready."
		m.refresh()
		return m.drain()

	case ingestedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Ingestion failed: " + msg.err.Error()
			m.panel = ""
		} else {
			m.status = fmt.Sprintf("Loaded %d documents.", len(msg.result.Documents))
			m.panel = renderDocuments(msg.result)
		}
		m.refresh()
		return m.drain()

	case resetMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.status = "Reset failed: " + msg.err.Error()
		case msg.rebound:
			m.status = "Session reset with a new API key. " + service.NoDocumentsAnswer
			m.panel = ""
		default:
			m.status = "Session reset. " + service.NoDocumentsAnswer
			m.panel = ""
		}
		m.refresh()
		return m.drain()

	case FilesChangedMsg:
		if m.busy {
			m.pending, m.hasPending = msg.Files, true
			return m, nil
		}
		return m.start("Re-ingesting documents...", m.ingest(msg.Files))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		m.panel = helpText()
		m.refresh()
		return m, nil
	case "/docs":
		if res := m.orch.Session().Result(); res != nil {
			m.panel = renderDocuments(res)
		} else {
			m.panel = service.NoDocumentsLoaded
		}
		m.refresh()
		return m, nil
	case "/summary":
		return m.start("Generating summary...", func() tea.Msg {
			return panelMsg{title: "Executive summary", body: m.orch.Summarize(m.ctx)}
		})
	case "/compare":
		if arg == "" {
			m.status = "Usage: /compare <aspect>"
			return m, nil
		}
		return m.start("Comparing documents...", func() tea.Msg {
			return panelMsg{title: "Comparison: " + arg, body: m.orch.CompareDocuments(m.ctx, arg)}
		})
	case "/themes":
		return m.start("Identifying themes...", func() tea.Msg {
			themes, err := m.orch.Themes(m.ctx)
			if err != nil {
				return panelMsg{title: "Themes", body: err.Error()}
			}
			return panelMsg{title: "Themes", body: renderThemes(themes)}
		})
	case "/reset":
		return m.start("Resetting...", func() tea.Msg {
			if err := m.orch.Reset(m.ctx); err != nil {
				return resetMsg{err: err}
			}
			if m.rebind == nil {
				return resetMsg{}
			}
			changed, err := m.rebind(m.ctx)
			return resetMsg{rebound: changed, err: err}
		})
	}
	if strings.HasPrefix(cmd, "/") {
		m.status = "Unknown command " + cmd + ", try /help"
		return m, nil
	}

	m.orch.Session().AppendUser(line)
	m.refresh()
	return m.start("Thinking...", func() tea.Msg {
		return answerMsg{result: m.orch.AskQuestion(m.ctx, line)}
	})
}

func (m Model) start(status string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = status
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// drain starts the re-ingestion deferred while the model was busy, if any.
// Each watcher batch carries the full file list, so only the latest is kept.
func (m Model) drain() (tea.Model, tea.Cmd) {
	if !m.hasPending {
		return m, nil
	}
	files := m.pending
	m.pending, m.hasPending = nil, false
	return m.start("Re-ingesting documents...", m.ingest(files))
}

func (m Model) ingest(files []string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.orch.Ingest(m.ctx, files)
		return ingestedMsg{result: res, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("CatchAI") + "  " + dimStyle.Render("PDF question answering")
	status := statusStyle.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" +
		transcriptStyle.Render(m.viewport.View()) + "\n" +
		inputStyle.Render(m.input.View()) + "\n" +
		status
}

func (m Model) transcript() string {
	var sb strings.Builder
	history := m.orch.Session().History()
	if len(history) == 0 {
		sb.WriteString(welcomeText())
	}
	for _, t := range history {
		sb.WriteString(renderTurn(t))
		sb.WriteString("\n")
	}
	if m.panel != "" {
		sb.WriteString(m.panel)
	}
	return sb.String()
}

func statusFor(k service.Kind) string {
	switch k {
	case service.KindSuccess:
		return "Ready."
	case service.KindNoDocuments:
		return service.NoDocumentsAnswer
	case service.KindRateLimited:
		return "Rate limited."
	case service.KindAuthError:
		return "Authentication failed."
	default:
		return "Request failed."
	}
}

func welcomeText() string {
	var sb strings.Builder
	sb.WriteString("Ask anything about the loaded PDFs. Suggested questions:\n")
	for _, q := range prompt.SuggestedQuestions {
		sb.WriteString("  - " + q + "\n")
	}
	sb.WriteString("\nType /help for commands.\n")
	return dimStyle.Render(sb.String())
}

func helpText() string {
	return strings.Join([]string{
		titleStyle.Render("Commands"),
		"  /summary           executive summary of all documents",
		"  /compare <aspect>  compare documents on an aspect",
		"  /themes            main themes across documents",
		"  /docs              loaded documents",
		"  /reset             drop documents and history",
		"  /quit              exit",
	}, "\n")
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

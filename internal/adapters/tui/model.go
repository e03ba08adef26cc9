package tui

import (
	"context"
	"strings"

	"github.com/bnema/solgifs-cli/internal/adapters/render/board"
	"github.com/bnema/solgifs-cli/internal/application"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BoardService is the slice of application.Board the UI drives.
type BoardService interface {
	Start(ctx context.Context) application.Snapshot
	Connect(ctx context.Context) (application.Snapshot, error)
	Initialize(ctx context.Context) (application.Snapshot, error)
	Submit(ctx context.Context, link string) (application.Snapshot, error)
	Refresh(ctx context.Context) application.Snapshot
}

var keyHints = map[domain.Command]string{
	domain.CommandConnect:    "[c]",
	domain.CommandInitialize: "[i]",
	domain.CommandSubmit:     "[enter]",
	domain.CommandRefresh:    "[r]",
}

type operation string

const (
	opStart      operation = "start"
	opConnect    operation = "connect"
	opInitialize operation = "initialize"
	opSubmit     operation = "submit"
	opRefresh    operation = "refresh"
)

type resultMsg struct {
	op       operation
	snapshot application.Snapshot
	err      error
}

type Model struct {
	ctx     context.Context
	service BoardService

	snapshot application.Snapshot
	pending  map[operation]bool
	failure  string

	composer domain.Composer
	input    textinput.Model
	spinner  spinner.Model
	styles   board.Styles
	status   lipgloss.Style
}

func New(ctx context.Context, service BoardService, initial application.Snapshot) Model {
	input := textinput.New()
	input.Placeholder = "https://media.giphy.com/…"
	input.Prompt = "link> "
	input.CharLimit = 512
	input.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctx:      ctx,
		service:  service,
		snapshot: initial,
		pending:  map[operation]bool{opStart: true},
		input:    input,
		spinner:  spin,
		styles:   board.NewStyles(),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Init runs the silent reconnect once the first frame is on screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start)
}

func (m Model) start() tea.Msg {
	return resultMsg{op: opStart, snapshot: m.service.Start(m.ctx)}
}

func (m Model) connect() tea.Msg {
	snapshot, err := m.service.Connect(m.ctx)
	return resultMsg{op: opConnect, snapshot: snapshot, err: err}
}

func (m Model) initialize() tea.Msg {
	snapshot, err := m.service.Initialize(m.ctx)
	return resultMsg{op: opInitialize, snapshot: snapshot, err: err}
}

func (m Model) refresh() tea.Msg {
	return resultMsg{op: opRefresh, snapshot: m.service.Refresh(m.ctx)}
}

func (m Model) submit(link string) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := m.service.Submit(m.ctx, link)
		return resultMsg{op: opSubmit, snapshot: snapshot, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case resultMsg:
		return m.handleResult(msg), nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch msg.String() {
		case "esc":
			m.input.Blur()
			return m, nil
		case "enter":
			return m.beginSubmit()
		}
		// The field is frozen until the remote answers.
		if m.composer.Submitting() {
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.composer.Edit(m.input.Value())
		return m, cmd
	}

	view := m.snapshot.View
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c":
		if view.Offers(domain.CommandConnect) && m.idle(opConnect) {
			m.pending[opConnect] = true
			m.failure = ""
			return m, m.connect
		}
	case "i":
		if view.Offers(domain.CommandInitialize) && m.idle(opInitialize) {
			m.pending[opInitialize] = true
			m.failure = ""
			return m, m.initialize
		}
	case "r":
		if view.Offers(domain.CommandRefresh) && m.idle(opRefresh) {
			m.pending[opRefresh] = true
			return m, m.refresh
		}
	case "/", "enter":
		if view.Offers(domain.CommandSubmit) {
			return m, m.input.Focus()
		}
	}

	return m, nil
}

func (m Model) beginSubmit() (tea.Model, tea.Cmd) {
	if !m.snapshot.View.Offers(domain.CommandSubmit) {
		return m, nil
	}

	link, ok := m.composer.Begin()
	if !ok {
		return m, nil
	}
	m.pending[opSubmit] = true
	m.failure = ""
	return m, m.submit(link)
}

func (m Model) handleResult(msg resultMsg) Model {
	m.pending = cloneWithout(m.pending, msg.op)
	m.snapshot = msg.snapshot

	if msg.op == opSubmit {
		if msg.err != nil {
			m.composer.Fail()
			m.input.SetValue(m.composer.Text)
		} else {
			m.composer.Succeed()
			m.input.Reset()
		}
	}

	if msg.err != nil {
		m.failure = string(msg.op) + " failed: " + msg.err.Error()
	}
	if !m.snapshot.View.Offers(domain.CommandSubmit) {
		m.input.Blur()
	}

	return m
}

func (m Model) idle(op operation) bool {
	return !m.pending[op]
}

func (m Model) busy() bool {
	return len(m.pending) > 0
}

func (m Model) View() string {
	lines := []string{board.View(m.snapshot, board.RenderOptions{Hints: keyHints, Limit: 20}, m.styles)}

	if m.snapshot.View.Offers(domain.CommandSubmit) {
		lines = append(lines, m.styles.Section.Render(m.composerView()))
	}
	if m.busy() {
		lines = append(lines, m.spinner.View()+" "+m.status.Render(m.pendingLabel()))
	}
	if m.failure != "" {
		lines = append(lines, m.styles.Warning.Render(m.failure))
	}
	lines = append(lines, m.status.Render("[q] quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m Model) composerView() string {
	switch {
	case m.composer.Submitting():
		return m.status.Render("submitting " + strings.TrimSpace(m.composer.Text) + " …")
	case m.input.Focused():
		return m.input.View()
	default:
		return m.status.Render("press / to type a link")
	}
}

func (m Model) pendingLabel() string {
	for _, op := range []operation{opSubmit, opInitialize, opConnect, opRefresh, opStart} {
		if m.pending[op] {
			if op == opStart {
				return "checking wallet…"
			}
			return string(op) + "…"
		}
	}
	return ""
}

func cloneWithout(pending map[operation]bool, op operation) map[operation]bool {
	next := make(map[operation]bool, len(pending))
	for key, value := range pending {
		if key != op && value {
			next[key] = true
		}
	}
	return next
}

// Run starts the interactive board on the terminal.
func Run(ctx context.Context, service BoardService, initial application.Snapshot, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(ctx, service, initial), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...).Run()
	return err
}

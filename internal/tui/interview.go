// interview.go is the chat screen driving one interview session.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memoflow-dev/memoflow/internal/interview"
)

type questionMsg struct {
	text string
}

type outcomeMsg struct {
	outcome interview.Outcome
	err     error
}

type interviewModel struct {
	ctx    context.Context
	driver *interview.Driver

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	lines   []string
	waiting bool
	ready   bool

	savedPath    string
	insightsPath string
	err          error
}

func newInterviewModel(ctx context.Context, d *interview.Driver) interviewModel {
	ti := textinput.New()
	ti.Placeholder = "Your answer (quit / summary / context)"
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return interviewModel{
		ctx:     ctx,
		driver:  d,
		input:   ti,
		spinner: sp,
		waiting: true,
	}
}

func (m interviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

func (m interviewModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		q, err := m.driver.Start(m.ctx)
		if err != nil {
			return outcomeMsg{err: err}
		}
		return questionMsg{text: q}
	}
}

func (m interviewModel) submitCmd(input string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.driver.HandleInput(m.ctx, input)
		return outcomeMsg{outcome: outcome, err: err}
	}
}

func (m interviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case questionMsg:
		m.appendLine(coachStyle.Render("coach: ") + msg.text)
		m.waiting = false
		return m, nil

	case outcomeMsg:
		return m.handleOutcome(msg)

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.waiting {
				return m, nil
			}
			// End gracefully so the session is saved.
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.submitCmd("quit"))

		case "enter":
			if m.waiting {
				return m, nil
			}
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			m.input.SetValue("")
			lower := strings.ToLower(value)
			if lower != "summary" && lower != "context" {
				m.appendLine(authorStyle.Render("you: ") + value)
			}
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.submitCmd(value))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m interviewModel) handleOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	m.waiting = false

	if msg.err != nil {
		if msg.outcome.Action == interview.ActionTerminated {
			// Save failed; keep the session alive for a retry.
			m.appendLine(errorStyle.Render("save failed: " + msg.err.Error()))
			m.appendLine(systemStyle.Render("type quit to retry saving"))
			return m, nil
		}
		m.err = msg.err
		return m, tea.Quit
	}

	switch msg.outcome.Action {
	case interview.ActionAsk:
		m.appendLine(coachStyle.Render("coach: ") + msg.outcome.Text)
	case interview.ActionSummary, interview.ActionContext:
		m.appendLine(systemStyle.Render(msg.outcome.Text))
	case interview.ActionTerminated:
		m.savedPath = msg.outcome.SavedPath
		m.insightsPath = msg.outcome.InsightsPath
		return m, tea.Quit
	}
	return m, nil
}

func (m *interviewModel) appendLine(line string) {
	m.lines = append(m.lines, line, "")
	m.refreshViewport()
}

func (m *interviewModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m interviewModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render("Interview " + m.driver.SessionID())

	var footer string
	if m.waiting {
		footer = m.spinner.View() + " thinking..."
	} else {
		footer = m.input.View()
	}
	help := helpStyle.Render("enter send · quit to end and save · esc end")

	return title + "\n" + m.viewport.View() + "\n" + footer + "\n" + help
}

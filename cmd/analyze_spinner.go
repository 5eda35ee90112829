package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type analyzeDoneMsg struct {
	err error
}

type analyzeSpinnerModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	started time.Time
	err     error
	done    bool
}

func newAnalyzeSpinnerModel(label string, work tea.Cmd) analyzeSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return analyzeSpinnerModel{
		spinner: s,
		label:   label,
		work:    work,
		started: time.Now(),
	}
}

func (m analyzeSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m analyzeSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case analyzeDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m analyzeSpinnerModel) View() string {
	if m.done {
		return ""
	}

	elapsed := time.Since(m.started).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.label, elapsed)
}

// runWithSpinner shows a spinner on output while work runs and returns its error.
func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return analyzeDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newAnalyzeSpinnerModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(analyzeSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

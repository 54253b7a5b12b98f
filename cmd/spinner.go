package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type remoteCallDoneMsg struct {
	err error
}

type remoteCallSpinnerModel struct {
	spinner spinner.Model
	label   string
	call    tea.Cmd
	started time.Time
	err     error
	done    bool
}

func newRemoteCallSpinnerModel(label string, call tea.Cmd) remoteCallSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return remoteCallSpinnerModel{
		spinner: s,
		label:   label,
		call:    call,
		started: time.Now(),
	}
}

func (m remoteCallSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.call)
}

func (m remoteCallSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case remoteCallDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m remoteCallSpinnerModel) View() string {
	if m.done {
		return ""
	}

	elapsed := time.Since(m.started).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.label, elapsedStyle.Render(elapsed.String()))
}

// runWithSpinner runs call while animating label on output, which is stderr
// for every caller so stdout stays clean for piping.
func runWithSpinner(ctx context.Context, output io.Writer, label string, call func(context.Context) error) error {
	callCmd := func() tea.Msg {
		return remoteCallDoneMsg{err: call(ctx)}
	}

	p := tea.NewProgram(
		newRemoteCallSpinnerModel(label, callCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(remoteCallSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

// runRemote runs call behind a spinner on stderr unless quiet is set.
func runRemote(cmd *cobra.Command, label string, quiet bool, call func(context.Context) error) error {
	if quiet {
		return call(cmd.Context())
	}
	return runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), label, call)
}

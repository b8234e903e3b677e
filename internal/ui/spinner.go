package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerRunner shows a spinner with the operation title and message
// while the operation runs on a background goroutine. Ctrl-C (or q)
// cancels the operation's context when the operation allows it.
type SpinnerRunner struct {
	Out *os.File
}

type opDoneMsg struct{ err error }

type spinnerModel struct {
	title       string
	message     string
	cancellable bool
	cancel      context.CancelFunc
	done        <-chan error
	spinner     spinner.Model
	err         error
	canceling   bool
	finished    bool
}

func newSpinnerModel(title, message string, cancellable bool, cancel context.CancelFunc, done <-chan error) *spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &spinnerModel{
		title:       title,
		message:     message,
		cancellable: cancellable,
		cancel:      cancel,
		done:        done,
		spinner:     sp,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForDone())
}

func (m *spinnerModel) waitForDone() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: <-m.done}
	}
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancellable && !m.canceling {
				m.canceling = true
				m.cancel()
			}
			return m, nil
		}
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.finished {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	line := fmt.Sprintf("%s %s — %s", m.spinner.View(), titleStyle.Render(m.title), m.message)
	if m.canceling {
		line += " (canceling...)"
	}
	return line + "\n"
}

func (r *SpinnerRunner) Run(title, message string, cancellable bool, fn func(ctx context.Context) error) (Outcome, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	model := newSpinnerModel(title, message, cancellable, cancel, done)
	program := tea.NewProgram(model, tea.WithOutput(r.Out))
	final, uiErr := program.Run()

	m, ok := final.(*spinnerModel)
	if !ok {
		m = model
	}
	err := m.err
	if !m.finished {
		// UI exited before the operation; wait for the goroutine.
		cancel()
		err = <-done
	}

	if canceled(ctx, err) {
		return OutcomeCanceled, nil
	}
	if uiErr != nil {
		return OutcomeCompleted, uiErr
	}
	return OutcomeCompleted, err
}

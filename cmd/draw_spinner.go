package cmd

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sceneDoneMsg struct {
	event sceneEvent
}

type sceneSpinnerModel struct {
	spinner spinner.Model
	label   string
	wait    tea.Cmd
	event   sceneEvent
	done    bool
}

func newSceneSpinnerModel(label string, events chan sceneEvent) sceneSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return sceneSpinnerModel{
		spinner: s,
		label:   label,
		wait: func() tea.Msg {
			return sceneDoneMsg{event: <-events}
		},
	}
}

func (m sceneSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m sceneSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case sceneDoneMsg:
		m.done = true
		m.event = msg.event
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m sceneSpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + m.label
}

// runSceneSpinner shows a spinner until the render stack delivers its first
// completion event.
func runSceneSpinner(out io.Writer, label string, events chan sceneEvent) (sceneEvent, error) {
	program := tea.NewProgram(newSceneSpinnerModel(label, events), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return sceneEvent{}, err
	}
	model, ok := final.(sceneSpinnerModel)
	if !ok {
		return sceneEvent{}, nil
	}
	return model.event, nil
}

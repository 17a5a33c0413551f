package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/scope/internal/config"
	"github.com/wippyai/scope/internal/demo"
)

func newInteractiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Step through scenarios in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("interactive mode requires a terminal")
			}
			p := tea.NewProgram(newInteractiveModel(a.cfg, demo.NewRunner(a.cfg, a.log)), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type modelState int

const (
	stateSelect modelState = iota
	stateEdit
	stateRunning
	stateShowReport
)

type interactiveModel struct {
	cfg      *config.Config
	runner   *demo.Runner
	report   demo.Report
	err      error
	input    textinput.Model
	names    []string
	selected int
	state    modelState
}

type reportMsg struct {
	report demo.Report
}

func newInteractiveModel(cfg *config.Config, runner *demo.Runner) *interactiveModel {
	return &interactiveModel{
		cfg:    cfg,
		runner: runner,
		names:  demo.Names(),
		state:  stateSelect,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// parameter returns the editable setting of the selected scenario.
func (m *interactiveModel) parameter() (name string, value int, ok bool) {
	switch m.names[m.selected] {
	case "secret":
		return "secret.size", m.cfg.Secret.Size, true
	case "guest":
		return "guest.block_size", int(m.cfg.Guest.BlockSize), true
	}
	return "", 0, false
}

func (m *interactiveModel) setParameter(v int) error {
	next := *m.cfg
	switch m.names[m.selected] {
	case "secret":
		next.Secret.Size = v
	case "guest":
		if v < 0 {
			return fmt.Errorf("guest.block_size: must be positive")
		}
		next.Guest.BlockSize = uint32(v)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*m.cfg = next
	return nil
}

func (m *interactiveModel) runSelected() tea.Msg {
	return reportMsg{report: m.runner.Run(context.Background(), m.names[m.selected])}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.state != stateEdit) {
			return m, tea.Quit
		}

		switch m.state {
		case stateSelect:
			switch msg.String() {
			case "up", "k":
				if m.selected > 0 {
					m.selected--
				}
			case "down", "j":
				if m.selected < len(m.names)-1 {
					m.selected++
				}
			case "e":
				if name, v, ok := m.parameter(); ok {
					ti := textinput.New()
					ti.Prompt = name + ": "
					ti.SetValue(strconv.Itoa(v))
					ti.Width = 20
					ti.Focus()
					m.input = ti
					m.err = nil
					m.state = stateEdit
				}
			case "enter":
				m.state = stateRunning
				m.err = nil
				return m, m.runSelected
			}
			return m, nil

		case stateEdit:
			switch msg.String() {
			case "enter":
				v, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
				if err == nil {
					err = m.setParameter(v)
				}
				if err != nil {
					m.err = err
					return m, nil
				}
				m.state = stateSelect
				return m, nil
			case "esc":
				m.err = nil
				m.state = stateSelect
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd

		case stateShowReport:
			switch msg.String() {
			case "enter", "esc":
				m.state = stateSelect
			}
			return m, nil
		}

	case reportMsg:
		m.report = msg.report
		m.state = stateShowReport
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("scope"))
	b.WriteString(" guarded resource scenarios\n\n")

	switch m.state {
	case stateSelect, stateEdit:
		for i, name := range m.names {
			line := "  " + name
			if i == m.selected {
				line = selectedStyle.Render("> " + name)
			}
			b.WriteString(line)
			if i == m.selected {
				if pname, v, ok := m.parameter(); ok && m.state == stateSelect {
					b.WriteString(" ")
					b.WriteString(helpStyle.Render(fmt.Sprintf("%s=%d", pname, v)))
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateEdit {
			b.WriteString(m.input.View())
			b.WriteString("\n")
			if m.err != nil {
				b.WriteString(errorStyle.Render(m.err.Error()))
				b.WriteString("\n")
			}
			b.WriteString(helpStyle.Render("enter save • esc cancel"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter run • e edit • q quit"))
		}

	case stateRunning:
		fmt.Fprintf(&b, "Running %s...", actionStyle.Render(m.names[m.selected]))

	case stateShowReport:
		b.WriteString(renderReport(m.report, true))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

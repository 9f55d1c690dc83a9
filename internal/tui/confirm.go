package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrPromptCancelled is returned when the user escapes a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

var (
	promptTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	promptActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5")).Padding(0, 1)
	promptInactiveStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	promptHelpStyle     = lipgloss.NewStyle().Faint(true)
)

// ConfirmModel is a yes/no prompt. No is selected initially.
type ConfirmModel struct {
	title     string
	selection bool
	done      bool
	cancelled bool
}

// NewConfirmModel returns a prompt asking title.
func NewConfirmModel(title string) ConfirmModel {
	return ConfirmModel{title: title}
}

// Init satisfies the tea.Model interface.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update satisfies the tea.Model interface.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.done = true
		m.cancelled = true
		return m, tea.Quit
	case "y", "Y":
		m.selection = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.selection = false
		m.done = true
		return m, tea.Quit
	case "left", "h", "right", "l", "tab", "shift+tab":
		m.selection = !m.selection
	case "enter", " ":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}
	yes := promptInactiveStyle.Render("Yes")
	no := promptInactiveStyle.Render("No")
	if m.selection {
		yes = promptActiveStyle.Render("Yes")
	} else {
		no = promptActiveStyle.Render("No")
	}
	return promptTitleStyle.Render(m.title) + "\n" +
		yes + "  " + no + "\n" +
		promptHelpStyle.Render("y/n to answer, ←/→ to toggle, enter to submit") + "\n"
}

// Confirmed reports the answer. It is false when the prompt was cancelled.
func (m ConfirmModel) Confirmed() bool {
	return m.done && !m.cancelled && m.selection
}

// Cancelled reports whether the prompt was escaped.
func (m ConfirmModel) Cancelled() bool {
	return m.cancelled
}

// Prompter asks yes/no questions, interactively when Interactive is set and
// by reading a line from In otherwise.
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

// Confirm asks prompt and returns the answer. A cancelled interactive prompt
// returns ErrPromptCancelled.
func (p Prompter) Confirm(prompt string) (bool, error) {
	if !p.Interactive {
		return p.confirmLine(prompt)
	}
	final, err := tea.NewProgram(NewConfirmModel(prompt), tea.WithInput(p.In), tea.WithOutput(p.Out)).Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, nil
	}
	if m.Cancelled() {
		return false, ErrPromptCancelled
	}
	return m.Confirmed(), nil
}

func (p Prompter) confirmLine(prompt string) (bool, error) {
	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m ConfirmModel, key tea.KeyMsg) (ConfirmModel, tea.Cmd) {
	updated, cmd := m.Update(key)
	return updated.(ConfirmModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModelKeys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []tea.KeyMsg
		confirmed bool
		cancelled bool
	}{
		{name: "y", keys: []tea.KeyMsg{runes("y")}, confirmed: true},
		{name: "n", keys: []tea.KeyMsg{runes("n")}},
		{name: "enter defaults to no", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}},
		{name: "toggle then enter", keys: []tea.KeyMsg{{Type: tea.KeyLeft}, {Type: tea.KeyEnter}}, confirmed: true},
		{name: "esc", keys: []tea.KeyMsg{{Type: tea.KeyEsc}}, cancelled: true},
		{name: "ctrl+c", keys: []tea.KeyMsg{{Type: tea.KeyCtrlC}}, cancelled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel("Remove 8.3.1?")
			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = press(m, k)
			}
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if m.Confirmed() != tt.confirmed || m.Cancelled() != tt.cancelled {
				t.Fatalf("confirmed=%v cancelled=%v", m.Confirmed(), m.Cancelled())
			}
		})
	}
}

func TestConfirmModelView(t *testing.T) {
	m := NewConfirmModel("Remove 8.3.1?")
	view := m.View()
	for _, want := range []string{"Remove 8.3.1?", "Yes", "No"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q: %q", want, view)
		}
	}
	m, _ = press(m, runes("y"))
	if m.View() != "" {
		t.Errorf("expected empty view once answered")
	}
}

func TestPrompterLineMode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := Prompter{In: strings.NewReader(tt.input), Out: &out}
		got, err := p.Confirm("Remove 8.3.1?")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Remove 8.3.1? [y/N]") {
			t.Errorf("prompt not written: %q", out.String())
		}
	}
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winstate/internal/events"
)

const maxEventLines = 200

// EventsTab shows the most recent daemon events, newest last.
type EventsTab struct {
	lines  []string
	width  int
	height int
}

// Add appends ev to the log, dropping the oldest line past the limit.
func (t *EventsTab) Add(ev events.Event) {
	t.lines = append(t.lines, formatEvent(ev))
	if len(t.lines) > maxEventLines {
		t.lines = t.lines[len(t.lines)-maxEventLines:]
	}
}

// Update handles messages for the events tab.
func (t EventsTab) Update(msg tea.Msg) (EventsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "x" {
			t.lines = nil
		}
	}
	return t, nil
}

// View renders the tail of the log that fits the tab.
func (t EventsTab) View() string {
	if len(t.lines) == 0 {
		return placeholder("Waiting for events", t.width, t.height)
	}
	visible := t.lines
	if t.height > 0 && len(visible) > t.height {
		visible = visible[len(visible)-t.height:]
	}
	return lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		PaddingLeft(1).
		Render(strings.Join(visible, "\n"))
}

func formatEvent(ev events.Event) string {
	ts := dimStyle.Render(ev.Time.Format("15:04:05.000"))
	kind := lipgloss.NewStyle().Foreground(kindColor(ev.Kind)).Render(string(ev.Kind))
	if ev.State != "" {
		return fmt.Sprintf("%s  %s  %s", ts, kind, ev.State)
	}
	return fmt.Sprintf("%s  %s", ts, kind)
}

func kindColor(k events.Kind) lipgloss.Color {
	switch k {
	case events.MouseEnter:
		return lipgloss.Color("42")
	case events.MouseLeave:
		return lipgloss.Color("214")
	default:
		return lipgloss.Color("75")
	}
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winstate/internal/platform"
)

// monitorItem is a list item representing one display.
type monitorItem struct {
	display platform.Display
}

func (i monitorItem) Title() string {
	name := i.display.Name
	if name == "" {
		name = fmt.Sprintf("display %d", i.display.ID)
	}
	if i.display.Primary {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("★") + " " + name
	}
	return "  " + name
}

func (i monitorItem) Description() string {
	return fmt.Sprintf("bounds %s | usable %s", formatRect(i.display.Bounds), formatRect(i.display.Usable))
}

func (i monitorItem) FilterValue() string { return i.display.Name }

// MonitorsTab lists the attached displays.
type MonitorsTab struct {
	list   list.Model
	width  int
	height int
}

// NewMonitorsTab creates an empty MonitorsTab.
func NewMonitorsTab() MonitorsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Monitors"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return MonitorsTab{list: l}
}

// SetMonitors replaces the listed displays.
func (t *MonitorsTab) SetMonitors(displays []platform.Display) {
	items := make([]list.Item, 0, len(displays))
	for _, d := range displays {
		items = append(items, monitorItem{display: d})
	}
	t.list.SetItems(items)
}

// Update handles messages for the monitors tab.
func (t MonitorsTab) Update(msg tea.Msg) (MonitorsTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(t.width, t.height)
		return t, nil
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

// View renders the monitors tab.
func (t MonitorsTab) View() string {
	if len(t.list.Items()) == 0 {
		return placeholder("No monitors reported", t.width, t.height)
	}
	return t.list.View()
}

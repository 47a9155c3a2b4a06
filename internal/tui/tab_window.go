package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/platform"
)

// WindowTab shows the managed window and drives the toggles.
type WindowTab struct {
	daemon Daemon
	status *ipc.StatusData
	width  int
	height int

	cursorHidden bool

	// Title edit mode
	editing    bool
	titleInput textinput.Model
}

// NewWindowTab creates a WindowTab bound to daemon.
func NewWindowTab(daemon Daemon) WindowTab {
	ti := textinput.New()
	ti.Placeholder = "window title"
	ti.CharLimit = 256

	return WindowTab{
		daemon:     daemon,
		titleInput: ti,
	}
}

// SetStatus updates the displayed snapshot.
func (w *WindowTab) SetStatus(status *ipc.StatusData) {
	w.status = status
}

// Update handles messages for the window tab.
func (w WindowTab) Update(msg tea.Msg) (WindowTab, tea.Cmd) {
	if w.editing {
		return w.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if w.status == nil {
			return w, nil
		}
		switch msg.String() {
		case "f":
			return w, stateCmd("fullscreen", w.daemon.ToggleFullscreen)
		case "m":
			return w, stateCmd("maximize", w.daemon.ToggleMaximize)
		case "c":
			return w, actionCmd("cursor clipped", w.daemon.ClipCursor)
		case "u":
			return w, actionCmd("cursor clip restored", w.daemon.RestoreCursorClip)
		case "h":
			w.cursorHidden = !w.cursorHidden
			visible := !w.cursorHidden
			label := "cursor shown"
			if !visible {
				label = "cursor hidden"
			}
			return w, actionCmd(label, func() error { return w.daemon.SetCursorVisible(visible) })
		case "t":
			w.editing = true
			w.titleInput.Reset()
			w.titleInput.Focus()
			return w, textinput.Blink
		}
	}
	return w, nil
}

func (w WindowTab) updateEditing(msg tea.Msg) (WindowTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			w.editing = false
			w.titleInput.Blur()
			return w, nil
		case "enter":
			title := strings.TrimSpace(w.titleInput.Value())
			w.editing = false
			w.titleInput.Blur()
			if title == "" {
				return w, nil
			}
			return w, actionCmd("title set", func() error { return w.daemon.SetTitle(title) })
		}
	}

	var cmd tea.Cmd
	w.titleInput, cmd = w.titleInput.Update(msg)
	return w, cmd
}

// View renders the window tab.
func (w WindowTab) View() string {
	if w.status == nil {
		return placeholder("No daemon connection\nStart one with: winstate daemon", w.width, w.height)
	}
	s := w.status

	lines := []string{
		row("Window", fmt.Sprintf("0x%x", uint64(s.WindowID))),
		row("State", s.State),
		row("Fullscreen", yesNo(s.Fullscreen)),
		row("Maximized", yesNo(s.Maximized)),
		row("Pointer inside", yesNo(s.MouseInside)),
		row("Intercepting", yesNo(s.Intercept)),
		"",
		row("Bounds", formatRect(s.Bounds)),
		row("Normal", formatRect(s.Normal)),
		row("Style", strings.Join(s.Style, " ")),
		row("Uptime", fmt.Sprintf("%ds", s.UptimeSeconds)),
		"",
	}
	if w.editing {
		lines = append(lines, "  New title: "+w.titleInput.View(), dimStyle.Render("  enter: apply  esc: cancel"))
	} else {
		lines = append(lines, dimStyle.Render("  Press 't' to change the title"))
	}

	return lipgloss.NewStyle().
		Width(w.width).
		Height(w.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d at %d,%d", r.Width, r.Height, r.X, r.Y)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/platform"
)

var (
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(16)
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
)

func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// renderStatus prints key: value lines, styled when color is set.
func renderStatus(s *ipc.StatusData, color bool) string {
	rows := [][2]string{
		{"daemon_running", fmt.Sprint(s.DaemonRunning)},
		{"window", fmt.Sprintf("0x%x", uint64(s.WindowID))},
		{"state", s.State},
		{"fullscreen", fmt.Sprint(s.Fullscreen)},
		{"maximized", fmt.Sprint(s.Maximized)},
		{"mouse_inside", fmt.Sprint(s.MouseInside)},
		{"intercept", fmt.Sprint(s.Intercept)},
		{"bounds", formatRect(s.Bounds)},
		{"normal", formatRect(s.Normal)},
		{"style", strings.Join(s.Style, " ")},
		{"uptime_seconds", fmt.Sprint(s.UptimeSeconds)},
	}

	var b strings.Builder
	if color {
		b.WriteString(titleStyle.Render("winstate") + "\n")
	}
	for _, r := range rows {
		if color {
			val := valStyle.Render(r[1])
			if r[1] == "true" {
				val = onStyle.Render(r[1])
			}
			b.WriteString(keyStyle.Render(r[0]) + val + "\n")
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", r[0], r[1])
	}
	return b.String()
}

func renderMonitors(displays []platform.Display, color bool) string {
	var b strings.Builder
	for _, d := range displays {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("display-%d", d.ID)
		}
		marker := " "
		if d.Primary {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-12s bounds=%s usable=%s", marker, name, formatRect(d.Bounds), formatRect(d.Usable))
		if color && d.Primary {
			line = onStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func formatEvent(ev events.Event) string {
	line := ev.Time.Format("15:04:05.000") + " " + string(ev.Kind)
	if ev.State != "" {
		line += " " + ev.State
	}
	return line
}

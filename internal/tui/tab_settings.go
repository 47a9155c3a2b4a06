package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winstate/internal/config"
)

// SettingsTab shows and edits the startup, hotkey and logging settings.
type SettingsTab struct {
	cfg  *config.Config
	path string
	err  string

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values
	fTitle      string
	fX          string
	fY          string
	fWidth      string
	fHeight     string
	fClient     bool
	fFullscreen bool
	fMaximize   bool
	fClip       bool
	fHide       bool
	fNoMaximize bool
	fNoMinimize bool
	fNoResize   bool
	fHotkeyFS   string
	fHotkeyMax  string
	fHotkeyClip string
	fHotkeyFree string
	fLogLevel   string
	fLogFormat  string
}

// NewSettingsTab creates a SettingsTab for the config at path.
func NewSettingsTab(cfg *config.Config, path string) SettingsTab {
	return SettingsTab{cfg: cfg, path: path}
}

// Config returns the edited configuration.
func (s SettingsTab) Config() *config.Config {
	return s.cfg
}

// Update handles messages for the settings tab.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	return s.updateDisplay(msg)
}

func (s SettingsTab) updateDisplay(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}

	return s, cmd
}

func (s *SettingsTab) startEditing() {
	cfg := s.cfg
	st := cfg.Startup

	s.fTitle = st.Title
	s.fX = st.Geometry.X
	s.fY = st.Geometry.Y
	s.fWidth = st.Geometry.Width
	s.fHeight = st.Geometry.Height
	s.fClient = st.Geometry.Client
	s.fFullscreen = st.Fullscreen
	s.fMaximize = st.Maximize
	s.fClip = st.ClipCursor
	s.fHide = st.HideCursor
	s.fNoMaximize = st.DisableMaximizeButton
	s.fNoMinimize = st.DisableMinimizeButton
	s.fNoResize = st.DisableResize
	s.fHotkeyFS = cfg.Hotkeys.ToggleFullscreen
	s.fHotkeyMax = cfg.Hotkeys.ToggleMaximize
	s.fHotkeyClip = cfg.Hotkeys.ClipCursor
	s.fHotkeyFree = cfg.Hotkeys.RestoreCursorClip
	s.fLogLevel = cfg.Logging.Level
	s.fLogFormat = cfg.Logging.Format

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Window title applied at startup").
				Value(&s.fTitle),
			huh.NewInput().
				Key("x").
				Title("X").
				Description("Expression or \"center\"").
				Value(&s.fX),
			huh.NewInput().
				Key("y").
				Title("Y").
				Value(&s.fY),
			huh.NewInput().
				Key("width").
				Title("Width").
				Description("e.g. screen_width / 2").
				Value(&s.fWidth),
			huh.NewInput().
				Key("height").
				Title("Height").
				Value(&s.fHeight),
			huh.NewConfirm().
				Key("client").
				Title("Size describes the client area").
				Value(&s.fClient),
		),
		huh.NewGroup(
			huh.NewConfirm().Key("fullscreen").Title("Start fullscreen").Value(&s.fFullscreen),
			huh.NewConfirm().Key("maximize").Title("Start maximized").Value(&s.fMaximize),
			huh.NewConfirm().Key("clip_cursor").Title("Clip cursor").Value(&s.fClip),
			huh.NewConfirm().Key("hide_cursor").Title("Hide cursor").Value(&s.fHide),
			huh.NewConfirm().Key("disable_maximize_button").Title("Disable maximize button").Value(&s.fNoMaximize),
			huh.NewConfirm().Key("disable_minimize_button").Title("Disable minimize button").Value(&s.fNoMinimize),
			huh.NewConfirm().Key("disable_resize").Title("Disable resize").Value(&s.fNoResize),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("toggle_fullscreen").
				Title("Fullscreen Hotkey").
				Description("X11 keybinding, empty to disable").
				Value(&s.fHotkeyFS),
			huh.NewInput().
				Key("toggle_maximize").
				Title("Maximize Hotkey").
				Value(&s.fHotkeyMax),
			huh.NewInput().
				Key("clip_cursor_hotkey").
				Title("Clip Cursor Hotkey").
				Value(&s.fHotkeyClip),
			huh.NewInput().
				Key("restore_cursor_clip").
				Title("Restore Clip Hotkey").
				Value(&s.fHotkeyFree),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&s.fLogLevel),
			huh.NewSelect[string]().
				Key("log_format").
				Title("Log Format").
				Options(huh.NewOptions("text", "logfmt", "json")...).
				Value(&s.fLogFormat),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

// applyForm copies the form into the config. An invalid result is
// discarded and reported.
func (s *SettingsTab) applyForm() {
	next := *s.cfg
	next.Startup.Title = s.fTitle
	next.Startup.Geometry = config.GeometryConfig{
		X:      strings.TrimSpace(s.fX),
		Y:      strings.TrimSpace(s.fY),
		Width:  strings.TrimSpace(s.fWidth),
		Height: strings.TrimSpace(s.fHeight),
		Client: s.fClient,
	}
	next.Startup.Fullscreen = s.fFullscreen
	next.Startup.Maximize = s.fMaximize
	next.Startup.ClipCursor = s.fClip
	next.Startup.HideCursor = s.fHide
	next.Startup.DisableMaximizeButton = s.fNoMaximize
	next.Startup.DisableMinimizeButton = s.fNoMinimize
	next.Startup.DisableResize = s.fNoResize
	next.Hotkeys = config.HotkeyConfig{
		ToggleFullscreen:  strings.TrimSpace(s.fHotkeyFS),
		ToggleMaximize:    strings.TrimSpace(s.fHotkeyMax),
		ClipCursor:        strings.TrimSpace(s.fHotkeyClip),
		RestoreCursorClip: strings.TrimSpace(s.fHotkeyFree),
	}
	next.Logging.Level = s.fLogLevel
	next.Logging.Format = s.fLogFormat

	if err := next.Validate(); err != nil {
		s.err = err.Error()
		return
	}
	s.err = ""
	s.cfg = &next
}

// save writes the config and asks the daemon to reload it.
func (s SettingsTab) save(daemon Daemon, connected bool) tea.Cmd {
	cfg, path := s.cfg, s.path
	return func() tea.Msg {
		if cfg == nil {
			return actionDoneMsg{err: errNoConfig}
		}
		if err := cfg.SaveTo(path); err != nil {
			return actionDoneMsg{err: err}
		}
		if !connected {
			return actionDoneMsg{text: "saved " + path}
		}
		if err := daemon.Reload(); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "saved and reloaded"}
	}
}

// View renders the settings tab.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.viewEditing()
	}
	return s.viewDisplay()
}

func (s SettingsTab) viewDisplay() string {
	cfg := s.cfg
	if cfg == nil {
		return placeholder("No config loaded", s.width, s.height)
	}
	st := cfg.Startup

	geometry := "(unchanged)"
	if st.Geometry.IsSet() {
		geometry = strings.Join([]string{
			displayOrDefault(st.Geometry.X, "0"),
			displayOrDefault(st.Geometry.Y, "0"),
			st.Geometry.Width,
			st.Geometry.Height,
		}, ", ")
		if st.Geometry.Client {
			geometry += " (client)"
		}
	}

	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{st.Fullscreen, "fullscreen"},
		{st.Maximize, "maximize"},
		{st.ClipCursor, "clip_cursor"},
		{st.HideCursor, "hide_cursor"},
		{st.DisableMaximizeButton, "no_maximize"},
		{st.DisableMinimizeButton, "no_minimize"},
		{st.DisableResize, "no_resize"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}

	lines := []string{
		row("Config", s.path),
		"",
		row("Title", displayOrDefault(st.Title, "(unchanged)")),
		row("Geometry", geometry),
		row("Startup", displayOrDefault(strings.Join(flags, " "), "(none)")),
		"",
		row("Fullscreen key", displayOrDefault(cfg.Hotkeys.ToggleFullscreen, "(off)")),
		row("Maximize key", displayOrDefault(cfg.Hotkeys.ToggleMaximize, "(off)")),
		row("Clip key", displayOrDefault(cfg.Hotkeys.ClipCursor, "(off)")),
		row("Unclip key", displayOrDefault(cfg.Hotkeys.RestoreCursorClip, "(off)")),
		"",
		row("Log", cfg.Logging.Level+" / "+cfg.Logging.Format),
		"",
	}
	if s.err != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("  "+s.err))
	}
	lines = append(lines, dimStyle.Render("  Press 'e' to edit settings"))

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (s SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(header + "\n\n" + s.form.View())
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

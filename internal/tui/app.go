package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/ipc"
)

const (
	refreshInterval = time.Second
	noticeDuration  = 3 * time.Second
)

var errNoConfig = errors.New("no config loaded")

// Daemon is the part of the IPC client the TUI drives. *ipc.Client
// satisfies it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ToggleFullscreen() (*ipc.StateData, error)
	ToggleMaximize() (*ipc.StateData, error)
	ClipCursor() error
	RestoreCursorClip() error
	SetTitle(title string) error
	SetCursorVisible(visible bool) error
	Reload() error
}

var _ Daemon = (*ipc.Client)(nil)

type (
	tickMsg   struct{}
	statusMsg struct {
		status   *ipc.StatusData
		monitors *ipc.MonitorsData
		err      error
	}
	eventMsg      events.Event
	actionDoneMsg struct {
		text string
		err  error
	}
	clearNoticeMsg struct{ seq int }
)

// model is the root bubbletea model for the TUI.
type model struct {
	daemon Daemon
	events <-chan events.Event

	// Tab navigation
	activeTab Tab

	// Sub-models
	windowTab   WindowTab
	monitorsTab MonitorsTab
	eventsTab   EventsTab
	settingsTab SettingsTab

	// Daemon state
	status *ipc.StatusData

	notice    string
	noticeSeq int

	// Terminal dimensions
	width  int
	height int
}

func newModel(daemon Daemon, cfg *config.Config, cfgPath string, evs <-chan events.Event) model {
	return model{
		daemon:      daemon,
		events:      evs,
		activeTab:   TabWindow,
		windowTab:   NewWindowTab(daemon),
		monitorsTab: NewMonitorsTab(),
		settingsTab: NewSettingsTab(cfg, cfgPath),
	}
}

func (m model) connected() bool {
	return m.status != nil
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// capturing reports whether the active tab consumes every key.
func (m model) capturing() bool {
	return (m.activeTab == TabWindow && m.windowTab.editing) ||
		(m.activeTab == TabSettings && m.settingsTab.editing)
}

func fetchStatus(d Daemon) tea.Cmd {
	return func() tea.Msg {
		status, err := d.GetStatus()
		if err != nil {
			return statusMsg{err: err}
		}
		monitors, err := d.GetMonitors()
		return statusMsg{status: status, monitors: monitors, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func actionCmd(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: label}
	}
}

func stateCmd(label string, fn func() (*ipc.StateData, error)) tea.Cmd {
	return func() tea.Msg {
		state, err := fn()
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: label + ": " + state.State}
	}
}

func (m *model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (m *model) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	cmds := make([]tea.Cmd, 4)
	m.windowTab, cmds[0] = m.windowTab.Update(sub)
	m.monitorsTab, cmds[1] = m.monitorsTab.Update(sub)
	m.eventsTab, cmds[2] = m.eventsTab.Update(sub)
	m.settingsTab, cmds[3] = m.settingsTab.Update(sub)
	return tea.Batch(cmds...)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchStatus(m.daemon), tick(), waitForEvent(m.events))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case tickMsg:
		return m, tea.Batch(fetchStatus(m.daemon), tick())

	case statusMsg:
		m.status = msg.status
		m.windowTab.SetStatus(m.status)
		if msg.monitors != nil {
			m.monitorsTab.SetMonitors(msg.monitors.Monitors)
		}
		return m, nil

	case eventMsg:
		m.eventsTab.Add(events.Event(msg))
		return m, waitForEvent(m.events)

	case actionDoneMsg:
		text := msg.text
		if msg.err != nil {
			text = msg.err.Error()
		}
		return m, tea.Batch(m.setNotice(text), fetchStatus(m.daemon))

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		if km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// ctrl+s saves from any tab once no form is open.
		if km.String() == "ctrl+s" && !m.settingsTab.editing {
			return m, m.settingsTab.save(m.daemon, m.connected())
		}
		if !m.capturing() {
			switch km.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
				return m, nil
			case "1", "2", "3", "4":
				m.activeTab = Tab(km.String()[0] - '1')
				return m, nil
			case "r":
				return m, fetchStatus(m.daemon)
			}
		}
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindow:
		m.windowTab, cmd = m.windowTab.Update(msg)
	case TabMonitors:
		m.monitorsTab, cmd = m.monitorsTab.Update(msg)
	case TabEvents:
		m.eventsTab, cmd = m.eventsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.notice, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)

	var content string
	switch m.activeTab {
	case TabWindow:
		content = m.windowTab.View()
	case TabMonitors:
		content = m.monitorsTab.View()
	case TabEvents:
		content = m.eventsTab.View()
	case TabSettings:
		content = m.settingsTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}

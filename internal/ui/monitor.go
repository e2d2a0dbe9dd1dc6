package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/loupekit/internal/device"
)

// maxLogLines bounds the scrollback kept by the monitor.
const maxLogLines = 256

// DeviceInfo is the session summary shown in the monitor header.
type DeviceInfo struct {
	Path     string
	Serial   string
	Firmware string
}

// eventMsg wraps a decoded device event for the bubbletea update loop.
type eventMsg struct{ ev device.Event }

// closedMsg signals that the event channel was closed.
type closedMsg struct{}

// Monitor is a bubbletea model that renders a live log of control-surface
// events. Events arrive on a channel fed by the device's EventSink; the
// model re-arms a wait command after each one.
type Monitor struct {
	info    DeviceInfo
	events  <-chan device.Event
	spin    spinner.Model
	ready   bool
	lines   []string
	width   int
	height  int
	stopped bool
}

// NewMonitor creates a monitor fed by the given event channel. ready
// should be false until the handshake has confirmed the device; the
// header shows a spinner until SetReady-style readiness arrives via the
// first event.
func NewMonitor(info DeviceInfo, events <-chan device.Event, ready bool) Monitor {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(WarningColor)
	w, h := GetTerminalSize()
	return Monitor{
		info:   info,
		events: events,
		spin:   sp,
		ready:  ready,
		width:  w,
		height: h,
	}
}

// Init implements tea.Model.
func (m Monitor) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

// Update implements tea.Model.
func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stopped = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		m.ready = true
		m.appendEvent(msg.ev)
		return m, waitForEvent(m.events)

	case closedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Monitor) appendEvent(ev device.Event) {
	line := EventTimeStyle.Render(ev.When().Format("15:04:05.000")) + " " +
		EventTextStyle.Render(ev.String())
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
}

// View implements tea.Model.
func (m Monitor) View() string {
	if m.stopped {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("loupekit monitor"))
	b.WriteString("\n")

	status := NegotiatingStyle.Render(m.spin.View() + " waiting for device")
	if m.ready {
		status = ConnectedStyle.Render("● connected")
	}
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s\n",
		StatusKeyStyle.Render("Port:"), StatusValueStyle.Render(m.info.Path),
		StatusKeyStyle.Render("Serial:"), StatusValueStyle.Render(orDash(m.info.Serial)),
		StatusKeyStyle.Render("Firmware:"), StatusValueStyle.Render(orDash(m.info.Firmware)),
		status))

	// Fit the log to the space below header and footer.
	logHeight := m.height - 5
	if logHeight < 3 {
		logHeight = 3
	}
	start := 0
	if len(m.lines) > logHeight {
		start = len(m.lines) - logHeight
	}
	log := strings.Join(m.lines[start:], "\n")
	if log == "" {
		log = EventTimeStyle.Render("press a button, turn a knob, or touch a screen…")
	}

	width := m.width - 4
	if width > MaxContentWidth {
		width = MaxContentWidth
	}
	b.WriteString(BorderStyle.Width(width).Height(logHeight).Render(log))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("q: quit"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func waitForEvent(events <-chan device.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

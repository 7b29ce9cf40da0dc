package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/theme"
)

const (
	defaultWidth    = 80
	minLogHeight    = 5
	tickInterval    = time.Second
	reservedHeight  = 16
	progressPadding = 18
)

// DeviceController is the coordinator surface the dashboard drives
type DeviceController interface {
	Mount() bool
	Refresh() domain.DeviceRecord
	State() domain.SessionState
	Unmount() bool
}

// Dashboard is the bubbletea model showing device status, task progress and the log
type Dashboard struct {
	battery    progress.Model
	busy       string
	controller DeviceController
	devMode    bool
	events     <-chan domain.Event
	height     int
	help       help.Model
	keys       KeyMap
	logs       []domain.LogEvent
	now        func() time.Time
	state      domain.SessionState
	task       *domain.Task
	taskBar    progress.Model
	width      int
}

// NewDashboard creates a dashboard reading events from events
func NewDashboard(controller DeviceController, events <-chan domain.Event, devMode bool) *Dashboard {
	return &Dashboard{
		battery:    progress.New(progress.WithSolidFill(string(theme.ColorConnected))),
		controller: controller,
		devMode:    devMode,
		events:     events,
		help:       help.New(),
		keys:       NewKeyMap(),
		now:        time.Now,
		state:      controller.State(),
		taskBar:    progress.New(progress.WithDefaultGradient()),
		width:      defaultWidth,
	}
}

func (m *Dashboard) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick())
}

func (m *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		barWidth := max(10, msg.Width-progressPadding)
		m.battery.Width = barWidth
		m.taskBar.Width = barWidth
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.applyEvent(msg.event)
		return m, waitForEvent(m.events)

	case busClosedMsg:
		logging.Logger.Info("Event bus closed, leaving dashboard")
		return m, tea.Quit

	case tickMsg:
		m.state = m.controller.State()
		return m, tick()

	case operationDoneMsg:
		m.busy = ""
		m.state = m.controller.State()
		logging.Logger.Debug("Dashboard operation finished", "action", msg.action, "ok", msg.ok)
		return m, nil
	}

	return m, nil
}

func (m *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// One device operation at a time from the keyboard; the coordinator gate serializes the rest
	if m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.busy = "Refreshing..."
		return m, runOperation("refresh", func() bool { return !m.controller.Refresh().IsEmpty() })
	case key.Matches(msg, m.keys.Mount):
		m.busy = "Mounting..."
		return m, runOperation("mount", m.controller.Mount)
	case key.Matches(msg, m.keys.Unmount):
		m.busy = "Unmounting..."
		return m, runOperation("unmount", m.controller.Unmount)
	}

	return m, nil
}

func (m *Dashboard) applyEvent(event domain.Event) {
	switch e := event.(type) {
	case domain.LogEvent:
		m.logs = appendLog(m.logs, e)
	case domain.DeviceEvent:
		m.state = m.controller.State()
		m.state.Record = e.Record
	case domain.ProgressEvent:
		if m.task != nil && m.task.ID == e.TaskID {
			m.task.Progress = e.Value
		}
	case domain.TaskEvent:
		task := e.Task
		m.task = &task
	}
}

func (m *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(renderHeader(m.devMode))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(theme.PanelStyle.Width(max(20, m.width-2)).Render(m.renderDevice()))
	b.WriteString("\n")

	if m.task != nil {
		b.WriteString(m.renderTask())
		b.WriteString("\n")
	}

	logHeight := minLogHeight
	if m.height > 0 {
		logHeight = max(minLogHeight, m.height-reservedHeight)
	}
	b.WriteString(renderLogPanel(m.logs, logHeight))
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m *Dashboard) renderStatus() string {
	var status string
	if m.state.Presence == domain.PresenceConnected {
		status = theme.ConnectedStyle.Render("✔ Device Connected")
	} else {
		status = theme.DisconnectedStyle.Render("✖ No Device")
	}

	if m.state.Mount == domain.MountMounted {
		status += "  " + theme.MountedStyle.Render("mounted at "+m.state.MountPoint)
	}

	if !m.state.LastPoll.IsZero() {
		status += "  " + theme.MutedStyle.Render("last poll "+humanize.RelTime(m.state.LastPoll, m.now(), "ago", "from now"))
	}

	if m.busy != "" {
		status += "  " + theme.MutedStyle.Render(m.busy)
	}

	return status
}

func (m *Dashboard) renderDevice() string {
	record := m.state.Record
	if record.IsEmpty() {
		return theme.MutedStyle.Render("Connect an iOS device to view information")
	}

	rows := []string{
		row("Device Name", record.Name()),
		row("Model", record.Model()),
		row("iOS Version", record.OSVersion()),
		row("UDID", record.UDID),
	}

	if record.BatteryLevel != nil {
		level := *record.BatteryLevel
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			theme.LabelStyle.Render("Battery"),
			m.battery.ViewAs(float64(max(0, min(100, level)))/100),
		))
	} else {
		rows = append(rows, row("Battery", "N/A"))
	}

	return strings.Join(rows, "\n")
}

func (m *Dashboard) renderTask() string {
	t := m.task
	label := fmt.Sprintf("%s %s: %s", t.Kind, t.Target, t.State)
	if t.Err != "" && t.State == domain.TaskFailed {
		label += " (" + t.Err + ")"
	}
	return theme.LabelStyle.Render("Task") + label + "\n" + m.taskBar.ViewAs(float64(t.Progress)/100)
}

func row(label, value string) string {
	return theme.LabelStyle.Render(label) + theme.ValueStyle.Render(value)
}

func waitForEvent(events <-chan domain.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return busClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func runOperation(action string, op func() bool) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{action: action, ok: op()}
	}
}

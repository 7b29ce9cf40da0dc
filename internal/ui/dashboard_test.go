package ui

import (
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/idevman/internal/domain"
)

type fakeController struct {
	mu       sync.Mutex
	calls    []string
	mountOK  bool
	state    domain.SessionState
	record   domain.DeviceRecord
	unmounts int
}

func (c *fakeController) Mount() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "mount")
	if c.mountOK {
		c.state.Mount = domain.MountMounted
	}
	return c.mountOK
}

func (c *fakeController) Refresh() domain.DeviceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "refresh")
	return c.record
}

func (c *fakeController) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeController) Unmount() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "unmount")
	c.unmounts++
	return true
}

func connectedRecord() domain.DeviceRecord {
	level := 87
	return domain.DeviceRecord{
		BatteryLevel: &level,
		Info: map[string]string{
			domain.InfoDeviceName:     "Test iPhone",
			domain.InfoProductType:    "iPhone14,2",
			domain.InfoProductVersion: "16.6",
		},
		UDID: "ABCD1234",
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDashboard_InitialView(t *testing.T) {
	controller := &fakeController{state: domain.SessionState{Presence: domain.PresenceDisconnected}}
	dashboard := NewDashboard(controller, make(chan domain.Event), false)

	view := dashboard.View()

	assert.Contains(t, view, "iDevice Manager")
	assert.Contains(t, view, "No Device")
	assert.Contains(t, view, "Connect an iOS device to view information")
	assert.Contains(t, view, "No activity yet")
}

func TestDashboard_DeviceEvent(t *testing.T) {
	record := connectedRecord()
	controller := &fakeController{state: domain.SessionState{
		LastPoll:   time.Now().Add(-3 * time.Second),
		Mount:      domain.MountMounted,
		MountPoint: "/mnt/idevice",
		Presence:   domain.PresenceConnected,
		Record:     record,
	}}
	dashboard := NewDashboard(controller, make(chan domain.Event), false)

	_, cmd := dashboard.Update(eventMsg{event: domain.DeviceEvent{Record: record, Time: time.Now()}})
	require.NotNil(t, cmd, "dashboard keeps listening for events")

	view := dashboard.View()
	assert.Contains(t, view, "Device Connected")
	assert.Contains(t, view, "Test iPhone")
	assert.Contains(t, view, "iPhone14,2")
	assert.Contains(t, view, "16.6")
	assert.Contains(t, view, "ABCD1234")
	assert.Contains(t, view, "mounted at /mnt/idevice")
	assert.Contains(t, view, "seconds ago")
}

func TestDashboard_BatteryUnavailable(t *testing.T) {
	record := connectedRecord()
	record.BatteryLevel = nil
	controller := &fakeController{state: domain.SessionState{Presence: domain.PresenceConnected, Record: record}}
	dashboard := NewDashboard(controller, make(chan domain.Event), false)

	assert.Contains(t, dashboard.View(), "N/A")
}

func TestDashboard_LogEvents(t *testing.T) {
	dashboard := NewDashboard(&fakeController{}, make(chan domain.Event), false)
	at := time.Date(2026, 1, 1, 9, 30, 15, 0, time.Local)

	dashboard.Update(eventMsg{event: domain.LogEvent{Message: "Device disconnected", Severity: domain.SeverityWarning, Time: at}})

	view := dashboard.View()
	assert.Contains(t, view, "[09:30:15]")
	assert.Contains(t, view, "WARNING:")
	assert.Contains(t, view, "Device disconnected")
}

func TestDashboard_TaskProgress(t *testing.T) {
	dashboard := NewDashboard(&fakeController{}, make(chan domain.Event), false)
	task := domain.Task{ID: "t1", Kind: domain.TaskFlash, State: domain.TaskRunning, Target: "iOS 16.6 (20G75)"}

	dashboard.Update(eventMsg{event: domain.TaskEvent{Task: task}})
	dashboard.Update(eventMsg{event: domain.ProgressEvent{TaskID: "t1", Value: 50}})
	dashboard.Update(eventMsg{event: domain.ProgressEvent{TaskID: "other", Value: 90}})

	require.NotNil(t, dashboard.task)
	assert.Equal(t, 50, dashboard.task.Progress)
	assert.Contains(t, dashboard.View(), "flash iOS 16.6 (20G75): running")
}

func TestDashboard_Keys(t *testing.T) {
	tests := []struct {
		key      rune
		expected string
	}{
		{'r', "refresh"},
		{'m', "mount"},
		{'u', "unmount"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			controller := &fakeController{mountOK: true, record: connectedRecord()}
			dashboard := NewDashboard(controller, make(chan domain.Event), false)

			_, cmd := dashboard.Update(keyPress(tt.key))
			require.NotNil(t, cmd)
			assert.NotEmpty(t, dashboard.busy)

			// A second press while busy is ignored
			_, again := dashboard.Update(keyPress(tt.key))
			assert.Nil(t, again)

			msg := cmd()
			done, ok := msg.(operationDoneMsg)
			require.True(t, ok)
			assert.Equal(t, tt.expected, done.action)
			assert.True(t, done.ok)
			assert.Equal(t, []string{tt.expected}, controller.calls)

			dashboard.Update(msg)
			assert.Empty(t, dashboard.busy)
		})
	}
}

func TestDashboard_Quit(t *testing.T) {
	for _, msg := range []tea.Msg{keyPress('q'), tea.KeyMsg{Type: tea.KeyCtrlC}, busClosedMsg{}} {
		t.Run(fmt.Sprintf("%T", msg), func(t *testing.T) {
			dashboard := NewDashboard(&fakeController{}, make(chan domain.Event), false)

			_, cmd := dashboard.Update(msg)

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestWaitForEvent(t *testing.T) {
	events := make(chan domain.Event, 1)
	events <- domain.LogEvent{Message: "hello"}

	msg := waitForEvent(events)()
	assert.Equal(t, eventMsg{event: domain.LogEvent{Message: "hello"}}, msg)

	close(events)
	assert.Equal(t, busClosedMsg{}, waitForEvent(events)())
}

func TestAppendLog_Bounded(t *testing.T) {
	var logs []domain.LogEvent
	for i := 0; i < maxLogLines+10; i++ {
		logs = appendLog(logs, domain.LogEvent{Message: fmt.Sprintf("line %d", i)})
	}

	require.Len(t, logs, maxLogLines)
	assert.Equal(t, "line 10", logs[0].Message)
}

func TestRenderLogPanel_Height(t *testing.T) {
	logs := []domain.LogEvent{
		{Message: "one", Severity: domain.SeverityInfo},
		{Message: "two", Severity: domain.SeverityError},
		{Message: "three", Severity: domain.SeveritySuccess},
	}

	panel := renderLogPanel(logs, 2)

	assert.NotContains(t, panel, "one")
	assert.Contains(t, panel, "ERROR: two")
	assert.Contains(t, panel, "SUCCESS: three")
}

package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/idevman/internal/domain"
)

type fakeDevice struct {
	backupOK bool
	mu       sync.Mutex
	backups  []string
	udid     string
}

func (d *fakeDevice) UDID() string { return d.udid }

func (d *fakeDevice) Backup(dir string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.backups = append(d.backups, dir)
	return d.backupOK
}

func progressValues(n *recordingNotifier, taskID string) []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	var values []int
	for _, e := range n.events {
		if p, ok := e.(domain.ProgressEvent); ok && p.TaskID == taskID {
			values = append(values, p.Value)
		}
	}
	return values
}

func taskStates(n *recordingNotifier, taskID string) []domain.TaskState {
	n.mu.Lock()
	defer n.mu.Unlock()
	var states []domain.TaskState
	for _, e := range n.events {
		if te, ok := e.(domain.TaskEvent); ok && te.Task.ID == taskID {
			states = append(states, te.Task.State)
		}
	}
	return states
}

func newTestTasks(device *fakeDevice, workers int, step time.Duration) (*TaskService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewTaskService(device, NewCatalog(), notifier, workers, step)
	return svc, notifier
}

func TestSubmit_RequiresDevice(t *testing.T) {
	svc, notifier := newTestTasks(&fakeDevice{}, 1, 0)
	defer svc.Close()

	_, err := svc.Submit(domain.TaskFlash, "iOS 16.6 (20G75)")

	require.ErrorIs(t, err, domain.ErrNoDevice)
	assert.Equal(t, []string{"No device connected"}, notifier.messages())
	assert.Empty(t, svc.List())
}

func TestSubmit_UnknownTarget(t *testing.T) {
	tests := []struct {
		kind    domain.TaskKind
		target  string
		message string
	}{
		{domain.TaskFlash, "iOS 4.2", "Select firmware first"},
		{domain.TaskJailbreak, "", "Select jailbreak tool first"},
		{domain.TaskBackup, "", "Select backup directory first"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			svc, notifier := newTestTasks(&fakeDevice{udid: testUDID}, 1, 0)
			defer svc.Close()

			_, err := svc.Submit(tt.kind, tt.target)

			require.ErrorIs(t, err, domain.ErrUnknownTarget)
			logs := notifier.logs()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Equal(t, domain.SeverityWarning, logs[0].Severity)
		})
	}
}

func TestFlash_ReportsStepsInOrder(t *testing.T) {
	svc, notifier := newTestTasks(&fakeDevice{udid: testUDID}, 2, time.Millisecond)
	defer svc.Close()

	task, err := svc.Submit(domain.TaskFlash, "16.6")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, task.State)
	assert.Equal(t, "iOS 16.6 (20G75)", task.Target)
	assert.NotEmpty(t, task.ID)

	final, err := svc.Wait(task.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskSucceeded, final.State)
	assert.Equal(t, 100, final.Progress)
	assert.Empty(t, final.Err)
	assert.False(t, final.FinishedAt.IsZero())
	assert.Equal(t, []int{10, 25, 50, 75, 90, 100}, progressValues(notifier, task.ID))
	assert.Equal(t, []domain.TaskState{domain.TaskPending, domain.TaskRunning, domain.TaskSucceeded}, taskStates(notifier, task.ID))
	assert.Equal(t, []string{
		"Starting iOS 16.6 (20G75) flash...",
		"Flash is simulated: no changes are made to the device",
		"Preparing device...",
		"Entering recovery mode...",
		"Downloading firmware...",
		"Verifying firmware...",
		"Flashing device...",
		"Flash complete!",
		"iOS 16.6 (20G75) flashed successfully!",
	}, notifier.messages())
}

func TestJailbreak_ReportsStepsInOrder(t *testing.T) {
	svc, notifier := newTestTasks(&fakeDevice{udid: testUDID}, 1, 0)
	defer svc.Close()

	task, err := svc.Submit(domain.TaskJailbreak, "checkra1n")
	require.NoError(t, err)

	final, err := svc.Wait(task.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskSucceeded, final.State)
	assert.Equal(t, []int{10, 30, 60, 90, 100}, progressValues(notifier, task.ID))

	logs := notifier.logs()
	last := logs[len(logs)-1]
	assert.Equal(t, "checkra1n jailbreak successful!", last.Message)
	assert.Equal(t, domain.SeveritySuccess, last.Severity)
}

func TestCancel_StopsSimulation(t *testing.T) {
	svc, notifier := newTestTasks(&fakeDevice{udid: testUDID}, 1, time.Hour)
	defer svc.Close()

	task, err := svc.Submit(domain.TaskFlash, "iOS 15.7.8")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		current, _ := svc.Get(task.ID)
		return current.State == domain.TaskRunning
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Cancel(task.ID))
	final, err := svc.Wait(task.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskCancelled, final.State)
	assert.Equal(t, "cancelled", final.Err)
	assert.Empty(t, progressValues(notifier, task.ID))

	logs := notifier.logs()
	last := logs[len(logs)-1]
	assert.Equal(t, "Flash cancelled", last.Message)
	assert.Equal(t, domain.SeverityWarning, last.Severity)
}

func TestBackup(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		device := &fakeDevice{backupOK: true, udid: testUDID}
		svc, notifier := newTestTasks(device, 1, 0)
		defer svc.Close()

		task, err := svc.Submit(domain.TaskBackup, "/backups/phone")
		require.NoError(t, err)
		final, err := svc.Wait(task.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.TaskSucceeded, final.State)
		assert.Equal(t, []string{"/backups/phone"}, device.backups)
		assert.Equal(t, []int{0, 100}, progressValues(notifier, task.ID))
	})

	t.Run("failure", func(t *testing.T) {
		device := &fakeDevice{backupOK: false, udid: testUDID}
		svc, notifier := newTestTasks(device, 1, 0)
		defer svc.Close()

		task, err := svc.Submit(domain.TaskBackup, "/backups/phone")
		require.NoError(t, err)
		final, err := svc.Wait(task.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.TaskFailed, final.State)
		assert.Equal(t, "backup command did not succeed", final.Err)

		logs := notifier.logs()
		last := logs[len(logs)-1]
		assert.Equal(t, "Backup failed: backup command did not succeed", last.Message)
		assert.Equal(t, domain.SeverityError, last.Severity)
	})
}

func TestWorkerLimit_QueuesExtraTasks(t *testing.T) {
	svc, _ := newTestTasks(&fakeDevice{udid: testUDID}, 1, time.Hour)

	first, err := svc.Submit(domain.TaskFlash, "16.6")
	require.NoError(t, err)
	second, err := svc.Submit(domain.TaskJailbreak, "unc0ver")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		current, _ := svc.Get(first.ID)
		return current.State == domain.TaskRunning
	}, time.Second, 5*time.Millisecond)

	queued, err := svc.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, queued.State)

	svc.Close()

	for _, id := range []string{first.ID, second.ID} {
		task, err := svc.Get(id)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskCancelled, task.State)
	}
	assert.Len(t, svc.List(), 2)
}

func TestTaskService_UnknownID(t *testing.T) {
	svc, _ := newTestTasks(&fakeDevice{udid: testUDID}, 1, 0)
	defer svc.Close()

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	_, err = svc.Wait("missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Cancel("missing"), domain.ErrTaskNotFound)
}

func TestSubmit_AfterClose(t *testing.T) {
	svc, _ := newTestTasks(&fakeDevice{udid: testUDID}, 1, 0)
	svc.Close()

	_, err := svc.Submit(domain.TaskFlash, "16.6")

	assert.ErrorIs(t, err, errTaskServiceClosed)
	assert.Empty(t, svc.List())
}

func TestSubmit_ConcurrentWithClose(t *testing.T) {
	for i := 0; i < 200; i++ {
		svc, _ := newTestTasks(&fakeDevice{backupOK: true, udid: testUDID}, 1, 0)

		var (
			wg   sync.WaitGroup
			task domain.Task
			err  error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			task, err = svc.Submit(domain.TaskBackup, "/tmp/backup")
		}()
		go func() {
			defer wg.Done()
			svc.Close()
		}()
		wg.Wait()

		if err != nil {
			assert.ErrorIs(t, err, errTaskServiceClosed)
			continue
		}
		// Close returned after the task was registered, so it must have finished
		got, getErr := svc.Get(task.ID)
		require.NoError(t, getErr)
		assert.True(t, got.Done(), "task %s left in state %s", got.ID, got.State)
	}
}

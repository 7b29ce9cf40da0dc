package domain

import "time"

// TaskKind is the type of long running operation
type TaskKind string

const (
	TaskBackup    TaskKind = "backup"
	TaskFlash     TaskKind = "flash"
	TaskJailbreak TaskKind = "jailbreak"
)

// TaskState is the lifecycle state of a task
type TaskState string

const (
	TaskCancelled TaskState = "cancelled"
	TaskFailed    TaskState = "failed"
	TaskPending   TaskState = "pending"
	TaskRunning   TaskState = "running"
	TaskSucceeded TaskState = "succeeded"
)

// Task is a supervised unit of work reporting progress on the event bus
type Task struct {
	CreatedAt  time.Time
	Err        string
	FinishedAt time.Time
	ID         string
	Kind       TaskKind
	Progress   int
	State      TaskState
	Target     string
}

// Done reports whether the task reached a terminal state
func (t Task) Done() bool {
	switch t.State {
	case TaskCancelled, TaskFailed, TaskSucceeded:
		return true
	}
	return false
}

// TaskStep is one stage of a simulated task
type TaskStep struct {
	Message  string
	Progress int
}

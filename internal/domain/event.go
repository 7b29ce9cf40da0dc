package domain

import "time"

// Severity of a user-facing log entry
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Event is a notification published by the coordinator to its observers
type Event interface {
	EventTime() time.Time
	isEvent()
}

// LogEvent is a user-facing log line
type LogEvent struct {
	Message  string
	Severity Severity
	Time     time.Time
}

// ProgressEvent reports progress of a long running task, 0..100
type ProgressEvent struct {
	TaskID string
	Time   time.Time
	Value  int
}

// DeviceEvent carries the snapshot published by a poll cycle, possibly empty
type DeviceEvent struct {
	Record DeviceRecord
	Time   time.Time
}

// TaskEvent is published on every task state change
type TaskEvent struct {
	Task Task
	Time time.Time
}

func (e LogEvent) EventTime() time.Time      { return e.Time }
func (e ProgressEvent) EventTime() time.Time { return e.Time }
func (e DeviceEvent) EventTime() time.Time   { return e.Time }
func (e TaskEvent) EventTime() time.Time     { return e.Time }

func (LogEvent) isEvent()      {}
func (ProgressEvent) isEvent() {}
func (DeviceEvent) isEvent()   {}
func (TaskEvent) isEvent()     {}

package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/renato0307/idevman/internal/domain"
)

type runCall struct {
	args    []string
	name    string
	timeout time.Duration
}

// scriptedRunner answers tool invocations from per-tool handlers and
// records how many calls were in flight at the same time
type scriptedRunner struct {
	delay    time.Duration
	handlers map[string]func(args []string) domain.CommandResult
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	mu       sync.Mutex
	calls    []runCall
}

func newScriptedRunner() *scriptedRunner {
	return &scriptedRunner{handlers: make(map[string]func(args []string) domain.CommandResult)}
}

func (r *scriptedRunner) handle(name string, fn func(args []string) domain.CommandResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = fn
}

func (r *scriptedRunner) Run(_ context.Context, name string, args []string, timeout time.Duration) domain.CommandResult {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, runCall{args: append([]string(nil), args...), name: name, timeout: timeout})
	handler := r.handlers[name]
	delay := r.delay
	r.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if handler == nil {
		return domain.CommandResult{Kind: domain.ResultNotFound}
	}
	return handler(args)
}

func (r *scriptedRunner) recorded() []runCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runCall(nil), r.calls...)
}

func (r *scriptedRunner) names() []string {
	var names []string
	for _, c := range r.recorded() {
		names = append(names, c.name)
	}
	return names
}

func (r *scriptedRunner) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func exits(code int, stdout string) func([]string) domain.CommandResult {
	return func([]string) domain.CommandResult {
		return domain.ExitedWith(code, stdout, "")
	}
}

func fails(kind domain.ResultKind) func([]string) domain.CommandResult {
	return func([]string) domain.CommandResult {
		return domain.CommandResult{Kind: kind}
	}
}

const (
	testUDID       = "ABCD1234"
	testInfoOutput = "DeviceName: Test iPhone\nProductType: iPhone14,2\nProductVersion: 16.6\n"
	testMountPoint = "/mnt/idevice"
)

// connectedRunner scripts a healthy device with every tool installed
func connectedRunner() *scriptedRunner {
	r := newScriptedRunner()
	r.handle(domain.ToolIDLister, exits(0, testUDID+"\n"))
	r.handle(domain.ToolInfo, func(args []string) domain.CommandResult {
		if len(args) == 2 && args[0] == "-u" && args[1] == testUDID {
			return domain.ExitedWith(0, testInfoOutput, "")
		}
		return domain.ExitedWith(1, "", "unknown device")
	})
	r.handle(domain.ToolDiagnostics, exits(0, "CurrentCapacity = 87\n"))
	r.handle(domain.ToolMounter, exits(0, ""))
	r.handle(domain.ToolUnmounter, exits(0, ""))
	return r
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (n *recordingNotifier) Publish(event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) logs() []domain.LogEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.LogEvent
	for _, e := range n.events {
		if l, ok := e.(domain.LogEvent); ok {
			out = append(out, l)
		}
	}
	return out
}

func (n *recordingNotifier) devices() []domain.DeviceRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.DeviceRecord
	for _, e := range n.events {
		if d, ok := e.(domain.DeviceEvent); ok {
			out = append(out, d.Record)
		}
	}
	return out
}

func (n *recordingNotifier) messages() []string {
	var out []string
	for _, l := range n.logs() {
		out = append(out, l.Message)
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

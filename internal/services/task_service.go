package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ports"
)

// DefaultStepInterval is the pause before each step of a simulated task
const DefaultStepInterval = time.Second

var flashSteps = []domain.TaskStep{
	{Progress: 10, Message: "Preparing device..."},
	{Progress: 25, Message: "Entering recovery mode..."},
	{Progress: 50, Message: "Downloading firmware..."},
	{Progress: 75, Message: "Verifying firmware..."},
	{Progress: 90, Message: "Flashing device..."},
	{Progress: 100, Message: "Flash complete!"},
}

var jailbreakSteps = []domain.TaskStep{
	{Progress: 10, Message: "Preparing device..."},
	{Progress: 30, Message: "Exploiting vulnerability..."},
	{Progress: 60, Message: "Installing jailbreak..."},
	{Progress: 90, Message: "Finalizing..."},
	{Progress: 100, Message: "Jailbreak complete!"},
}

var (
	errTaskCancelled     = errors.New("cancelled")
	errTaskServiceClosed = errors.New("task service closed")
)

// DeviceSession is what long running tasks need from the coordinator
type DeviceSession interface {
	Backup(dir string) bool
	UDID() string
}

type taskEntry struct {
	cancel context.CancelFunc
	ctx    context.Context
	done   chan struct{}
	task   domain.Task
}

// TaskService runs flash, jailbreak and backup tasks on a bounded worker pool.
// Flash and jailbreak are simulations: they only report steps and never touch the device.
type TaskService struct {
	cancel       context.CancelFunc
	catalog      *Catalog
	closed       bool
	ctx          context.Context
	group        *errgroup.Group
	mu           sync.Mutex
	notifier     ports.Notifier
	now          func() time.Time
	queued       sync.WaitGroup
	session      DeviceSession
	stepInterval time.Duration
	tasks        map[string]*taskEntry
}

// NewTaskService creates a task supervisor with at most workers tasks running at once
func NewTaskService(
	session DeviceSession,
	catalog *Catalog,
	notifier ports.Notifier,
	workers int,
	stepInterval time.Duration,
) *TaskService {
	if workers <= 0 {
		workers = 1
	}
	if stepInterval < 0 {
		stepInterval = DefaultStepInterval
	}

	group := &errgroup.Group{}
	group.SetLimit(workers)

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskService{
		cancel:       cancel,
		catalog:      catalog,
		ctx:          ctx,
		group:        group,
		notifier:     notifier,
		now:          time.Now,
		session:      session,
		stepInterval: stepInterval,
		tasks:        make(map[string]*taskEntry),
	}
}

// Submit validates and queues a task. It never waits for a free worker.
func (s *TaskService) Submit(kind domain.TaskKind, target string) (domain.Task, error) {
	if s.session.UDID() == "" {
		s.log("No device connected", domain.SeverityError)
		return domain.Task{}, domain.ErrNoDevice
	}

	resolved, err := s.catalog.Resolve(kind, target)
	if err != nil {
		s.log(selectFirstMessage(kind), domain.SeverityWarning)
		return domain.Task{}, err
	}

	ctx, cancel := context.WithCancel(s.ctx)
	entry := &taskEntry{
		cancel: cancel,
		ctx:    ctx,
		done:   make(chan struct{}),
		task: domain.Task{
			CreatedAt: s.now(),
			ID:        uuid.New().String(),
			Kind:      kind,
			State:     domain.TaskPending,
			Target:    resolved,
		},
	}

	task := entry.task

	// Registering under mu orders every queued.Add before Close starts waiting
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return domain.Task{}, errTaskServiceClosed
	}
	s.tasks[task.ID] = entry
	s.queued.Add(1)
	s.mu.Unlock()

	logging.Logger.Info("Task submitted", "id", task.ID, "kind", kind, "target", resolved)
	s.publishTask(task)
	s.log(startMessage(kind, resolved), domain.SeverityInfo)

	go func() {
		defer s.queued.Done()
		// Blocks here until a worker slot frees up
		s.group.Go(func() error {
			s.execute(entry)
			return nil
		})
	}()

	return task, nil
}

// Get returns the current view of a task
func (s *TaskService) Get(id string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return entry.task, nil
}

// List returns every task known to the service
func (s *TaskService) List() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, entry.task)
	}
	return tasks
}

// Cancel asks a task to stop. Simulated steps stop at the next step boundary;
// a backup already talking to the device runs until its command returns.
func (s *TaskService) Cancel(id string) error {
	s.mu.Lock()
	entry, ok := s.tasks[id]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	logging.Logger.Info("Cancelling task", "id", id)
	entry.cancel()
	return nil
}

// Wait blocks until the task reaches a terminal state and returns it
func (s *TaskService) Wait(id string) (domain.Task, error) {
	s.mu.Lock()
	entry, ok := s.tasks[id]
	s.mu.Unlock()

	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	<-entry.done
	return s.Get(id)
}

// Close cancels outstanding tasks and waits for every worker to return
func (s *TaskService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.queued.Wait()
	_ = s.group.Wait()
}

func (s *TaskService) execute(entry *taskEntry) {
	defer close(entry.done)

	if entry.ctx.Err() != nil {
		s.finish(entry, domain.TaskCancelled, errTaskCancelled)
		return
	}

	s.update(entry, func(t *domain.Task) { t.State = domain.TaskRunning })

	err := s.runSafely(entry)
	switch {
	case errors.Is(err, errTaskCancelled):
		s.finish(entry, domain.TaskCancelled, err)
	case err != nil:
		s.finish(entry, domain.TaskFailed, err)
	default:
		s.finish(entry, domain.TaskSucceeded, nil)
	}
}

// runSafely turns a panic inside a task into a failed task
func (s *TaskService) runSafely(entry *taskEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Error("Task panicked", "id", entry.task.ID, "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch entry.task.Kind {
	case domain.TaskFlash:
		return s.simulate(entry, flashSteps)
	case domain.TaskJailbreak:
		return s.simulate(entry, jailbreakSteps)
	case domain.TaskBackup:
		return s.backup(entry)
	default:
		return fmt.Errorf("%w: task kind %q", domain.ErrUnknownTarget, entry.task.Kind)
	}
}

func (s *TaskService) simulate(entry *taskEntry, steps []domain.TaskStep) error {
	s.log(fmt.Sprintf("%s is simulated: no changes are made to the device", taskTitle(entry.task.Kind)), domain.SeverityWarning)

	for _, step := range steps {
		select {
		case <-entry.ctx.Done():
			return errTaskCancelled
		case <-time.After(s.stepInterval):
		}

		s.progress(entry, step.Progress)
		s.log(step.Message, domain.SeverityInfo)
	}
	return nil
}

func (s *TaskService) backup(entry *taskEntry) error {
	s.progress(entry, 0)
	if !s.session.Backup(entry.task.Target) {
		return errors.New("backup command did not succeed")
	}
	s.progress(entry, 100)
	return nil
}

func (s *TaskService) finish(entry *taskEntry, state domain.TaskState, err error) {
	s.update(entry, func(t *domain.Task) {
		t.State = state
		t.FinishedAt = s.now()
		if err != nil {
			t.Err = err.Error()
		}
	})

	logging.Logger.Info("Task finished", "id", entry.task.ID, "state", state, "error", err)

	kind, target := entry.task.Kind, entry.task.Target
	switch state {
	case domain.TaskSucceeded:
		s.log(successMessage(kind, target), domain.SeveritySuccess)
	case domain.TaskCancelled:
		s.log(fmt.Sprintf("%s cancelled", taskTitle(kind)), domain.SeverityWarning)
	case domain.TaskFailed:
		s.log(fmt.Sprintf("%s failed: %v", taskTitle(kind), err), domain.SeverityError)
	}
}

func (s *TaskService) update(entry *taskEntry, change func(t *domain.Task)) {
	s.mu.Lock()
	change(&entry.task)
	task := entry.task
	s.mu.Unlock()

	s.publishTask(task)
}

func (s *TaskService) progress(entry *taskEntry, value int) {
	value = clampProgress(value)

	s.mu.Lock()
	entry.task.Progress = value
	s.mu.Unlock()

	s.publish(domain.ProgressEvent{TaskID: entry.task.ID, Time: s.now(), Value: value})
}

func (s *TaskService) publishTask(task domain.Task) {
	s.publish(domain.TaskEvent{Task: task, Time: s.now()})
}

func (s *TaskService) log(message string, severity domain.Severity) {
	s.publish(domain.LogEvent{Message: message, Severity: severity, Time: s.now()})
}

func (s *TaskService) publish(event domain.Event) {
	if s.notifier != nil {
		s.notifier.Publish(event)
	}
}

func taskTitle(kind domain.TaskKind) string {
	switch kind {
	case domain.TaskFlash:
		return "Flash"
	case domain.TaskJailbreak:
		return "Jailbreak"
	default:
		return "Backup"
	}
}

func selectFirstMessage(kind domain.TaskKind) string {
	switch kind {
	case domain.TaskFlash:
		return "Select firmware first"
	case domain.TaskJailbreak:
		return "Select jailbreak tool first"
	default:
		return "Select backup directory first"
	}
}

func startMessage(kind domain.TaskKind, target string) string {
	switch kind {
	case domain.TaskFlash:
		return fmt.Sprintf("Starting %s flash...", target)
	case domain.TaskJailbreak:
		return fmt.Sprintf("Starting %s jailbreak...", target)
	default:
		return fmt.Sprintf("Starting backup to %s...", target)
	}
}

func successMessage(kind domain.TaskKind, target string) string {
	switch kind {
	case domain.TaskFlash:
		return fmt.Sprintf("%s flashed successfully!", target)
	case domain.TaskJailbreak:
		return fmt.Sprintf("%s jailbreak successful!", target)
	default:
		return fmt.Sprintf("Backup of device saved to %s", target)
	}
}

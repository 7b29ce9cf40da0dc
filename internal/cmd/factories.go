package cmd

import (
	"fmt"
	"sync"

	"github.com/renato0307/idevman/internal/adapters/process"
	adapterstorage "github.com/renato0307/idevman/internal/adapters/storage"
	"github.com/renato0307/idevman/internal/adapters/tools"
	"github.com/renato0307/idevman/internal/config"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/paths"
	"github.com/renato0307/idevman/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	Bus            *services.EventBus
	Catalog        *services.Catalog
	JournalService *services.JournalService
	Monitor        *services.Monitor
	SessionService *services.SessionService
	TaskService    *services.TaskService

	// Adapters
	Journal  *adapterstorage.SQLiteJournal
	Resolver *tools.DirResolver

	// Internal - for cleanup only
	closeOnce      sync.Once
	monitorStarted bool
	runtime        config.Runtime
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(rt config.Runtime) (*Container, error) {
	journal, err := adapterstorage.NewSQLiteJournal(rt.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// ifuse refuses a mount point that does not exist
	if err := paths.EnsureMountPoint(rt.MountPoint); err != nil {
		logging.Logger.Warn("Failed to create mount point", "mount_point", rt.MountPoint, "error", err)
	}

	// Create adapters
	bus := services.NewEventBus()
	resolver := tools.NewDirResolver(rt.ToolDir, rt.SearchPath)
	runner := process.NewExecRunner(resolver, bus, rt.CommandTimeout)

	// Create services
	sessionService := services.NewSessionService(runner, bus, rt.MountPoint, rt.CommandTimeout, rt.BackupTimeout)
	catalog := services.NewCatalog()
	taskService := services.NewTaskService(sessionService, catalog, bus, rt.TaskWorkers, services.DefaultStepInterval)
	monitor := services.NewMonitor(sessionService, rt.PollInterval)

	journalService := services.NewJournalService(journal)
	journalService.Start(bus)

	logging.Logger.Debug("Container created",
		"tool_dir", rt.ToolDir,
		"mount_point", rt.MountPoint,
		"poll_interval", rt.PollInterval.String(),
		"task_workers", rt.TaskWorkers)

	return &Container{
		Bus:            bus,
		Catalog:        catalog,
		Journal:        journal,
		JournalService: journalService,
		Monitor:        monitor,
		Resolver:       resolver,
		SessionService: sessionService,
		TaskService:    taskService,
		runtime:        rt,
	}, nil
}

// Runtime returns the resolved configuration the container was built with
func (c *Container) Runtime() config.Runtime {
	return c.runtime
}

// StartMonitor starts the poll loop. The final unmount only happens for containers
// whose monitor was started, so one-shot commands like mount leave the device mounted.
func (c *Container) StartMonitor() {
	c.monitorStarted = true
	c.Monitor.Start()
}

// Close stops background work and closes all resources held by the container
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.monitorStarted {
			c.Monitor.Stop()
		}
		c.TaskService.Close()
		c.JournalService.Stop()
		c.Bus.Close()

		if c.Journal != nil {
			err = c.Journal.Close()
		}
	})
	return err
}

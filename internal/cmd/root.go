package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/idevman/internal/config"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/services"
	"github.com/renato0307/idevman/internal/ui"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	MountPoint  string           `help:"Where the device filesystem is mounted (overrides settings.json)"`
	ToolDir     string           `help:"Directory holding the libimobiledevice tools (overrides $IDEVMAN_TOOL_DIR)"`

	Run        RunCmd        `cmd:"" help:"Start the device dashboard (default)" default:"1"`
	Info       InfoCmd       `cmd:"info" help:"Poll the device once and print what was found"`
	Mount      MountCmd      `cmd:"mount" help:"Mount the device filesystem"`
	Unmount    UnmountCmd    `cmd:"unmount" help:"Unmount the device filesystem"`
	Doctor     DoctorCmd     `cmd:"doctor" help:"Check which device tools are installed"`
	Firmware   FirmwareCmd   `cmd:"firmware" help:"Browse the firmware catalog"`
	Flash      FlashCmd      `cmd:"flash" help:"Flash a firmware onto the device (simulated)"`
	Jailbreak  JailbreakCmd  `cmd:"jailbreak" help:"Run a jailbreak tool against the device (simulated)"`
	Backup     BackupCmd     `cmd:"backup" help:"Back up the device to a directory"`
	Screenshot ScreenshotCmd `cmd:"screenshot" help:"Save a screenshot of the device screen"`
	Reboot     RebootCmd     `cmd:"reboot" help:"Reboot the device"`
	Apps       AppsCmd       `cmd:"apps" help:"List installed applications"`
	Logs       LogsCmd       `cmd:"logs" help:"Show recent log lines from the journal"`
	Devices    DevicesCmd    `cmd:"devices" help:"List devices seen by this machine"`
	Serve      ServeCmd      `cmd:"serve" help:"Serve the dashboard over SSH"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set

	if c.settings != nil {
		if c.MaxLogFiles == logging.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("IDEVMAN_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("IDEVMAN_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Child processes inherit debug settings and append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("IDEVMAN_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("IDEVMAN_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv("IDEVMAN_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	rt := c.settings.Resolve(c.ToolDir, c.MountPoint)

	// Create container AFTER logging is initialized so GORM's logger has somewhere to write
	container, err := NewContainer(rt)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}

// RunCmd starts the dashboard
type RunCmd struct {
	Dev bool `help:"Enable development mode (shows version info in the header)"`
}

// Run executes the dashboard
func (r *RunCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting idevman dashboard")

	events, unsubscribe := cli.Container.Bus.Subscribe(services.DefaultSubscriberBuffer)
	defer unsubscribe()

	cli.Container.StartMonitor()

	p := tea.NewProgram(
		ui.NewDashboard(cli.Container.SessionService, events, r.Dev),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	logging.Logger.Info("Starting TUI program")
	if _, err := p.Run(); err != nil {
		logging.Logger.Error("TUI program error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}

	logging.Logger.Info("TUI program exited normally")
	return nil
}

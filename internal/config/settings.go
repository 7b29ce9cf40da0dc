package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/renato0307/idevman/internal/paths"
)

// Defaults used when neither flags, environment nor settings.json provide a value
const (
	DefaultBackupTimeoutMinutes  = 60
	DefaultCommandTimeoutSeconds = 30
	DefaultPollIntervalSeconds   = 3
	DefaultSSHHost               = "localhost"
	DefaultSSHPort               = "23235"
	DefaultTaskWorkers           = 2
)

// Settings represents the structure of ~/.idevman/settings.json
type Settings struct {
	BackupTimeoutMinutes  *int   `json:"backup_timeout_minutes,omitempty"`
	CommandTimeoutSeconds *int   `json:"command_timeout_seconds,omitempty"`
	Debug                 *bool  `json:"debug,omitempty"`
	MaxLogFiles           *int   `json:"max_log_files,omitempty"`
	MountPoint            string `json:"mount_point,omitempty"`
	PollIntervalSeconds   *int   `json:"poll_interval_seconds,omitempty"`
	SearchPath            *bool  `json:"search_path,omitempty"`
	SSHHost               string `json:"ssh_host,omitempty"`
	SSHPort               string `json:"ssh_port,omitempty"`
	TaskWorkers           *int   `json:"task_workers,omitempty"`
	ToolDir               string `json:"tool_dir,omitempty"`
}

// Runtime is the fully resolved configuration handed to the container
type Runtime struct {
	BackupTimeout  time.Duration
	CommandTimeout time.Duration
	DBPath         string
	MountPoint     string
	PollInterval   time.Duration
	SearchPath     bool
	SSHHost        string
	SSHPort        string
	TaskWorkers    int
	ToolDir        string
}

// LoadSettings loads settings from $IDEVMAN_HOME/settings.json.
// Returns empty Settings if the file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(paths.GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.ToolDir != "" {
		settings.ToolDir = paths.ExpandPath(settings.ToolDir)
	}
	if settings.MountPoint != "" {
		settings.MountPoint = paths.ExpandPath(settings.MountPoint)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// SaveSettings saves settings to $IDEVMAN_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := paths.GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Validate rejects values the coordinator cannot work with
func (s *Settings) Validate() error {
	positive := map[string]*int{
		"backup_timeout_minutes":  s.BackupTimeoutMinutes,
		"command_timeout_seconds": s.CommandTimeoutSeconds,
		"poll_interval_seconds":   s.PollIntervalSeconds,
		"task_workers":            s.TaskWorkers,
	}
	for name, value := range positive {
		if value != nil && *value <= 0 {
			return fmt.Errorf("invalid settings.json: %s must be positive, got %d", name, *value)
		}
	}
	return nil
}

// Resolve applies defaults to unset settings.
// toolDir and mountPoint are the CLI flag values and win when non-empty.
func (s *Settings) Resolve(toolDir, mountPoint string) Runtime {
	rt := Runtime{
		BackupTimeout:  time.Duration(DefaultBackupTimeoutMinutes) * time.Minute,
		CommandTimeout: time.Duration(DefaultCommandTimeoutSeconds) * time.Second,
		DBPath:         paths.GetDBPath(),
		MountPoint:     paths.GetMountPoint(),
		PollInterval:   time.Duration(DefaultPollIntervalSeconds) * time.Second,
		SSHHost:        DefaultSSHHost,
		SSHPort:        DefaultSSHPort,
		TaskWorkers:    DefaultTaskWorkers,
		ToolDir:        paths.GetToolDir(),
	}

	if s != nil {
		if s.BackupTimeoutMinutes != nil {
			rt.BackupTimeout = time.Duration(*s.BackupTimeoutMinutes) * time.Minute
		}
		if s.CommandTimeoutSeconds != nil {
			rt.CommandTimeout = time.Duration(*s.CommandTimeoutSeconds) * time.Second
		}
		if s.MountPoint != "" {
			rt.MountPoint = s.MountPoint
		}
		if s.PollIntervalSeconds != nil {
			rt.PollInterval = time.Duration(*s.PollIntervalSeconds) * time.Second
		}
		if s.SearchPath != nil {
			rt.SearchPath = *s.SearchPath
		}
		if s.TaskWorkers != nil {
			rt.TaskWorkers = *s.TaskWorkers
		}
		if s.ToolDir != "" {
			rt.ToolDir = s.ToolDir
		}
	}

	if envToolDir := os.Getenv("IDEVMAN_TOOL_DIR"); envToolDir != "" {
		rt.ToolDir = paths.ExpandPath(envToolDir)
	}
	if toolDir != "" {
		rt.ToolDir = paths.ExpandPath(toolDir)
	}
	if mountPoint != "" {
		rt.MountPoint = paths.ExpandPath(mountPoint)
	}

	return rt
}

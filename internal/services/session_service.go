package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ports"
)

// SessionService coordinates every device-facing tool invocation.
// Refresh, Mount, Unmount and the other device operations hold the gate for
// their whole command sequence so at most one of them talks to the device at a time.
type SessionService struct {
	backupTimeout  time.Duration
	commandTimeout time.Duration
	gate           sync.Mutex
	mountPoint     string
	notifier       ports.Notifier
	now            func() time.Time
	runner         ports.CommandRunner

	// stateMu guards state only; it is never held across a command
	stateMu sync.RWMutex
	state   domain.SessionState
	udid    string
}

// NewSessionService creates a coordinator for a single mount point.
// Non-positive timeouts fall back to the runner's default.
func NewSessionService(
	runner ports.CommandRunner,
	notifier ports.Notifier,
	mountPoint string,
	commandTimeout time.Duration,
	backupTimeout time.Duration,
) *SessionService {
	return &SessionService{
		backupTimeout:  backupTimeout,
		commandTimeout: commandTimeout,
		mountPoint:     mountPoint,
		notifier:       notifier,
		now:            time.Now,
		runner:         runner,
		state: domain.SessionState{
			Mount:      domain.MountUnmounted,
			MountPoint: mountPoint,
			Presence:   domain.PresenceDisconnected,
		},
	}
}

// State returns a snapshot of the session without waiting for the gate
func (s *SessionService) State() domain.SessionState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// UDID returns the identifier stored by the last successful listing, if any
func (s *SessionService) UDID() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.udid
}

// Refresh runs one poll cycle and publishes the resulting record, which is
// empty when no device answered or its info could not be read.
func (s *SessionService) Refresh() domain.DeviceRecord {
	s.gate.Lock()
	defer s.gate.Unlock()

	record := s.poll()
	s.applyPoll(record)
	s.publish(domain.DeviceEvent{Record: record, Time: s.now()})
	return record
}

func (s *SessionService) poll() domain.DeviceRecord {
	listing := s.run(domain.ToolIDLister, []string{"-l"}, s.commandTimeout)
	udid := firstLine(listing.Stdout)
	if udid == "" {
		logging.Logger.Debug("No device identifier listed", "kind", listing.Kind)
		s.setUDID("")
		return domain.DeviceRecord{}
	}
	s.setUDID(udid)

	info := s.run(domain.ToolInfo, []string{"-u", udid}, s.commandTimeout)
	if !info.Succeeded() {
		// A listed device whose info cannot be read is reported as absent
		logging.Logger.Warn("Device info unavailable", "udid", udid, "error", info.AsError())
		return domain.DeviceRecord{}
	}

	record := domain.DeviceRecord{
		Info: ParseInfo(info.Stdout),
		UDID: udid,
	}

	battery := s.run(domain.ToolDiagnostics, []string{"ioregentry", "AppleSmartBattery"}, s.commandTimeout)
	// The exit status is ignored: some builds exit nonzero after printing the registry entry
	if battery.Kind == domain.ResultOK {
		if level, ok := ExtractBattery(battery.Stdout); ok {
			record.BatteryLevel = &level
		}
	}

	return record
}

func (s *SessionService) applyPoll(record domain.DeviceRecord) {
	s.stateMu.Lock()
	previous := s.state.Presence
	s.state.Record = record
	s.state.LastPoll = s.now()
	if record.IsEmpty() {
		s.state.Presence = domain.PresenceDisconnected
		// Disconnecting invalidates any mount
		s.state.Mount = domain.MountUnmounted
	} else {
		s.state.Presence = domain.PresenceConnected
	}
	current := s.state.Presence
	s.stateMu.Unlock()

	if previous == current {
		return
	}

	logging.Logger.Info("Device presence changed", "from", previous, "to", current, "udid", record.UDID)
	if current == domain.PresenceConnected {
		s.log(fmt.Sprintf("Connected: %s (%s)", record.Name(), record.Model()), domain.SeveritySuccess)
	} else {
		s.log("Device disconnected", domain.SeverityWarning)
	}
}

// Mount exposes the device filesystem at the configured mount point.
// It needs a stored identifier and always unmounts first.
func (s *SessionService) Mount() bool {
	s.gate.Lock()
	defer s.gate.Unlock()

	udid := s.UDID()
	if udid == "" {
		s.log("No device connected", domain.SeverityError)
		return false
	}

	s.unmountLocked()

	result := s.run(domain.ToolMounter, []string{s.mountPoint, "--udid", udid}, s.commandTimeout)
	if !result.Succeeded() {
		logging.Logger.Warn("Mount failed", "udid", udid, "mount_point", s.mountPoint, "error", result.AsError())
		s.log(fmt.Sprintf("Mount failed: %s", s.mountPoint), domain.SeverityError)
		return false
	}

	s.setMount(domain.MountMounted)
	s.log(fmt.Sprintf("Device mounted at %s", s.mountPoint), domain.SeveritySuccess)
	return true
}

// Unmount releases the mount point. Unmounting an idle mount point is not an error.
func (s *SessionService) Unmount() bool {
	s.gate.Lock()
	defer s.gate.Unlock()

	if !s.unmountLocked() {
		s.log(fmt.Sprintf("Unmount failed: %s", s.mountPoint), domain.SeverityWarning)
		return false
	}
	s.log(fmt.Sprintf("Unmounted %s", s.mountPoint), domain.SeverityInfo)
	return true
}

func (s *SessionService) unmountLocked() bool {
	result := s.run(domain.ToolUnmounter, []string{"-u", s.mountPoint}, s.commandTimeout)
	if !result.Succeeded() {
		logging.Logger.Debug("Unmount did not succeed", "mount_point", s.mountPoint, "error", result.AsError())
		return false
	}
	s.setMount(domain.MountUnmounted)
	return true
}

// Shutdown makes a final best-effort unmount and resets the session
func (s *SessionService) Shutdown() {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.unmountLocked()

	s.stateMu.Lock()
	s.udid = ""
	s.state = domain.SessionState{
		Mount:      domain.MountUnmounted,
		MountPoint: s.mountPoint,
		Presence:   domain.PresenceDisconnected,
	}
	s.stateMu.Unlock()

	logging.Logger.Info("Session shut down", "mount_point", s.mountPoint)
}

// Screenshot saves a screenshot of the device to path
func (s *SessionService) Screenshot(path string) bool {
	return s.deviceCommand("Screenshot", domain.ToolScreenshot, s.commandTimeout, func(udid string) []string {
		return []string{"-u", udid, path}
	}, fmt.Sprintf("Screenshot saved to %s", path))
}

// Reboot restarts the device
func (s *SessionService) Reboot() bool {
	return s.deviceCommand("Reboot", domain.ToolDiagnostics, s.commandTimeout, func(udid string) []string {
		return []string{"restart", "-u", udid}
	}, "Device is rebooting")
}

// Backup writes a full device backup into dir
func (s *SessionService) Backup(dir string) bool {
	return s.deviceCommand("Backup", domain.ToolBackup, s.backupTimeout, func(udid string) []string {
		return []string{"-u", udid, "backup", dir}
	}, fmt.Sprintf("Backup written to %s", dir))
}

// ListApps returns the installed applications, one entry per line of the installer listing
func (s *SessionService) ListApps() ([]string, bool) {
	s.gate.Lock()
	defer s.gate.Unlock()

	udid := s.UDID()
	if udid == "" {
		s.log("No device connected", domain.SeverityError)
		return nil, false
	}

	result := s.run(domain.ToolInstaller, []string{"-u", udid, "-l"}, s.commandTimeout)
	if !result.Succeeded() {
		s.log("Listing apps failed", domain.SeverityError)
		return nil, false
	}

	return parseAppList(result.Stdout), true
}

func (s *SessionService) deviceCommand(
	action string,
	tool string,
	timeout time.Duration,
	args func(udid string) []string,
	successMessage string,
) bool {
	s.gate.Lock()
	defer s.gate.Unlock()

	udid := s.UDID()
	if udid == "" {
		s.log("No device connected", domain.SeverityError)
		return false
	}

	result := s.run(tool, args(udid), timeout)
	if !result.Succeeded() {
		logging.Logger.Warn("Device command failed", "action", action, "tool", tool, "error", result.AsError())
		s.log(fmt.Sprintf("%s failed", action), domain.SeverityError)
		return false
	}

	s.log(successMessage, domain.SeveritySuccess)
	return true
}

func (s *SessionService) run(tool string, args []string, timeout time.Duration) domain.CommandResult {
	logging.Logger.Debug("Running tool", "tool", tool, "args", args)
	return s.runner.Run(context.Background(), tool, args, timeout)
}

func (s *SessionService) setUDID(udid string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.udid = udid
}

func (s *SessionService) setMount(mount domain.MountState) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.Mount = mount
}

func (s *SessionService) log(message string, severity domain.Severity) {
	s.publish(domain.LogEvent{Message: message, Severity: severity, Time: s.now()})
}

func (s *SessionService) publish(event domain.Event) {
	if s.notifier != nil {
		s.notifier.Publish(event)
	}
}

func firstLine(output string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(line)
}

func parseAppList(output string) []string {
	var apps []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "CFBundleIdentifier") || strings.HasPrefix(line, "Total:") {
			continue
		}
		apps = append(apps, line)
	}
	return apps
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/services"
)

var errOperationFailed = errors.New("operation failed, see the log above")

// connect performs one poll so the coordinator learns the device identifier
func connect(cli *CLI) (domain.DeviceRecord, error) {
	record := cli.Container.SessionService.Refresh()
	if record.IsEmpty() {
		return record, domain.ErrNoDevice
	}
	return record, nil
}

// withDevice runs op against a freshly polled device, echoing log events to stderr
func withDevice(cli *CLI, op func(s *services.SessionService) bool) error {
	printer := attachPrinter(cli.Container.Bus, os.Stderr)
	defer printer.Detach()

	if _, err := connect(cli); err != nil {
		return err
	}
	if !op(cli.Container.SessionService) {
		return errOperationFailed
	}
	return nil
}

// InfoCmd polls the device once
type InfoCmd struct {
	JSON bool `help:"Print the record as JSON" name:"json"`
}

type infoOutput struct {
	BatteryLevel *int              `json:"battery_level,omitempty"`
	Info         map[string]string `json:"info,omitempty"`
	Model        string            `json:"model"`
	Name         string            `json:"name"`
	OSVersion    string            `json:"os_version"`
	UDID         string            `json:"udid"`
}

// Run executes the info command
func (i *InfoCmd) Run(cli *CLI) error {
	logging.Logger.Info("Polling device")

	record, err := connect(cli)
	if err != nil {
		return err
	}

	if i.JSON {
		data, err := json.MarshalIndent(infoOutput{
			BatteryLevel: record.BatteryLevel,
			Info:         record.Info,
			Model:        record.Model(),
			Name:         record.Name(),
			OSVersion:    record.OSVersion(),
			UDID:         record.UDID,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal device info: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Name:       %s\n", record.Name())
	fmt.Printf("Model:      %s\n", record.Model())
	fmt.Printf("iOS:        %s\n", record.OSVersion())
	fmt.Printf("UDID:       %s\n", record.UDID)
	if record.BatteryLevel != nil {
		fmt.Printf("Battery:    %d%%\n", *record.BatteryLevel)
	} else {
		fmt.Println("Battery:    unknown")
	}

	return nil
}

// MountCmd mounts the device filesystem
type MountCmd struct{}

// Run executes the mount command
func (m *MountCmd) Run(cli *CLI) error {
	return withDevice(cli, func(s *services.SessionService) bool {
		return s.Mount()
	})
}

// UnmountCmd unmounts the device filesystem. It needs no device.
type UnmountCmd struct{}

// Run executes the unmount command
func (u *UnmountCmd) Run(cli *CLI) error {
	printer := attachPrinter(cli.Container.Bus, os.Stderr)
	defer printer.Detach()

	if !cli.Container.SessionService.Unmount() {
		return errOperationFailed
	}
	return nil
}

// ScreenshotCmd saves a screenshot of the device screen
type ScreenshotCmd struct {
	Path string `arg:"" help:"Output file (PNG or TIFF depending on the device)" type:"path"`
}

// Run executes the screenshot command
func (s *ScreenshotCmd) Run(cli *CLI) error {
	return withDevice(cli, func(svc *services.SessionService) bool {
		return svc.Screenshot(s.Path)
	})
}

// RebootCmd reboots the device
type RebootCmd struct{}

// Run executes the reboot command
func (r *RebootCmd) Run(cli *CLI) error {
	return withDevice(cli, func(s *services.SessionService) bool {
		return s.Reboot()
	})
}

// AppsCmd lists installed applications
type AppsCmd struct{}

// Run executes the apps command
func (a *AppsCmd) Run(cli *CLI) error {
	var apps []string
	err := withDevice(cli, func(s *services.SessionService) bool {
		var ok bool
		apps, ok = s.ListApps()
		return ok
	})
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		fmt.Println("No applications installed.")
		return nil
	}

	sort.Strings(apps)
	for _, app := range apps {
		fmt.Println(app)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/renato0307/idevman/internal/ui"
)

// LogsCmd shows recent journal entries
type LogsCmd struct {
	Limit int `help:"Number of entries to show" default:"50"`
}

// Run executes the logs command
func (l *LogsCmd) Run(cli *CLI) error {
	entries, err := cli.Container.Journal.RecentLogs(context.Background(), l.Limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No log entries yet.")
		return nil
	}

	for _, entry := range entries {
		fmt.Println(ui.FormatLogLine(entry))
	}
	return nil
}

// DevicesCmd lists device sightings
type DevicesCmd struct{}

// Run executes the devices command
func (d *DevicesCmd) Run(cli *CLI) error {
	sightings, err := cli.Container.Journal.Devices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if len(sightings) == 0 {
		fmt.Println("No devices seen yet.")
		return nil
	}

	fmt.Printf("%-26s %-14s %-9s %-8s %s\n", "NAME", "MODEL", "IOS", "BATTERY", "LAST SEEN")
	fmt.Println(strings.Repeat("─", 72))
	for _, s := range sightings {
		battery := "-"
		if s.BatteryLevel != nil {
			battery = fmt.Sprintf("%d%%", *s.BatteryLevel)
		}
		fmt.Printf("%-26s %-14s %-9s %-8s %s\n",
			truncate(s.Name, 26),
			truncate(s.Model, 14),
			s.OSVersion,
			battery,
			humanize.Time(s.LastSeen))
		fmt.Printf("  %s\n", s.UDID)
	}
	return nil
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

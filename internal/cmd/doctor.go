package cmd

import (
	"fmt"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/theme"
)

// DoctorCmd reports which device tools are installed
type DoctorCmd struct{}

// Run executes the doctor command
func (d *DoctorCmd) Run(cli *CLI) error {
	resolver := cli.Container.Resolver
	availability := resolver.Availability(domain.KnownTools...)

	fmt.Printf("Tool directory: %s\n", resolver.Dir())
	fmt.Printf("Mount point:    %s\n\n", cli.Container.Runtime().MountPoint)

	missing := 0
	for _, name := range domain.KnownTools {
		if availability[name] {
			fmt.Printf("  %s %s\n", theme.ConnectedStyle.Render("✓"), name)
			continue
		}

		missing++
		fmt.Printf("  %s %s\n", theme.DisconnectedStyle.Render("✗"), name)
		if hint, ok := domain.ToolDownloadHints[name]; ok {
			fmt.Printf("      %s\n", theme.MutedStyle.Render(hint))
		}
	}

	fmt.Println()
	if missing == 0 {
		fmt.Println("All tools found.")
		return nil
	}

	fmt.Printf("%d of %d tools missing.\n", missing, len(domain.KnownTools))
	fmt.Println("Install them into the tool directory, or set search_path in settings.json to use $PATH.")
	return nil
}

package cmd

import (
	"fmt"
	"strings"
)

// FirmwareCmd browses the firmware catalog
type FirmwareCmd struct {
	List FirmwareListCmd `cmd:"list" help:"List firmware and jailbreak tools" default:"1"`
}

// FirmwareListCmd lists the catalog, newest firmware first
type FirmwareListCmd struct{}

// Run executes the firmware list command
func (f *FirmwareListCmd) Run(cli *CLI) error {
	catalog := cli.Container.Catalog

	fmt.Println("Firmware")
	fmt.Println(strings.Repeat("─", 40))
	for _, fw := range catalog.Firmware() {
		fmt.Printf("  %-28s %s\n", fw.Label(), fw.Version)
	}

	fmt.Println()
	fmt.Println("Jailbreak tools")
	fmt.Println(strings.Repeat("─", 40))
	for _, tool := range catalog.JailbreakTools() {
		fmt.Printf("  %s\n", tool)
	}

	return nil
}

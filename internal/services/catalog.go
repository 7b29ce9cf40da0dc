package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/renato0307/idevman/internal/domain"
)

// Firmware labels offered for flashing. Nothing is downloaded; flashing is simulated.
var defaultFirmware = []string{
	"iOS 16.6 (20G75)",
	"iOS 15.7.8 (19H364)",
	"iOS 17.0 Beta 3 (21A5277h)",
}

var defaultJailbreakTools = []string{
	"checkra1n",
	"unc0ver",
	"Taurine",
	"palera1n",
}

// "iOS 17.0 Beta 3 (21A5277h)" -> name "iOS 17.0 Beta 3", version "17.0", pre "Beta 3", build "21A5277h"
var firmwareLabelRe = regexp.MustCompile(`^(iOS\s+([0-9]+(?:\.[0-9]+)*)(?:\s+(Beta|RC)\s*([0-9]*))?)\s*(?:\(([^)]+)\))?$`)

// Catalog lists the firmware and jailbreak tools a task can target
type Catalog struct {
	firmware []domain.Firmware
	tools    []string
}

// NewCatalog builds the built-in catalog with firmware ordered newest first
func NewCatalog() *Catalog {
	catalog, err := NewCatalogFrom(defaultFirmware, defaultJailbreakTools)
	if err != nil {
		panic(fmt.Sprintf("built-in firmware catalog is invalid: %v", err))
	}
	return catalog
}

// NewCatalogFrom builds a catalog from firmware labels and tool names
func NewCatalogFrom(labels []string, tools []string) (*Catalog, error) {
	type entry struct {
		firmware domain.Firmware
		version  *version.Version
	}

	entries := make([]entry, 0, len(labels))
	for _, label := range labels {
		fw, err := ParseFirmware(label)
		if err != nil {
			return nil, err
		}
		v, err := version.NewVersion(fw.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to parse firmware version %q: %w", fw.Version, err)
		}
		entries = append(entries, entry{firmware: fw, version: v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].version.GreaterThan(entries[j].version)
	})

	firmware := make([]domain.Firmware, len(entries))
	for i, e := range entries {
		firmware[i] = e.firmware
	}

	return &Catalog{
		firmware: firmware,
		tools:    append([]string(nil), tools...),
	}, nil
}

// ParseFirmware splits a catalog label into name, semantic version and build
func ParseFirmware(label string) (domain.Firmware, error) {
	m := firmwareLabelRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return domain.Firmware{}, fmt.Errorf("unrecognized firmware label %q", label)
	}

	ver := m[2]
	if m[3] != "" {
		ver += "-" + strings.ToLower(m[3]) + m[4]
	}

	return domain.Firmware{
		Build:   m[5],
		Name:    m[1],
		Version: ver,
	}, nil
}

// Firmware returns the firmware entries, newest first
func (c *Catalog) Firmware() []domain.Firmware {
	return append([]domain.Firmware(nil), c.firmware...)
}

// JailbreakTools returns the known jailbreak tool names
func (c *Catalog) JailbreakTools() []string {
	return append([]string(nil), c.tools...)
}

// LookupFirmware matches a label, name, version or build, ignoring case
func (c *Catalog) LookupFirmware(query string) (domain.Firmware, bool) {
	query = strings.TrimSpace(query)
	for _, fw := range c.firmware {
		for _, candidate := range []string{fw.Label(), fw.Name, fw.Version, fw.Build} {
			if candidate != "" && strings.EqualFold(candidate, query) {
				return fw, true
			}
		}
	}
	return domain.Firmware{}, false
}

// LookupTool returns the canonical spelling of a jailbreak tool name
func (c *Catalog) LookupTool(query string) (string, bool) {
	query = strings.TrimSpace(query)
	for _, tool := range c.tools {
		if strings.EqualFold(tool, query) {
			return tool, true
		}
	}
	return "", false
}

// Resolve returns the canonical target for a task kind
func (c *Catalog) Resolve(kind domain.TaskKind, query string) (string, error) {
	switch kind {
	case domain.TaskFlash:
		if fw, ok := c.LookupFirmware(query); ok {
			return fw.Label(), nil
		}
	case domain.TaskJailbreak:
		if tool, ok := c.LookupTool(query); ok {
			return tool, nil
		}
	case domain.TaskBackup:
		if query != "" {
			return query, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", domain.ErrUnknownTarget, kind, query)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/idevman/internal/domain"
)

func TestParseFirmware(t *testing.T) {
	tests := []struct {
		label    string
		expected domain.Firmware
		wantErr  bool
	}{
		{"iOS 16.6 (20G75)", domain.Firmware{Name: "iOS 16.6", Version: "16.6", Build: "20G75"}, false},
		{"iOS 15.7.8 (19H364)", domain.Firmware{Name: "iOS 15.7.8", Version: "15.7.8", Build: "19H364"}, false},
		{"iOS 17.0 Beta 3 (21A5277h)", domain.Firmware{Name: "iOS 17.0 Beta 3", Version: "17.0-beta3", Build: "21A5277h"}, false},
		{"iOS 18", domain.Firmware{Name: "iOS 18", Version: "18"}, false},
		{"Android 14", domain.Firmware{}, true},
		{"", domain.Firmware{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			fw, err := ParseFirmware(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fw)
		})
	}
}

func TestCatalog_FirmwareNewestFirst(t *testing.T) {
	catalog := NewCatalog()

	var labels []string
	for _, fw := range catalog.Firmware() {
		labels = append(labels, fw.Label())
	}

	assert.Equal(t, []string{
		"iOS 17.0 Beta 3 (21A5277h)",
		"iOS 16.6 (20G75)",
		"iOS 15.7.8 (19H364)",
	}, labels)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	catalog := NewCatalog()

	catalog.Firmware()[0].Name = "tampered"
	catalog.JailbreakTools()[0] = "tampered"

	assert.NotEqual(t, "tampered", catalog.Firmware()[0].Name)
	assert.NotEqual(t, "tampered", catalog.JailbreakTools()[0])
}

func TestCatalog_LookupFirmware(t *testing.T) {
	catalog := NewCatalog()

	for _, query := range []string{"iOS 16.6 (20G75)", "ios 16.6", "16.6", "20g75", " 20G75 "} {
		t.Run(query, func(t *testing.T) {
			fw, ok := catalog.LookupFirmware(query)
			require.True(t, ok)
			assert.Equal(t, "20G75", fw.Build)
		})
	}

	_, ok := catalog.LookupFirmware("iOS 9.3.5")
	assert.False(t, ok)
}

func TestCatalog_LookupTool(t *testing.T) {
	catalog := NewCatalog()

	tool, ok := catalog.LookupTool("taurine")
	require.True(t, ok)
	assert.Equal(t, "Taurine", tool)

	_, ok = catalog.LookupTool("evasi0n")
	assert.False(t, ok)
}

func TestCatalog_Resolve(t *testing.T) {
	catalog := NewCatalog()

	tests := []struct {
		name     string
		kind     domain.TaskKind
		query    string
		expected string
		wantErr  bool
	}{
		{"flash by version", domain.TaskFlash, "15.7.8", "iOS 15.7.8 (19H364)", false},
		{"jailbreak by name", domain.TaskJailbreak, "PALERA1N", "palera1n", false},
		{"backup directory", domain.TaskBackup, "/backups", "/backups", false},
		{"unknown firmware", domain.TaskFlash, "iOS 1.0", "", true},
		{"jailbreak tool is not firmware", domain.TaskFlash, "checkra1n", "", true},
		{"empty backup dir", domain.TaskBackup, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := catalog.Resolve(tt.kind, tt.query)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestNewCatalogFrom_InvalidLabel(t *testing.T) {
	_, err := NewCatalogFrom([]string{"not firmware"}, nil)

	require.Error(t, err)
}

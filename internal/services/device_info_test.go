package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected map[string]string
	}{
		{
			name:     "empty input",
			raw:      "",
			expected: map[string]string{},
		},
		{
			name: "typical ideviceinfo output",
			raw:  "DeviceName: Test iPhone\nProductType: iPhone14,2\nProductVersion: 16.6\n",
			expected: map[string]string{
				"DeviceName":     "Test iPhone",
				"ProductType":    "iPhone14,2",
				"ProductVersion": "16.6",
			},
		},
		{
			name:     "splits at first colon only",
			raw:      "WiFiAddress: a4:c3:37:00:11:22",
			expected: map[string]string{"WiFiAddress": "a4:c3:37:00:11:22"},
		},
		{
			name:     "trims whitespace and carriage returns",
			raw:      "  DeviceName  :   My Phone  \r\n",
			expected: map[string]string{"DeviceName": "My Phone"},
		},
		{
			name:     "ignores lines without colon",
			raw:      "garbage line\nDeviceName: X\n\nanother",
			expected: map[string]string{"DeviceName": "X"},
		},
		{
			name:     "last occurrence wins",
			raw:      "DeviceName: First\nDeviceName: Second",
			expected: map[string]string{"DeviceName": "Second"},
		},
		{
			name:     "empty key and value are kept",
			raw:      ": orphan\nEmpty:",
			expected: map[string]string{"": "orphan", "Empty": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseInfo(tt.raw))
		})
	}
}

func TestParseInfo_Idempotent(t *testing.T) {
	raw := "DeviceName: Test iPhone\nProductType: iPhone14,2\nnoise\nProductVersion: 16.6"

	first := ParseInfo(raw)
	second := ParseInfo(raw)

	assert.Equal(t, first, second)
}

func TestExtractBattery(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		level    int
		expected bool
	}{
		{"plain value", `"CurrentCapacity" = 87`, 87, true},
		{"surrounded by other keys", "\"MaxCapacity\" = 100\n  \"CurrentCapacity\" = 42\n\"Voltage\" = 4000", 42, true},
		{"first matching line wins", "\"CurrentCapacity\" = 10\n\"CurrentCapacity\" = 90", 10, true},
		{"no matching line", `"MaxCapacity" = 100`, 0, false},
		{"no equals sign", "CurrentCapacity: 50", 0, false},
		{"non numeric value", `"CurrentCapacity" = Yes`, 0, false},
		{"malformed first line hides later ones", "\"CurrentCapacity\" = abc\n\"CurrentCapacity\" = 50", 0, false},
		{"empty input", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ExtractBattery(tt.raw)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}

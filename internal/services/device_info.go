package services

import (
	"strconv"
	"strings"
)

const batteryCapacityKey = "CurrentCapacity"

// ParseInfo turns ideviceinfo style "Key: Value" output into a map.
// Lines without a colon are ignored and the last occurrence of a key wins.
func ParseInfo(raw string) map[string]string {
	info := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		info[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return info
}

// ExtractBattery finds the first CurrentCapacity line of an ioreg dump
// and parses the integer after its first '='.
func ExtractBattery(raw string) (int, bool) {
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, batteryCapacityKey) {
			continue
		}
		// Only the first matching line counts, even when it is malformed
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			return 0, false
		}
		level, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return level, true
	}
	return 0, false
}

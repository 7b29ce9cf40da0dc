package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHome_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IDEVMAN_HOME", dir)

	assert.Equal(t, dir, GetHome())
	assert.Equal(t, filepath.Join(dir, "journal.db"), GetDBPath())
	assert.Equal(t, filepath.Join(dir, "ssh"), GetSSHDir())
	assert.Equal(t, filepath.Join(dir, "settings.json"), GetSettingsPath())
}

func TestGetToolDir_NonWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tool dir lives under ProgramFiles on windows")
	}
	dir := t.TempDir()
	t.Setenv("IDEVMAN_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "bin"), GetToolDir())
	assert.Equal(t, filepath.Join(dir, "mnt"), GetMountPoint())
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde only", "~", homeDir},
		{"tilde prefix", "~/tools", filepath.Join(homeDir, "tools")},
		{"absolute", "/opt/tools", "/opt/tools"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestEnsureMountPoint_CreatesDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("default mount point is a drive letter on windows")
	}
	t.Setenv("IDEVMAN_HOME", t.TempDir())
	mountPoint := GetMountPoint()

	require.NoError(t, EnsureMountPoint(mountPoint))
	require.NoError(t, EnsureMountPoint(mountPoint))

	info, err := os.Stat(mountPoint)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIsDriveRoot(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{`Z:\`, true},
		{`z:`, true},
		{`D:/`, true},
		{`Z:\mnt`, false},
		{`1:\`, false},
		{"/mnt/idevice", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDriveRoot(tt.path))
		})
	}
}

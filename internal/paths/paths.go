package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetHome returns IDEVMAN_HOME or ~/.idevman default
func GetHome() string {
	home := os.Getenv("IDEVMAN_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".idevman"
		}
		return filepath.Join(homeDir, ".idevman")
	}
	return ExpandPath(home)
}

// GetDBPath returns $IDEVMAN_HOME/journal.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "journal.db")
}

// GetSettingsPath returns $IDEVMAN_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetToolDir returns the directory the device tools are installed in.
// On Windows this is %ProgramFiles%\iDeviceManager\bin, elsewhere $IDEVMAN_HOME/bin.
func GetToolDir() string {
	if runtime.GOOS == "windows" {
		programFiles := os.Getenv("ProgramFiles")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		return filepath.Join(programFiles, "iDeviceManager", "bin")
	}
	return filepath.Join(GetHome(), "bin")
}

// GetMountPoint returns the default device filesystem mount point
func GetMountPoint() string {
	if runtime.GOOS == "windows" {
		return `Z:\`
	}
	return filepath.Join(GetHome(), "mnt")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

// GetSSHDir returns $IDEVMAN_HOME/ssh, where the SSH server keeps its host key
func GetSSHDir() string {
	return filepath.Join(GetHome(), "ssh")
}

// EnsureMountPoint creates the mount point directory if needed.
// Drive roots such as Z:\ are created by the mounter itself and are left alone.
func EnsureMountPoint(mountPoint string) error {
	if isDriveRoot(mountPoint) {
		return nil
	}
	return os.MkdirAll(mountPoint, 0755)
}

func isDriveRoot(path string) bool {
	if len(path) < 2 || len(path) > 3 || path[1] != ':' {
		return false
	}
	letter := path[0] | 0x20 // lower case
	if letter < 'a' || letter > 'z' {
		return false
	}
	return len(path) == 2 || path[2] == '\\' || path[2] == '/'
}

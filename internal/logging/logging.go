package logging

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxLogFiles is the rotation limit used when nothing else is configured
const DefaultMaxLogFiles = 1000

// Logger is the operational logger shared by every package.
// It discards everything until Initialize is called.
var Logger = slog.New(slog.DiscardHandler)

// options is the effective logging configuration after environment inheritance
type options struct {
	debug       bool
	debugFile   string
	maxLogFiles int
}

// Initialize sets up the logger based on the debug flag and configuration.
// Returns the path of the log file in use, or "" when logging is discarded.
func Initialize(debug bool, debugFile string, maxLogFiles int) (string, error) {
	opts := withEnv(options{debug: debug, debugFile: debugFile, maxLogFiles: maxLogFiles})

	if !opts.debug && opts.debugFile == "" {
		Logger = slog.New(slog.DiscardHandler)
		return "", nil
	}

	runID := uuid.New().String()
	logFile, logFilePath, err := openLogFile(opts, runID)
	if err != nil {
		return "", err
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	Logger = slog.New(handler).With(
		"pid", os.Getpid(),
		"run_id", runID,
	)

	// A child process inherits the file and must not announce it again
	if os.Getenv("IDEVMAN_DEBUG") == "" {
		Logger.Info("Debug logging initialized", "log_file", logFilePath, "os", runtime.GOOS)
		fmt.Printf("Debug mode enabled. Logs: %s\n", logFilePath)
	}

	return logFilePath, nil
}

// withEnv applies the IDEVMAN_DEBUG* variables a parent process exported
func withEnv(opts options) options {
	if os.Getenv("IDEVMAN_DEBUG") == "1" {
		opts.debug = true
	}
	if env := os.Getenv("IDEVMAN_DEBUG_FILE"); env != "" && opts.debugFile == "" {
		opts.debugFile = env
	}
	// The flag wins when it was moved off its default
	if env := os.Getenv("IDEVMAN_MAX_LOG_FILES"); env != "" && opts.maxLogFiles == DefaultMaxLogFiles {
		if parsed, err := strconv.Atoi(env); err == nil {
			opts.maxLogFiles = parsed
		}
	}
	return opts
}

// openLogFile opens the custom debug file, or a new <runID>.log in the rotated log dir
func openLogFile(opts options, runID string) (io.Writer, string, error) {
	path := opts.debugFile
	if path == "" {
		logDir, err := getLogDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get log directory: %w", err)
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create log directory: %w", err)
		}
		if opts.maxLogFiles > 0 {
			if err := rotateLogs(logDir, opts.maxLogFiles); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
			}
		}
		path = filepath.Join(logDir, runID+".log")
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log file: %w", err)
	}
	return file, path, nil
}

// rotateLogs deletes the oldest .log files so that, with the file about to be
// created, at most maxLogFiles remain
func rotateLogs(logDir string, maxLogFiles int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFile struct {
		modTime time.Time
		path    string
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{modTime: info.ModTime(), path: filepath.Join(logDir, entry.Name())})
	}

	excess := len(files) - maxLogFiles + 1
	if excess <= 0 {
		return nil
	}

	slices.SortFunc(files, func(a, b logFile) int {
		return cmp.Compare(a.modTime.UnixNano(), b.modTime.UnixNano())
	})
	for _, f := range files[:min(excess, len(files))] {
		if err := os.Remove(f.path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", f.path, err)
		}
	}
	return nil
}

// getLogDir returns the per-OS log directory:
// ~/Library/Logs/idevman, $XDG_STATE_HOME/idevman, %LOCALAPPDATA%\idevman\logs
func getLogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "idevman"), nil
	case "linux":
		return filepath.Join(cmp.Or(os.Getenv("XDG_STATE_HOME"), filepath.Join(homeDir, ".local", "state")), "idevman"), nil
	case "windows":
		return filepath.Join(cmp.Or(os.Getenv("LOCALAPPDATA"), filepath.Join(homeDir, "AppData", "Local")), "idevman", "logs"), nil
	default:
		return filepath.Join(homeDir, ".idevman", "logs"), nil
	}
}

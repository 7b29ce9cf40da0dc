package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/theme"
)

// maxLogLines bounds the in-memory log history
const maxLogLines = 200

func severityStyle(severity domain.Severity) lipgloss.Style {
	switch severity {
	case domain.SeverityError:
		return theme.LogErrorStyle
	case domain.SeveritySuccess:
		return theme.LogSuccessStyle
	case domain.SeverityWarning:
		return theme.LogWarningStyle
	default:
		return theme.LogInfoStyle
	}
}

// FormatLogLine renders "[15:04:05] LEVEL: message", the format shared by the dashboard and the CLI
func FormatLogLine(entry domain.LogEvent) string {
	return fmt.Sprintf("%s %s %s",
		theme.LogTimestampStyle.Render("["+entry.Time.Format("15:04:05")+"]"),
		severityStyle(entry.Severity).Render(strings.ToUpper(string(entry.Severity))+":"),
		entry.Message)
}

// appendLog adds an entry and drops the oldest ones beyond maxLogLines
func appendLog(logs []domain.LogEvent, entry domain.LogEvent) []domain.LogEvent {
	logs = append(logs, entry)
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	return logs
}

// renderLogPanel renders the last height entries
func renderLogPanel(logs []domain.LogEvent, height int) string {
	if len(logs) == 0 {
		return theme.MutedStyle.Render("No activity yet")
	}
	if height > 0 && len(logs) > height {
		logs = logs[len(logs)-height:]
	}

	lines := make([]string, len(logs))
	for i, entry := range logs {
		lines[i] = FormatLogLine(entry)
	}
	return strings.Join(lines, "\n")
}

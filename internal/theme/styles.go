package theme

import "github.com/charmbracelet/lipgloss"

// Header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Device panel styles
var (
	ConnectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorConnected)

	DisconnectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorDisconnected)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(14)

	MountedStyle = lipgloss.NewStyle().
			Foreground(ColorMounted)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// Log panel styles
var (
	LogErrorStyle = lipgloss.NewStyle().
			Foreground(ColorLogError)

	LogInfoStyle = lipgloss.NewStyle().
			Foreground(ColorLogInfo)

	LogSuccessStyle = lipgloss.NewStyle().
			Foreground(ColorLogSuccess)

	LogTimestampStyle = lipgloss.NewStyle().
				Foreground(ColorLogTimestamp)

	LogWarningStyle = lipgloss.NewStyle().
			Foreground(ColorLogWarning)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0, 0, 0)
)

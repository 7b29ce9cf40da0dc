package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Device status colors
const (
	ColorConnected    Color = "#2ecc71" // Green
	ColorDisconnected Color = "#e74c3c" // Red
	ColorMounted      Color = "#63b3ed" // Blue
)

// Log severity colors
const (
	ColorLogError     Color = "#fc8181"
	ColorLogInfo      Color = "#63b3ed"
	ColorLogSuccess   Color = "#68d391"
	ColorLogTimestamp Color = "#718096"
	ColorLogWarning   Color = "#faf089"
)

// UI semantic colors
const (
	ColorBorder    Color = "238" // Dark gray - panel borders
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)

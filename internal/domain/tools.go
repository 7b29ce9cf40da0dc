package domain

// Logical names of the external tools
const (
	ToolBackup      = "idevicebackup2"
	ToolDiagnostics = "idevicediagnostics"
	ToolIDLister    = "idevice_id"
	ToolInfo        = "ideviceinfo"
	ToolInstaller   = "ideviceinstaller"
	ToolMounter     = "ifuse"
	ToolScreenshot  = "idevicescreenshot"
	ToolUnmounter   = "fusermount"
)

// KnownTools lists every tool the coordinator may invoke
var KnownTools = []string{
	ToolIDLister,
	ToolInfo,
	ToolDiagnostics,
	ToolMounter,
	ToolUnmounter,
	ToolScreenshot,
	ToolBackup,
	ToolInstaller,
}

// ToolDownloadHints maps tools to the release archive they ship in
var ToolDownloadHints = map[string]string{
	ToolBackup:      "https://github.com/libimobiledevice/idevicebackup2/releases/download/1.0.0/idevicebackup2-windows.zip",
	ToolDiagnostics: "https://github.com/libimobiledevice/idevicediagnostics/releases/download/1.0.0/idevicediagnostics-windows.zip",
	ToolIDLister:    "https://github.com/libimobiledevice-win32/imobiledevice-net/releases/download/v1.3.0/imobiledevice-net.zip",
	ToolInfo:        "https://github.com/libimobiledevice-win32/imobiledevice-net/releases/download/v1.3.0/imobiledevice-net.zip",
	ToolInstaller:   "https://github.com/libimobiledevice/ideviceinstaller/releases/download/1.1.1/ideviceinstaller-win32.zip",
	ToolMounter:     "https://github.com/libimobiledevice/ifuse/releases/download/v1.1.1/ifuse-windows.zip",
	ToolScreenshot:  "https://github.com/libimobiledevice/idevicescreenshot/releases/download/1.0.0/idevicescreenshot-windows.zip",
}

// ToolDescriptor is a logical tool name resolved to a path on disk
type ToolDescriptor struct {
	Name string
	Path string
}

package domain

import "time"

// Well-known info keys reported by ideviceinfo
const (
	InfoDeviceName     = "DeviceName"
	InfoProductType    = "ProductType"
	InfoProductVersion = "ProductVersion"
)

// Presence is whether a device answered the last poll
type Presence string

const (
	PresenceConnected    Presence = "connected"
	PresenceDisconnected Presence = "disconnected"
)

// MountState is the state of the device filesystem mount
type MountState string

const (
	MountMounted   MountState = "mounted"
	MountUnmounted MountState = "unmounted"
)

// DeviceRecord is the result of one poll cycle. An empty UDID means no device.
type DeviceRecord struct {
	BatteryLevel *int
	Info         map[string]string
	UDID         string
}

// IsEmpty reports whether the record represents "no device connected"
func (r DeviceRecord) IsEmpty() bool {
	return r.UDID == ""
}

// Name returns the device name or a placeholder
func (r DeviceRecord) Name() string {
	return r.infoOr(InfoDeviceName, "Unknown Device")
}

// Model returns the product type or a placeholder
func (r DeviceRecord) Model() string {
	return r.infoOr(InfoProductType, "Unknown Model")
}

// OSVersion returns the product version or a placeholder
func (r DeviceRecord) OSVersion() string {
	return r.infoOr(InfoProductVersion, "Unknown Version")
}

func (r DeviceRecord) infoOr(key, fallback string) string {
	if v, ok := r.Info[key]; ok && v != "" {
		return v
	}
	return fallback
}

// SessionState is a point-in-time copy of the coordinator state
type SessionState struct {
	LastPoll   time.Time
	Mount      MountState
	MountPoint string
	Presence   Presence
	Record     DeviceRecord
}

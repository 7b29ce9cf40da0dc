package storage

import "time"

// LogEntryModel is the GORM model for the log_entries table
type LogEntryModel struct {
	CreatedAt time.Time
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	LoggedAt  time.Time `gorm:"not null;index:idx_logged_at"`
	Message   string    `gorm:"not null;default:''"`
	Severity  string    `gorm:"not null;default:'info';check:severity IN ('info','success','warning','error')"`
}

// TableName specifies the table name for GORM
func (LogEntryModel) TableName() string { return "log_entries" }

// DeviceSightingModel is the GORM model for the device_sightings table, one row per UDID
type DeviceSightingModel struct {
	BatteryLevel *int      `gorm:"default:null"`
	CreatedAt    time.Time
	FirstSeen    time.Time `gorm:"not null"`
	LastSeen     time.Time `gorm:"not null;index:idx_last_seen"`
	Model        string    `gorm:"not null;default:''"`
	Name         string    `gorm:"not null;default:''"`
	OSVersion    string    `gorm:"column:os_version;not null;default:''"`
	UDID         string    `gorm:"column:udid;primaryKey"`
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (DeviceSightingModel) TableName() string { return "device_sightings" }

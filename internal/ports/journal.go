package ports

import (
	"context"
	"time"

	"github.com/renato0307/idevman/internal/domain"
)

// DeviceSighting is the journal view of a device that has been seen at least once
type DeviceSighting struct {
	BatteryLevel *int
	FirstSeen    time.Time
	LastSeen     time.Time
	Model        string
	Name         string
	OSVersion    string
	UDID         string
}

// JournalWriter persists events observed on the bus
type JournalWriter interface {
	AppendLog(ctx context.Context, entry domain.LogEvent) error
	RecordSighting(ctx context.Context, record domain.DeviceRecord, seenAt time.Time) error
}

// JournalReader reads back persisted events
type JournalReader interface {
	Devices(ctx context.Context) ([]DeviceSighting, error)
	RecentLogs(ctx context.Context, limit int) ([]domain.LogEvent, error)
}

// Journal is the composite interface
type Journal interface {
	JournalReader
	JournalWriter
	Close() error
}

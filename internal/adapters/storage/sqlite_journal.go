package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/paths"
	"github.com/renato0307/idevman/internal/ports"
)

// DefaultRecentLogs is the number of entries RecentLogs returns for a non-positive limit
const DefaultRecentLogs = 50

const maxRetries = 3

// SQLiteJournal implements ports.Journal using GORM
type SQLiteJournal struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens (creating if needed) the journal database at dbPath
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	dbPath = paths.ExpandPath(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:      newGormLogger(),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets the dashboard read while the journal writes
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&LogEntryModel{}, &DeviceSightingModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &SQLiteJournal{db: db}, nil
}

// NewSQLiteJournalForPath opens the journal inside a specific IDEVMAN_HOME
func NewSQLiteJournalForPath(homePath string) (*SQLiteJournal, error) {
	return NewSQLiteJournal(filepath.Join(homePath, "journal.db"))
}

// Close closes the database connection
func (j *SQLiteJournal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AppendLog implements JournalWriter.AppendLog
func (j *SQLiteJournal) AppendLog(ctx context.Context, entry domain.LogEvent) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	model := domainToLogEntryModel(entry)

	return withRetry(func() error {
		model.ID = 0
		return j.db.WithContext(ctx).Create(&model).Error
	}, maxRetries)
}

// RecordSighting implements JournalWriter.RecordSighting.
// The first sighting of a UDID fixes FirstSeen; later ones refresh everything else.
func (j *SQLiteJournal) RecordSighting(ctx context.Context, record domain.DeviceRecord, seenAt time.Time) error {
	if record.IsEmpty() {
		return nil
	}

	seenAt = seenAt.UTC()
	model := DeviceSightingModel{
		BatteryLevel: record.BatteryLevel,
		FirstSeen:    seenAt,
		LastSeen:     seenAt,
		Model:        record.Model(),
		Name:         record.Name(),
		OSVersion:    record.OSVersion(),
		UDID:         record.UDID,
	}

	return withRetry(func() error {
		return j.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "udid"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"battery_level",
				"last_seen",
				"model",
				"name",
				"os_version",
				"updated_at",
			}),
		}).Create(&model).Error
	}, maxRetries)
}

// RecentLogs implements JournalReader.RecentLogs, oldest first
func (j *SQLiteJournal) RecentLogs(ctx context.Context, limit int) ([]domain.LogEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentLogs
	}

	var models []LogEntryModel
	err := withRetry(func() error {
		models = nil
		return j.db.WithContext(ctx).
			Order("logged_at DESC").
			Order("id DESC").
			Limit(limit).
			Find(&models).Error
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	slices.Reverse(models)

	entries := make([]domain.LogEvent, len(models))
	for i, m := range models {
		entries[i] = logEntryModelToDomain(m)
	}
	return entries, nil
}

// Devices implements JournalReader.Devices, most recently seen first
func (j *SQLiteJournal) Devices(ctx context.Context) ([]ports.DeviceSighting, error) {
	var models []DeviceSightingModel
	err := withRetry(func() error {
		models = nil
		return j.db.WithContext(ctx).Order("last_seen DESC").Find(&models).Error
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to read device sightings: %w", err)
	}

	sightings := make([]ports.DeviceSighting, len(models))
	for i, m := range models {
		sightings[i] = sightingModelToPort(m)
	}
	return sightings, nil
}

// withRetry retries operations on SQLITE_BUSY with exponential backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}

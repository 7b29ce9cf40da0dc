package storage

import (
	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/ports"
)

// logEntryModelToDomain converts a LogEntryModel (GORM) to domain.LogEvent
func logEntryModelToDomain(m LogEntryModel) domain.LogEvent {
	return domain.LogEvent{
		Message:  m.Message,
		Severity: domain.Severity(m.Severity),
		Time:     m.LoggedAt,
	}
}

// domainToLogEntryModel converts a domain.LogEvent to LogEntryModel (GORM)
func domainToLogEntryModel(e domain.LogEvent) LogEntryModel {
	return LogEntryModel{
		LoggedAt: e.Time.UTC(),
		Message:  e.Message,
		Severity: string(e.Severity),
	}
}

// sightingModelToPort converts a DeviceSightingModel (GORM) to ports.DeviceSighting
func sightingModelToPort(m DeviceSightingModel) ports.DeviceSighting {
	return ports.DeviceSighting{
		BatteryLevel: m.BatteryLevel,
		FirstSeen:    m.FirstSeen,
		LastSeen:     m.LastSeen,
		Model:        m.Model,
		Name:         m.Name,
		OSVersion:    m.OSVersion,
		UDID:         m.UDID,
	}
}

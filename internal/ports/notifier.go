package ports

import "github.com/renato0307/idevman/internal/domain"

// Notifier delivers events to observers without blocking the caller
type Notifier interface {
	Publish(event domain.Event)
}

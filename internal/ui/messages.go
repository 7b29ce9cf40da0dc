package ui

import (
	"time"

	"github.com/renato0307/idevman/internal/domain"
)

// eventMsg wraps an event received from the bus
type eventMsg struct {
	event domain.Event
}

// busClosedMsg signals that the event subscription ended
type busClosedMsg struct{}

// tickMsg refreshes relative timestamps
type tickMsg time.Time

// operationDoneMsg reports the outcome of a device operation started from a key press
type operationDoneMsg struct {
	action string
	ok     bool
}

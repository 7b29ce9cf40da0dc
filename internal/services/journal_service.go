package services

import (
	"context"
	"sync"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ports"
)

const journalBuffer = 256

// Subscriber is the subscribing side of the event bus
type Subscriber interface {
	Subscribe(buffer int) (<-chan domain.Event, func())
}

// JournalService persists log lines and device sightings seen on the bus
type JournalService struct {
	done        chan struct{}
	mu          sync.Mutex
	unsubscribe func()
	writer      ports.JournalWriter
}

// NewJournalService creates a journal observer writing to writer
func NewJournalService(writer ports.JournalWriter) *JournalService {
	return &JournalService{writer: writer}
}

// Start subscribes to the bus and begins writing in the background
func (s *JournalService) Start(bus Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}

	events, unsubscribe := bus.Subscribe(journalBuffer)
	s.unsubscribe = unsubscribe
	s.done = make(chan struct{})

	go s.consume(events, s.done)
}

// Stop unsubscribes, writes whatever is still buffered and returns
func (s *JournalService) Stop() {
	s.mu.Lock()
	done, unsubscribe := s.done, s.unsubscribe
	s.mu.Unlock()

	if done == nil {
		return
	}
	unsubscribe()
	<-done
}

func (s *JournalService) consume(events <-chan domain.Event, done chan struct{}) {
	defer close(done)

	ctx := context.Background()
	for event := range events {
		s.write(ctx, event)
	}
}

func (s *JournalService) write(ctx context.Context, event domain.Event) {
	var err error
	switch e := event.(type) {
	case domain.LogEvent:
		err = s.writer.AppendLog(ctx, e)
	case domain.DeviceEvent:
		if e.Record.IsEmpty() {
			return
		}
		err = s.writer.RecordSighting(ctx, e.Record, e.Time)
	default:
		return
	}

	// Not published on the bus: a failing journal would feed itself
	if err != nil {
		logging.Logger.Warn("Failed to write journal entry", "error", err)
	}
}

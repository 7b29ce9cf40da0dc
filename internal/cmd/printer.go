package cmd

import (
	"fmt"
	"io"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/services"
	"github.com/renato0307/idevman/internal/ui"
)

const printerBuffer = 256

// logPrinter echoes the coordinator's log events to the terminal for one-shot commands
type logPrinter struct {
	done        chan struct{}
	unsubscribe func()
}

func attachPrinter(bus services.Subscriber, out io.Writer) *logPrinter {
	events, unsubscribe := bus.Subscribe(printerBuffer)
	p := &logPrinter{
		done:        make(chan struct{}),
		unsubscribe: unsubscribe,
	}

	go func() {
		defer close(p.done)
		for event := range events {
			if e, ok := event.(domain.LogEvent); ok {
				fmt.Fprintln(out, ui.FormatLogLine(e))
			}
		}
	}()

	return p
}

// Detach stops the printer after flushing buffered events
func (p *logPrinter) Detach() {
	p.unsubscribe()
	<-p.done
}

package controller

import (
	"github.com/jackzampolin/scanedit/internal/document"
	"github.com/jackzampolin/scanedit/internal/extract"
)

// EventKind identifies what an Event reports.
type EventKind string

const (
	// DocumentChanged carries the new live snapshot.
	DocumentChanged EventKind = "document_changed"
	// ProcessingStateChanged fires when an extraction starts or ends.
	ProcessingStateChanged EventKind = "processing_state_changed"
	// ExtractionProgress relays worker progress for the current extraction.
	ExtractionProgress EventKind = "extraction_progress"
	// ExtractionFailed carries the extraction error; the live snapshot is
	// unchanged.
	ExtractionFailed EventKind = "extraction_failed"
)

// Event is delivered to observers on the control goroutine.
type Event struct {
	Kind       EventKind
	Snapshot   document.Snapshot
	Processing bool
	Progress   extract.Progress
	Err        error
}

// Observer receives controller events. Observers run synchronously and may
// call back into the controller.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn and returns a function that removes it.
func (c *Controller) Subscribe(fn Observer) (unsubscribe func()) {
	c.nextObserver++
	id := c.nextObserver
	c.observers = append(c.observers, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.observers {
			if s.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) notify(ev Event) {
	if ev.Kind == DocumentChanged {
		ev.Snapshot = c.live
	}
	ev.Processing = c.processing
	observers := make([]subscription, len(c.observers))
	copy(observers, c.observers)
	for _, s := range observers {
		s.fn(ev)
	}
}

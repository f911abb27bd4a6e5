package notifies

import (
	"context"
	"time"
)

type EventKind string

const (
	EventPublished EventKind = "published"
	EventImported  EventKind = "imported"
	EventFailed    EventKind = "failed"
)

// Event describes the outcome of a build or an import.
type Event struct {
	Kind      EventKind `json:"kind"`
	ProjectID string    `json:"project_id"`
	Package   string    `json:"package,omitempty"`
	Files     int       `json:"files,omitempty"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

type Nop struct{}

var _ Notifier = Nop{}

func (Nop) Notify(context.Context, Event) error {
	return nil
}

// Func adapts a function to a Notifier.
type Func func(ctx context.Context, event Event) error

var _ Notifier = Func(nil)

func (f Func) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

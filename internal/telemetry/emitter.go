// Package telemetry defines the event emitter the console reports auth and navigation events to.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"numis/console/internal/telemetry/domain"
)

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// NewEvent returns an event of type eventType from source with a fresh id and the current time.
func NewEvent(eventType, source string, attrs map[string]string) *domain.Event {
	return &domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		Attributes: attrs,
		CreatedAt:  time.Now().UTC(),
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, *domain.Event) error { return nil }

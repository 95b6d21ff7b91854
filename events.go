package tetra

import "image"

// EventType identifies a kind of engine event.
type EventType uint8

const (
	EventTurnStarted   EventType = iota // a fish opened a turn; Facing is the target
	EventTurnFinished                   // a turn sequence completed
	EventTapped                         // a tap hit a fish and reversed it
	EventBufferResized                  // the compositor reallocated its buffer; Rect is the new dirty rect
)

func (t EventType) String() string {
	switch t {
	case EventTurnStarted:
		return "turn-started"
	case EventTurnFinished:
		return "turn-finished"
	case EventTapped:
		return "tapped"
	case EventBufferResized:
		return "buffer-resized"
	}
	return "unknown"
}

// EventSink is the interface for optional event forwarding, e.g. into an
// ECS world. Events are delivered synchronously from the tick pass.
type EventSink interface {
	EmitEvent(event Event)
}

// Event carries data about something that happened during a tick.
type Event struct {
	Type     EventType
	EntityID int // -1 for events not tied to a fish
	X, Y     float64
	Facing   Facing
	Rect     image.Rectangle
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event Event) {
	f(event)
}

func emit(sink EventSink, event Event) {
	if sink != nil {
		sink.EmitEvent(event)
	}
}

package closure

// Handle is an opaque reference to a slot in a table.
type Handle uint32

// EventType identifies a table lifecycle event.
type EventType uint8

const (
	EventRemembered EventType = iota
	EventRecalled
	EventGrown
)

func (t EventType) String() string {
	switch t {
	case EventRemembered:
		return "remembered"
	case EventRecalled:
		return "recalled"
	case EventGrown:
		return "grown"
	default:
		return "unknown"
	}
}

// Event describes a table lifecycle event. Cap is the capacity after the
// event.
type Event struct {
	Value  any
	Handle Handle
	Cap    int
	Type   EventType
}

// Observer receives table lifecycle events.
type Observer interface {
	OnClosureEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnClosureEvent implements Observer.
func (f ObserverFunc) OnClosureEvent(e Event) { f(e) }

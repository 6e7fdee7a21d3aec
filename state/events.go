package state

// Event records one typed occurrence during a state transition. Attributes
// keep insertion order so consumers see fields exactly as emitted.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is a single key/value pair on an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewEvent constructs an event of the given type with the given attributes.
func NewEvent(eventType string, attrs ...Attribute) Event {
	return Event{Type: eventType, Attributes: attrs}
}

// NewAttribute constructs an event attribute.
func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// EventManager collects events emitted while an operation runs. A branched
// context gets a fresh manager; its events reach the parent only when the
// branch is written back.
type EventManager struct {
	events []Event
}

// NewEventManager returns an empty event manager.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// EmitEvent appends one event.
func (em *EventManager) EmitEvent(event Event) {
	em.events = append(em.events, event)
}

// EmitEvents appends events preserving their order.
func (em *EventManager) EmitEvents(events []Event) {
	em.events = append(em.events, events...)
}

// Events returns all collected events in emission order.
func (em *EventManager) Events() []Event {
	return em.events
}

package infra

// EventType represents the type of event in the system
type EventType int

const (
	FieldRejected EventType = iota
	JoinAmbiguityDetected
	SectionFailed
	ReportAssembled
)

// String returns the string representation of the EventType
func (et EventType) String() string {
	switch et {
	case FieldRejected:
		return "FieldRejected"
	case JoinAmbiguityDetected:
		return "JoinAmbiguityDetected"
	case SectionFailed:
		return "SectionFailed"
	case ReportAssembled:
		return "ReportAssembled"
	default:
		return "Unknown"
	}
}

type Event interface{ EventType() EventType }
type Handler func(Event)

// Bus delivers events synchronously, in subscription order. Subscribe before
// the first Publish; the bus does no locking. A nil *Bus drops every event.
type Bus struct{ subs map[EventType][]Handler }

func NewBus() *Bus { return &Bus{subs: map[EventType][]Handler{}} }
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	for _, h := range b.subs[e.EventType()] {
		h(e)
	}
}
func (b *Bus) Subscribe(evt EventType, h Handler) { b.subs[evt] = append(b.subs[evt], h) }

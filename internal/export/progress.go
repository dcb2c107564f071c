package export

// Export phases in execution order.
const (
	PhaseSegment  = "segment"
	PhaseConcat   = "concat"
	PhaseFinalize = "finalize"
)

// Event is one observational progress update. Total stays constant for the
// duration of an export: one step per main-track clip plus concat and
// finalize.
type Event struct {
	Phase   string
	Current int
	Total   int
	Message string
}

// Sink consumes progress events. A nil sink is valid and discards events.
type Sink func(Event)

func emit(sink Sink, event Event) {
	if sink != nil {
		sink(event)
	}
}

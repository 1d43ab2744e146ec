package trace

// A Tracer consumes trace records as they are produced.
type Tracer interface {
	RecordEvent(r Record)
}

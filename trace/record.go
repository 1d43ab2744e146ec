package trace

import "fmt"

// The lifecycle event tags that can appear in the `event` field of a record.
// The c_* tags are emitted by runtimes that distinguish calls into native
// code; the reader accepts them, the capture package never produces them.
const (
	EventCall       = "call"
	EventLine       = "line"
	EventReturn     = "return"
	EventException  = "exception"
	EventCCall      = "c_call"
	EventCReturn    = "c_return"
	EventCException = "c_exception"
)

// A Record describes a single call-lifecycle event captured during program
// execution. One record is stored per line in a trace file.
type Record struct {
	Timestamp float64           `json:"timestamp"`
	Event     string            `json:"event"`
	Arg       string            `json:"arg"`
	Thread    string            `json:"thread"`
	Filename  string            `json:"filename"`
	Lineno    int               `json:"lineno"`
	FuncName  string            `json:"co_name"`
	Depth     int               `json:"depth"`
	Locals    map[string]string `json:"locals,omitempty"`
}

// IsCall returns true if the record marks the entry into a function.
func (r Record) IsCall() bool {
	return r.Event == EventCall || r.Event == EventCCall
}

// IsReturn returns true if the record marks the exit from a function.
func (r Record) IsReturn() bool {
	return r.Event == EventReturn || r.Event == EventCReturn
}

// SafeString stringifies an arbitrary value for the `arg` field. A panicking
// String or Error method must not take the traced program down with it, so
// panics are swallowed and replaced with a placeholder.
func SafeString(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("<unprintable %T>", v)
		}
	}()

	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}

// SafeLocals stringifies a locals snapshot with SafeString. A nil or empty
// snapshot stays nil so that the `locals` field is omitted from the JSON
// line.
func SafeLocals(locals map[string]any) map[string]string {
	if len(locals) == 0 {
		return nil
	}

	out := make(map[string]string, len(locals))
	for name, value := range locals {
		out[name] = SafeString(value)
	}

	return out
}

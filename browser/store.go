package browser

import "github.com/tracelab/tracebrowser/trace"

// A Query selects records from a loaded trace. Empty fields are ignored.
type Query struct {
	// Use Thread to select the records of a single thread.
	Thread string

	// Use Event to select the records of a single event tag.
	Event string

	// EnableTimeRange enables the StartTime/EndTime filter.
	EnableTimeRange bool

	// StartTime and EndTime select records with a timestamp in
	// [StartTime, EndTime].
	StartTime, EndTime float64

	// Limit and Offset paginate the result. A zero Limit returns
	// everything.
	Limit, Offset int
}

// A Store holds a fully loaded trace and answers the viewer's queries.
type Store struct {
	records   []trace.Record
	threads   []string
	malformed int
}

// NewStore creates a Store over the given records. malformed is the number
// of lines the loader had to skip.
func NewStore(records []trace.Record, malformed int) *Store {
	s := &Store{
		records:   records,
		malformed: malformed,
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.Thread] {
			seen[r.Thread] = true
			s.threads = append(s.threads, r.Thread)
		}
	}

	return s
}

// NumRecords returns the number of records in the store.
func (s *Store) NumRecords() int {
	return len(s.records)
}

// Threads returns the thread identifiers in the order they first appear.
func (s *Store) Threads() []string {
	return s.threads
}

// Records returns the records matching the query, in file order.
func (s *Store) Records(q Query) []trace.Record {
	matched := []trace.Record{}
	skipped := 0

	for _, r := range s.records {
		if !s.matches(r, q) {
			continue
		}

		if skipped < q.Offset {
			skipped++
			continue
		}

		matched = append(matched, r)
		if q.Limit > 0 && len(matched) == q.Limit {
			break
		}
	}

	return matched
}

func (s *Store) matches(r trace.Record, q Query) bool {
	if q.Thread != "" && r.Thread != q.Thread {
		return false
	}

	if q.Event != "" && r.Event != q.Event {
		return false
	}

	if q.EnableTimeRange &&
		(r.Timestamp < q.StartTime || r.Timestamp > q.EndTime) {
		return false
	}

	return true
}

// A StoreSummary is the trace summary plus the loader's skip count.
type StoreSummary struct {
	trace.Summary
	MalformedLines int `json:"malformed_lines"`
}

// Summary aggregates the stored trace.
func (s *Store) Summary() StoreSummary {
	return StoreSummary{
		Summary:        trace.Summarize(s.records),
		MalformedLines: s.malformed,
	}
}

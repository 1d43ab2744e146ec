package trace

// A ThreadSummary aggregates the records of a single thread.
type ThreadSummary struct {
	Thread    string         `json:"thread"`
	Events    map[string]int `json:"events"`
	MaxDepth  int            `json:"max_depth"`
	StartTime float64        `json:"start_time"`
	EndTime   float64        `json:"end_time"`
}

// A Summary aggregates a whole trace, with one entry per thread in the order
// the threads first appear.
type Summary struct {
	NumRecords int             `json:"num_records"`
	StartTime  float64         `json:"start_time"`
	EndTime    float64         `json:"end_time"`
	Threads    []ThreadSummary `json:"threads"`
}

// Summarize computes per-thread event counts, maximum depth, and time spans.
func Summarize(records []Record) Summary {
	s := Summary{}
	index := make(map[string]int)

	for _, r := range records {
		i, seen := index[r.Thread]
		if !seen {
			i = len(s.Threads)
			index[r.Thread] = i
			s.Threads = append(s.Threads, ThreadSummary{
				Thread:    r.Thread,
				Events:    make(map[string]int),
				StartTime: r.Timestamp,
				EndTime:   r.Timestamp,
			})
		}

		t := &s.Threads[i]
		t.Events[r.Event]++
		if r.Depth > t.MaxDepth {
			t.MaxDepth = r.Depth
		}
		if r.Timestamp < t.StartTime {
			t.StartTime = r.Timestamp
		}
		if r.Timestamp > t.EndTime {
			t.EndTime = r.Timestamp
		}

		if s.NumRecords == 0 {
			s.StartTime = r.Timestamp
			s.EndTime = r.Timestamp
		} else {
			if r.Timestamp < s.StartTime {
				s.StartTime = r.Timestamp
			}
			if r.Timestamp > s.EndTime {
				s.EndTime = r.Timestamp
			}
		}
		s.NumRecords++
	}

	return s
}

package trace

// AssignDepths recomputes the Depth field of every record from the
// call/return structure. Each thread carries its own counter: a record is
// stamped with the counter's current value, then a call bumps the counter
// and a return lowers it, never below zero. A return is therefore written
// one level deeper than its matching call, at the same depth as the body it
// closes.
func AssignDepths(records []Record) {
	depths := make(map[string]int)

	for i := range records {
		r := &records[i]
		r.Depth = depths[r.Thread]

		switch {
		case r.IsCall():
			depths[r.Thread]++
		case r.IsReturn():
			if r.Depth > 0 {
				depths[r.Thread]--
			}
		}
	}
}

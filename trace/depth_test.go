package trace

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func eventsOnThread(thread string, events ...string) []Record {
	records := make([]Record, 0, len(events))
	for _, e := range events {
		records = append(records, Record{Event: e, Thread: thread})
	}

	return records
}

func depthsOf(records []Record) []int {
	depths := make([]int, 0, len(records))
	for _, r := range records {
		depths = append(depths, r.Depth)
	}

	return depths
}

var _ = Describe("AssignDepths", func() {
	It("should stamp a call at the current depth and its return one deeper",
		func() {
			records := eventsOnThread("1",
				EventCall, EventLine, EventReturn)

			AssignDepths(records)

			Expect(depthsOf(records)).To(Equal([]int{0, 1, 1}))
		})

	It("should nest calls", func() {
		records := eventsOnThread("1",
			EventCall, EventCall, EventReturn, EventCall, EventReturn,
			EventReturn)

		AssignDepths(records)

		Expect(depthsOf(records)).To(Equal([]int{0, 1, 2, 1, 2, 1}))
	})

	It("should keep threads independent", func() {
		records := []Record{
			{Event: EventCall, Thread: "1"},
			{Event: EventCall, Thread: "2"},
			{Event: EventCall, Thread: "1"},
			{Event: EventReturn, Thread: "2"},
			{Event: EventReturn, Thread: "1"},
		}

		AssignDepths(records)

		Expect(depthsOf(records)).To(Equal([]int{0, 0, 1, 1, 2}))
	})

	It("should never go negative on unmatched returns", func() {
		records := eventsOnThread("1",
			EventReturn, EventReturn, EventCall, EventReturn)

		AssignDepths(records)

		Expect(depthsOf(records)).To(Equal([]int{0, 0, 0, 1}))
	})

	It("should treat c_call and c_return like call and return", func() {
		records := eventsOnThread("1",
			EventCCall, EventLine, EventCReturn)

		AssignDepths(records)

		Expect(depthsOf(records)).To(Equal([]int{0, 1, 1}))
	})
})

var _ = Describe("Summarize", func() {
	It("should aggregate per thread in first-seen order", func() {
		records := []Record{
			{Event: EventCall, Thread: "2", Timestamp: 1.0, Depth: 0},
			{Event: EventCall, Thread: "1", Timestamp: 1.5, Depth: 0},
			{Event: EventReturn, Thread: "2", Timestamp: 2.0, Depth: 1},
			{Event: EventReturn, Thread: "1", Timestamp: 3.0, Depth: 1},
		}

		s := Summarize(records)

		Expect(s.NumRecords).To(Equal(4))
		Expect(s.StartTime).To(Equal(1.0))
		Expect(s.EndTime).To(Equal(3.0))
		Expect(s.Threads).To(HaveLen(2))
		Expect(s.Threads[0].Thread).To(Equal("2"))
		Expect(s.Threads[1].Thread).To(Equal("1"))
		Expect(s.Threads[0].Events).To(Equal(
			map[string]int{EventCall: 1, EventReturn: 1}))
		Expect(s.Threads[0].MaxDepth).To(Equal(1))
		Expect(s.Threads[1].StartTime).To(Equal(1.5))
		Expect(s.Threads[1].EndTime).To(Equal(3.0))
	})

	It("should handle an empty trace", func() {
		s := Summarize(nil)

		Expect(s.NumRecords).To(Equal(0))
		Expect(s.Threads).To(BeEmpty())
	})
})

package trace

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type panickingStringer struct{}

func (panickingStringer) String() string {
	panic("boom")
}

var _ = Describe("Record", func() {
	It("should round-trip through a JSON line", func() {
		r := Record{
			Timestamp: 1716910000.25,
			Event:     EventCall,
			Arg:       "42",
			Thread:    "18",
			Filename:  "main.go",
			Lineno:    10,
			FuncName:  "fib",
			Depth:     2,
			Locals:    map[string]string{"n": "42"},
		}

		line, err := json.Marshal(r)
		Expect(err).ToNot(HaveOccurred())

		var parsed Record
		Expect(json.Unmarshal(line, &parsed)).To(Succeed())
		Expect(parsed).To(Equal(r))
	})

	It("should use the trace file's field names", func() {
		line, err := json.Marshal(Record{FuncName: "fib"})
		Expect(err).ToNot(HaveOccurred())

		Expect(string(line)).To(ContainSubstring(`"co_name":"fib"`))
		Expect(string(line)).To(ContainSubstring(`"timestamp"`))
	})

	It("should omit an empty locals snapshot", func() {
		line, err := json.Marshal(Record{Event: EventReturn})
		Expect(err).ToNot(HaveOccurred())

		Expect(string(line)).ToNot(ContainSubstring("locals"))
	})

	It("should classify call and return events", func() {
		Expect(Record{Event: EventCall}.IsCall()).To(BeTrue())
		Expect(Record{Event: EventCCall}.IsCall()).To(BeTrue())
		Expect(Record{Event: EventReturn}.IsReturn()).To(BeTrue())
		Expect(Record{Event: EventCReturn}.IsReturn()).To(BeTrue())
		Expect(Record{Event: EventLine}.IsCall()).To(BeFalse())
		Expect(Record{Event: EventLine}.IsReturn()).To(BeFalse())
	})
})

var _ = Describe("SafeString", func() {
	It("should stringify plain values", func() {
		Expect(SafeString(42)).To(Equal("42"))
		Expect(SafeString("hello")).To(Equal("hello"))
		Expect(SafeString(1.5)).To(Equal("1.5"))
	})

	It("should return an empty string for nil", func() {
		Expect(SafeString(nil)).To(Equal(""))
	})

	It("should survive a panicking Stringer", func() {
		var s string
		Expect(func() {
			s = SafeString(panickingStringer{})
		}).ToNot(Panic())
		Expect(s).ToNot(BeEmpty())
	})
})

var _ = Describe("SafeLocals", func() {
	It("should stringify every value", func() {
		locals := SafeLocals(map[string]any{"n": 3, "name": "x"})
		Expect(locals).To(Equal(map[string]string{"n": "3", "name": "x"}))
	})

	It("should keep an empty snapshot nil", func() {
		Expect(SafeLocals(nil)).To(BeNil())
		Expect(SafeLocals(map[string]any{})).To(BeNil())
	})
})

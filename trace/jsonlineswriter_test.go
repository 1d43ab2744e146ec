package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JSONLinesWriter", func() {
	var (
		buf    *bytes.Buffer
		writer *JSONLinesWriter
	)

	BeforeEach(func() {
		buf = bytes.NewBuffer(nil)
		writer = NewJSONLinesWriterWithWriter(buf)
	})

	It("should write one JSON line per record", func() {
		writer.RecordEvent(Record{Event: EventCall, Thread: "1"})
		writer.RecordEvent(Record{Event: EventReturn, Thread: "1", Depth: 1})

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(2))

		var r Record
		Expect(json.Unmarshal(lines[0], &r)).To(Succeed())
		Expect(r.Event).To(Equal(EventCall))
	})

	It("should not interleave lines written concurrently", func() {
		numGoroutines := 10
		numRecords := 200

		var wg sync.WaitGroup
		for g := 0; g < numGoroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < numRecords; i++ {
					writer.RecordEvent(Record{
						Event:  EventLine,
						Thread: fmt.Sprintf("%d", g),
						Lineno: i,
						Arg:    "some argument text to widen the line",
					})
				}
			}(g)
		}
		wg.Wait()

		scanner := bufio.NewScanner(buf)
		count := 0
		for scanner.Scan() {
			var r Record
			Expect(json.Unmarshal(scanner.Bytes(), &r)).To(Succeed())
			count++
		}

		Expect(count).To(Equal(numGoroutines * numRecords))
	})
})

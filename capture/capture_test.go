package capture

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/tracelab/tracebrowser/trace"
)

var _ = Describe("Domain", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		tracer     *MockTracer
		domain     *Domain

		mu      sync.Mutex
		records []trace.Record
	)

	recorded := func() []trace.Record {
		mu.Lock()
		defer mu.Unlock()

		out := make([]trace.Record, len(records))
		copy(out, records)

		return out
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		tracer = NewMockTracer(mockCtrl)
		records = nil

		domain = NewDomain("test").WithTimeTeller(timeTeller)
		CollectTrace(domain, tracer)

		timeTeller.EXPECT().CurrentTime().Return(12.5).AnyTimes()
		tracer.EXPECT().RecordEvent(gomock.Any()).
			Do(func(r trace.Record) {
				mu.Lock()
				defer mu.Unlock()
				records = append(records, r)
			}).
			AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record a call and its matching return", func() {
		func() {
			defer domain.Enter(42)()
		}()

		rs := recorded()
		gomega.Expect(rs).To(gomega.HaveLen(2))

		call, ret := rs[0], rs[1]
		gomega.Expect(call.Event).To(gomega.Equal(trace.EventCall))
		gomega.Expect(call.Arg).To(gomega.Equal("42"))
		gomega.Expect(call.Depth).To(gomega.Equal(0))
		gomega.Expect(call.Timestamp).To(gomega.Equal(12.5))
		gomega.Expect(call.Thread).ToNot(gomega.BeEmpty())
		gomega.Expect(call.Filename).To(gomega.ContainSubstring("capture_test.go"))
		gomega.Expect(call.Lineno).To(gomega.BeNumerically(">", 0))

		gomega.Expect(ret.Event).To(gomega.Equal(trace.EventReturn))
		gomega.Expect(ret.Thread).To(gomega.Equal(call.Thread))
		gomega.Expect(ret.Depth).To(gomega.Equal(call.Depth + 1))
	})

	It("should record nested calls one level deeper", func() {
		inner := func() {
			defer domain.Enter("inner")()
		}
		outer := func() {
			defer domain.Enter("outer")()
			inner()
		}

		outer()

		rs := recorded()
		gomega.Expect(rs).To(gomega.HaveLen(4))
		gomega.Expect(depthsOf(rs)).To(gomega.Equal([]int{0, 1, 2, 1}))
		gomega.Expect(rs[0].Arg).To(gomega.Equal("outer"))
		gomega.Expect(rs[1].Arg).To(gomega.Equal("inner"))
	})

	It("should record a line event at the body depth", func() {
		func() {
			defer domain.Enter(nil)()
			domain.Line()
		}()

		rs := recorded()
		gomega.Expect(rs).To(gomega.HaveLen(3))
		gomega.Expect(rs[1].Event).To(gomega.Equal(trace.EventLine))
		gomega.Expect(rs[1].Depth).To(gomega.Equal(1))
	})

	It("should record an exception with the error text", func() {
		domain.Exception(errors.New("file not found"))

		rs := recorded()
		gomega.Expect(rs).To(gomega.HaveLen(1))
		gomega.Expect(rs[0].Event).To(gomega.Equal(trace.EventException))
		gomega.Expect(rs[0].Arg).To(gomega.Equal("file not found"))
	})

	It("should attach a stringified locals snapshot to the call", func() {
		func() {
			defer domain.EnterWithLocals(1, map[string]any{"n": 8})()
		}()

		rs := recorded()
		gomega.Expect(rs[0].Locals).To(gomega.Equal(map[string]string{"n": "8"}))
		gomega.Expect(rs[1].Locals).To(gomega.BeNil())
	})

	It("should give concurrent goroutines distinct threads", func() {
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer domain.Enter(nil)()
			}()
		}
		wg.Wait()

		rs := recorded()
		gomega.Expect(rs).To(gomega.HaveLen(4))

		threads := map[string]bool{}
		for _, r := range rs {
			if r.Event == trace.EventCall {
				gomega.Expect(r.Depth).To(gomega.Equal(0))
				threads[r.Thread] = true
			}
		}
		gomega.Expect(threads).To(gomega.HaveLen(2))
	})
})

var _ = Describe("Domain without hooks", func() {
	It("should not record anything", func() {
		domain := NewDomain("idle")

		done := domain.Enter(1)
		gomega.Expect(done).ToNot(gomega.BeNil())
		gomega.Expect(done).ToNot(gomega.Panic())
		domain.Line()
		domain.Exception(errors.New("ignored"))
	})
})

var _ = Describe("CollectTrace", func() {
	It("should panic when the same tracer is attached twice", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		tracer := NewMockTracer(mockCtrl)
		domain := NewDomain("dup")

		CollectTrace(domain, tracer)
		gomega.Expect(func() {
			CollectTrace(domain, tracer)
		}).To(gomega.Panic())
	})
})

func depthsOf(records []trace.Record) []int {
	depths := make([]int, 0, len(records))
	for _, r := range records {
		depths = append(depths, r.Depth)
	}

	return depths
}

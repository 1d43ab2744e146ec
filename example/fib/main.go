// A minimal instrumented program. It computes a few Fibonacci numbers on
// concurrent goroutines while the capture probes record every call and
// return to fib_trace.ndjson. Browse the result with:
//
//	tracebrowser serve fib_trace.ndjson
package main

import (
	"fmt"
	"sync"

	"github.com/tebeka/atexit"

	"github.com/tracelab/tracebrowser/capture"
	"github.com/tracelab/tracebrowser/trace"
)

func fib(n int) int {
	defer capture.Enter(n)()

	if n < 2 {
		return n
	}

	return fib(n-1) + fib(n-2)
}

func worker(id, n int, wg *sync.WaitGroup) {
	defer wg.Done()
	defer capture.EnterWithLocals(id, map[string]any{"n": n})()

	fmt.Printf("worker %d: fib(%d) = %d\n", id, n, fib(n))
}

func main() {
	writer := trace.NewJSONLinesWriter("fib_trace")
	writer.Init()

	capture.CollectTrace(capture.Default(), writer)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go worker(i, 8+i, &wg)
	}
	wg.Wait()

	atexit.Exit(0)
}

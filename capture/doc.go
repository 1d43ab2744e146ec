// Package capture records call-lifecycle events from a running program.
//
// Go has no global call-tracing hook, so capture takes the explicit-probe
// route: the traced function calls Enter on its way in and the returned
// closure on its way out, usually with defer:
//
//	func fib(n int) int {
//		defer capture.Enter(n)()
//		...
//	}
//
// Each probe builds a trace.Record from the visible call-frame metadata
// (file, line, function name), the current goroutine's identifier, and a
// per-goroutine call depth, then publishes it to the hooks registered on the
// domain. Use CollectTrace to forward the records of a domain to a
// trace.Tracer, such as a trace.JSONLinesWriter.
package capture

package capture

import (
	"fmt"
	"reflect"

	"github.com/tracelab/tracebrowser/hooking"
	"github.com/tracelab/tracebrowser/trace"
)

// CollectTrace lets the tracer collect the records published on a domain.
func CollectTrace(domain *Domain, tracer trace.Tracer) {
	for _, hook := range domain.Hooks() {
		h, ok := hook.(*traceHook)
		if ok && h.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook forwards probe records to a tracer.
type traceHook struct {
	t trace.Tracer
}

// Func calls the tracer when the hook is triggered.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	r, ok := ctx.Item.(trace.Record)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosCall, HookPosLine, HookPosReturn, HookPosException:
		h.t.RecordEvent(r)
	}
}

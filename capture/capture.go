package capture

import (
	"sync"
	"time"

	"github.com/tracelab/tracebrowser/hooking"
	"github.com/tracelab/tracebrowser/trace"
)

// The positions at which the capture probes invoke hooks.
var (
	HookPosCall      = &hooking.HookPos{Name: "HookPosCall"}
	HookPosLine      = &hooking.HookPos{Name: "HookPosLine"}
	HookPosReturn    = &hooking.HookPos{Name: "HookPosReturn"}
	HookPosException = &hooking.HookPos{Name: "HookPosException"}
)

// A TimeTeller reports the current time in unix seconds.
type TimeTeller interface {
	CurrentTime() float64
}

type wallClock struct{}

func (wallClock) CurrentTime() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// A Domain is a named hookable scope that probes publish into. Each domain
// keeps its own per-goroutine depth counters.
type Domain struct {
	hooking.HookableBase

	name       string
	timeTeller TimeTeller

	mu     sync.Mutex
	depths map[string]int
}

// NewDomain creates a Domain with the wall clock as its time source.
func NewDomain(name string) *Domain {
	return &Domain{
		name:       name,
		timeTeller: wallClock{},
		depths:     make(map[string]int),
	}
}

// WithTimeTeller replaces the time source of the domain.
func (d *Domain) WithTimeTeller(tt TimeTeller) *Domain {
	d.timeTeller = tt
	return d
}

// Name returns the name of the domain.
func (d *Domain) Name() string {
	return d.name
}

var defaultDomain = NewDomain("default")

// Default returns the domain used by the package-level probes.
func Default() *Domain {
	return defaultDomain
}

// Enter records a call event at the caller's site and returns the function
// that records the matching return. The closure is normally invoked with
// defer. The call is recorded at the goroutine's current depth; the return
// is recorded one level deeper, at the depth of the call's body, before the
// counter drops back.
func (d *Domain) Enter(arg any) func() {
	return d.enter(arg, nil)
}

// EnterWithLocals is Enter with a locals snapshot attached to the call
// record. Snapshot values are stringified defensively.
func (d *Domain) EnterWithLocals(arg any, locals map[string]any) func() {
	return d.enter(arg, locals)
}

// Line records a line event at the caller's site and the goroutine's
// current depth.
func (d *Domain) Line() {
	d.lineEvent()
}

// Exception records an exception event carrying the stringified error.
func (d *Domain) Exception(err error) {
	d.exceptionEvent(err)
}

// Enter records a call event on the default domain. See Domain.Enter.
func Enter(arg any) func() {
	return defaultDomain.enter(arg, nil)
}

// EnterWithLocals records a call event with a locals snapshot on the
// default domain.
func EnterWithLocals(arg any, locals map[string]any) func() {
	return defaultDomain.enter(arg, locals)
}

// Line records a line event on the default domain.
func Line() {
	defaultDomain.lineEvent()
}

// Exception records an exception event on the default domain.
func Exception(err error) {
	defaultDomain.exceptionEvent(err)
}

func (d *Domain) enter(arg any, locals map[string]any) func() {
	if d.NumHooks() == 0 {
		return func() {}
	}

	file, line, funcName := frameInfo(3)
	thread := goroutineID()

	d.mu.Lock()
	depth := d.depths[thread]
	d.depths[thread] = depth + 1
	d.mu.Unlock()

	d.publish(HookPosCall, trace.Record{
		Timestamp: d.timeTeller.CurrentTime(),
		Event:     trace.EventCall,
		Arg:       trace.SafeString(arg),
		Thread:    thread,
		Filename:  file,
		Lineno:    line,
		FuncName:  funcName,
		Depth:     depth,
		Locals:    trace.SafeLocals(locals),
	})

	return func() {
		file, line, funcName := frameInfo(2)

		d.mu.Lock()
		depth := d.depths[thread]
		if depth > 0 {
			d.depths[thread] = depth - 1
		}
		d.mu.Unlock()

		d.publish(HookPosReturn, trace.Record{
			Timestamp: d.timeTeller.CurrentTime(),
			Event:     trace.EventReturn,
			Thread:    thread,
			Filename:  file,
			Lineno:    line,
			FuncName:  funcName,
			Depth:     depth,
		})
	}
}

func (d *Domain) lineEvent() {
	if d.NumHooks() == 0 {
		return
	}

	file, line, funcName := frameInfo(3)
	thread := goroutineID()

	d.publish(HookPosLine, trace.Record{
		Timestamp: d.timeTeller.CurrentTime(),
		Event:     trace.EventLine,
		Thread:    thread,
		Filename:  file,
		Lineno:    line,
		FuncName:  funcName,
		Depth:     d.currentDepth(thread),
	})
}

func (d *Domain) exceptionEvent(err error) {
	if d.NumHooks() == 0 {
		return
	}

	file, line, funcName := frameInfo(3)
	thread := goroutineID()

	d.publish(HookPosException, trace.Record{
		Timestamp: d.timeTeller.CurrentTime(),
		Event:     trace.EventException,
		Arg:       trace.SafeString(err),
		Thread:    thread,
		Filename:  file,
		Lineno:    line,
		FuncName:  funcName,
		Depth:     d.currentDepth(thread),
	})
}

func (d *Domain) currentDepth(thread string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.depths[thread]
}

func (d *Domain) publish(pos *hooking.HookPos, r trace.Record) {
	d.InvokeHook(hooking.HookCtx{
		Domain: d,
		Pos:    pos,
		Item:   r,
	})
}

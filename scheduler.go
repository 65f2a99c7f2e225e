package stagehand

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// Scheduler abstracts where and when queued work runs. spec.md §5 names
// two instances: a message scheduler (default: macrotask semantics —
// tasks run after the current stack unwinds) and a time scheduler
// (default: microtask semantics — run as soon as the current stack
// unwinds). Both are injectable via Option so tests can substitute a
// deterministic, virtual-clock-backed implementation.
type Scheduler interface {
	// Schedule queues fn to run asynchronously relative to the caller.
	// Implementations must never invoke fn synchronously within
	// Schedule itself — this is what guarantees Ask/Tell never resolve
	// within the caller's current execution turn (spec.md §5, §8
	// invariant 5).
	Schedule(fn func())
}

// goroutineScheduler dispatches every scheduled function on its own
// goroutine: true macrotask semantics, no ordering guarantee across
// distinct callers (spec.md §5 permits this explicitly: "Between
// different senders... order is determined by arbiter arrival").
type goroutineScheduler struct{}

func (goroutineScheduler) Schedule(fn func()) { go fn() }

// NewMessageScheduler returns the production default message scheduler.
func NewMessageScheduler() Scheduler { return goroutineScheduler{} }

// serialScheduler runs scheduled functions, in submission order, on a
// single dedicated worker goroutine: microtask-like semantics — strictly
// async relative to the caller, but FIFO among themselves.
type serialScheduler struct {
	tasks chan func()
}

// NewTimeScheduler returns the production default time scheduler.
func NewTimeScheduler() Scheduler {
	s := &serialScheduler{tasks: make(chan func(), 256)}
	go s.run()
	return s
}

func (s *serialScheduler) run() {
	for fn := range s.tasks {
		fn()
	}
}

func (s *serialScheduler) Schedule(fn func()) {
	s.tasks <- fn
}

// VirtualScheduler is the "stable test harness that can drive the
// arbiter with a virtual clock" spec.md §1 says is in scope only at the
// interface level; this is the minimal concrete harness satisfying it.
// Schedule enqueues work instead of running it; Drain runs everything
// queued so far, including work newly queued as a side effect of
// draining, giving a test full control over when suspended
// continuations execute. Clock exposes the backing clockwork.FakeClock
// for code that also consults time; advancing it does not drain.
type VirtualScheduler struct {
	mu    sync.Mutex
	clock clockwork.FakeClock
	queue []func()
}

// NewVirtualScheduler builds a VirtualScheduler. Build the schedulers
// passed to WithMessageScheduler and WithTimeScheduler on the same
// clockwork.FakeClock to keep timer-driven actor code deterministic too.
func NewVirtualScheduler(clock clockwork.FakeClock) *VirtualScheduler {
	return &VirtualScheduler{clock: clock}
}

func (v *VirtualScheduler) Schedule(fn func()) {
	v.mu.Lock()
	v.queue = append(v.queue, fn)
	v.mu.Unlock()
}

// Drain runs every queued function, including ones queued by functions
// that ran earlier in the same Drain call, until the queue is empty.
func (v *VirtualScheduler) Drain() {
	for {
		v.mu.Lock()
		if len(v.queue) == 0 {
			v.mu.Unlock()
			return
		}
		fn := v.queue[0]
		v.queue = v.queue[1:]
		v.mu.Unlock()
		fn()
	}
}

// Clock returns the backing fake clock, for tests that also need to
// advance timers (e.g. a cleanupCancelledMessages delay built on
// time.AfterFunc would need a real clock; actors built on Clock().After
// can be driven deterministically instead).
func (v *VirtualScheduler) Clock() clockwork.FakeClock { return v.clock }

// Pending reports how many functions are currently queued, undrained.
func (v *VirtualScheduler) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}

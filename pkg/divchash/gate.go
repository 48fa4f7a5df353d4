package divchash

// gate.go implements the two-phase gate protocol of spec §4.5 — the central
// synchronization contract that quiesces mutators so growth can run
// single-threaded without blocking reads. This is the spec's own novel
// contribution; the teacher has no direct equivalent, so the Cond-based
// wait/broadcast idiom below is a literal translation of §4.5 rather than an
// adaptation of existing arena-cache code (pkg/cache.go's shard.mu is a
// plain RWMutex with no growth-coordination phase).
//
// Every condition-variable wait re-tests its predicate in a `for` loop to
// survive spurious wakeups and loss of ownership during re-acquisition, per
// spec §9's explicit guidance.
//
// © 2025 divchash authors. MIT License.

import "sync"

type gate struct {
	mu       sync.Mutex
	open     bool
	inFlight int

	openCV *sync.Cond
	doneCV *sync.Cond
}

func newGate() *gate {
	g := &gate{open: true}
	g.openCV = sync.NewCond(&g.mu)
	g.doneCV = sync.NewCond(&g.mu)
	return g
}

// enter runs the gate's entry protocol (spec §4.5): wait for the gate to be
// open, then register as an in-flight mutator.
func (g *gate) enter() {
	g.mu.Lock()
	for !g.open {
		g.openCV.Wait()
	}
	g.inFlight++
	g.mu.Unlock()
}

// exit runs the gate's exit protocol (spec §4.5). update runs under
// gate_lock and must apply the batch's accounting changes (e.g. folding a
// local `inserted` counter into element_count) and return whether growth is
// now required. When it is and the gate is still open, the gate closes to
// new entrants, waits for every other in-flight mutator to finish, then
// calls growFn with gate_lock released — growFn is expected to run the
// single-threaded growth phase (§4.6) and must not itself touch the gate.
// When the gate is already closed (another grower or a quiescing reader
// owns it), this mutator only leaves, as in the no-growth case.
func (g *gate) exit(update func() bool, growFn func()) {
	g.mu.Lock()
	shouldGrow := update()
	if shouldGrow && g.open {
		g.open = false
		for g.inFlight > 1 {
			g.doneCV.Wait()
		}
		g.mu.Unlock()

		growFn()

		g.mu.Lock()
		g.open = true
		g.openCV.Broadcast()
		g.inFlight--
		g.mu.Unlock()
		return
	}

	g.inFlight--
	if !g.open {
		// A grower elsewhere is waiting for in_flight to drop to 1.
		g.doneCV.Signal()
	}
	g.mu.Unlock()
}

package jobqueue

import "sync"

// Capacity is the fixed number of job slots (spec §3: "bounded FIFO
// (capacity 2)").
const Capacity = 2

// Queue is the bounded FIFO of jobs plus execution state described in
// spec §3/§4.6, grounded on the original JobQueue class. The original's
// hand-rolled Mutex becomes a plain sync.Mutex (spec §9 "Thread
// synchronisation").
type Queue struct {
	mu sync.Mutex

	slots   [Capacity]Job
	filled  [Capacity]bool
	current int

	executing bool
	cancel    bool

	clearBeforeExecute bool
	usesOutputPane     bool
	timeCommands       bool

	isBuilding bool
	isBuilt    bool
}

// New returns an empty, idle Queue.
func New() *Queue {
	return &Queue{}
}

// Clear resets both slots and the execution flag, the reset point for
// cancellation and for starting a fresh chain (spec §4.6 `clear()`).
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.slots = [Capacity]Job{}
	q.filled = [Capacity]bool{}
	q.current = 0
	q.executing = false
	q.cancel = false
}

// Add appends job to the first empty slot. It returns false if the queue
// is already at capacity; the caller is responsible for chaining a
// continuation job once a slot frees up (spec §4.6 `add(job)`).
func (q *Queue) Add(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := 0; i < Capacity; i++ {
		if !q.filled[i] {
			q.slots[i] = job
			q.filled[i] = true
			return true
		}
	}
	return false
}

// Jobs returns the occupied slots in FIFO order.
func (q *Queue) Jobs() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Job
	for i := 0; i < Capacity; i++ {
		if q.filled[i] {
			out = append(out, q.slots[i])
		}
	}
	return out
}

// At returns the job in slot i and whether it is occupied.
func (q *Queue) At(i int) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= Capacity {
		return Job{}, false
	}
	return q.slots[i], q.filled[i]
}

// Current returns the index of the currently-running slot.
func (q *Queue) Current() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Advance moves Current to the next occupied slot. It returns the job and
// true if one exists, or a zero Job and false once the chain is exhausted.
func (q *Queue) Advance() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	next := q.current + 1
	if next >= Capacity || !q.filled[next] {
		return Job{}, false
	}
	q.current = next
	return q.slots[next], true
}

// IsExecuting reports whether a chain is in progress (spec §8 invariant 6).
func (q *Queue) IsExecuting() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.executing
}

// SetExecuting updates the executing flag.
func (q *Queue) SetExecuting(state bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.executing = state
}

// SetCancel sets the monotonic-within-one-run cancel flag, returning its
// previous value (spec §3 "cancel is monotonic... cleared at queue reset").
func (q *Queue) SetCancel(value bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	prev := q.cancel
	q.cancel = q.cancel || value
	return prev
}

// Cancelled reports the current cancel flag.
func (q *Queue) Cancelled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cancel
}

// TimeCommands, ClearBeforeExecute and ShowOutputPane expose the
// corresponding queue-level flags.
func (q *Queue) TimeCommands() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.timeCommands
}

func (q *Queue) SetTimeCommands(v bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.timeCommands = v
}

func (q *Queue) ClearBeforeExecute() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.clearBeforeExecute
}

func (q *Queue) SetClearBeforeExecute(v bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clearBeforeExecute = v
}

func (q *Queue) ShowOutputPane() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.usesOutputPane
}

func (q *Queue) SetShowOutputPane(v bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.usesOutputPane = v
}

// IsBuilt reports whether the most recent "build" job completed
// successfully (spec §4.6 "Build state").
func (q *Queue) IsBuilt() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isBuilt
}

// SetBuilding marks whether a build job is currently in flight.
func (q *Queue) SetBuilding(v bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.isBuilding = v
}

// SetBuilt records a build's success/failure; editing any buffer should
// call SetBuilt(false) to invalidate it (spec §4.6).
func (q *Queue) SetBuilt(v bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.isBuilt = v
}

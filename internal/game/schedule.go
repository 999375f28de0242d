package game

import (
	"container/heap"
	"time"
)

// Handle identifies a scheduled event so it can be cancelled later.
// The zero Handle is never issued.
type Handle int

// EventFn is a deferred effect. It runs on the session goroutine with the
// clock time at which the event fired.
type EventFn func(now time.Time)

// scheduledEvent is one pending timed effect.
type scheduledEvent struct {
	id    Handle
	at    time.Time
	seq   uint64 // insertion order; breaks ties so same-instant events fire FIFO
	fn    EventFn
	what  string // short label for logging/debugging
	index int    // position in the heap, maintained for removal
}

// eventHeap implements heap.Interface ordered by fire time.
type eventHeap []*scheduledEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x interface{}) {
	ev := x.(*scheduledEvent)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[:n-1]
	return ev
}

// Scheduler is the single timing source for all delayed gameplay effects:
// periodic spawns, arrival timeouts, death cleanup, restart delays. It is NOT
// goroutine-safe; every call must come from the session's serialized context,
// which is also what makes cancel-versus-fire races impossible.
type Scheduler struct {
	events  eventHeap
	byID    map[Handle]*scheduledEvent
	nextID  Handle
	nextSeq uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{byID: make(map[Handle]*scheduledEvent)}
}

// Schedule registers fn to run at the given instant and returns a cancel handle.
func (s *Scheduler) Schedule(at time.Time, what string, fn EventFn) Handle {
	s.nextID++
	s.nextSeq++
	ev := &scheduledEvent{id: s.nextID, at: at, seq: s.nextSeq, fn: fn, what: what}
	heap.Push(&s.events, ev)
	s.byID[ev.id] = ev
	return ev.id
}

// Cancel removes a pending event. Cancelling an already-fired or unknown
// handle is a no-op and returns false.
func (s *Scheduler) Cancel(h Handle) bool {
	ev, ok := s.byID[h]
	if !ok {
		return false
	}
	delete(s.byID, h)
	heap.Remove(&s.events, ev.index)
	return true
}

// CancelAll drops every pending event.
func (s *Scheduler) CancelAll() {
	s.events = s.events[:0]
	s.byID = make(map[Handle]*scheduledEvent)
}

// NextAt reports the fire time of the earliest pending event.
func (s *Scheduler) NextAt() (time.Time, bool) {
	if len(s.events) == 0 {
		return time.Time{}, false
	}
	return s.events[0].at, true
}

// Pending returns the number of events still queued.
func (s *Scheduler) Pending() int {
	return len(s.events)
}

// RunDue pops and runs every event with a fire time at or before now, in
// fire-time order. Events scheduled by a running handler are themselves
// eligible if already due.
func (s *Scheduler) RunDue(now time.Time) {
	for len(s.events) > 0 && !s.events[0].at.After(now) {
		ev := heap.Pop(&s.events).(*scheduledEvent)
		delete(s.byID, ev.id)
		ev.fn(ev.at)
	}
}

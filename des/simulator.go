package des

import (
	"container/heap"
)

// Ticks is simulated time. The protocol measures timeouts in abstract clock
// ticks, so the scheduler does too; nothing here ever consults wall time.
type Ticks float64

// Module is a simulated component. HandleEvent runs to completion before the
// next event is delivered; no two handlers ever run concurrently, so modules
// need no locking.
type Module interface {
	HandleEvent(payload any, from Module, now Ticks) []Outgoing
}

// Outgoing is an event scheduled for future delivery. A nil To addresses the
// emitting module itself; timer expiries use this.
type Outgoing struct {
	Payload any
	To      Module
	Delay   Ticks
}

// Simulator delivers queued events one at a time in arrival order. Events
// with equal arrival times are delivered in the order they were scheduled.
type Simulator struct {
	now Ticks
	q   eventQueue
	seq int
}

// Pending returns the number of events waiting for delivery.
func (s *Simulator) Pending() int {
	return len(s.q)
}

// Delivered returns the number of events delivered so far.
func (s *Simulator) Delivered() int {
	return s.seq - len(s.q)
}

// Drained reports whether no events remain.
func (s *Simulator) Drained() bool {
	return len(s.q) == 0
}

// Now returns the current simulated time.
func (s *Simulator) Now() Ticks {
	return s.now
}

// Schedule queues msg for delivery Delay ticks from now.
func (s *Simulator) Schedule(msg Outgoing, from Module) {
	to := msg.To
	if to == nil {
		to = from
	}
	heap.Push(&s.q, event{s.now + msg.Delay, s.seq, from, to, msg.Payload})
	s.seq++
}

// Run delivers events until none remain.
func (s *Simulator) Run() {
	for !s.Drained() {
		s.step()
	}
}

// RunUntil delivers events until the queue drains or simulated time passes t.
func (s *Simulator) RunUntil(t Ticks) {
	for !s.Drained() && s.q[0].at <= t {
		s.step()
	}
	if s.now < t {
		s.now = t
	}
}

func (s *Simulator) step() {
	e := heap.Pop(&s.q).(event)
	if e.at < s.now {
		panic("time reversal")
	}
	s.now = e.at
	for _, m := range e.to.HandleEvent(e.payload, e.from, s.now) {
		s.Schedule(m, e.to)
	}
}

type event struct {
	at      Ticks
	seq     int
	from    Module
	to      Module
	payload any
}

type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(event))
}

func (q *eventQueue) Pop() any {
	idx := len(*q) - 1
	res := (*q)[idx]
	(*q)[idx].payload = nil
	*q = (*q)[0:idx]
	return res
}

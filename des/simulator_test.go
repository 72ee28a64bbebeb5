package des

import (
	"testing"
)

// recorder keeps the payloads it receives along with their delivery times.
type recorder struct {
	got   []any
	times []Ticks
}

func (r *recorder) HandleEvent(payload any, from Module, now Ticks) []Outgoing {
	r.got = append(r.got, payload)
	r.times = append(r.times, now)
	return nil
}

// bouncer answers every "ping" with a self-addressed "pong" one tick later.
type bouncer struct {
	pongs int
}

func (b *bouncer) HandleEvent(payload any, from Module, now Ticks) []Outgoing {
	if payload == "ping" {
		return []Outgoing{{Payload: "pong", To: nil, Delay: 1}}
	}
	b.pongs++
	return nil
}

func TestDeliveryOrder(t *testing.T) {
	s := &Simulator{}
	r := &recorder{}
	s.Schedule(Outgoing{Payload: "c", To: r, Delay: 5}, nil)
	s.Schedule(Outgoing{Payload: "a", To: r, Delay: 1}, nil)
	s.Schedule(Outgoing{Payload: "b", To: r, Delay: 3}, nil)
	s.Run()

	if len(r.got) != 3 {
		t.Fatalf("delivered %d events, want 3", len(r.got))
	}
	if r.got[0] != "a" || r.got[1] != "b" || r.got[2] != "c" {
		t.Errorf("delivery order %v", r.got)
	}
	if r.times[0] != 1 || r.times[1] != 3 || r.times[2] != 5 {
		t.Errorf("delivery times %v", r.times)
	}
	if s.Now() != 5 {
		t.Errorf("clock at %v, want 5", s.Now())
	}
}

func TestSimultaneousEventsFIFO(t *testing.T) {
	s := &Simulator{}
	r := &recorder{}
	for i := 0; i < 10; i++ {
		s.Schedule(Outgoing{Payload: i, To: r, Delay: 2}, nil)
	}
	s.Run()
	for i, got := range r.got {
		if got != i {
			t.Fatalf("event %d delivered as %v, want FIFO order", i, got)
		}
	}
}

func TestSelfMessage(t *testing.T) {
	s := &Simulator{}
	b := &bouncer{}
	s.Schedule(Outgoing{Payload: "ping", To: b, Delay: 0}, nil)
	s.Run()
	if b.pongs != 1 {
		t.Errorf("%d pongs, want 1", b.pongs)
	}
	if s.Now() != 1 {
		t.Errorf("clock at %v, want 1", s.Now())
	}
}

func TestRunUntil(t *testing.T) {
	s := &Simulator{}
	r := &recorder{}
	s.Schedule(Outgoing{Payload: "early", To: r, Delay: 1}, nil)
	s.Schedule(Outgoing{Payload: "late", To: r, Delay: 10}, nil)

	s.RunUntil(5)
	if len(r.got) != 1 {
		t.Fatalf("delivered %d events by tick 5, want 1", len(r.got))
	}
	if s.Now() != 5 {
		t.Errorf("clock at %v, want 5", s.Now())
	}
	if s.Pending() != 1 {
		t.Errorf("%d events pending, want 1", s.Pending())
	}

	s.Run()
	if !s.Drained() || len(r.got) != 2 {
		t.Error("remaining event not delivered")
	}
	if s.Delivered() != 2 {
		t.Errorf("delivered count %d, want 2", s.Delivered())
	}
}

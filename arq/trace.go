package arq

import "log"

// Event identifies a protocol observation. The state machines report every
// event unconditionally; the Tracer decides what to render, so verbosity can
// never change protocol behavior.
type Event int

const (
	EventSend Event = iota
	EventWindowFull
	EventAckNew
	EventAckDuplicate
	EventAckCorrupted
	EventResend
	EventRecvNew
	EventRecvDuplicate
	EventRecvCorrupted
	EventDeliver
)

// Tracer consumes protocol events. seq is the sequence number the event
// concerns (the acknowledged number for ACK events).
type Tracer interface {
	Trace(ev Event, seq int)
}

// NopTracer discards every event.
type NopTracer struct{}

func (NopTracer) Trace(Event, int) {}

// LogTracer renders events as emulator-style trace lines. Level 0 is
// silent, level 1 reports protocol decisions, level 2 adds per-packet sends
// and deliveries.
type LogTracer struct {
	L     *log.Logger
	Level int
}

func (t LogTracer) Trace(ev Event, seq int) {
	switch ev {
	case EventSend:
		if t.Level >= 2 {
			t.L.Printf("----A: sending packet %d", seq)
		}
	case EventWindowFull:
		if t.Level >= 1 {
			t.L.Printf("----A: window full, dropping message")
		}
	case EventAckNew:
		if t.Level >= 1 {
			t.L.Printf("----A: new ACK %d", seq)
		}
	case EventAckDuplicate:
		if t.Level >= 1 {
			t.L.Printf("----A: duplicate or out-of-window ACK %d, ignoring", seq)
		}
	case EventAckCorrupted:
		if t.Level >= 1 {
			t.L.Printf("----A: corrupted ACK, ignoring")
		}
	case EventResend:
		if t.Level >= 1 {
			t.L.Printf("----A: timeout, resending packet %d", seq)
		}
	case EventRecvNew:
		if t.Level >= 1 {
			t.L.Printf("----B: packet %d received, sending ACK", seq)
		}
	case EventRecvDuplicate:
		if t.Level >= 1 {
			t.L.Printf("----B: duplicate or out-of-window packet %d, re-ACKing", seq)
		}
	case EventRecvCorrupted:
		if t.Level >= 1 {
			t.L.Printf("----B: corrupted packet, re-ACKing")
		}
	case EventDeliver:
		if t.Level >= 2 {
			t.L.Printf("----B: delivering packet %d", seq)
		}
	}
}

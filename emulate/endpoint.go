package emulate

import (
	"github.com/seqlab/srarq/arq"
	"github.com/seqlab/srarq/des"
)

// Endpoint adapts one protocol role to the event scheduler. It backs the
// core's boundary interfaces by queueing events on an outbox that
// HandleEvent returns for scheduling, so every side effect of an entry point
// becomes a scheduled event.
type Endpoint struct {
	sender   *arq.Sender
	receiver *arq.Receiver

	link *Link

	timerGen int

	workload *Workload
	sink     *Sink

	now    des.Ticks
	outbox []des.Outgoing

	Accepted int // messages the sender took into its window
	Dropped  int // messages rejected window-full
}

// NewSenderEndpoint wires an A-side state machine to the scheduler, fed by w.
func NewSenderEndpoint(window int, rtt float64, w *Workload, tracer arq.Tracer) *Endpoint {
	e := &Endpoint{workload: w}
	e.sender = arq.NewSender(arq.SenderConfig{
		Window: window,
		RTT:    rtt,
		Net:    e,
		Timer:  endpointTimer{e},
		Tracer: tracer,
	})
	return e
}

// NewReceiverEndpoint wires a B-side state machine to the scheduler,
// delivering to sink.
func NewReceiverEndpoint(window int, sink *Sink, tracer arq.Tracer) *Endpoint {
	e := &Endpoint{sink: sink}
	e.receiver = arq.NewReceiver(arq.ReceiverConfig{
		Window: window,
		Net:    e,
		App:    e,
		Tracer: tracer,
	})
	return e
}

// Connect attaches the link that carries this endpoint's outbound packets.
func (e *Endpoint) Connect(l *Link) {
	e.link = l
}

// Start schedules the first application arrival. Receiver endpoints are
// driven entirely by the peer and have nothing to start.
func (e *Endpoint) Start(s *des.Simulator) {
	if e.workload == nil {
		return
	}
	if next, ok := e.workload.NextArrival(); ok {
		s.Schedule(des.Outgoing{Payload: appArrival{}, Delay: next}, e)
	}
}

// Sender exposes the underlying state machine for inspection after a run.
func (e *Endpoint) Sender() *arq.Sender {
	return e.sender
}

// Receiver exposes the underlying state machine for inspection after a run.
func (e *Endpoint) Receiver() *arq.Receiver {
	return e.receiver
}

func (e *Endpoint) HandleEvent(payload any, from des.Module, now des.Ticks) []des.Outgoing {
	// the scheduler copies scheduled events into its queue, so the outbox
	// backing array can be reused across handler invocations
	e.outbox = e.outbox[:0]
	e.now = now

	switch ev := payload.(type) {
	case appArrival:
		msg := e.workload.Message(now)
		if e.sender.Submit(msg) {
			e.Accepted++
		} else {
			e.Dropped++
		}
		if next, ok := e.workload.NextArrival(); ok {
			e.outbox = append(e.outbox, des.Outgoing{Payload: appArrival{}, Delay: next})
		}
	case packetArrival:
		if e.sender != nil {
			e.sender.OnAck(ev.pkt)
		} else {
			e.receiver.OnPacket(ev.pkt)
		}
	case timerExpiry:
		if ev.gen != e.timerGen {
			return nil // cancelled before it fired
		}
		e.sender.OnTimeout()
	default:
		panic("unexpected event on endpoint")
	}
	return e.outbox
}

// Send implements arq.Network.
func (e *Endpoint) Send(p arq.Packet) {
	e.outbox = append(e.outbox, des.Outgoing{Payload: transmit{p}, To: e.link})
}

// Deliver implements arq.Application.
func (e *Endpoint) Deliver(payload [arq.PayloadSize]byte) {
	e.sink.Deliver(payload, e.now)
}

// endpointTimer implements arq.Timer with generation-guarded self-messages:
// starting bumps the generation and schedules an expiry, stopping bumps the
// generation so an already-scheduled expiry is ignored on arrival. At most
// one expiry is ever live.
type endpointTimer struct {
	e *Endpoint
}

func (t endpointTimer) Start(ticks float64) {
	e := t.e
	e.timerGen++
	e.outbox = append(e.outbox, des.Outgoing{
		Payload: timerExpiry{e.timerGen},
		Delay:   des.Ticks(ticks),
	})
}

func (t endpointTimer) Stop() {
	t.e.timerGen++
}

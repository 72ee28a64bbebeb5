package arq

// ackFiller pads acknowledgment payloads; they carry no data.
const ackFiller = '0'

// ReceiverCounters tracks receiver activity across a session.
type ReceiverCounters struct {
	Delivered int // payloads handed to the application
	DupAcks   int // re-acknowledgments sent for corrupted or unexpected packets
}

// ReceiverConfig configures the B side of the protocol.
type ReceiverConfig struct {
	Window int

	Net    Network
	App    Application
	Tracer Tracer
}

// Receiver is the B side of the protocol: it validates arriving data
// packets, buffers out-of-order arrivals, delivers contiguous runs to the
// application, and answers every arrival with exactly one acknowledgment.
// The role is simplex; it never originates data and arms no timer.
type Receiver struct {
	space Space

	base   int // next sequence number expected in order
	buffer []Packet
	seen   []bool

	net    Network
	app    Application
	tracer Tracer

	Counters ReceiverCounters
}

func NewReceiver(cfg ReceiverConfig) *Receiver {
	if cfg.Window < 1 {
		panic("receiver window must be positive")
	}
	if cfg.Tracer == nil {
		cfg.Tracer = NopTracer{}
	}
	space := NewSpace(cfg.Window)
	r := &Receiver{
		space:  space,
		buffer: make([]Packet, space.Size),
		seen:   make([]bool, space.Size),
		net:    cfg.Net,
		app:    cfg.App,
		tracer: cfg.Tracer,
	}
	r.Init()
	return r
}

// Init resets the window to its initial state.
func (r *Receiver) Init() {
	r.base = 0
	for i := range r.seen {
		r.seen[i] = false
	}
}

// OnPacket processes a data packet arriving from the network. Corrupted and
// unexpected packets re-acknowledge the last in-order sequence number, a
// duplicate ACK standing in for an explicit NAK.
func (r *Receiver) OnPacket(p Packet) {
	var ack int
	switch {
	case Corrupted(p):
		r.tracer.Trace(EventRecvCorrupted, p.SeqNum)
		r.Counters.DupAcks++
		ack = r.space.Prev(r.base)
	case r.space.InWindow(r.base, p.SeqNum) && !r.seen[p.SeqNum]:
		r.tracer.Trace(EventRecvNew, p.SeqNum)
		r.buffer[p.SeqNum] = p
		r.seen[p.SeqNum] = true
		ack = p.SeqNum

		// deliver the contiguous run starting at the base
		for r.seen[r.base] {
			r.tracer.Trace(EventDeliver, r.base)
			r.app.Deliver(r.buffer[r.base].Payload)
			r.Counters.Delivered++
			r.seen[r.base] = false
			r.base = r.space.Next(r.base)
		}
	default:
		r.tracer.Trace(EventRecvDuplicate, p.SeqNum)
		r.Counters.DupAcks++
		ack = r.space.Prev(r.base)
	}

	a := Packet{SeqNum: NotInUse, AckNum: ack}
	for i := range a.Payload {
		a.Payload[i] = ackFiller
	}
	a.Checksum = Checksum(a)
	r.net.Send(a)
}

// Submit exists for symmetry with the sender interface; the receiver never
// originates data.
func (r *Receiver) Submit(msg [PayloadSize]byte) bool {
	return false
}

// OnTimeout exists for symmetry with the sender interface; the receiver has
// no timer.
func (r *Receiver) OnTimeout() {}

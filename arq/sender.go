package arq

// SenderCounters tracks sender activity across a session.
type SenderCounters struct {
	Sent       int // data packets handed to the network, retransmissions excluded
	Resent     int // retransmissions of the base packet
	TotalAcks  int // uncorrupted ACK packets received, duplicates included
	NewAcks    int // ACKs that acknowledged a packet for the first time
	WindowFull int // submissions dropped because no sequence number was free
}

// SenderConfig configures the A side of the protocol.
type SenderConfig struct {
	Window int     // maximum outstanding packets
	RTT    float64 // retransmission timeout in ticks

	Net    Network
	Timer  Timer
	Tracer Tracer
}

// Sender is the A side of the protocol: it frames application messages into
// packets, tracks acknowledgments per sequence number, and retransmits the
// oldest outstanding packet when the timer fires. Entry points run to
// completion and are never invoked concurrently.
type Sender struct {
	space Space
	rtt   float64

	base    int // oldest unacknowledged sequence number
	nextSeq int // next sequence number to assign
	buffer  []Packet
	acked   []bool

	net    Network
	timer  Timer
	tracer Tracer

	Counters SenderCounters
}

func NewSender(cfg SenderConfig) *Sender {
	if cfg.Window < 1 {
		panic("sender window must be positive")
	}
	if cfg.Tracer == nil {
		cfg.Tracer = NopTracer{}
	}
	space := NewSpace(cfg.Window)
	s := &Sender{
		space:  space,
		rtt:    cfg.RTT,
		buffer: make([]Packet, space.Size),
		acked:  make([]bool, space.Size),
		net:    cfg.Net,
		timer:  cfg.Timer,
		tracer: cfg.Tracer,
	}
	s.Init()
	return s
}

// Init resets the window to its initial state.
func (s *Sender) Init() {
	s.base = 0
	s.nextSeq = 0
	for i := range s.acked {
		s.acked[i] = false
	}
}

// Outstanding returns the number of packets sent but not yet acknowledged
// past the window base.
func (s *Sender) Outstanding() int {
	return s.space.Dist(s.base, s.nextSeq)
}

// Submit frames one application message and hands it to the network. It
// reports whether the message was accepted; with the window full the message
// is dropped and the caller owns any retry.
func (s *Sender) Submit(msg [PayloadSize]byte) bool {
	if !s.space.InWindow(s.base, s.nextSeq) {
		s.Counters.WindowFull++
		s.tracer.Trace(EventWindowFull, s.nextSeq)
		return false
	}

	p := Packet{SeqNum: s.nextSeq, AckNum: NotInUse, Payload: msg}
	p.Checksum = Checksum(p)
	s.buffer[s.nextSeq] = p

	s.Counters.Sent++
	s.tracer.Trace(EventSend, p.SeqNum)
	s.net.Send(p)

	// sole outstanding packet, arm the timer for it
	if s.base == s.nextSeq {
		s.timer.Start(s.rtt)
	}
	s.nextSeq = s.space.Next(s.nextSeq)
	return true
}

// OnAck processes a packet arriving from the network as an acknowledgment.
// Acknowledgments are tracked per sequence number, but the window base only
// advances over a contiguous acknowledged run.
func (s *Sender) OnAck(p Packet) {
	if Corrupted(p) {
		s.tracer.Trace(EventAckCorrupted, p.AckNum)
		return
	}
	s.Counters.TotalAcks++

	ack := p.AckNum
	if !s.space.InWindow(s.base, ack) || s.acked[ack] {
		s.tracer.Trace(EventAckDuplicate, ack)
		return
	}
	s.Counters.NewAcks++
	s.acked[ack] = true
	s.tracer.Trace(EventAckNew, ack)

	for s.acked[s.base] {
		s.acked[s.base] = false
		s.base = s.space.Next(s.base)
	}

	s.timer.Stop()
	if s.base != s.nextSeq {
		s.timer.Start(s.rtt)
	}
}

// OnTimeout retransmits the packet at the window base, the oldest
// outstanding one, and rearms the timer. A single timer anchored at the base
// stands in for per-packet timers.
func (s *Sender) OnTimeout() {
	p := s.buffer[s.base]
	s.Counters.Resent++
	s.tracer.Trace(EventResend, p.SeqNum)
	s.net.Send(p)
	s.timer.Start(s.rtt)
}

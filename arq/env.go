package arq

// The interfaces below are the boundary between the protocol core and the
// collaborator that drives it (the event scheduler in emulate, fakes in the
// tests). The core never blocks on any of them.

// Network carries packets toward the peer endpoint. The channel behind it is
// free to drop, corrupt, delay, or duplicate what it is handed.
type Network interface {
	Send(p Packet)
}

// Application receives payloads once the receiver has restored their order.
type Application interface {
	Deliver(payload [PayloadSize]byte)
}

// Timer is the single retransmission timer of an endpoint. Start replaces
// any pending expiry; Stop with nothing pending is a no-op. The collaborator
// guarantees at most one pending expiry per endpoint.
type Timer interface {
	Start(ticks float64)
	Stop()
}

package emulate

import (
	"github.com/seqlab/srarq/arq"
)

// Events exchanged between the modules of a simulated session.

// transmit hands a packet to a link for (possibly unfaithful) carriage.
type transmit struct {
	pkt arq.Packet
}

// packetArrival delivers a packet from a link to an endpoint.
type packetArrival struct {
	pkt arq.Packet
}

// timerExpiry is an endpoint self-message. gen guards against expiries that
// were cancelled after being scheduled.
type timerExpiry struct {
	gen int
}

// appArrival is an endpoint self-message marking the arrival of the next
// application message from the workload.
type appArrival struct{}

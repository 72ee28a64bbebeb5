package emulate

import (
	"math/rand"

	"github.com/seqlab/srarq/arq"
	"github.com/seqlab/srarq/des"
)

// LinkConfig describes how unfaithful one direction of the channel is.
type LinkConfig struct {
	LossProb    float64   // probability a packet is dropped
	CorruptProb float64   // probability a delivered packet is damaged
	DupProb     float64   // probability a delivered packet is carried twice
	Delay       des.Ticks // mean one-way delay
	Jitter      des.Ticks // delay drawn uniformly from Delay±Jitter; nonzero values reorder
}

// LinkCounters tracks what the link did to the packets it carried.
type LinkCounters struct {
	Carried    int
	Lost       int
	Corrupted  int
	Duplicated int
}

// Link is one direction of the unreliable channel between the endpoints.
// Each packet is independently lost, corrupted, duplicated, or delayed.
type Link struct {
	LinkConfig

	dst des.Module
	rng *rand.Rand

	Counters LinkCounters
}

func NewLink(cfg LinkConfig, rng *rand.Rand) *Link {
	return &Link{LinkConfig: cfg, rng: rng}
}

// DeliverTo sets the endpoint at the far end of the link.
func (l *Link) DeliverTo(m des.Module) {
	l.dst = m
}

func (l *Link) HandleEvent(payload any, from des.Module, now des.Ticks) []des.Outgoing {
	t, ok := payload.(transmit)
	if !ok {
		panic("unexpected event on link")
	}
	l.Counters.Carried++
	if l.rng.Float64() < l.LossProb {
		l.Counters.Lost++
		return nil
	}
	out := []des.Outgoing{l.carry(t.pkt)}
	if l.rng.Float64() < l.DupProb {
		l.Counters.Duplicated++
		out = append(out, l.carry(t.pkt))
	}
	return out
}

func (l *Link) carry(pkt arq.Packet) des.Outgoing {
	if l.rng.Float64() < l.CorruptProb {
		l.Counters.Corrupted++
		pkt = l.damage(pkt)
	}
	return des.Outgoing{Payload: packetArrival{pkt}, To: l.dst, Delay: l.delay()}
}

// damage perturbs one spot in the packet without touching the stored
// checksum: usually the first payload byte, sometimes a header field.
func (l *Link) damage(p arq.Packet) arq.Packet {
	x := l.rng.Float64()
	switch {
	case x < 0.75:
		p.Payload[0]++
	case x < 0.875:
		p.SeqNum++
	default:
		p.AckNum++
	}
	return p
}

func (l *Link) delay() des.Ticks {
	if l.Jitter == 0 {
		return l.Delay
	}
	d := l.Delay + des.Ticks(l.rng.Float64()*2-1)*l.Jitter
	if d < 0 {
		d = 0
	}
	return d
}

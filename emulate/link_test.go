package emulate

import (
	"math/rand"
	"testing"

	"github.com/seqlab/srarq/arq"
	"github.com/seqlab/srarq/des"
)

func testPacket() arq.Packet {
	p := arq.Packet{SeqNum: 1, AckNum: arq.NotInUse}
	for i := range p.Payload {
		p.Payload[i] = 'x'
	}
	p.Checksum = arq.Checksum(p)
	return p
}

func TestLinkLoss(t *testing.T) {
	l := NewLink(LinkConfig{LossProb: 1, Delay: 5}, rand.New(rand.NewSource(1)))
	out := l.HandleEvent(transmit{testPacket()}, nil, 0)
	if len(out) != 0 {
		t.Errorf("lossy link delivered %d packets", len(out))
	}
	if l.Counters.Carried != 1 || l.Counters.Lost != 1 {
		t.Errorf("counters %+v", l.Counters)
	}
}

func TestLinkCorruptionDetectable(t *testing.T) {
	l := NewLink(LinkConfig{CorruptProb: 1, Delay: 5}, rand.New(rand.NewSource(1)))
	// all three damage spots must trip the checksum
	for i := 0; i < 100; i++ {
		out := l.HandleEvent(transmit{testPacket()}, nil, 0)
		if len(out) != 1 {
			t.Fatalf("delivered %d packets", len(out))
		}
		pkt := out[0].Payload.(packetArrival).pkt
		if !arq.Corrupted(pkt) {
			t.Fatalf("damaged packet %d passes the checksum", i)
		}
	}
	if l.Counters.Corrupted != 100 {
		t.Errorf("corrupted counter %d, want 100", l.Counters.Corrupted)
	}
}

func TestLinkDuplication(t *testing.T) {
	l := NewLink(LinkConfig{DupProb: 1, Delay: 5}, rand.New(rand.NewSource(1)))
	out := l.HandleEvent(transmit{testPacket()}, nil, 0)
	if len(out) != 2 {
		t.Fatalf("delivered %d copies, want 2", len(out))
	}
	if l.Counters.Duplicated != 1 {
		t.Errorf("duplicated counter %d, want 1", l.Counters.Duplicated)
	}
}

func TestLinkDelay(t *testing.T) {
	l := NewLink(LinkConfig{Delay: 5}, rand.New(rand.NewSource(1)))
	out := l.HandleEvent(transmit{testPacket()}, nil, 0)
	if out[0].Delay != 5 {
		t.Errorf("delay %v, want exactly 5 without jitter", out[0].Delay)
	}

	l = NewLink(LinkConfig{Delay: 5, Jitter: 2}, rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		out := l.HandleEvent(transmit{testPacket()}, nil, 0)
		d := out[0].Delay
		if d < 3 || d > 7 {
			t.Fatalf("delay %v outside 5±2", d)
		}
	}
}

func TestLinkDelivers(t *testing.T) {
	dst := &countingModule{}
	l := NewLink(LinkConfig{Delay: 5}, rand.New(rand.NewSource(1)))
	l.DeliverTo(dst)

	s := &des.Simulator{}
	s.Schedule(des.Outgoing{Payload: transmit{testPacket()}, To: l}, nil)
	s.Run()

	if dst.arrivals != 1 {
		t.Errorf("%d arrivals, want 1", dst.arrivals)
	}
	if s.Now() != 5 {
		t.Errorf("arrival at %v, want 5", s.Now())
	}
}

type countingModule struct {
	arrivals int
}

func (m *countingModule) HandleEvent(payload any, from des.Module, now des.Ticks) []des.Outgoing {
	if _, ok := payload.(packetArrival); ok {
		m.arrivals++
	}
	return nil
}

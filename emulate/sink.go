package emulate

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/dchest/siphash"

	"github.com/seqlab/srarq/arq"
	"github.com/seqlab/srarq/des"
)

// Sink is the application above the receiving endpoint. It checks that
// workload payloads arrive undamaged, at most once, and in submission order,
// and records end-to-end latency.
type Sink struct {
	nextIdx uint64
	sketch  *ddsketch.DDSketch

	Delivered int
	Err       error // first property violation observed, nil if none
}

func NewSink() *Sink {
	sketch, err := ddsketch.NewDefaultDDSketch(0.01)
	if err != nil {
		panic(err)
	}
	return &Sink{sketch: sketch}
}

// Deliver records one payload handed up by the receiver at time now.
func (s *Sink) Deliver(payload [arq.PayloadSize]byte, now des.Ticks) {
	s.Delivered++

	idx := binary.LittleEndian.Uint64(payload[0:8])
	sent := math.Float64frombits(binary.LittleEndian.Uint64(payload[8:16]))
	tag := binary.LittleEndian.Uint32(payload[16:20])

	if tag != uint32(siphash.Hash(sipK0, sipK1, payload[0:16])) {
		s.fail(fmt.Errorf("payload %d damaged in transit", idx))
		return
	}
	// strictly increasing indices: a repeat or an overtake both violate it
	// (window-full drops leave gaps, which are fine)
	if idx < s.nextIdx {
		s.fail(fmt.Errorf("payload %d delivered out of order or more than once", idx))
		return
	}
	s.nextIdx = idx + 1
	s.sketch.Add(float64(now) - sent)
}

// Quantiles returns latency values in ticks at the given quantiles.
func (s *Sink) Quantiles(qs []float64) []float64 {
	res := make([]float64, len(qs))
	for i, q := range qs {
		v, err := s.sketch.GetValueAtQuantile(q)
		if err == nil {
			res[i] = v
		}
	}
	return res
}

func (s *Sink) fail(err error) {
	if s.Err == nil {
		s.Err = err
	}
}

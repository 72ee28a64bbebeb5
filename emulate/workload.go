package emulate

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/dchest/siphash"

	"github.com/seqlab/srarq/arq"
	"github.com/seqlab/srarq/des"
)

const (
	sipK0 = 567
	sipK1 = 890
)

// Workload produces the fixed-size messages submitted at the sending
// endpoint, arriving as a Poisson process. Each payload embeds the message
// index, the submission time, and a siphash tag over both, so the sink can
// verify ordering and end-to-end integrity and measure latency.
type Workload struct {
	rng       *rand.Rand
	interval  float64 // mean ticks between arrivals
	remaining int
	next      uint64
}

func NewWorkload(n int, meanInterval float64, rng *rand.Rand) *Workload {
	return &Workload{rng: rng, interval: meanInterval, remaining: n}
}

// NextArrival draws the time until the next message arrival, or reports that
// the workload is exhausted.
func (w *Workload) NextArrival() (des.Ticks, bool) {
	if w.remaining == 0 {
		return 0, false
	}
	w.remaining--
	return des.Ticks(w.rng.ExpFloat64() * w.interval), true
}

// Message builds the payload of the message arriving at time now.
func (w *Workload) Message(now des.Ticks) [arq.PayloadSize]byte {
	var m [arq.PayloadSize]byte
	binary.LittleEndian.PutUint64(m[0:8], w.next)
	binary.LittleEndian.PutUint64(m[8:16], math.Float64bits(float64(now)))
	binary.LittleEndian.PutUint32(m[16:20], uint32(siphash.Hash(sipK0, sipK1, m[0:16])))
	w.next++
	return m
}

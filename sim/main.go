package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/seqlab/srarq/arq"
	"github.com/seqlab/srarq/des"
	"github.com/seqlab/srarq/emulate"
)

var L = log.New(os.Stderr, "", 0)

type runResult struct {
	accepted  int
	dropped   int
	delivered int
	sent      int
	resent    int
	newAcks   int
	dupAcks   int
	lost      int
	corrupted int
	latP50    float64
	latP95    float64
	finished  float64 // simulated ticks at the end of the run
	err       error
}

func runOne(cfg Config, seed int64) runResult {
	rng := rand.New(rand.NewSource(seed))
	s := &des.Simulator{}

	var tracer arq.Tracer = arq.NopTracer{}
	if cfg.Verbosity > 0 {
		tracer = arq.LogTracer{L: L, Level: cfg.Verbosity}
	}

	sink := emulate.NewSink()
	workload := emulate.NewWorkload(cfg.Messages, cfg.MeanInterval, rng)
	a := emulate.NewSenderEndpoint(cfg.Window, cfg.RTT, workload, tracer)
	b := emulate.NewReceiverEndpoint(cfg.Window, sink, tracer)

	linkCfg := emulate.LinkConfig{
		LossProb:    cfg.Loss,
		CorruptProb: cfg.Corrupt,
		DupProb:     cfg.Dup,
		Delay:       des.Ticks(cfg.Delay),
		Jitter:      des.Ticks(cfg.Jitter),
	}
	forward := emulate.NewLink(linkCfg, rng)
	forward.DeliverTo(b)
	backward := emulate.NewLink(linkCfg, rng)
	backward.DeliverTo(a)
	a.Connect(forward)
	b.Connect(backward)

	a.Start(s)
	if cfg.MaxTicks > 0 {
		s.RunUntil(des.Ticks(cfg.MaxTicks))
	} else {
		s.Run()
	}

	q := sink.Quantiles([]float64{0.50, 0.95})
	res := runResult{
		accepted:  a.Accepted,
		dropped:   a.Dropped,
		delivered: sink.Delivered,
		sent:      a.Sender().Counters.Sent,
		resent:    a.Sender().Counters.Resent,
		newAcks:   a.Sender().Counters.NewAcks,
		dupAcks:   b.Receiver().Counters.DupAcks,
		lost:      forward.Counters.Lost + backward.Counters.Lost,
		corrupted: forward.Counters.Corrupted + backward.Counters.Corrupted,
		latP50:    q[0],
		latP95:    q[1],
		finished:  float64(s.Now()),
		err:       sink.Err,
	}
	if res.err == nil && cfg.MaxTicks == 0 && res.delivered != res.accepted {
		res.err = fmt.Errorf("%d accepted messages but %d delivered", res.accepted, res.delivered)
	}
	return res
}

func main() {
	flag.Parse()
	cfg, err := loadConfig()
	if err != nil {
		L.Fatalln("reading config:", err)
	}
	if cfg.Window < 1 || cfg.Runs < 1 || cfg.Messages < 1 {
		L.Fatalln("window, runs, and message count must be positive")
	}

	results := make([]runResult, 0, cfg.Runs)
	for r := 0; r < cfg.Runs; r++ {
		res := runOne(cfg, cfg.Seed+int64(r))
		if res.err != nil {
			L.Fatalf("run %d: protocol violation: %v", r, res.err)
		}
		L.Printf("run %d: %d/%d delivered in %.1f ticks, %d sent, %d resent, %d new ACKs, %d dup ACKs",
			r, res.delivered, res.accepted+res.dropped, res.finished, res.sent, res.resent, res.newAcks, res.dupAcks)
		results = append(results, res)
	}

	fmt.Println("# moments: mean, stddev, p5, p25, p50, p75, p95")
	fmt.Println("# delivered", collectMoments(results, func(r runResult) float64 {
		return float64(r.delivered)
	}))
	fmt.Println("# window full drops", collectMoments(results, func(r runResult) float64 {
		return float64(r.dropped)
	}))
	fmt.Println("# retransmissions per delivery", collectMoments(results, resendRatio))
	fmt.Println("# duplicate ACKs", collectMoments(results, func(r runResult) float64 {
		return float64(r.dupAcks)
	}))
	fmt.Println("# packets lost", collectMoments(results, func(r runResult) float64 {
		return float64(r.lost)
	}))
	fmt.Println("# packets corrupted", collectMoments(results, func(r runResult) float64 {
		return float64(r.corrupted)
	}))
	fmt.Println("# latency p50", collectMoments(results, func(r runResult) float64 {
		return r.latP50
	}))
	fmt.Println("# latency p95", collectMoments(results, func(r runResult) float64 {
		return r.latP95
	}))
	fmt.Println("# completion ticks", collectMoments(results, func(r runResult) float64 {
		return r.finished
	}))
}

// resendRatio is retransmissions per delivered message. Duration-capped
// runs can end before anything is delivered; report zero overhead rather
// than dividing by zero.
func resendRatio(r runResult) float64 {
	if r.delivered == 0 {
		return 0
	}
	return float64(r.resent) / float64(r.delivered)
}

func collectMoments(results []runResult, metric func(r runResult) float64) []float64 {
	s := stats.Sample{}
	for _, r := range results {
		s.Xs = append(s.Xs, metric(r))
	}
	sort.Float64s(s.Xs)
	s.Sorted = true

	res := []float64{}
	res = append(res, s.Mean())
	res = append(res, s.StdDev())
	res = append(res, s.Quantile(0.05))
	res = append(res, s.Quantile(0.25))
	res = append(res, s.Quantile(0.50))
	res = append(res, s.Quantile(0.75))
	res = append(res, s.Quantile(0.95))
	return res
}

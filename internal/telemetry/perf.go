// Package telemetry tracks simulation tick timings over a rolling window.
package telemetry

import (
	"log"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// PerfCollector records per-tick durations in a fixed-size ring. Overruns
// past the budget are logged as they happen; aggregate stats are pulled
// periodically by the server loop.
type PerfCollector struct {
	budget time.Duration

	samples []float64 // milliseconds
	write   int
	count   int

	tickStart time.Time
	overruns  int64
}

// NewPerfCollector sizes the window and sets the per-tick budget.
func NewPerfCollector(windowSize int, budget time.Duration) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{
		budget:  budget,
		samples: make([]float64, windowSize),
	}
}

// StartTick marks the beginning of a simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
}

// EndTick records the elapsed tick time and logs it when it blew the budget.
func (p *PerfCollector) EndTick() {
	d := time.Since(p.tickStart)

	p.samples[p.write] = float64(d.Microseconds()) / 1000
	p.write = (p.write + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}

	if p.budget > 0 && d > p.budget {
		p.overruns++
		log.Printf("tick overrun: %v (budget %v)", d, p.budget)
	}
}

// Overruns returns how many ticks have exceeded the budget since start.
func (p *PerfCollector) Overruns() int64 { return p.overruns }

// PerfStats holds aggregate timings in milliseconds over the window.
type PerfStats struct {
	Mean float64
	P50  float64
	P99  float64
	Max  float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.count == 0 {
		return PerfStats{}
	}

	window := make([]float64, p.count)
	copy(window, p.samples[:p.count])
	sort.Float64s(window)

	return PerfStats{
		Mean: stat.Mean(window, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, window, nil),
		P99:  stat.Quantile(0.99, stat.Empirical, window, nil),
		Max:  window[len(window)-1],
	}
}

// LogStats writes one summary line for the current window.
func (p *PerfCollector) LogStats() {
	s := p.Stats()
	log.Printf("tick perf: mean=%.2fms p50=%.2fms p99=%.2fms max=%.2fms overruns=%d",
		s.Mean, s.P50, s.P99, s.Max, p.overruns)
}

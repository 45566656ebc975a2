package motor

import (
	"context"
	"time"

	"github.com/banshee-data/motor.report/internal/metrics"
	"github.com/banshee-data/motor.report/internal/monitoring"
)

// RecordSink receives the consolidated per-cycle record. It is called at most
// once per drain cycle, from the coordinator goroutine.
type RecordSink func(Record)

// StreamingCoordinator owns the whole processing chain. A producer enqueues
// samples without blocking; the coordinator drains the queue on a fixed
// period and performs all buffer mutation, filtering, and scoring on its own
// goroutine, so the pipeline state needs no locking.
type StreamingCoordinator struct {
	cfg  Config
	sink RecordSink

	ingress chan Sample

	buffer  *SampleBuffer
	filters *FilterCascade
	scorer  *FaultScorer
	vib     *VibrationMonitor
	temp    *TemperatureMonitor

	// Fallback EMA state per Park channel; persists independently of the
	// filter cascade so it is ready whenever a cycle degrades.
	fallbackD *EMA
	fallbackQ *EMA

	// resetPending forces a filter state reset on the next full-chain cycle
	// after numerical instability.
	resetPending bool

	fallbackLog *monitoring.Occurrence
	overflowLog *monitoring.Occurrence
	dropLog     *monitoring.Occurrence
}

// NewStreamingCoordinator builds the pipeline for the given configuration.
// The sink may be nil, in which case records are computed but discarded.
func NewStreamingCoordinator(cfg Config, sink RecordSink) (*StreamingCoordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filters, err := NewFilterCascade(cfg)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = func(Record) {}
	}
	return &StreamingCoordinator{
		cfg:         cfg,
		sink:        sink,
		ingress:     make(chan Sample, cfg.QueueSize),
		buffer:      NewSampleBuffer(cfg.WindowSize, cfg.AuxWindowSize),
		filters:     filters,
		scorer:      NewFaultScorer(cfg),
		vib:         NewVibrationMonitor(cfg),
		temp:        NewTemperatureMonitor(cfg),
		fallbackD:   NewEMA(cfg.Alpha),
		fallbackQ:   NewEMA(cfg.Alpha),
		fallbackLog: monitoring.NewOccurrence(cfg.LogEvery),
		overflowLog: monitoring.NewOccurrence(cfg.LogEvery),
		dropLog:     monitoring.NewOccurrence(cfg.LogEvery),
	}, nil
}

// Enqueue offers a sample to the pipeline without blocking. It returns false
// when the queue is full and the sample was dropped; losing one sample is
// preferable to blocking the producer.
func (c *StreamingCoordinator) Enqueue(s Sample) bool {
	select {
	case c.ingress <- s:
		metrics.SamplesReceived.Inc()
		return true
	default:
		metrics.SamplesDropped.Inc()
		c.dropLog.Logf("motor: ingress queue full, sample dropped")
		return false
	}
}

// Run drives the drain loop until the context is cancelled. On stop,
// in-flight state is discarded without flushing partial cycles.
func (c *StreamingCoordinator) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.DrainPeriod)
	defer ticker.Stop()

	monitoring.Logf("motor: coordinator started (drain period %v, window %d)", c.cfg.DrainPeriod, c.cfg.WindowSize)
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("motor: coordinator stopping")
			return nil
		case <-ticker.C:
			c.runCycle(time.Now())
		}
	}
}

// runCycle performs one drain-and-process cycle. Exported indirectly through
// Run; split out so tests can drive cycles deterministically.
func (c *StreamingCoordinator) runCycle(now time.Time) {
	metrics.QueueDepth.Set(float64(len(c.ingress)))

	drained := c.drain()
	if len(drained) == 0 {
		return
	}

	overflow := false
	if len(drained) > c.cfg.OverflowCap {
		// Prefer freshness over completeness: this cycle reflects only the
		// newest sample.
		drained = drained[len(drained)-1:]
		overflow = true
		metrics.QueueOverflows.Inc()
		c.overflowLog.Logf("motor: queue overflow, kept newest sample only")
	}

	var rawD, rawQ float64
	var last Sample
	for _, s := range drained {
		ia, ib, ic := c.buffer.Push(s)
		rawD, rawQ = ParkVector(ia, ib, ic)
		c.vib.Observe(s.Ax, s.Ay, s.Az)
		c.temp.Observe(s.Temp)
		last = s
	}

	filteredD, filteredQ, score, fellBack := c.process(rawD, rawQ)

	class := c.scorer.Classify(score)

	var warnings []Warning
	if w, ok := c.vib.Evaluate(now); ok {
		warnings = append(warnings, w)
	}
	if w, ok := c.temp.Evaluate(now); ok {
		warnings = append(warnings, w)
	}

	metrics.Cycles.Inc()
	metrics.FaultScore.Set(score)
	metrics.WarningsActive.Set(float64(len(warnings)))

	c.sink(Record{
		Time: last.Time,
		Ax:   last.Ax, Ay: last.Ay, Az: last.Az,
		Temp: last.Temp,
		Ia:   last.Ia, Ib: last.Ib, Ic: last.Ic,
		RawID: rawD, RawIQ: rawQ,
		FilteredID:     filteredD,
		FilteredIQ:     filteredQ,
		Score:          score,
		Classification: class,
		Warnings:       warnings,
		Fallback:       fellBack,
		Overflow:       overflow,
	})
}

// drain empties the samples queued at cycle start, preserving arrival order.
func (c *StreamingCoordinator) drain() []Sample {
	n := len(c.ingress)
	if n == 0 {
		return nil
	}
	out := make([]Sample, 0, n)
	for len(out) < n {
		select {
		case s := <-c.ingress:
			out = append(out, s)
		default:
			return out
		}
	}
	return out
}

// process runs the full chain against the current window, or the EMA
// fallback when the window is degenerate or a stage fails. The returned score
// is computed from the scaled trajectory whenever the window is usable.
func (c *StreamingCoordinator) process(rawD, rawQ float64) (filteredD, filteredQ, score float64, fellBack bool) {
	if c.buffer.Len() < c.cfg.MinSamples {
		d, q := c.fallback(rawD, rawQ, "short_window")
		return d, q, c.scorer.LastScore(), true
	}

	ia, ib, ic := c.buffer.SnapshotCurrents()
	id, iq := ParkTransform(ia, ib, ic)
	idScaled, iqScaled := ScaleTrajectory(id, iq)
	score = Score(idScaled, iqScaled)

	f0 := c.cfg.F0Detected
	if f0 <= 0 {
		f0 = EstimateFundamental(idScaled, c.cfg.SampleRate)
	}

	idRes, err := ResampleOrderDomain(idScaled, c.cfg.SampleRate, f0, c.cfg.FSTarget, c.cfg.F0Target)
	if err != nil {
		d, q := c.fallback(rawD, rawQ, "degenerate_window")
		return d, q, score, true
	}
	iqRes, err := ResampleOrderDomain(iqScaled, c.cfg.SampleRate, f0, c.cfg.FSTarget, c.cfg.F0Target)
	if err != nil {
		d, q := c.fallback(rawD, rawQ, "degenerate_window")
		return d, q, score, true
	}

	if c.resetPending {
		c.filters.Reset()
		c.resetPending = false
		metrics.FilterResets.Inc()
	}

	fd, fq, err := c.filters.Apply(idRes, iqRes)
	if err != nil {
		c.resetPending = true
		d, q := c.fallback(rawD, rawQ, "filter_unstable")
		return d, q, score, true
	}

	return fd[len(fd)-1], fq[len(fq)-1], score, false
}

// fallback updates the EMA state with the unscaled raw Park vector and
// returns it as this cycle's filtered output.
func (c *StreamingCoordinator) fallback(rawD, rawQ float64, reason string) (d, q float64) {
	metrics.FallbackCycles.WithLabelValues(reason).Inc()
	c.fallbackLog.Logf("motor: cycle degraded to EMA fallback: %s", reason)
	return c.fallbackD.Update(rawD), c.fallbackQ.Update(rawQ)
}

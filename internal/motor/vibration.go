package motor

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// vibration monitor states
const (
	vibIdle       = iota // waiting for run detection
	vibLearning          // motor running, learning baseline
	vibMonitoring        // baseline established, evaluating RMS
)

// BaselineStats is the learned healthy vibration reference: mean and standard
// deviation of total acceleration magnitude while the motor runs.
type BaselineStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// VibrationMonitor watches total acceleration magnitude. Once the magnitude
// stays above the run threshold for enough consecutive samples the motor is
// considered running and a baseline is learned; afterwards a sliding-window
// RMS is compared against mean + k*std each evaluation. Three consecutive
// high evaluations raise the warning; twenty consecutive near-zero
// evaluations invalidate the baseline (motor presumed stopped).
type VibrationMonitor struct {
	runThreshold float64
	runCount     int
	learnCount   int
	k            float64

	state     int
	runStreak int

	learnBuf []float64
	baseline BaselineStats

	window *ring

	highStreak int
	lowStreak  int
	active     bool
	since      time.Time
}

const (
	vibWarnStreak  = 3  // consecutive high evaluations to raise
	vibClearStreak = 20 // consecutive low evaluations to relearn
)

// NewVibrationMonitor creates a monitor in the idle (not running) state.
func NewVibrationMonitor(cfg Config) *VibrationMonitor {
	return &VibrationMonitor{
		runThreshold: cfg.RunThreshold,
		runCount:     cfg.RunCount,
		learnCount:   cfg.BaselineSamples,
		k:            cfg.VibrationK,
		learnBuf:     make([]float64, 0, cfg.BaselineSamples),
		window:       newRing(cfg.VibrationWindow),
	}
}

// Observe folds in one acceleration sample.
func (m *VibrationMonitor) Observe(ax, ay, az float64) {
	mag := math.Sqrt(ax*ax + ay*ay + az*az)

	switch m.state {
	case vibIdle:
		if mag > m.runThreshold {
			m.runStreak++
			if m.runStreak >= m.runCount {
				m.state = vibLearning
				m.learnBuf = m.learnBuf[:0]
			}
		} else {
			m.runStreak = 0
		}
	case vibLearning:
		m.learnBuf = append(m.learnBuf, mag)
		if len(m.learnBuf) >= m.learnCount {
			mean, std := stat.MeanStdDev(m.learnBuf, nil)
			m.baseline = BaselineStats{Mean: mean, Std: std}
			m.state = vibMonitoring
		}
	case vibMonitoring:
		m.window.push(mag)
	}
}

// Evaluate runs one warning evaluation (called once per drain cycle) and
// returns the active warning, if any.
func (m *VibrationMonitor) Evaluate(now time.Time) (Warning, bool) {
	if m.state != vibMonitoring || m.window.len() == 0 {
		return Warning{}, false
	}

	vals := m.window.snapshot(make([]float64, 0, m.window.len()))
	sumSq := 0.0
	for _, v := range vals {
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(len(vals)))

	if rms > m.baseline.Mean+m.k*m.baseline.Std {
		m.highStreak++
	} else {
		m.highStreak = 0
		m.active = false
	}
	if m.highStreak >= vibWarnStreak && !m.active {
		m.active = true
		m.since = now
	}

	// Motor presumed stopped: relearn the baseline from scratch.
	if rms < m.runThreshold/2 {
		m.lowStreak++
		if m.lowStreak >= vibClearStreak {
			m.reset()
			return Warning{}, false
		}
	} else {
		m.lowStreak = 0
	}

	if m.active {
		return Warning{Message: "vibration above learned baseline", Since: m.since}, true
	}
	return Warning{}, false
}

// Baseline returns the learned baseline and whether one is currently valid.
func (m *VibrationMonitor) Baseline() (BaselineStats, bool) {
	return m.baseline, m.state == vibMonitoring
}

func (m *VibrationMonitor) reset() {
	m.state = vibIdle
	m.runStreak = 0
	m.highStreak = 0
	m.lowStreak = 0
	m.active = false
	m.baseline = BaselineStats{}
	m.window = newRing(len(m.window.values))
}

// TemperatureMonitor raises a warning when temperature exceeds the ambient
// reference plus a configured delta, clearing only after it drops back below
// the hysteresis band.
type TemperatureMonitor struct {
	high   float64
	low    float64
	latest float64
	active bool
	since  time.Time
}

// NewTemperatureMonitor creates a monitor around the configured ambient
// reference.
func NewTemperatureMonitor(cfg Config) *TemperatureMonitor {
	return &TemperatureMonitor{
		high: cfg.AmbientTemp + cfg.TempDelta,
		low:  cfg.AmbientTemp + cfg.TempDelta - cfg.TempHysteresis,
	}
}

// Observe records the latest temperature sample.
func (m *TemperatureMonitor) Observe(temp float64) { m.latest = temp }

// Evaluate returns the active over-temperature warning, if any.
func (m *TemperatureMonitor) Evaluate(now time.Time) (Warning, bool) {
	if !m.active && m.latest > m.high {
		m.active = true
		m.since = now
	} else if m.active && m.latest < m.low {
		m.active = false
	}
	if m.active {
		return Warning{Message: "temperature above threshold", Since: m.since}, true
	}
	return Warning{}, false
}

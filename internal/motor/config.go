package motor

import (
	"fmt"
	"time"
)

// Config holds the fixed pipeline parameters. All values are set at
// construction; the pipeline never re-reads configuration while running.
type Config struct {
	// FSTarget is the order-domain target sample rate (Hz) the filters are
	// designed for.
	FSTarget float64
	// F0Target is the target fundamental frequency (Hz) on the order grid.
	F0Target float64
	// SampleRate is the effective rate (Hz) of the incoming sample stream,
	// used as fs_original for order-domain resampling.
	SampleRate float64
	// F0Detected is the assumed fundamental frequency (Hz) of the motor
	// supply. Zero means estimate it per window via FFT peak detection.
	F0Detected float64

	// WindowSize is the per-channel current ring buffer capacity.
	WindowSize int
	// AuxWindowSize is the acceleration/temperature history capacity.
	AuxWindowSize int
	// MinSamples is the minimum window fill before the full chain runs.
	MinSamples int

	// QueueSize is the ingress channel capacity.
	QueueSize int
	// OverflowCap is the per-cycle drain limit; when exceeded, only the
	// newest sample of the cycle is kept.
	OverflowCap int
	// DrainPeriod is the consumer tick interval.
	DrainPeriod time.Duration

	// Alpha is the EMA coefficient for the fallback path.
	Alpha float64

	// Low-pass design: order, passband ripple (dB), stopband attenuation
	// (dB), and cutoff (Hz) at FSTarget.
	FilterOrder      int
	PassbandRippleDB float64
	StopbandAttenDB  float64
	CutoffHz         float64
	// NotchQ is the quality factor of the line-frequency notch at F0Target.
	NotchQ float64

	// Classification thresholds with hysteresis: enter thresholds move the
	// state up, exit thresholds (slightly lower) move it back down.
	WarnEnter  float64
	WarnExit   float64
	FaultEnter float64
	FaultExit  float64
	// OutlierRadius flags individual trajectory points whose modulus
	// exceeds it.
	OutlierRadius float64

	// Vibration track: run detection threshold (g) and consecutive sample
	// count, baseline learning length, sensitivity multiplier k, and the
	// sliding RMS window length.
	RunThreshold    float64
	RunCount        int
	BaselineSamples int
	VibrationK      float64
	VibrationWindow int

	// Temperature track: ambient reference (C), warning delta above it,
	// and the hysteresis band for clearing.
	AmbientTemp    float64
	TempDelta      float64
	TempHysteresis float64

	// LogEvery rate-limits fallback and overflow log lines to every Nth
	// occurrence.
	LogEvery int
}

// DefaultConfig returns the nominal operating point: 3600 Hz order-domain
// rate, 60 Hz fundamental, 430 Hz elliptic low-pass, Q=1 notch.
func DefaultConfig() Config {
	return Config{
		FSTarget:   3600,
		F0Target:   60,
		SampleRate: 1000,
		F0Detected: 0, // estimate per window

		WindowSize:    100,
		AuxWindowSize: 30,
		MinSamples:    10,

		QueueSize:   1024,
		OverflowCap: 500,
		DrainPeriod: 5 * time.Millisecond,

		Alpha: 0.2,

		FilterOrder:      5,
		PassbandRippleDB: 40,
		StopbandAttenDB:  84,
		CutoffHz:         430,
		NotchQ:           1,

		WarnEnter:  0.05,
		WarnExit:   0.04,
		FaultEnter: 0.5,
		FaultExit:  0.4,

		OutlierRadius: 1.2,

		RunThreshold:    1.15,
		RunCount:        25,
		BaselineSamples: 100,
		VibrationK:      2.0,
		VibrationWindow: 50,

		AmbientTemp:    25,
		TempDelta:      20,
		TempHysteresis: 2,

		LogEvery: 50,
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.FSTarget <= 0 || c.F0Target <= 0 {
		return fmt.Errorf("motor: fs_target and f0_target must be positive, got %v/%v", c.FSTarget, c.F0Target)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("motor: sample rate must be positive, got %v", c.SampleRate)
	}
	if c.WindowSize < 2 {
		return fmt.Errorf("motor: window size must be at least 2, got %d", c.WindowSize)
	}
	if c.MinSamples < 2 || c.MinSamples > c.WindowSize {
		return fmt.Errorf("motor: min samples must be in [2, window size], got %d", c.MinSamples)
	}
	if c.QueueSize < 1 || c.OverflowCap < 1 {
		return fmt.Errorf("motor: queue size and overflow cap must be positive")
	}
	if c.DrainPeriod <= 0 {
		return fmt.Errorf("motor: drain period must be positive, got %v", c.DrainPeriod)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("motor: EMA alpha must be in (0, 1], got %v", c.Alpha)
	}
	if c.CutoffHz <= 0 || c.CutoffHz >= c.FSTarget/2 {
		return fmt.Errorf("motor: cutoff must be in (0, fs_target/2), got %v", c.CutoffHz)
	}
	if c.F0Target >= c.FSTarget/2 {
		return fmt.Errorf("motor: notch frequency %v above Nyquist for fs_target %v", c.F0Target, c.FSTarget)
	}
	if c.WarnExit > c.WarnEnter || c.FaultExit > c.FaultEnter || c.WarnEnter > c.FaultEnter {
		return fmt.Errorf("motor: classification thresholds must be ordered")
	}
	return nil
}

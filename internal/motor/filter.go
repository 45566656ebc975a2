package motor

import (
	"errors"
	"math"
)

// ErrFilterUnstable reports NaN/Inf in a filter delay line. The cycle's
// output is unusable; the caller must fall back and reset state before the
// next full-chain cycle.
var ErrFilterUnstable = errors.New("motor: filter state unstable")

// biquad is one second-order section in direct form II transposed with its
// own delay line.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (s *biquad) process(x float64) float64 {
	y := s.b0*x + s.z1
	s.z1 = s.b1*x - s.a1*y + s.z2
	s.z2 = s.b2*x - s.a2*y
	return y
}

// chain is a cascade of sections sharing one logical channel's state.
type chain struct {
	sections []biquad
}

func newChain(secs []sos) *chain {
	c := &chain{sections: make([]biquad, len(secs))}
	for i, s := range secs {
		a0 := s[3]
		if a0 == 0 {
			a0 = 1
		}
		c.sections[i] = biquad{
			b0: s[0] / a0, b1: s[1] / a0, b2: s[2] / a0,
			a1: s[4] / a0, a2: s[5] / a0,
		}
	}
	return c
}

func (c *chain) process(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		for j := range c.sections {
			x = c.sections[j].process(x)
		}
		out[i] = x
	}
	return out
}

func (c *chain) reset() {
	for i := range c.sections {
		c.sections[i].z1 = 0
		c.sections[i].z2 = 0
	}
}

func (c *chain) healthy() bool {
	for i := range c.sections {
		z1, z2 := c.sections[i].z1, c.sections[i].z2
		if math.IsNaN(z1) || math.IsInf(z1, 0) || math.IsNaN(z2) || math.IsInf(z2, 0) {
			return false
		}
	}
	return true
}

// FilterCascade applies the fixed two-stage filter (elliptic low-pass then
// line-frequency notch) to the d and q channels. Coefficients are computed
// once at construction; each channel carries persistent delay-line state so
// successive windows remain continuous across call boundaries.
type FilterCascade struct {
	d, q *chain
}

// NewFilterCascade designs the cascade for the given order-domain operating
// point.
func NewFilterCascade(cfg Config) (*FilterCascade, error) {
	lowpass, err := ellipticLowpassSOS(cfg.FilterOrder, cfg.PassbandRippleDB, cfg.StopbandAttenDB, cfg.CutoffHz, cfg.FSTarget)
	if err != nil {
		return nil, err
	}
	secs := append(lowpass, notchSOS(cfg.F0Target, cfg.NotchQ, cfg.FSTarget))
	return &FilterCascade{d: newChain(secs), q: newChain(secs)}, nil
}

// Apply runs both channels through the cascade and returns filtered slices of
// the same length. On numerical instability it returns ErrFilterUnstable; the
// delay lines must then be Reset before the next full-chain cycle.
func (f *FilterCascade) Apply(id, iq []float64) (fd, fq []float64, err error) {
	fd = f.d.process(id)
	fq = f.q.process(iq)
	if !f.d.healthy() || !f.q.healthy() {
		return nil, nil, ErrFilterUnstable
	}
	return fd, fq, nil
}

// Reset zeroes all delay lines on both channels.
func (f *FilterCascade) Reset() {
	f.d.reset()
	f.q.reset()
}

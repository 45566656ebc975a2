package motor

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrDegenerateWindow reports a window that cannot be resampled: an invalid
// fundamental estimate, fewer than two samples, or a target length below two.
// Callers recover by switching to the EMA fallback for the cycle.
var ErrDegenerateWindow = errors.New("motor: degenerate window")

// ResampleOrderDomain maps a window sampled at fsOriginal onto the fixed
// order grid defined by fsTarget/f0Target, so the filter cascade designed for
// the nominal operating point stays valid as motor speed varies.
//
// The window spans T = N*f0/fs fundamental periods; the output length is
// S = round(fsTarget*T/f0Target) points linearly interpolated over the
// window's own [0,1] index domain.
func ResampleOrderDomain(values []float64, fsOriginal, f0Detected, fsTarget, f0Target float64) ([]float64, error) {
	n := len(values)
	if f0Detected <= 0 || n < 2 {
		return nil, ErrDegenerateWindow
	}
	periods := float64(n) * f0Detected / fsOriginal
	target := fsTarget * periods / f0Target
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, ErrDegenerateWindow
	}
	s := int(math.Round(target))
	if s < 2 {
		return nil, ErrDegenerateWindow
	}

	out := make([]float64, s)
	// Source and target index domains are both [0,1], so interpolation never
	// needs to extrapolate.
	scale := float64(n-1) / float64(s-1)
	for i := range out {
		pos := float64(i) * scale
		lo := int(pos)
		if lo >= n-1 {
			out[i] = values[n-1]
			continue
		}
		frac := pos - float64(lo)
		out[i] = values[lo] + frac*(values[lo+1]-values[lo])
	}
	return out, nil
}

// EstimateFundamental estimates the fundamental frequency (Hz) of a windowed
// signal by FFT peak detection, applying a Hann window to reduce spectral
// leakage and skipping the DC bin. Returns 0 when no peak can be found; the
// caller treats that as a degenerate window.
func EstimateFundamental(values []float64, fsOriginal float64) float64 {
	n := len(values)
	if n < 4 || fsOriginal <= 0 {
		return 0
	}

	windowed := make([]float64, n)
	for i, v := range values {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = v * w
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	peak := 0
	peakMag := 0.0
	for i := 1; i < len(coeffs); i++ {
		if mag := cmplx.Abs(coeffs[i]); mag > peakMag {
			peakMag = mag
			peak = i
		}
	}
	if peak == 0 || peakMag == 0 {
		return 0
	}
	return fft.Freq(peak) * fsOriginal
}

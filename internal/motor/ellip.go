package motor

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Elliptic low-pass design after Orfanidis' lecture notes on elliptic filter
// design: solve the degree equation for the elliptic modulus, place analog
// zeros/poles with Jacobi cd/sn functions (Landen recursions), then map to
// digital second-order sections with the bilinear transform.

const landenTol = 1e-14

// sos is one second-order section as [b0 b1 b2 a0 a1 a2].
type sos [6]float64

// landen returns the descending Landen sequence of moduli for k.
func landen(k float64) []float64 {
	var v []float64
	for k > landenTol && len(v) < 32 {
		kp := math.Sqrt(1 - k*k)
		k = (k / (1 + kp)) * (k / (1 + kp))
		v = append(v, k)
	}
	return v
}

// cde evaluates cd(u*K(k), k) for normalized argument u.
func cde(u complex128, k float64) complex128 {
	v := landen(k)
	w := cmplx.Cos(u * complex(math.Pi/2, 0))
	for n := len(v) - 1; n >= 0; n-- {
		vn := complex(v[n], 0)
		w = (1 + vn) * w / (1 + vn*w*w)
	}
	return w
}

// sne evaluates sn(u*K(k), k) for normalized argument u.
func sne(u complex128, k float64) complex128 {
	v := landen(k)
	w := cmplx.Sin(u * complex(math.Pi/2, 0))
	for n := len(v) - 1; n >= 0; n-- {
		vn := complex(v[n], 0)
		w = (1 + vn) * w / (1 + vn*w*w)
	}
	return w
}

// asne inverts sne: returns u such that sn(u*K(k), k) = w.
func asne(w complex128, k float64) complex128 {
	v := landen(k)
	v1 := k
	for n := 0; n < len(v); n++ {
		if n > 0 {
			v1 = v[n-1]
		}
		w = 2 * w / (complex(1+v[n], 0) * (1 + cmplx.Sqrt(1-w*w*complex(v1*v1, 0))))
	}
	return complex(2/math.Pi, 0) * cmplx.Asin(w)
}

// ellipdeg solves the degree equation for the modulus k given the filter
// order and the ripple modulus k1.
func ellipdeg(order int, k1 float64) float64 {
	half := order / 2
	kc := math.Sqrt(1 - k1*k1)
	prod := 1.0
	for i := 1; i <= half; i++ {
		ui := float64(2*i-1) / float64(order)
		prod *= real(sne(complex(ui, 0), kc))
	}
	kp := math.Pow(kc, float64(order)) * math.Pow(prod, 4)
	return math.Sqrt(1 - kp*kp)
}

// ellipticLowpassSOS designs an order-N elliptic low-pass for the given
// passband ripple (dB), stopband attenuation (dB), cutoff (Hz) and sample
// rate (Hz), returned as second-order sections normalized to a0 = 1.
func ellipticLowpassSOS(order int, rippleDB, attenDB, cutoff, fs float64) ([]sos, error) {
	if order < 1 {
		return nil, fmt.Errorf("motor: filter order must be positive, got %d", order)
	}
	if cutoff <= 0 || cutoff >= fs/2 {
		return nil, fmt.Errorf("motor: cutoff %v Hz outside (0, %v)", cutoff, fs/2)
	}

	// Prewarped analog passband edge for a unit bilinear constant.
	wp := math.Tan(math.Pi * cutoff / fs)

	ep := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	es := math.Sqrt(math.Pow(10, attenDB/10) - 1)
	k1 := ep / es
	if k1 <= 0 || k1 >= 1 {
		return nil, fmt.Errorf("motor: stopband attenuation must exceed passband ripple")
	}
	k := ellipdeg(order, k1)
	if math.IsNaN(k) || k <= 0 || k >= 1 {
		return nil, fmt.Errorf("motor: elliptic degree equation failed for order %d", order)
	}

	half := order / 2
	odd := order%2 == 1
	v0 := imag(asne(complex(0, 1/ep), k1)) / float64(order)

	sections := make([]sos, 0, half+1)

	if odd {
		// Real pole from sn(j*v0*K, k); the matching zero sits at s=inf and
		// maps to z=-1 under the bilinear transform.
		pa := complex(wp, 0) * complex(0, 1) * sne(complex(0, v0), k)
		pd := (1 + pa) / (1 - pa)
		g := (1 - real(pd)) / 2 // unity DC gain
		sections = append(sections, sos{g, g, 0, 1, -real(pd), 0})
	}

	for i := 1; i <= half; i++ {
		ui := float64(2*i-1) / float64(order)

		zeta := real(cde(complex(ui, 0), k))
		za := complex(0, wp/(k*zeta))
		pa := complex(wp, 0) * complex(0, 1) * cde(complex(ui, -v0), k)

		zd := (1 + za) / (1 - za)
		pd := (1 + pa) / (1 - pa)

		b0, b1, b2 := 1.0, -2*real(zd), real(zd)*real(zd)+imag(zd)*imag(zd)
		a1, a2 := -2*real(pd), real(pd)*real(pd)+imag(pd)*imag(pd)

		// Normalize each section to unity DC gain.
		g := (1 + a1 + a2) / (b0 + b1 + b2)
		sections = append(sections, sos{g * b0, g * b1, g * b2, 1, a1, a2})
	}

	// Even-order elliptic filters have DC gain at the bottom of the
	// passband ripple; odd orders pass DC exactly.
	if !odd {
		g0 := math.Pow(10, -rippleDB/20)
		for j := 0; j < 3; j++ {
			sections[0][j] *= g0
		}
	}

	for _, s := range sections {
		for _, c := range s {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("motor: elliptic design produced non-finite coefficients")
			}
		}
	}
	return sections, nil
}

// notchSOS designs a second-order notch at freq with the given quality
// factor, unity gain at DC and Nyquist.
func notchSOS(freq, q, fs float64) sos {
	w0 := 2 * math.Pi * freq / fs
	beta := math.Tan(w0 / (2 * q))
	gain := 1 / (1 + beta)
	c := math.Cos(w0)
	return sos{gain, -2 * gain * c, gain, 1, -2 * gain * c, 2*gain - 1}
}

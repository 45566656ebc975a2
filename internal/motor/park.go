package motor

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	sqrt23   = math.Sqrt(2.0 / 3.0)
	invSqrt6 = 1.0 / math.Sqrt(6.0)
	invSqrt2 = 1.0 / math.Sqrt(2.0)
)

// ParkVector maps one set of three-phase currents onto the (d, q) plane:
//
//	id = sqrt(2/3)*ia - ib/sqrt(6) - ic/sqrt(6)
//	iq = ib/sqrt(2) - ic/sqrt(2)
func ParkVector(ia, ib, ic float64) (id, iq float64) {
	id = sqrt23*ia - invSqrt6*ib - invSqrt6*ic
	iq = invSqrt2*ib - invSqrt2*ic
	return id, iq
}

// ParkTransform applies the Park transform element-wise. The three input
// slices must have equal length; a mismatch is a caller contract violation.
func ParkTransform(ia, ib, ic []float64) (id, iq []float64) {
	id = make([]float64, len(ia))
	iq = make([]float64, len(ia))
	for i := range ia {
		id[i], iq[i] = ParkVector(ia[i], ib[i], ic[i])
	}
	return id, iq
}

// ScaleTrajectory normalizes a (d, q) trajectory to unit mean radius. A zero
// mean radius (no motor activity) returns the inputs unchanged; otherwise the
// returned slices are scaled copies whose mean radius is exactly 1.
func ScaleTrajectory(id, iq []float64) (idScaled, iqScaled []float64) {
	r := Modulus(id, iq)
	rMean := stat.Mean(r, nil)
	if rMean == 0 {
		return id, iq
	}
	idScaled = make([]float64, len(id))
	iqScaled = make([]float64, len(iq))
	for i := range id {
		idScaled[i] = id[i] / rMean
		iqScaled[i] = iq[i] / rMean
	}
	return idScaled, iqScaled
}

// Modulus returns the Park vector modulus sqrt(id^2+iq^2) per point.
func Modulus(id, iq []float64) []float64 {
	r := make([]float64, len(id))
	for i := range id {
		r[i] = math.Hypot(id[i], iq[i])
	}
	return r
}

package motor

import (
	"math"
	"testing"
)

func TestParkVectorBalancedInstant(t *testing.T) {
	// Balanced instant: ia at positive peak, ib and ic splitting the return.
	id, iq := ParkVector(1.0, -0.5, -0.5)

	want := math.Sqrt(1.5)
	if math.Abs(id-want) > 1e-12 {
		t.Errorf("id = %v, want %v", id, want)
	}
	if math.Abs(iq) > 1e-12 {
		t.Errorf("iq = %v, want 0", iq)
	}
}

func TestParkTransformBalancedCircle(t *testing.T) {
	// A balanced three-phase set of amplitude A traces a circle of radius
	// A*sqrt(3/2) in the (d, q) plane.
	const (
		amplitude = 2.5
		n         = 360
	)
	ia := make([]float64, n)
	ib := make([]float64, n)
	ic := make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		ia[i] = amplitude * math.Cos(theta)
		ib[i] = amplitude * math.Cos(theta-2*math.Pi/3)
		ic[i] = amplitude * math.Cos(theta+2*math.Pi/3)
	}

	id, iq := ParkTransform(ia, ib, ic)
	want := amplitude * math.Sqrt(1.5)
	for i, r := range Modulus(id, iq) {
		if math.Abs(r-want) > 1e-9 {
			t.Fatalf("point %d: modulus = %v, want %v", i, r, want)
		}
	}
}

func TestScaleTrajectoryUnitMeanRadius(t *testing.T) {
	// An off-center ellipse; mean radius after scaling must be exactly one.
	const n = 200
	id := make([]float64, n)
	iq := make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		id[i] = 3.0*math.Cos(theta) + 0.4
		iq[i] = 1.5 * math.Sin(theta)
	}

	idScaled, iqScaled := ScaleTrajectory(id, iq)
	r := Modulus(idScaled, iqScaled)
	sum := 0.0
	for _, v := range r {
		sum += v
	}
	mean := sum / float64(len(r))
	if math.Abs(mean-1.0) > 1e-12 {
		t.Errorf("mean radius after scaling = %v, want 1", mean)
	}
}

func TestScaleTrajectoryZeroRadiusNoOp(t *testing.T) {
	id := []float64{0, 0, 0}
	iq := []float64{0, 0, 0}
	idScaled, iqScaled := ScaleTrajectory(id, iq)
	for i := range idScaled {
		if idScaled[i] != 0 || iqScaled[i] != 0 {
			t.Fatalf("zero trajectory was modified at %d: (%v, %v)", i, idScaled[i], iqScaled[i])
		}
	}
}

package motor

import (
	"math"
	"testing"
)

func circle(radius float64, n int) (id, iq []float64) {
	id = make([]float64, n)
	iq = make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		id[i] = radius * math.Cos(theta)
		iq[i] = radius * math.Sin(theta)
	}
	return id, iq
}

func TestScoreUnitCircleIsZero(t *testing.T) {
	id, iq := circle(1, 100)
	if got := Score(id, iq); math.Abs(got) > 1e-12 {
		t.Errorf("score on unit circle = %v, want 0", got)
	}
}

func TestScoreRadiusTwo(t *testing.T) {
	id, iq := circle(2, 100)
	if got := Score(id, iq); math.Abs(got-1) > 1e-12 {
		t.Errorf("score on radius-2 circle = %v, want 1", got)
	}
}

func TestScoreEmptyTrajectory(t *testing.T) {
	if got := Score(nil, nil); got != 0 {
		t.Errorf("score of empty trajectory = %v, want 0", got)
	}
}

func TestCountOutliers(t *testing.T) {
	id := []float64{1.0, 1.3, 0.9, 1.21}
	iq := []float64{0, 0, 0, 0}
	if got := CountOutliers(id, iq, 1.2); got != 2 {
		t.Errorf("outliers = %d, want 2", got)
	}
}

func TestClassifyHysteresis(t *testing.T) {
	s := NewFaultScorer(DefaultConfig())

	steps := []struct {
		score float64
		want  Classification
	}{
		{0.01, ClassGood},    // well below warn
		{0.06, ClassWarning}, // crosses warn enter 0.05
		{0.045, ClassWarning}, // inside the hysteresis band, holds
		{0.03, ClassGood},    // below warn exit 0.04
		{0.6, ClassFault},    // straight to fault past 0.5
		{0.45, ClassFault},   // above fault exit 0.4, holds
		{0.3, ClassWarning},  // below fault exit, steps down
		{0.02, ClassGood},    // below warn exit
	}
	for i, step := range steps {
		if got := s.Classify(step.score); got != step.want {
			t.Fatalf("step %d (score %v): class = %s, want %s", i, step.score, got, step.want)
		}
	}
	if s.LastScore() != 0.02 {
		t.Errorf("LastScore = %v, want 0.02", s.LastScore())
	}
}

func TestClassifyStartsGood(t *testing.T) {
	s := NewFaultScorer(DefaultConfig())
	if s.State() != ClassGood {
		t.Errorf("initial state = %s, want good", s.State())
	}
}

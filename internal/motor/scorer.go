package motor

import "gonum.org/v1/gonum/stat"

// Score is the mean-squared deviation of the Park vector modulus from the
// healthy unit circle: mean((PVM-1)^2). An empty trajectory scores zero.
func Score(id, iq []float64) float64 {
	if len(id) == 0 {
		return 0
	}
	dev := make([]float64, len(id))
	for i, r := range Modulus(id, iq) {
		dev[i] = (r - 1) * (r - 1)
	}
	return stat.Mean(dev, nil)
}

// CountOutliers returns how many trajectory points have a modulus beyond the
// threshold radius.
func CountOutliers(id, iq []float64, radius float64) int {
	n := 0
	for _, r := range Modulus(id, iq) {
		if r > radius {
			n++
		}
	}
	return n
}

// FaultScorer turns scalar fault scores into a discrete classification with
// hysteresis: enter thresholds move the state towards Fault, the slightly
// lower exit thresholds move it back, so a score hovering near a boundary
// does not flap.
type FaultScorer struct {
	warnEnter  float64
	warnExit   float64
	faultEnter float64
	faultExit  float64

	state Classification
	last  float64
}

// NewFaultScorer creates a scorer in the Good state with the configured
// thresholds.
func NewFaultScorer(cfg Config) *FaultScorer {
	return &FaultScorer{
		warnEnter:  cfg.WarnEnter,
		warnExit:   cfg.WarnExit,
		faultEnter: cfg.FaultEnter,
		faultExit:  cfg.FaultExit,
		state:      ClassGood,
	}
}

// Classify folds in one score and returns the updated classification.
func (s *FaultScorer) Classify(score float64) Classification {
	s.last = score
	switch s.state {
	case ClassGood:
		if score >= s.faultEnter {
			s.state = ClassFault
		} else if score >= s.warnEnter {
			s.state = ClassWarning
		}
	case ClassWarning:
		if score >= s.faultEnter {
			s.state = ClassFault
		} else if score < s.warnExit {
			s.state = ClassGood
		}
	case ClassFault:
		if score < s.faultExit {
			s.state = ClassWarning
		}
	}
	return s.state
}

// State returns the current classification without updating it.
func (s *FaultScorer) State() Classification { return s.state }

// LastScore returns the most recent score passed to Classify.
func (s *FaultScorer) LastScore() float64 { return s.last }

package motor

// EMA is a single-pole exponential moving average with explicit first-sample
// initialization: the first update seeds the state directly instead of
// decaying from zero. It backs the coordinator's fallback path and persists
// independently of the filter cascade state.
type EMA struct {
	alpha       float64
	y           float64
	initialized bool
}

// NewEMA returns an EMA with the given coefficient; alpha is the weight of
// the newest observation.
func NewEMA(alpha float64) *EMA {
	return &EMA{alpha: alpha}
}

// Update folds in one observation and returns the smoothed value.
func (e *EMA) Update(x float64) float64 {
	if !e.initialized {
		e.y = x
		e.initialized = true
		return e.y
	}
	e.y = e.alpha*x + (1-e.alpha)*e.y
	return e.y
}

// Value returns the current smoothed value (zero before the first update).
func (e *EMA) Value() float64 { return e.y }

// Reset clears the state so the next update re-seeds it.
func (e *EMA) Reset() {
	e.y = 0
	e.initialized = false
}

package motor

// ring is a fixed-capacity float ring buffer with a running sum for O(1)
// means. Oldest values are evicted on overflow.
type ring struct {
	values []float64
	size   int
	next   int
	sum    float64
}

func newRing(capacity int) *ring {
	return &ring{values: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	if r.size == len(r.values) {
		r.sum -= r.values[r.next]
	} else {
		r.size++
	}
	r.values[r.next] = v
	r.sum += v
	r.next = (r.next + 1) % len(r.values)
}

func (r *ring) len() int { return r.size }

func (r *ring) mean() float64 {
	if r.size == 0 {
		return 0
	}
	return r.sum / float64(r.size)
}

// snapshot appends the buffer contents oldest-first to dst and returns it.
func (r *ring) snapshot(dst []float64) []float64 {
	if r.size < len(r.values) {
		return append(dst, r.values[:r.size]...)
	}
	dst = append(dst, r.values[r.next:]...)
	return append(dst, r.values[:r.next]...)
}

// SampleBuffer owns the per-channel ring buffers for the three phase currents
// plus short acceleration and temperature histories. It is mutated only by
// Push; downstream stages read snapshots.
type SampleBuffer struct {
	ia, ib, ic *ring
	ax, ay, az *ring
	temp       *ring
}

// NewSampleBuffer creates a buffer with the given current window capacity and
// auxiliary (accel/temp) history capacity.
func NewSampleBuffer(windowSize, auxSize int) *SampleBuffer {
	return &SampleBuffer{
		ia:   newRing(windowSize),
		ib:   newRing(windowSize),
		ic:   newRing(windowSize),
		ax:   newRing(auxSize),
		ay:   newRing(auxSize),
		az:   newRing(auxSize),
		temp: newRing(auxSize),
	}
}

// Push appends the sample to every channel and returns the DC-removed phase
// currents: each value minus the running mean of its buffer's current
// contents. Partial buffers are valid; Push always succeeds.
func (b *SampleBuffer) Push(s Sample) (ia, ib, ic float64) {
	b.ia.push(s.Ia)
	b.ib.push(s.Ib)
	b.ic.push(s.Ic)
	b.ax.push(s.Ax)
	b.ay.push(s.Ay)
	b.az.push(s.Az)
	b.temp.push(s.Temp)
	return s.Ia - b.ia.mean(), s.Ib - b.ib.mean(), s.Ic - b.ic.mean()
}

// Len returns the number of samples currently held in the current window.
func (b *SampleBuffer) Len() int { return b.ia.len() }

// SnapshotCurrents returns the DC-removed windowed current arrays,
// oldest-first. The slices are copies; callers may mutate them freely.
func (b *SampleBuffer) SnapshotCurrents() (ia, ib, ic []float64) {
	ia = b.ia.snapshot(make([]float64, 0, b.ia.len()))
	ib = b.ib.snapshot(make([]float64, 0, b.ib.len()))
	ic = b.ic.snapshot(make([]float64, 0, b.ic.len()))
	removeDC(ia, b.ia.mean())
	removeDC(ib, b.ib.mean())
	removeDC(ic, b.ic.mean())
	return ia, ib, ic
}

// AccelHistory returns the buffered acceleration axes, oldest-first.
func (b *SampleBuffer) AccelHistory() (ax, ay, az []float64) {
	ax = b.ax.snapshot(make([]float64, 0, b.ax.len()))
	ay = b.ay.snapshot(make([]float64, 0, b.ay.len()))
	az = b.az.snapshot(make([]float64, 0, b.az.len()))
	return ax, ay, az
}

// TempHistory returns the buffered temperature values, oldest-first.
func (b *SampleBuffer) TempHistory() []float64 {
	return b.temp.snapshot(make([]float64, 0, b.temp.len()))
}

func removeDC(values []float64, mean float64) {
	for i := range values {
		values[i] -= mean
	}
}

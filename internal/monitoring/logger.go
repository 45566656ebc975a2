package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Occurrence counts repeated events and logs only every Nth one, so sustained
// failure modes (queue overflow, fallback cycles) stay visible without flooding
// the log. Use NewOccurrence; the zero value logs nothing.
type Occurrence struct {
	n     uint64
	count atomic.Uint64
}

// NewOccurrence returns an Occurrence that logs every nth event. n < 1 is
// treated as 1 (log every event).
func NewOccurrence(n int) *Occurrence {
	if n < 1 {
		n = 1
	}
	return &Occurrence{n: uint64(n)}
}

// Logf records one event and logs it when the running count reaches a multiple
// of N. The total count so far is appended to the message arguments.
func (o *Occurrence) Logf(format string, v ...interface{}) {
	c := o.count.Add(1)
	if c%o.n == 0 {
		Logf(format+" (%d occurrences)", append(v, c)...)
	}
}

// Count returns the number of events recorded so far.
func (o *Occurrence) Count() uint64 {
	return o.count.Load()
}

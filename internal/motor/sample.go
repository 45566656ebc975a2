// Package motor implements the online current-signature processing pipeline:
// DC removal, Park transform, trajectory scaling, order-domain resampling, a
// stateful low-pass/notch filter cascade, and fault scoring, together with the
// streaming coordinator that runs the chain on live sensor data.
package motor

import "time"

// Sample is a single sensor observation as delivered by the transport:
// three acceleration axes (g), a temperature (degrees C), and the three
// phase currents (A). Samples are immutable once created.
type Sample struct {
	Time time.Time `json:"time"`
	Ax   float64   `json:"ax"`
	Ay   float64   `json:"ay"`
	Az   float64   `json:"az"`
	Temp float64   `json:"temp"`
	Ia   float64   `json:"ia"`
	Ib   float64   `json:"ib"`
	Ic   float64   `json:"ic"`
}

// Classification is the discrete motor health state derived from the fault
// score thresholds.
type Classification string

const (
	ClassGood    Classification = "good"
	ClassWarning Classification = "warning"
	ClassFault   Classification = "fault"
)

// Warning is an active anomaly message with the time it was first raised.
type Warning struct {
	Message string    `json:"message"`
	Since   time.Time `json:"since"`
}

// Record is the consolidated per-cycle output of the streaming coordinator:
// the newest raw sample, its raw Park vector, the filtered Park vector (full
// chain or EMA fallback), the fault score and classification, and any active
// warnings.
type Record struct {
	Time time.Time `json:"time"`

	Ax   float64 `json:"ax"`
	Ay   float64 `json:"ay"`
	Az   float64 `json:"az"`
	Temp float64 `json:"temp"`
	Ia   float64 `json:"ia"`
	Ib   float64 `json:"ib"`
	Ic   float64 `json:"ic"`

	RawID float64 `json:"raw_id"`
	RawIQ float64 `json:"raw_iq"`

	FilteredID float64 `json:"filtered_id"`
	FilteredIQ float64 `json:"filtered_iq"`

	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
	Warnings       []Warning      `json:"warnings,omitempty"`

	// Fallback is set when the filtered output came from the EMA path
	// rather than the full chain; Overflow is set when the drain cycle hit
	// the queue cap and kept only the newest sample.
	Fallback bool `json:"fallback,omitempty"`
	Overflow bool `json:"overflow,omitempty"`
}

// Package transport delivers raw sensor samples to the pipeline. It owns the
// wire format: seven little-endian float32 values per sample, in fixed order
// (acceleration X/Y/Z, temperature, phase currents ia/ib/ic), 28 bytes total.
// Malformed payloads are rejected here and never reach the pipeline.
package transport

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/motor.report/internal/motor"
)

// SampleSize is the fixed wire size of one sample payload.
const SampleSize = 28

// DecodeSample decodes one 28-byte payload into a Sample stamped with the
// given receive time.
func DecodeSample(payload []byte, received time.Time) (motor.Sample, error) {
	if len(payload) != SampleSize {
		return motor.Sample{}, fmt.Errorf("transport: payload is %d bytes, want %d", len(payload), SampleSize)
	}
	var f [7]float64
	for i := range f {
		bits := binary.LittleEndian.Uint32(payload[i*4:])
		v := float64(math.Float32frombits(bits))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return motor.Sample{}, fmt.Errorf("transport: non-finite value in field %d", i)
		}
		f[i] = v
	}
	return motor.Sample{
		Time: received,
		Ax:   f[0], Ay: f[1], Az: f[2],
		Temp: f[3],
		Ia:   f[4], Ib: f[5], Ic: f[6],
	}, nil
}

// EncodeSample serializes a sample to the wire layout. Used by tests and the
// replay tooling.
func EncodeSample(s motor.Sample) []byte {
	out := make([]byte, SampleSize)
	for i, v := range [7]float64{s.Ax, s.Ay, s.Az, s.Temp, s.Ia, s.Ib, s.Ic} {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
	}
	return out
}

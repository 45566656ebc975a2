package transport

import (
	"context"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/banshee-data/motor.report/internal/monitoring"
)

// Serial framing: each sample payload is preceded by a two-byte sync marker
// so the reader can recover alignment after a dropped byte.
const (
	syncByte0 = 0xAA
	syncByte1 = 0x55
)

// SerialReader reads framed sample payloads from a wired receiver.
type SerialReader struct {
	port      serial.Port
	sink      Enqueuer
	decodeLog *monitoring.Occurrence
}

// NewSerialReader opens the named port at 115200 8N1 and returns a reader
// feeding the given sink.
func NewSerialReader(portName string, sink Enqueuer) (*SerialReader, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	return &SerialReader{
		port:      port,
		sink:      sink,
		decodeLog: monitoring.NewOccurrence(100),
	}, nil
}

// Close closes the serial port.
func (r *SerialReader) Close() error {
	return r.port.Close()
}

// Monitor reads frames from the serial port until the context is cancelled.
func (r *SerialReader) Monitor(ctx context.Context) error {
	defer r.Close()

	buf := make([]byte, SampleSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := r.seekSync(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if _, err := io.ReadFull(r.port, buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		sample, err := DecodeSample(buf, time.Now())
		if err != nil {
			r.decodeLog.Logf("transport: rejected serial frame: %v", err)
			continue
		}
		r.sink.Enqueue(sample)
	}
}

// seekSync consumes bytes until the two-byte sync marker is seen.
func (r *SerialReader) seekSync(ctx context.Context) error {
	var b [1]byte
	sawFirst := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := io.ReadFull(r.port, b[:]); err != nil {
			return err
		}
		switch {
		case !sawFirst && b[0] == syncByte0:
			sawFirst = true
		case sawFirst && b[0] == syncByte1:
			return nil
		default:
			sawFirst = b[0] == syncByte0
		}
	}
}

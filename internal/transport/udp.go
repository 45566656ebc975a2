package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/banshee-data/motor.report/internal/monitoring"
	"github.com/banshee-data/motor.report/internal/motor"
)

// Enqueuer is the pipeline's non-blocking ingestion entry point.
type Enqueuer interface {
	Enqueue(motor.Sample) bool
}

// UDPListener receives sample datagrams and feeds them to the pipeline. One
// datagram carries one 28-byte sample payload.
type UDPListener struct {
	address   string
	rcvBuf    int
	buffer    []byte
	sink      Enqueuer
	decodeLog *monitoring.Occurrence
}

// UDPListenerConfig contains configuration options for the UDP listener.
type UDPListenerConfig struct {
	Address string
	RcvBuf  int
	Sink    Enqueuer
}

// NewUDPListener creates a listener with the provided configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	rcvBuf := config.RcvBuf
	if rcvBuf <= 0 {
		rcvBuf = 1 << 20
	}
	return &UDPListener{
		address:   config.Address,
		rcvBuf:    rcvBuf,
		buffer:    make([]byte, 256), // sample payloads are 28 bytes; allow slack for oversized rejects
		sink:      config.Sink,
		decodeLog: monitoring.NewOccurrence(100),
	}
}

// Start begins receiving datagrams. Returns when the context is cancelled or
// an unrecoverable error occurs.
func (l *UDPListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("transport: failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("transport: failed to listen on UDP: %w", err)
	}
	defer conn.Close()

	if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
		monitoring.Logf("transport: failed to set UDP receive buffer to %d bytes: %v", l.rcvBuf, err)
	}

	monitoring.Logf("transport: listening for sensor samples on %s", l.address)

	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("transport: UDP listener shutting down")
			return nil
		default:
			// A short read deadline keeps the loop responsive to
			// cancellation.
			if err := conn.SetReadDeadline(time.Now().Add(1 * time.Second)); err != nil {
				monitoring.Logf("transport: error setting read deadline: %v", err)
				continue
			}

			n, _, err := conn.ReadFromUDP(l.buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				monitoring.Logf("transport: error reading UDP packet: %v", err)
				continue
			}

			sample, err := DecodeSample(l.buffer[:n], time.Now())
			if err != nil {
				l.decodeLog.Logf("transport: rejected payload: %v", err)
				continue
			}
			l.sink.Enqueue(sample)
		}
	}
}

package uartboot

import "time"

// Channel is a raw duplex byte connection to the target device.
// The serialchan package provides the real implementation; tests supply
// scripted ones.
//
// A Channel is owned by a single boot session and is never shared
// concurrently: the protocol is strictly lock-step, so at most one of
// Send and Recv is in flight at any moment.
type Channel interface {
	// Send writes p in full and returns only after the bytes have
	// physically left the transmitter, not merely been queued.
	Send(p []byte) error

	// Recv reads up to len(p) bytes, returning as soon as at least one
	// byte is available and continuing until p is full or timeout
	// expires with nothing available. A timeout with zero bytes
	// collected returns (0, ErrRecvTimeout); any other failure is an
	// I/O error distinct from a timeout.
	Recv(p []byte, timeout time.Duration) (int, error)

	// Discard drops any buffered bytes in both directions, so stale
	// bytes from a previous attempt cannot be misread as a reply.
	Discard() error
}

package uartboot

import "time"

// Phases reported through Progress.Phase.
const (
	// PhaseHandshake - knocking on the boot ROM with the wake pattern
	PhaseHandshake = "handshake"

	// PhaseTransfer - pushing image blocks
	PhaseTransfer = "transfer"

	// PhaseComplete - transfer finished and acknowledged
	PhaseComplete = "complete"
)

// Progress describes one observable event of a boot session: a
// handshake attempt, a block send, a retransmission, or completion.
type Progress struct {
	// Phase is one of PhaseHandshake, PhaseTransfer, PhaseComplete
	Phase string

	// Block is the 1-based index of the block being sent (transfer only)
	Block int

	// TotalBlocks is the number of blocks the image needs, or 0 when
	// the source length is unknown
	TotalBlocks int

	// Attempt counts transmissions of the current unit: 1 for a first
	// send, 2 and up for retransmissions after NAK. During the
	// handshake it counts wake-pattern attempts.
	Attempt int

	// BytesSent is the number of image bytes acknowledged so far
	BytesSent int

	// Percentage is the completion percentage, or 0 when TotalBlocks
	// is unknown
	Percentage float64

	// Elapsed is the time since the phase started
	Elapsed time.Duration
}

// ProgressCallback receives progress events during a boot session.
// Implementations should return quickly; the protocol is waiting.
type ProgressCallback func(Progress)

// Logger is an optional logging interface, allowing integration with
// any logging framework. The package never writes to stdout or stderr
// on its own.
//
// Example with the standard log package:
//
//	type StdLogger struct{}
//	func (StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	bl := uartboot.New(ch, uartboot.WithLogger(StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

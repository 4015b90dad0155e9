package uartboot

import "time"

// DefaultBlockRetries is the default per-block transmission budget: a
// block NAKed on its 16th transmission aborts the transfer. The budget
// resets for every block, so a link that recovers after transient noise
// is not penalized by earlier blocks' retries.
const DefaultBlockRetries = 16

// Config holds the boot session configuration.
type Config struct {
	// BlockRetries is the per-block transmission budget
	BlockRetries int

	// AckTimeout bounds the wait for a block acknowledgement
	AckTimeout time.Duration

	// HandshakeTimeout bounds the wait for a reply to one wake-pattern
	// attempt
	HandshakeTimeout time.Duration

	// HandshakeRetryDelay is the pause after a failed wake-pattern send
	// before the next attempt
	HandshakeRetryDelay time.Duration

	// ProgressCallback receives per-attempt and per-block events (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger
}

// defaultConfig returns the default configuration. The timeouts match
// the boot ROM's observed behavior: it answers a wake pattern within a
// few tens of milliseconds and acknowledges a block well under a second.
func defaultConfig() Config {
	return Config{
		BlockRetries:        DefaultBlockRetries,
		AckTimeout:          time.Second,
		HandshakeTimeout:    50 * time.Millisecond,
		HandshakeRetryDelay: 10 * time.Millisecond,
	}
}

// Option is a functional option for configuring the Bootloader.
type Option func(*Config)

// WithBlockRetries sets the per-block transmission budget.
//
// Example:
//
//	bl := uartboot.New(ch, uartboot.WithBlockRetries(32))
func WithBlockRetries(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.BlockRetries = n
		}
	}
}

// WithAckTimeout sets the block-acknowledgement timeout.
func WithAckTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.AckTimeout = timeout
	}
}

// WithHandshakeTimeout sets the per-attempt reply timeout of the
// handshake loop.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HandshakeTimeout = timeout
	}
}

// WithHandshakeRetryDelay sets the pause after a failed wake-pattern
// send.
func WithHandshakeRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.HandshakeRetryDelay = d
	}
}

// WithProgressCallback sets a callback to observe handshake attempts,
// block sends and retransmissions.
//
// Example:
//
//	bl := uartboot.New(ch,
//	    uartboot.WithProgressCallback(func(p uartboot.Progress) {
//	        fmt.Printf("%s %d/%d\n", p.Phase, p.Block, p.TotalBlocks)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the boot session.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

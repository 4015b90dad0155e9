// Package serialchan provides the serial-port implementation of the
// uartboot.Channel contract.
//
// The boot ROM listens at a single fixed line configuration (115200
// 8N1, no flow control, raw byte delivery), so Open takes only the
// device path. Opening the port does not reset or probe the target;
// waking the boot ROM is the handshake's job.
package serialchan

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/mvebu-tools/go-kwboot/protocol"
	"github.com/mvebu-tools/go-kwboot/uartboot"
)

// Channel is an open serial connection to the target. It satisfies
// uartboot.Channel and, through Read/Write, io.ReadWriter for the
// terminal relay.
type Channel struct {
	port serial.Port
}

// Open opens and configures the serial device at path.
//
// Example:
//
//	ch, err := serialchan.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ch.Close()
func Open(path string) (*Channel, error) {
	mode := &serial.Mode{
		BaudRate: protocol.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Channel{port: port}, nil
}

// Send writes p in full and drains the transmitter, so a successful
// return means the bytes are physically on the wire, not queued in the
// kernel.
func (c *Channel) Send(p []byte) error {
	for len(p) > 0 {
		n, err := c.port.Write(p)
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
		p = p[n:]
	}
	if err := c.port.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Recv collects up to len(p) bytes, returning as soon as the buffer is
// full. A deadline that expires before the first byte yields
// uartboot.ErrRecvTimeout with no data; expiry after a partial read
// returns the bytes collected alongside the wrapped timeout.
func (c *Channel) Recv(p []byte, timeout time.Duration) (int, error) {
	if err := c.port.SetReadTimeout(timeout); err != nil {
		return 0, fmt.Errorf("set read timeout: %w", err)
	}

	got := 0
	for got < len(p) {
		n, err := c.port.Read(p[got:])
		if err != nil {
			return got, fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			// The port signals an expired deadline as a zero-byte read.
			if got == 0 {
				return 0, uartboot.ErrRecvTimeout
			}
			return got, fmt.Errorf("short read, %d of %d bytes: %w", got, len(p), uartboot.ErrRecvTimeout)
		}
		got += n
	}
	return got, nil
}

// Discard drops unread input and untransmitted output, so stale bytes
// from a previous handshake attempt cannot pass for a reply.
func (c *Channel) Discard() error {
	if err := c.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("reset input: %w", err)
	}
	if err := c.port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("reset output: %w", err)
	}
	return nil
}

// Read blocks until at least one byte arrives, with no deadline.
// It exists for the terminal relay, which exits only via its escape
// sequence or an I/O error.
func (c *Channel) Read(p []byte) (int, error) {
	if err := c.port.SetReadTimeout(serial.NoTimeout); err != nil {
		return 0, fmt.Errorf("set read timeout: %w", err)
	}
	return c.port.Read(p)
}

// Write passes bytes straight to the port without draining, the
// appropriate behavior for interactive terminal traffic.
func (c *Channel) Write(p []byte) (int, error) {
	return c.port.Write(p)
}

// Close releases the port.
func (c *Channel) Close() error {
	return c.port.Close()
}

// ListPorts names the serial devices present on the system, for usage
// and error messages.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

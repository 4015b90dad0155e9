package protocol

import "fmt"

// FrameError indicates that a received block frame is malformed:
// wrong length, bad start byte, sequence/complement mismatch, or a
// checksum that does not match the payload.
type FrameError struct {
	// Reason describes what is wrong with the frame
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("malformed block: %s", e.Reason)
}

// IsFrameError returns true if the error is a FrameError.
func IsFrameError(err error) bool {
	_, ok := err.(*FrameError)
	return ok
}

// ReplyName returns a human-readable name for a single-byte protocol
// reply, for logs and error messages.
func ReplyName(b byte) string {
	switch b {
	case SOH:
		return "SOH"
	case EOT:
		return "EOT"
	case ACK:
		return "ACK"
	case NAK:
		return "NAK"
	case CAN:
		return "CAN"
	default:
		return fmt.Sprintf("0x%02X", b)
	}
}

package uartboot

import (
	"errors"
	"fmt"

	"github.com/mvebu-tools/go-kwboot/protocol"
)

// ErrRecvTimeout is returned by Channel implementations when a receive
// deadline expires with no byte available. The engine retries timeouts
// during the handshake and treats them as fatal while waiting for a
// block acknowledgement.
var ErrRecvTimeout = errors.New("receive timed out")

// RetriesExhaustedError indicates that one block was rejected by the
// target often enough to use up its whole retry budget.
//
// Seq 0 refers to the end-of-transfer marker, which is acknowledged
// like a block but carries no sequence number.
type RetriesExhaustedError struct {
	Seq      byte
	Attempts int
}

func (e *RetriesExhaustedError) Error() string {
	if e.Seq == 0 {
		return fmt.Sprintf("end-of-transfer marker rejected %d times, giving up", e.Attempts)
	}
	return fmt.Sprintf("block %d rejected %d times, giving up", e.Seq, e.Attempts)
}

// TargetCancelledError indicates that the target sent CAN to abort the
// transfer.
type TargetCancelledError struct {
	Seq byte
}

func (e *TargetCancelledError) Error() string {
	return fmt.Sprintf("target cancelled the transfer at block %d", e.Seq)
}

// ProtocolViolationError indicates a reply byte that is neither ACK,
// NAK nor CAN.
type ProtocolViolationError struct {
	Seq   byte
	Reply byte
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("unexpected reply %s at block %d", protocol.ReplyName(e.Reply), e.Seq)
}

// IsTargetCancelled returns true if the error chain contains a
// TargetCancelledError.
func IsTargetCancelled(err error) bool {
	var e *TargetCancelledError
	return errors.As(err, &e)
}

// IsRetriesExhausted returns true if the error chain contains a
// RetriesExhaustedError.
func IsRetriesExhausted(err error) bool {
	var e *RetriesExhaustedError
	return errors.As(err, &e)
}

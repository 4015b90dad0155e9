package uartboot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mvebu-tools/go-kwboot/protocol"
)

// Bootloader drives a boot session over an injected Channel. It owns
// the handshake and block-transfer state machines; opening and
// configuring the channel, patching the image and the post-boot
// terminal are the caller's business.
//
// A Bootloader runs one session at a time; the protocol is strictly
// lock-step with a single block in flight.
type Bootloader struct {
	ch     Channel
	config Config
}

// New creates a Bootloader for the given channel and options.
//
// Example:
//
//	ch, _ := serialchan.Open("/dev/ttyUSB0")
//	bl := uartboot.New(ch,
//	    uartboot.WithProgressCallback(progressFunc),
//	    uartboot.WithBlockRetries(16),
//	)
func New(ch Channel, opts ...Option) *Bootloader {
	if ch == nil {
		panic("channel cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Bootloader{
		ch:     ch,
		config: cfg,
	}
}

// Boot runs the complete session: handshake with the given wake
// pattern, then transfer of the image. Errors name the failing stage
// and a failed handshake skips the transfer entirely.
func (b *Bootloader) Boot(ctx context.Context, img []byte, pattern protocol.WakePattern) error {
	if err := b.Handshake(ctx, pattern); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	if err := b.SendImage(ctx, bytes.NewReader(img)); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	return nil
}

// Handshake repeats the wake pattern until the boot ROM answers that it
// is ready to receive blocks. Each attempt first discards any buffered
// bytes so a stale byte from a previous attempt cannot pass for the
// reply.
//
// The loop has no attempt cap: it is meant to run while the operator
// power-cycles the target, and stops only via ctx. Send failures and
// reply timeouts are transient; any other I/O error aborts.
func (b *Bootloader) Handshake(ctx context.Context, pattern protocol.WakePattern) error {
	start := time.Now()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.reportProgress(Progress{
			Phase:   PhaseHandshake,
			Attempt: attempt,
			Elapsed: time.Since(start),
		})

		if err := b.ch.Discard(); err != nil {
			return fmt.Errorf("discard stale bytes: %w", err)
		}

		if err := b.ch.Send(pattern[:]); err != nil {
			// The operator may be power-cycling the target right now;
			// a failed send is expected while the port glitches.
			b.logDebug("wake pattern send failed", "attempt", attempt, "error", err.Error())
			sleepCtx(ctx, b.config.HandshakeRetryDelay)
			continue
		}

		var reply [1]byte
		if _, err := b.ch.Recv(reply[:], b.config.HandshakeTimeout); err != nil {
			if errors.Is(err, ErrRecvTimeout) {
				continue
			}
			return fmt.Errorf("wait for boot ROM: %w", err)
		}

		// The ROM requests the first block with NAK; that is the
		// "ready" byte. Anything else is power-up noise, keep knocking.
		if reply[0] == protocol.NAK {
			b.logInfo("boot ROM ready", "attempts", attempt, "elapsed", time.Since(start).String())
			return nil
		}
		b.logDebug("ignoring stray byte", "reply", protocol.ReplyName(reply[0]))
	}
}

// SendImage transfers the byte source as a sequence of 128-byte blocks
// followed by the end-of-transfer marker. An empty source sends only
// the marker.
//
// If r exposes a Len method (bytes.Reader does), block totals and
// percentages are reported through the progress callback.
func (b *Bootloader) SendImage(ctx context.Context, r io.Reader) error {
	start := time.Now()

	total := 0
	if sized, ok := r.(interface{ Len() int }); ok {
		total = (sized.Len() + protocol.PayloadSize - 1) / protocol.PayloadSize
	}

	seq := byte(protocol.FirstSeq)
	block := 0
	bytesSent := 0
	payload := make([]byte, protocol.PayloadSize)

	for {
		n, err := readFull(r, payload)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		if n == 0 {
			break // source exhausted
		}
		block++

		frame, err := protocol.NewBlock(seq, payload[:n])
		if err != nil {
			return err
		}

		prog := Progress{
			Phase:       PhaseTransfer,
			Block:       block,
			TotalBlocks: total,
			BytesSent:   bytesSent,
			Elapsed:     time.Since(start),
		}
		if total > 0 {
			prog.Percentage = float64(block-1) / float64(total) * 100
		}

		if err := b.sendAcked(ctx, frame, seq, prog); err != nil {
			return err
		}

		bytesSent += n
		seq = protocol.NextSeq(seq)
	}

	// The end marker is acknowledged like a block, with the same retry
	// budget. Seq 0 marks it in errors; blocks never use 0.
	eot := Progress{
		Phase:       PhaseTransfer,
		Block:       block,
		TotalBlocks: total,
		BytesSent:   bytesSent,
		Elapsed:     time.Since(start),
	}
	if err := b.sendAcked(ctx, []byte{protocol.EOT}, 0, eot); err != nil {
		return err
	}

	b.reportProgress(Progress{
		Phase:       PhaseComplete,
		Block:       block,
		TotalBlocks: total,
		BytesSent:   bytesSent,
		Percentage:  100,
		Elapsed:     time.Since(start),
	})
	b.logInfo("transfer complete",
		"blocks", block,
		"bytes", bytesSent,
		"elapsed", time.Since(start).String(),
	)

	return nil
}

// sendAcked transmits one framed unit and waits for the single-byte
// verdict, retransmitting the identical frame on NAK until the budget
// is spent. All failure paths notify the target with a best-effort CAN
// before returning, except when the target itself cancelled: a cancel
// is never answered with a cancel.
func (b *Bootloader) sendAcked(ctx context.Context, frame []byte, seq byte, prog Progress) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			b.notifyCancel()
			return err
		}

		prog.Attempt = attempt
		b.reportProgress(prog)
		if attempt > 1 {
			b.logDebug("retransmitting", "block", seq, "attempt", attempt)
		}

		if err := b.ch.Send(frame); err != nil {
			b.notifyCancel()
			return fmt.Errorf("send block %d: %w", seq, err)
		}

		var reply [1]byte
		if _, err := b.ch.Recv(reply[:], b.config.AckTimeout); err != nil {
			b.notifyCancel()
			return fmt.Errorf("wait for acknowledgement of block %d: %w", seq, err)
		}

		switch reply[0] {
		case protocol.ACK:
			return nil
		case protocol.NAK:
			if attempt >= b.config.BlockRetries {
				b.notifyCancel()
				return &RetriesExhaustedError{Seq: seq, Attempts: attempt}
			}
		case protocol.CAN:
			return &TargetCancelledError{Seq: seq}
		default:
			b.notifyCancel()
			return &ProtocolViolationError{Seq: seq, Reply: reply[0]}
		}
	}
}

// notifyCancel tells the target to reset its receiver state. Best
// effort: the session is already failing for the original reason, and
// that reason must not be overwritten by cleanup trouble.
func (b *Bootloader) notifyCancel() {
	if err := b.ch.Send([]byte{protocol.CAN}); err != nil {
		b.logDebug("cancel notification failed", "error", err.Error())
	}
}

// readFull fills buf from r, treating EOF after 0 < n < len(buf) bytes
// as a short final read rather than an error.
func readFull(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

// sleepCtx pauses for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (b *Bootloader) reportProgress(progress Progress) {
	if b.config.ProgressCallback != nil {
		b.config.ProgressCallback(progress)
	}
}

func (b *Bootloader) logDebug(msg string, keysAndValues ...interface{}) {
	if b.config.Logger != nil {
		b.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (b *Bootloader) logInfo(msg string, keysAndValues ...interface{}) {
	if b.config.Logger != nil {
		b.config.Logger.Info(msg, keysAndValues...)
	}
}

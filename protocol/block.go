package protocol

import "fmt"

// NewBlock constructs a framed transfer block for the given sequence
// number and payload. Payloads shorter than PayloadSize are zero-padded;
// longer payloads are rejected. A sequence number of 0 is rejected, the
// counter never emits it.
//
// Frame structure:
//
//	[SOH][SEQ][^SEQ][PAYLOAD(128)][CSUM]
//
// The returned frame is a fresh slice; retransmitting it after a NAK
// reproduces the original send byte for byte.
func NewBlock(seq byte, payload []byte) ([]byte, error) {
	if seq == 0 {
		return nil, fmt.Errorf("sequence number 0 is reserved, blocks count 1..255")
	}
	if len(payload) > PayloadSize {
		return nil, fmt.Errorf("payload length %d exceeds %d bytes", len(payload), PayloadSize)
	}

	frame := make([]byte, BlockSize)
	frame[0] = SOH
	frame[1] = seq
	frame[2] = ^seq
	copy(frame[3:3+PayloadSize], payload)
	frame[BlockSize-1] = Checksum(frame[3 : 3+PayloadSize])

	return frame, nil
}

// NextSeq advances the block sequence counter, wrapping 255 back to 1.
// 0 is never produced.
func NextSeq(seq byte) byte {
	seq++
	if seq == 0 {
		seq = FirstSeq
	}
	return seq
}

// ParseBlock validates a received frame and extracts its sequence
// number and payload. It is the receiver-side counterpart of NewBlock,
// used by mock boot ROMs and tests.
//
// The payload is returned as a sub-slice of frame, not a copy.
func ParseBlock(frame []byte) (seq byte, payload []byte, err error) {
	if len(frame) != BlockSize {
		return 0, nil, &FrameError{Reason: fmt.Sprintf("length %d, want %d", len(frame), BlockSize)}
	}
	if frame[0] != SOH {
		return 0, nil, &FrameError{Reason: fmt.Sprintf("start byte 0x%02X, want SOH", frame[0])}
	}

	seq = frame[1]
	if seq == 0 {
		return 0, nil, &FrameError{Reason: "sequence number 0"}
	}
	if frame[2] != ^seq {
		return 0, nil, &FrameError{
			Reason: fmt.Sprintf("sequence complement 0x%02X does not match sequence 0x%02X", frame[2], seq),
		}
	}

	payload = frame[3 : 3+PayloadSize]
	if csum := Checksum(payload); frame[BlockSize-1] != csum {
		return 0, nil, &FrameError{
			Reason: fmt.Sprintf("checksum 0x%02X, computed 0x%02X", frame[BlockSize-1], csum),
		}
	}

	return seq, payload, nil
}

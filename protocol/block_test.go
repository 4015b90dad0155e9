package protocol

import (
	"bytes"
	"testing"
)

func TestNewBlockLayout(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	frame, err := NewBlock(7, payload)
	if err != nil {
		t.Fatalf("NewBlock() error = %v", err)
	}

	if len(frame) != BlockSize {
		t.Fatalf("frame length = %d, want %d", len(frame), BlockSize)
	}
	if frame[0] != SOH {
		t.Errorf("frame[0] = 0x%02X, want SOH", frame[0])
	}
	if frame[1] != 7 {
		t.Errorf("sequence = %d, want 7", frame[1])
	}
	if frame[2] != ^byte(7) {
		t.Errorf("complement = 0x%02X, want 0x%02X", frame[2], ^byte(7))
	}
	if !bytes.Equal(frame[3:7], payload) {
		t.Errorf("payload = % X, want % X", frame[3:7], payload)
	}

	// Short payloads are zero-padded to the full 128 bytes.
	for i, b := range frame[7 : 3+PayloadSize] {
		if b != 0 {
			t.Fatalf("padding byte %d = 0x%02X, want 0x00", i, b)
		}
	}

	want := byte((0xDE + 0xAD + 0xBE + 0xEF) % 256)
	if frame[BlockSize-1] != want {
		t.Errorf("checksum = 0x%02X, want 0x%02X", frame[BlockSize-1], want)
	}
}

func TestNewBlockRejects(t *testing.T) {
	if _, err := NewBlock(0, []byte{1}); err == nil {
		t.Error("NewBlock(0, ...) expected error for reserved sequence number")
	}
	if _, err := NewBlock(1, make([]byte, PayloadSize+1)); err == nil {
		t.Error("NewBlock() expected error for oversized payload")
	}
	if _, err := NewBlock(1, make([]byte, PayloadSize)); err != nil {
		t.Errorf("NewBlock() with exactly %d bytes: %v", PayloadSize, err)
	}
}

func TestComplementAllSequenceNumbers(t *testing.T) {
	for seq := 1; seq <= 255; seq++ {
		frame, err := NewBlock(byte(seq), nil)
		if err != nil {
			t.Fatalf("NewBlock(%d) error = %v", seq, err)
		}
		if frame[2] != ^byte(seq) {
			t.Fatalf("seq %d: complement = 0x%02X, want 0x%02X", seq, frame[2], ^byte(seq))
		}
	}
}

func TestNextSeqWrapsSkippingZero(t *testing.T) {
	if got := NextSeq(1); got != 2 {
		t.Errorf("NextSeq(1) = %d, want 2", got)
	}
	if got := NextSeq(254); got != 255 {
		t.Errorf("NextSeq(254) = %d, want 255", got)
	}
	// Block 256 wraps back to sequence number 1, never 0.
	if got := NextSeq(255); got != 1 {
		t.Errorf("NextSeq(255) = %d, want 1", got)
	}

	// Walking 600 blocks from the start never yields 0.
	seq := byte(FirstSeq)
	for i := 0; i < 600; i++ {
		if seq == 0 {
			t.Fatalf("sequence counter emitted 0 at block %d", i)
		}
		seq = NextSeq(seq)
	}
}

func TestParseBlockRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A}, PayloadSize)

	frame, err := NewBlock(42, payload)
	if err != nil {
		t.Fatalf("NewBlock() error = %v", err)
	}

	seq, got, err := ParseBlock(frame)
	if err != nil {
		t.Fatalf("ParseBlock() error = %v", err)
	}
	if seq != 42 {
		t.Errorf("seq = %d, want 42", seq)
	}
	if !bytes.Equal(got, payload) {
		t.Error("payload round trip mismatch")
	}
}

func TestParseBlockRejectsCorruption(t *testing.T) {
	valid := func() []byte {
		frame, err := NewBlock(9, []byte{1, 2, 3})
		if err != nil {
			t.Fatalf("NewBlock() error = %v", err)
		}
		return frame
	}

	tests := []struct {
		name   string
		mutate func([]byte)
	}{
		{
			name:   "bad start byte",
			mutate: func(f []byte) { f[0] = EOT },
		},
		{
			name:   "complement mismatch",
			mutate: func(f []byte) { f[2] = 0x00 },
		},
		{
			name:   "payload corruption",
			mutate: func(f []byte) { f[3]++ },
		},
		{
			name:   "checksum corruption",
			mutate: func(f []byte) { f[BlockSize-1]++ },
		},
		{
			name:   "zero sequence",
			mutate: func(f []byte) { f[1], f[2] = 0, 0xFF },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := valid()
			tt.mutate(frame)
			if _, _, err := ParseBlock(frame); err == nil {
				t.Error("ParseBlock() expected error")
			} else if !IsFrameError(err) {
				t.Errorf("ParseBlock() error = %T, want *FrameError", err)
			}
		})
	}

	if _, _, err := ParseBlock(valid()[:BlockSize-1]); err == nil {
		t.Error("ParseBlock() expected error for truncated frame")
	}
}

func TestReplyName(t *testing.T) {
	tests := []struct {
		b    byte
		want string
	}{
		{ACK, "ACK"},
		{NAK, "NAK"},
		{CAN, "CAN"},
		{EOT, "EOT"},
		{SOH, "SOH"},
		{0x7F, "0x7F"},
	}
	for _, tt := range tests {
		if got := ReplyName(tt.b); got != tt.want {
			t.Errorf("ReplyName(0x%02X) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

package protocol

// Control bytes exchanged on the wire.
const (
	// SOH marks the start of a transfer block (0x01)
	SOH = 0x01

	// EOT terminates the transfer after the last block (0x04)
	EOT = 0x04

	// ACK is the target's accept-block reply (0x06)
	ACK = 0x06

	// NAK is the target's reject-block reply (0x15).
	// The boot ROM also answers the wake pattern with NAK to request
	// the first block, so during the handshake NAK means "ready".
	NAK = 0x15

	// CAN aborts the transfer, in either direction (0x18)
	CAN = 0x18
)

// Block geometry.
const (
	// PayloadSize is the fixed payload length of every block
	PayloadSize = 128

	// BlockSize is the framed block length on the wire:
	// SOH(1) + SEQ(1) + ^SEQ(1) + PAYLOAD(128) + CSUM(1)
	BlockSize = PayloadSize + 4

	// FirstSeq is the sequence number of the first block. The counter
	// wraps modulo 256 and never emits 0.
	FirstSeq = 1
)

// WakePattern identifies which boot-ROM mode the handshake requests.
type WakePattern [8]byte

// Wake patterns recognized by the boot ROM. The pattern is repeated on
// the wire until the ROM answers; only the first byte differs between
// the two modes.
var (
	// BootPattern requests the normal UART boot mode
	BootPattern = WakePattern{0xBB, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}

	// DebugPattern requests the boot ROM debug prompt
	DebugPattern = WakePattern{0xDD, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
)

// BaudRate is the only line speed the boot ROM listens at.
// 8 data bits, no parity, no flow control.
const BaudRate = 115200

// Package protocol implements the wire protocol spoken by the Marvell
// boot ROM when booting over UART.
//
// # Protocol Overview
//
// The exchange has two phases. First the host repeats an 8-byte wake
// pattern until the boot ROM answers with NAK, signalling that it is
// ready to receive. Then the host pushes the boot image as a sequence
// of fixed-size blocks:
//
//	Block: [SOH][SEQ][^SEQ][PAYLOAD(128)][CSUM]
//
// Where:
//   - SOH = Start of Header (0x01)
//   - SEQ = block sequence number, 1..255 wrapping and skipping 0
//   - ^SEQ = bitwise complement of SEQ
//   - PAYLOAD = 128 image bytes, zero-padded in the final block
//   - CSUM = mod-256 sum of the 128 payload bytes
//
// After each block the target answers with a single byte: ACK to
// accept, NAK to request a retransmission, CAN to abort the transfer.
// The transfer ends with a lone EOT byte, acknowledged like a block.
//
// The checksum is deliberately the legacy additive sum, not a CRC. It
// only needs to catch gross framing drift on a short point-to-point
// boot cable; some multi-byte corruptions cancel out and go undetected.
//
// # Usage
//
// Build a block with NewBlock and advance the sequence counter with
// NextSeq:
//
//	frame, err := protocol.NewBlock(seq, payload)
//	seq = protocol.NextSeq(seq)
//
// ParseBlock validates a received frame; it exists for receiver-side
// implementations such as test doubles and mock devices.
package protocol

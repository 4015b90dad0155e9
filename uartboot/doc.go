// Package uartboot drives a Marvell boot ROM from power-up to a running
// boot image over a serial line.
//
// # Overview
//
// The package orchestrates the two phases of a UART boot session:
//   - Handshake: repeat the wake pattern until the boot ROM answers,
//     while the operator power-cycles the target
//   - Transfer: push the boot image as checksummed 128-byte blocks in
//     lock step, one unacknowledged block in flight at a time
//
// # Basic Usage
//
//	ch, err := serialchan.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ch.Close()
//
//	img, err := os.ReadFile("u-boot.kwb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bl := uartboot.New(ch)
//	err = bl.Boot(context.Background(), img, protocol.BootPattern)
//
// # Progress Tracking
//
// Per-attempt and per-block events can be observed with a callback:
//
//	bl := uartboot.New(ch,
//	    uartboot.WithProgressCallback(func(p uartboot.Progress) {
//	        fmt.Printf("[%s] block %d/%d\n", p.Phase, p.Block, p.TotalBlocks)
//	    }),
//	)
//
// # Cancellation
//
// The handshake loop has no attempt cap: it runs while the operator
// power-cycles the target and stops only through the context. Wire the
// context to signal delivery so Ctrl-C lands as context.Canceled:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err := bl.Boot(ctx, img, protocol.BootPattern)
//
// A cancellation mid-transfer sends the protocol's CAN byte to the
// target (best effort) so its receiver state resets cleanly.
//
// # Testing
//
// Bootloader talks to the target only through the Channel interface, so
// protocol behavior is testable against a scripted in-memory channel
// with no hardware and no real timing.
package uartboot

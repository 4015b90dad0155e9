// Command kwboot boots a Marvell SoC over its UART boot ROM.
//
// Usage:
//
//	kwboot [-b image] [-d] [-p] [-t] <tty>
//
// Typical session: start kwboot, power-cycle the target, watch the
// image go out, then talk to the freshly booted firmware:
//
//	kwboot -b u-boot.kwb -p -t /dev/ttyUSB0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/mvebu-tools/go-kwboot/kwbimage"
	"github.com/mvebu-tools/go-kwboot/protocol"
	"github.com/mvebu-tools/go-kwboot/serialchan"
	"github.com/mvebu-tools/go-kwboot/terminal"
	"github.com/mvebu-tools/go-kwboot/uartboot"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <tty>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nAvailable serial ports:")
	ports, err := serialchan.ListPorts()
	if err != nil || len(ports) == 0 {
		fmt.Fprintln(os.Stderr, "  (none found)")
		return
	}
	for _, p := range ports {
		fmt.Fprintf(os.Stderr, "  %s\n", p)
	}
}

func main() {
	var (
		imagePath = flag.String("b", "", "boot image to send")
		debugMode = flag.Bool("d", false, "wake the boot ROM debug prompt instead of booting")
		patchHdr  = flag.Bool("p", false, "re-tag the image header for UART boot before sending")
		termMode  = flag.Bool("t", false, "attach a terminal to the serial line afterwards")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	logger := newLogger(*verbose)

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	if *imagePath == "" && !*debugMode && !*termMode {
		logger.Error().Msg("nothing to do: need -b, -d or -t")
		usage()
		os.Exit(2)
	}
	if *imagePath != "" && *debugMode {
		logger.Error().Msg("-b and -d are mutually exclusive")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, flag.Arg(0), *imagePath, *debugMode, *patchHdr, *termMode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("interrupted")
			os.Exit(130)
		}
		logger.Error().Err(err).Msg("boot failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger zerolog.Logger, device, imagePath string, debugMode, patchHdr, termMode bool) error {
	var img []byte
	if imagePath != "" {
		var err error
		img, err = os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		if patchHdr {
			hdr, err := kwbimage.Parse(img)
			if err != nil {
				return fmt.Errorf("patch image: %w", err)
			}
			if err := kwbimage.PatchHeader(img); err != nil {
				return fmt.Errorf("patch image: %w", err)
			}
			if hdr.BootSource == kwbimage.BootSourceUART {
				logger.Info().Msg("image already tagged for uart boot")
			} else {
				logger.Info().
					Str("was", kwbimage.BootSourceName(hdr.BootSource)).
					Int("header_version", hdr.Version).
					Msg("image re-tagged for uart boot")
			}
		}
	}

	ch, err := serialchan.Open(device)
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	pattern := protocol.BootPattern
	if debugMode {
		pattern = protocol.DebugPattern
	}

	if img != nil || debugMode {
		bl := uartboot.New(ch,
			uartboot.WithLogger(zerologAdapter{logger}),
			uartboot.WithProgressCallback(newProgressSink()),
		)

		logger.Info().Str("device", device).Msg("sending wake pattern, power-cycle the target now (Ctrl-C aborts)")
		if img != nil {
			if err := bl.Boot(ctx, img, pattern); err != nil {
				return err
			}
		} else {
			if err := bl.Handshake(ctx, pattern); err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
			logger.Info().Msg("debug prompt ready")
		}
	}

	if termMode {
		if err := runTerminal(ctx, ch); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
	}

	return nil
}

func runTerminal(ctx context.Context, ch *serialchan.Channel) error {
	fmt.Fprintf(os.Stderr, "[terminal attached, Ctrl-\\ c to quit]\r\n")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer term.Restore(fd, state)
	}

	return terminal.Relay(ctx, ch, os.Stdin, os.Stdout, terminal.DefaultEscape)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// zerologAdapter exposes a zerolog.Logger through the engine's
// logger-agnostic interface.
type zerologAdapter struct {
	l zerolog.Logger
}

func (a zerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (a zerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.l.Info().Fields(keysAndValues).Msg(msg)
}

func (a zerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.l.Error().Fields(keysAndValues).Msg(msg)
}

// newProgressSink renders transfer progress as a bar on stderr. The
// bar is created lazily on the first transfer event, once the block
// total is known.
func newProgressSink() uartboot.ProgressCallback {
	var bar *progressbar.ProgressBar
	return func(p uartboot.Progress) {
		switch p.Phase {
		case uartboot.PhaseTransfer:
			if bar == nil && p.TotalBlocks > 0 {
				bar = progressbar.NewOptions(p.TotalBlocks,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("sending"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
				)
			}
			if bar != nil {
				_ = bar.Set(p.Block)
			}
		case uartboot.PhaseComplete:
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(os.Stderr)
			}
		}
	}
}

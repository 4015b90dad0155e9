// Package terminal relays raw bytes between the operator and the
// target's serial console after a successful boot.
//
// The relay runs until the operator types the escape sequence, the
// context is cancelled (the CLI wires that to signal delivery, so
// Ctrl-C is a normal exit), or either side fails. There are no
// timeouts in terminal mode.
//
// Putting the operator's tty into raw mode is the caller's business;
// this package only moves bytes.
package terminal

import (
	"context"
	"errors"
	"io"
)

// DefaultEscape is Ctrl-\ followed by c, the classic "leave the
// console" chord.
var DefaultEscape = []byte{0x1C, 'c'}

// Relay copies port output to out and operator input from in to port
// until the escape sequence appears in the operator stream. Partial
// escape prefixes are forwarded to the target as typed; the read chunk
// that completes the sequence is swallowed.
//
// EOF on either side and a cancelled context are normal exits, not
// errors.
func Relay(ctx context.Context, port io.ReadWriter, in io.Reader, out io.Writer, escape []byte) error {
	if len(escape) == 0 {
		escape = DefaultEscape
	}

	errc := make(chan error, 2)

	// target -> operator
	go func() {
		_, err := io.Copy(out, port)
		errc <- err
	}()

	// operator -> target
	go func() {
		m := escapeMatcher{seq: escape}
		buf := make([]byte, 128)
		for {
			n, err := in.Read(buf)
			if err != nil {
				errc <- err
				return
			}
			for i := 0; i < n; i++ {
				if m.match(buf[i]) {
					errc <- nil
					return
				}
			}
			if err := writeFull(port, buf[:n]); err != nil {
				errc <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		if err == nil || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// escapeMatcher counts how much of the escape sequence has been seen.
// Any mismatching byte resets the counter.
type escapeMatcher struct {
	seq []byte
	n   int
}

func (m *escapeMatcher) match(b byte) bool {
	if b != m.seq[m.n] {
		m.n = 0
		return false
	}
	m.n++
	if m.n == len(m.seq) {
		m.n = 0
		return true
	}
	return false
}

func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

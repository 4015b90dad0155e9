package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestEscapeMatcher(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "exact sequence", input: "\x1cc", want: true},
		{name: "embedded in traffic", input: "ls -l\r\x1cc", want: true},
		{name: "split by other bytes", input: "\x1cx\x1cc", want: true},
		{name: "prefix only", input: "\x1c", want: false},
		{name: "mismatch resets counter", input: "\x1cxc", want: false},
		{name: "second byte alone", input: "cc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := escapeMatcher{seq: DefaultEscape}
			got := false
			for i := 0; i < len(tt.input); i++ {
				if m.match(tt.input[i]) {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("matched = %v, want %v", got, tt.want)
			}
		})
	}
}

// chunkReader yields each chunk from one Read call, then blocks
// forever, like an idle operator.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		select {} // idle
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

// fakePort records writes; reads block forever (quiet target) unless
// primed with output followed by EOF.
type fakePort struct {
	output  io.Reader
	written bytes.Buffer
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.output == nil {
		select {} // quiet target
	}
	return p.output.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func TestRelayExitsOnEscape(t *testing.T) {
	in := &chunkReader{chunks: [][]byte{
		[]byte("help\r"),
		[]byte("\x1c"), // partial escape, forwarded as typed
		[]byte("x"),    // mismatch resets the counter
		{0x1C, 'c'},    // full escape, swallowed
	}}
	port := &fakePort{}

	err := Relay(context.Background(), port, in, io.Discard, nil)
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}

	if got := port.written.String(); got != "help\r\x1cx" {
		t.Errorf("target received %q, want %q", got, "help\r\x1cx")
	}
}

func TestRelayForwardsTargetOutput(t *testing.T) {
	// The target prints a prompt and closes: EOF is a normal exit and
	// everything printed must have reached the operator first.
	port := &fakePort{output: strings.NewReader("boot> ")}
	var out bytes.Buffer

	err := Relay(context.Background(), port, &chunkReader{}, &out, nil)
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if out.String() != "boot> " {
		t.Errorf("operator saw %q, want %q", out.String(), "boot> ")
	}
}

func TestRelayOperatorEOFIsNormalExit(t *testing.T) {
	err := Relay(context.Background(), &fakePort{}, strings.NewReader("no escape here"), io.Discard, nil)
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
}

func TestRelayReturnsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	// Both sides idle: only the context can end this.
	err := Relay(ctx, &fakePort{}, &chunkReader{}, io.Discard, nil)
	if err != nil {
		t.Fatalf("Relay() error = %v, want nil on cancellation", err)
	}
}

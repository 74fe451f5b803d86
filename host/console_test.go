package host

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// TestConsoleFiltersCarriageReturn exercises the non-terminal path (os.Pipe
// is never a terminal), which is what lets this run without a real tty.
func TestConsoleFiltersCarriageReturn(t *testing.T) {
	r, w, err := os.Pipe()
	assert(t, err == nil, "failed to open pipe: %v", err)

	go func() {
		w.Write([]byte("a\rb"))
		w.Close()
	}()

	var out bytes.Buffer
	console, err := NewConsole(r, &out)
	assert(t, err == nil, "failed to build console: %v", err)
	defer console.Close()

	var got []byte
	for {
		b, ok, err := console.ReadByte(context.Background())
		assert(t, err == nil, "unexpected read error: %v", err)
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert(t, string(got) == "ab", "got %q, want %q (0x0D filtered)", got, "ab")
}

// TestConsoleReadByteCancellation exercises SIGINT-style unwinding: a
// cancelled context returns immediately instead of blocking on a pipe that
// never produces a byte.
func TestConsoleReadByteCancellation(t *testing.T) {
	r, _, err := os.Pipe()
	assert(t, err == nil, "failed to open pipe: %v", err)

	var out bytes.Buffer
	console, err := NewConsole(r, &out)
	assert(t, err == nil, "failed to build console: %v", err)
	defer console.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok, err := console.ReadByte(ctx)
	assert(t, !ok, "want ok=false on cancellation")
	assert(t, err == context.DeadlineExceeded, "want context.DeadlineExceeded, got %v", err)
}

func TestConsoleWriteByte(t *testing.T) {
	r, _, err := os.Pipe()
	assert(t, err == nil, "failed to open pipe: %v", err)

	var out bytes.Buffer
	console, err := NewConsole(r, &out)
	assert(t, err == nil, "failed to build console: %v", err)
	defer console.Close()

	assert(t, console.WriteByte('x') == nil, "write failed")
	assert(t, console.Flush() == nil, "flush failed")
	assert(t, out.String() == "x", "out = %q, want %q", out.String(), "x")
}

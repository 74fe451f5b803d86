// Package host adapts the operating system's stdin/stdout to the vm.IO
// contract the CPU drives for the in/out opcodes.
package host

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Console is the character-by-character stdin/stdout adapter. When stdin is
// a terminal it is switched to raw mode so in/out see every byte the way a
// blocking read would on the original architecture: Ctrl-C as 0x03, Enter
// as 0x0D (filtered here, per the in opcode's contract), no line editing.
// When stdin is not a terminal (a pipe, a test harness) raw mode is skipped
// and reads fall back to a buffered reader.
type Console struct {
	in       io.Reader
	out      *bufio.Writer
	fd       int
	rawState *term.State

	readOnce sync.Once
	reads    chan readResult
}

type readResult struct {
	b   byte
	err error
}

// NewConsole wraps the given streams. Call Close before the process exits
// to restore the terminal and flush output.
func NewConsole(in *os.File, out io.Writer) (*Console, error) {
	c := &Console{in: in, out: bufio.NewWriter(out), fd: int(in.Fd())}
	if term.IsTerminal(c.fd) {
		state, err := term.MakeRaw(c.fd)
		if err != nil {
			return nil, err
		}
		c.rawState = state
	}
	return c, nil
}

// startReading launches the single background reader that feeds ReadByte's
// select loop. A blocking os.Stdin.Read cannot itself be cancelled by ctx,
// so reading runs on its own goroutine for the life of the Console; ReadByte
// abandons it (rather than waiting on it) when ctx is cancelled first.
func (c *Console) startReading() {
	c.reads = make(chan readResult)
	go func() {
		r := bufio.NewReader(c.in)
		for {
			b, err := r.ReadByte()
			c.reads <- readResult{b, err}
			if err != nil {
				return
			}
		}
	}()
}

// ReadByte returns the next input byte, filtering out 0x0D as required by
// the in opcode. ok is false on EOF. If ctx is cancelled before a byte
// arrives, ReadByte returns ctx.Err() — used by the CLI to unwind a blocked
// in on SIGINT and still restore the terminal cleanly via Close.
func (c *Console) ReadByte(ctx context.Context) (byte, bool, error) {
	c.readOnce.Do(c.startReading)
	for {
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		case res := <-c.reads:
			if res.err == io.EOF {
				return 0, false, nil
			}
			if res.err != nil {
				return 0, false, res.err
			}
			if res.b == 0x0D {
				continue
			}
			return res.b, true, nil
		}
	}
}

// WriteByte emits one byte to the output stream.
func (c *Console) WriteByte(b byte) error {
	return c.out.WriteByte(b)
}

// Flush pushes any buffered output to the underlying writer. Called by the
// VM on every halt/Error transition and by Close at process exit.
func (c *Console) Flush() error {
	return c.out.Flush()
}

// Close flushes output and, if the terminal was put into raw mode,
// restores it. Safe to call more than once.
func (c *Console) Close() error {
	flushErr := c.out.Flush()
	if c.rawState == nil {
		return flushErr
	}
	state := c.rawState
	c.rawState = nil
	if err := term.Restore(c.fd, state); err != nil {
		return err
	}
	return flushErr
}

package vm

import "context"

// IO is the character-by-character host collaborator the CPU drives for the
// in/out opcodes. Implementations live outside this package (see host.Console)
// — the core never touches os.Stdin/os.Stdout directly.
type IO interface {
	// ReadByte returns the next input byte. ok is false on EOF. ctx lets a
	// blocking read (the only blocking operation in the ISA) be cancelled
	// out-of-band — e.g. by the CLI's SIGINT handler — without the ISA
	// itself defining any cancellation semantics.
	// Bytes equal to 0x0D must already be filtered out by the implementation.
	ReadByte(ctx context.Context) (b byte, ok bool, err error)
	// WriteByte emits one byte to the output stream.
	WriteByte(b byte) error
}

// discardIO is used when a VM is constructed without an explicit IO
// collaborator (e.g. in tests that never execute in/out); reads report EOF,
// writes succeed silently.
type discardIO struct{}

func (discardIO) ReadByte(context.Context) (byte, bool, error) { return 0, false, nil }
func (discardIO) WriteByte(byte) error                         { return nil }

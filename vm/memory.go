package vm

import "fmt"

// Memory is the flat 2^15-word store shared by every instruction that
// addresses main storage (rmem/wmem, jump and call targets). Every cell
// starts zeroed; any address at or beyond Modulo is out of range.
type Memory struct {
	cells [Modulo]Word
}

// NewMemory returns a zero-initialized memory bank.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns the word at addr, or ErrInvalidAddress if addr is out of range.
func (m *Memory) Read(addr Word) (Word, error) {
	if addr >= Modulo {
		return 0, fmt.Errorf("%w: read at %#04x", ErrInvalidAddress, uint16(addr))
	}
	return m.cells[addr], nil
}

// Write stores value at addr, or returns ErrInvalidAddress if addr is out of range.
func (m *Memory) Write(addr, value Word) error {
	if addr >= Modulo {
		return fmt.Errorf("%w: write at %#04x", ErrInvalidAddress, uint16(addr))
	}
	m.cells[addr] = value
	return nil
}

// Load overlays words starting at address 0; any remaining memory is left zero.
func (m *Memory) Load(words []Word) error {
	if len(words) > len(m.cells) {
		return fmt.Errorf("%w: image of %d words exceeds memory size %d", ErrInvalidAddress, len(words), len(m.cells))
	}
	copy(m.cells[:], words)
	return nil
}

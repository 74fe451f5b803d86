package vm

import "fmt"

// Bus bundles Memory and Stack behind the single interface the CPU drives.
// It exclusively owns both substructures; nothing else in the VM reaches
// into memory or the stack directly.
type Bus struct {
	memory *Memory
	stack  *Stack
}

// NewBus wires up a fresh, zeroed memory bank and an empty stack.
func NewBus() *Bus {
	return &Bus{memory: NewMemory(), stack: NewStack()}
}

// ReadWord reads one word from memory.
func (b *Bus) ReadWord(addr Word) (Word, error) {
	return b.memory.Read(addr)
}

// WriteWord writes one word to memory.
func (b *Bus) WriteWord(addr, value Word) error {
	return b.memory.Write(addr, value)
}

// LoadImage overlays a program image starting at address 0.
func (b *Bus) LoadImage(words []Word) error {
	return b.memory.Load(words)
}

// PushWord pushes a word onto the stack.
func (b *Bus) PushWord(value Word) {
	b.stack.Push(value)
}

// PopWord pops a word off the stack, returning ErrEmptyStack if it was empty.
func (b *Bus) PopWord() (Word, error) {
	value, ok := b.stack.Pop()
	if !ok {
		return 0, fmt.Errorf("%w", ErrEmptyStack)
	}
	return value, nil
}

// StackLen reports the current stack depth, used by call/ret parity checks.
func (b *Bus) StackLen() int {
	return b.stack.Len()
}

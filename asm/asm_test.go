package asm

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"synacorvm/vm"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func assembleSource(t *testing.T, source string) []byte {
	t.Helper()
	lines := strings.Split(source, "\n")
	image, err := Assemble(lines)
	assert(t, err == nil, "failed to assemble: %v", err)
	return image
}

func TestLabelOnlyLineAttachesToNextToken(t *testing.T) {
	source := `
start:
noop
jmp start
`
	image := assembleSource(t, source)
	words := BytesToWords(image)
	assert(t, len(words) == 3, "want 3 words, got %d: %v", len(words), words)
	assert(t, words[0] == vm.Word(vm.OpNoop), "word 0 = %d, want noop", words[0])
	assert(t, words[1] == vm.Word(vm.OpJmp), "word 1 = %d, want jmp", words[1])
	assert(t, words[2] == 0, "jmp target = %d, want 0 (start)", words[2])
}

func TestInlineLabelOnInstructionLine(t *testing.T) {
	source := `loop: noop
jmp loop`
	image := assembleSource(t, source)
	words := BytesToWords(image)
	assert(t, len(words) == 3, "want 3 words, got %d", len(words))
	assert(t, words[2] == 0, "jmp target = %d, want 0 (loop)", words[2])
}

func TestDataDeclarationEncoding(t *testing.T) {
	source := `greeting dw "Hi",10,0`
	image := assembleSource(t, source)
	words := BytesToWords(image)
	assert(t, len(words) == 4, "want 4 words, got %d", len(words))
	assert(t, words[0] == 'H', "word 0 = %d, want 'H'", words[0])
	assert(t, words[1] == 'i', "word 1 = %d, want 'i'", words[1])
	assert(t, words[2] == 10, "word 2 = %d, want 10", words[2])
	assert(t, words[3] == 0, "word 3 = %d, want 0", words[3])
}

func TestOperandSyntax(t *testing.T) {
	source := `
set r0 #5
add r1 r0 [100]
rmem r2 [r0]
`
	image := assembleSource(t, source)
	words := BytesToWords(image)
	// set r0 #5 -> [1, 0x8000, 5]
	assert(t, words[0] == vm.Word(vm.OpSet), "want set")
	assert(t, words[1] == vm.Modulo+0, "want register r0 encoding")
	assert(t, words[2] == 5, "want literal 5")
	// add r1 r0 [100] -> [9, 0x8001, 0x8000, 100]
	assert(t, words[3] == vm.Word(vm.OpAdd), "want add")
	assert(t, words[6] == 100, "memory-indirect operand should encode as its raw number")
	// rmem r2 [r0] -> [15, 0x8002, 0x8000]
	assert(t, words[7] == vm.Word(vm.OpRmem), "want rmem")
	assert(t, words[9] == vm.Modulo+0, "register-indirect operand should encode identically to a register operand")
}

func TestDuplicateLabelIsError(t *testing.T) {
	source := `
a: noop
a: noop
`
	_, err := Assemble(strings.Split(source, "\n"))
	var aerr *Error
	assert(t, errors.As(err, &aerr), "want *asm.Error, got %v", err)
	assert(t, aerr.Kind == ErrDuplicateLabel, "want ErrDuplicateLabel, got %v", aerr.Kind)
}

func TestUnresolvedLabelIsError(t *testing.T) {
	source := `jmp nowhere`
	_, err := Assemble(strings.Split(source, "\n"))
	var aerr *Error
	assert(t, errors.As(err, &aerr), "want *asm.Error, got %v", err)
	assert(t, aerr.Kind == ErrUnresolvedLabel, "want ErrUnresolvedLabel, got %v", aerr.Kind)
}

func TestSyntaxErrorReportsLine(t *testing.T) {
	source := "noop\nbogus mnemonic here\n"
	_, err := Assemble(strings.Split(source, "\n"))
	var aerr *Error
	assert(t, errors.As(err, &aerr), "want *asm.Error, got %v", err)
	assert(t, aerr.Kind == ErrSyntax, "want ErrSyntax, got %v", aerr.Kind)
	assert(t, aerr.Line == 2, "want line 2, got %d", aerr.Line)
}

func TestStandaloneLabelBeforeDataDeclarationIsError(t *testing.T) {
	source := `
stray:
greeting dw "Hi",10,0
`
	_, err := Assemble(strings.Split(source, "\n"))
	var aerr *Error
	assert(t, errors.As(err, &aerr), "want *asm.Error, got %v", err)
	assert(t, aerr.Kind == ErrSyntax, "want ErrSyntax, got %v", aerr.Kind)
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	source := `
; a comment on its own line
noop ; trailing comment

noop
`
	image := assembleSource(t, source)
	words := BytesToWords(image)
	assert(t, len(words) == 2, "want 2 words, got %d", len(words))
}

func TestLittleEndianRoundTrip(t *testing.T) {
	words := []vm.Word{0, 1, 0x7FFF, 0x8000, 0xFFFF}
	roundTripped := BytesToWords(WordsToBytes(words))
	assert(t, len(roundTripped) == len(words), "length mismatch after round trip")
	for i, w := range words {
		assert(t, roundTripped[i] == w, "word %d = %#04x, want %#04x", i, roundTripped[i], w)
	}
}

// TestHelloRoundTrip exercises scenario 4: testdata/hello.asm, assembled and
// run, halts after printing its greeting.
func TestHelloRoundTrip(t *testing.T) {
	source, err := os.ReadFile("../testdata/hello.asm")
	assert(t, err == nil, "failed to read testdata/hello.asm: %v", err)
	image := assembleSource(t, string(source))
	words := BytesToWords(image)

	var out strings.Builder
	machine := vm.New(vm.WithIO(captureOut{&out}))
	assert(t, machine.LoadMemory(words) == nil, "failed to load image into vm")
	machine.Run(context.Background())

	assert(t, machine.CPU.State() == vm.Halted, "want Halted, got %s (%v)", machine.CPU.State(), machine.CPU.Err())
	assert(t, out.String() == "Hi\n", "stdout = %q, want %q", out.String(), "Hi\n")
}

// TestEchoRoundTrip exercises testdata/echo.asm against the I/O fidelity
// law: every byte fed to stdin comes back out on stdout before EOF ends
// the run.
func TestEchoRoundTrip(t *testing.T) {
	source, err := os.ReadFile("../testdata/echo.asm")
	assert(t, err == nil, "failed to read testdata/echo.asm: %v", err)
	image := assembleSource(t, string(source))
	words := BytesToWords(image)

	var out strings.Builder
	machine := vm.New(vm.WithIO(&echoIO{in: []byte("ab"), out: &out}))
	assert(t, machine.LoadMemory(words) == nil, "failed to load image into vm")
	machine.Run(context.Background())

	assert(t, errors.Is(machine.CPU.Err(), vm.ErrIO), "want ErrIO at EOF, got %v", machine.CPU.Err())
	assert(t, out.String() == "ab", "stdout = %q, want %q", out.String(), "ab")
}

type captureOut struct{ buf *strings.Builder }

func (captureOut) ReadByte(context.Context) (byte, bool, error) { return 0, false, nil }
func (c captureOut) WriteByte(b byte) error {
	c.buf.WriteByte(b)
	return nil
}

// echoIO replays a fixed input byte sequence (reporting EOF once exhausted)
// while capturing everything written back out.
type echoIO struct {
	in  []byte
	pos int
	out *strings.Builder
}

func (e *echoIO) ReadByte(context.Context) (byte, bool, error) {
	if e.pos >= len(e.in) {
		return 0, false, nil
	}
	b := e.in[e.pos]
	e.pos++
	return b, true, nil
}

func (e *echoIO) WriteByte(b byte) error {
	e.out.WriteByte(b)
	return nil
}

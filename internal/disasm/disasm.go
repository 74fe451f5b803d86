// Package disasm reverses a binary image back to words and decoded
// instruction/data tokens. Textual rendering is intentionally unimplemented
// — the policy for how non-printable data bytes and labels preceding data
// declarations should be rendered is left undecided upstream.
package disasm

import (
	"errors"
	"fmt"

	"synacorvm/asm"
	"synacorvm/vm"
)

// ErrRenderingUnspecified is returned by Render: the textual form this
// package would emit for a decoded token stream has no settled policy.
var ErrRenderingUnspecified = errors.New("disasm: textual rendering policy is unspecified")

// ErrMalformedImage is returned by Tokenize when the word stream decodes to
// an operand outside the value model, or an instruction runs off the end
// of the image.
var ErrMalformedImage = errors.New("disasm: malformed image")

// ToWords unpacks a little-endian byte image back to words.
func ToWords(data []byte) []vm.Word {
	return asm.BytesToWords(data)
}

// mode tracks whether the cursor is mid data-declaration (run of non-opcode
// words terminated by a zero word) or about to decode an instruction.
type mode int

const (
	modeInstruction mode = iota
	modeData
)

// Tokenize walks a word stream and reconstructs Instruction and
// DataDeclaration tokens. A run of words that does not parse as a known
// opcode is treated as data until a terminating zero word, mirroring the
// heuristic the reference disassembler used: there is no tag distinguishing
// code from data in the image, so a word greater than the highest opcode
// starts a data run.
func Tokenize(words []vm.Word) ([]asm.Token, error) {
	var tokens []asm.Token
	m := modeInstruction
	var data []asm.Token
	var offset vm.Word

	for i := 0; i < len(words); {
		w := words[i]

		if m == modeData {
			data[len(data)-1].Data = append(data[len(data)-1].Data, w)
			i++
			if w == 0 {
				tok := data[len(data)-1]
				tok.Offset = offset
				tokens = append(tokens, tok)
				offset += tok.Size()
				data = data[:len(data)-1]
				m = modeInstruction
			}
			continue
		}

		op, err := vm.OpcodeFromWord(w)
		if err != nil {
			data = append(data, asm.Token{Kind: asm.TokenData})
			m = modeData
			continue
		}

		argc := op.Argc()
		if i+argc >= len(words) {
			return nil, fmt.Errorf("%w: truncated operand for %s at word %d", ErrMalformedImage, op, i)
		}

		tok := asm.Token{Kind: asm.TokenInstruction, Op: op, Offset: offset}
		for a := 0; a < argc; a++ {
			raw := words[i+1+a]
			if raw < vm.Modulo {
				tok.Operands[a] = &asm.Operand{Kind: asm.OperandNumber, Value: raw}
			} else if raw <= vm.Modulo+vm.NumRegisters-1 {
				tok.Operands[a] = &asm.Operand{Kind: asm.OperandRegister, Reg: int(raw - vm.Modulo)}
			} else {
				return nil, fmt.Errorf("%w: invalid operand word %#04x at word %d", ErrMalformedImage, uint16(raw), i)
			}
		}

		tokens = append(tokens, tok)
		offset += tok.Size()
		i += 1 + argc
	}

	return tokens, nil
}

// Render would produce assembly-source text for a token stream. It is not
// implemented: see the package doc.
func Render([]asm.Token) (string, error) {
	return "", ErrRenderingUnspecified
}

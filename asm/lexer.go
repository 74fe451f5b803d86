package asm

import (
	"regexp"
	"strconv"
	"strings"

	"synacorvm/vm"
)

var (
	commentRx  = regexp.MustCompile(`;.*$`)
	labelOnlyRx = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*):$`)
	instructionRx = regexp.MustCompile(
		`^(?:([a-z][A-Za-z0-9_]*):\s+)?` +
			`([a-z]+)` +
			`(?:\s+(\S+))?` +
			`(?:\s+(\S+))?` +
			`(?:\s+(\S+))?$`)
	declarationRx = regexp.MustCompile(
		`^([a-z][A-Za-z0-9_]*)\s+dw\s+"(.*)"(?:,(\d+(?:,\d+)*))?$`)

	numberRx          = regexp.MustCompile(`^#(\d+)$`)
	registerRx        = regexp.MustCompile(`^r([0-7])$`)
	registerIndirectRx = regexp.MustCompile(`^\[r([0-7])\]$`)
	memoryIndirectRx  = regexp.MustCompile(`^\[(\d+)\]$`)
	identifierRx      = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)
)

// stripComment removes everything from the first ';' to end of line, then
// trims surrounding whitespace.
func stripComment(line string) string {
	return strings.TrimSpace(commentRx.ReplaceAllString(line, ""))
}

// parseOperand classifies one operand substring into its Operand form.
func parseOperand(s string) (*Operand, error) {
	switch {
	case numberRx.MatchString(s):
		n, _ := strconv.ParseUint(numberRx.FindStringSubmatch(s)[1], 10, 16)
		return &Operand{Kind: OperandNumber, Value: vm.Word(n)}, nil
	case registerRx.MatchString(s):
		r, _ := strconv.Atoi(registerRx.FindStringSubmatch(s)[1])
		return &Operand{Kind: OperandRegister, Reg: r}, nil
	case registerIndirectRx.MatchString(s):
		r, _ := strconv.Atoi(registerIndirectRx.FindStringSubmatch(s)[1])
		return &Operand{Kind: OperandRegisterIndirect, Reg: r}, nil
	case memoryIndirectRx.MatchString(s):
		n, _ := strconv.ParseUint(memoryIndirectRx.FindStringSubmatch(s)[1], 10, 16)
		return &Operand{Kind: OperandMemoryIndirect, Value: vm.Word(n)}, nil
	case identifierRx.MatchString(s):
		return &Operand{Kind: OperandLabel, Label: s}, nil
	default:
		return nil, errUnparsableOperand
	}
}

var errUnparsableOperand = &Error{Kind: ErrSyntax}

// Tokenize turns comment-stripped, trimmed source lines into a token
// stream with offsets assigned left to right. Blank lines are skipped.
// A label-only line attaches its name to the next instruction; at most one
// pending label is held at a time. A data declaration that follows a pending
// label is a syntax error.
func Tokenize(lines []string) ([]Token, error) {
	var tokens []Token
	var pendingLabel string
	var offset vm.Word

	for i, raw := range lines {
		lineNo := i + 1
		line := stripComment(raw)
		if line == "" {
			continue
		}

		if m := labelOnlyRx.FindStringSubmatch(line); m != nil {
			pendingLabel = m[1]
			continue
		}

		if m := declarationRx.FindStringSubmatch(line); m != nil {
			if pendingLabel != "" {
				return nil, &Error{Kind: ErrSyntax, Line: lineNo}
			}

			label := m[1]
			text := m[2]
			data := make([]vm.Word, 0, len(text))
			for _, r := range text {
				data = append(data, vm.Word(r))
			}
			if m[3] != "" {
				for _, numStr := range strings.Split(m[3], ",") {
					n, err := strconv.ParseUint(numStr, 10, 16)
					if err != nil {
						return nil, &Error{Kind: ErrSyntax, Line: lineNo}
					}
					data = append(data, vm.Word(n))
				}
			}

			tok := Token{Kind: TokenData, Line: lineNo, Label: label, Offset: offset, Data: data}
			offset += tok.Size()
			tokens = append(tokens, tok)
			continue
		}

		if m := instructionRx.FindStringSubmatch(line); m != nil {
			mnemonic := m[2]
			op, ok := vm.MnemonicToOpcode(mnemonic)
			if !ok {
				return nil, &Error{Kind: ErrSyntax, Line: lineNo}
			}

			label := pendingLabel
			if label == "" {
				label = m[1]
			}
			pendingLabel = ""

			tok := Token{Kind: TokenInstruction, Line: lineNo, Label: label, Offset: offset, Op: op}

			argStrs := []string{m[3], m[4], m[5]}
			argc := op.Argc()
			for a := 0; a < argc; a++ {
				if argStrs[a] == "" {
					return nil, &Error{Kind: ErrSyntax, Line: lineNo}
				}
				operand, err := parseOperand(argStrs[a])
				if err != nil {
					return nil, &Error{Kind: ErrSyntax, Line: lineNo}
				}
				tok.Operands[a] = operand
			}
			for a := argc; a < 3; a++ {
				if argStrs[a] != "" {
					return nil, &Error{Kind: ErrSyntax, Line: lineNo}
				}
			}

			offset += tok.Size()
			tokens = append(tokens, tok)
			continue
		}

		return nil, &Error{Kind: ErrSyntax, Line: lineNo}
	}

	return tokens, nil
}

package asm

import "synacorvm/vm"

// buildSymbolTable collects label -> offset from every labeled token.
// Duplicate names are a DuplicateLabel error.
func buildSymbolTable(tokens []Token) (map[string]vm.Word, error) {
	symbols := make(map[string]vm.Word, len(tokens))
	for _, tok := range tokens {
		if tok.Label == "" {
			continue
		}
		if _, exists := symbols[tok.Label]; exists {
			return nil, &Error{Kind: ErrDuplicateLabel, Label: tok.Label}
		}
		symbols[tok.Label] = tok.Offset
	}
	return symbols, nil
}

// Resolve rewrites every Label operand to a Number holding its resolved
// offset, and every MemoryIndirect operand to a plain Number. Register and
// RegisterIndirect operands are left as-is; AsWord gives them the same wire
// encoding regardless. An operand naming an unknown label is an
// UnresolvedLabel error.
func Resolve(tokens []Token) ([]Token, error) {
	symbols, err := buildSymbolTable(tokens)
	if err != nil {
		return nil, err
	}

	resolved := make([]Token, len(tokens))
	for i, tok := range tokens {
		for a, operand := range tok.Operands {
			if operand == nil {
				continue
			}
			switch operand.Kind {
			case OperandLabel:
				offset, ok := symbols[operand.Label]
				if !ok {
					return nil, &Error{Kind: ErrUnresolvedLabel, Label: operand.Label}
				}
				tok.Operands[a] = &Operand{Kind: OperandNumber, Value: offset}
			case OperandMemoryIndirect:
				tok.Operands[a] = &Operand{Kind: OperandNumber, Value: operand.Value}
			}
		}
		resolved[i] = tok
	}
	return resolved, nil
}

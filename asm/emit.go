package asm

import "synacorvm/vm"

// ToWords serializes resolved tokens to a flat word stream: an instruction
// contributes its opcode code followed by argc operand words; a data
// declaration contributes its payload words verbatim.
func ToWords(tokens []Token) ([]vm.Word, error) {
	var words []vm.Word
	for _, tok := range tokens {
		if tok.Kind == TokenData {
			words = append(words, tok.Data...)
			continue
		}

		words = append(words, vm.Word(tok.Op))
		for i := 0; i < tok.Op.Argc(); i++ {
			w, err := tok.Operands[i].AsWord()
			if err != nil {
				return nil, err
			}
			words = append(words, w)
		}
	}
	return words, nil
}

// WordsToBytes packs words little-endian: low byte first, high byte second.
func WordsToBytes(words []vm.Word) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w&0xFF), byte(w>>8))
	}
	return out
}

// BytesToWords unpacks a little-endian byte stream back to words. A
// trailing odd byte is dropped, matching the image format's word alignment.
func BytesToWords(data []byte) []vm.Word {
	words := make([]vm.Word, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		words = append(words, vm.Word(data[i])|vm.Word(data[i+1])<<8)
	}
	return words
}

// Assemble runs the full pipeline: strip comments, tokenize, resolve
// labels, and emit the little-endian byte image.
func Assemble(lines []string) ([]byte, error) {
	tokens, err := Tokenize(lines)
	if err != nil {
		return nil, err
	}
	resolved, err := Resolve(tokens)
	if err != nil {
		return nil, err
	}
	words, err := ToWords(resolved)
	if err != nil {
		return nil, err
	}
	return WordsToBytes(words), nil
}

package assembler

import (
	"fmt"
	"strings"
)

// Encode assembles one instruction at address 0 with no labels defined.
func Encode(mn string, ops []Operand) ([]byte, error) {
	return encodeAt(mn, ops, &context{})
}

// EncodeLine parses and assembles a single instruction line.
func EncodeLine(text string) ([]byte, error) {
	st, consumed, err := ParseLine(text)
	if err != nil {
		return nil, err
	}
	// Anything after a NUL terminator is not part of the string.
	nul := consumed > 0 && text[consumed-1] == 0
	if rest := strings.TrimSpace(text[consumed:]); rest != "" && !nul {
		return nil, fmt.Errorf("%w: more than one line", ErrSyntax)
	}
	if st.Empty() || isDirective(st.Mnemonic) || st.Label != "" {
		return nil, fmt.Errorf("%w: not a single instruction", ErrSyntax)
	}
	return Encode(st.Mnemonic, st.Operands)
}

func encodeAt(mn string, ops []Operand, c *context) ([]byte, error) {
	d, f, err := selectAt(mn, ops, c)
	if err != nil {
		return nil, err
	}
	code, err := d.Layout.Encode(d.Opcode, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d, err)
	}
	return code, nil
}

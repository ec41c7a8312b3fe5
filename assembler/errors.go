package assembler

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEncoding means the operands are well formed but no opcode accepts them.
	ErrNoEncoding = errors.New("no suitable encoding found")
	// ErrSyntax means a line could not be tokenised.
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownMnemonic means the mnemonic is not in the instruction table.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// ErrUndefinedLabel means an operand names a label that is never defined.
	ErrUndefinedLabel = errors.New("undefined label")
)

// LineError reports the source line that stopped assembly.
type LineError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

package cpu

// Width defines the access width of a register or memory operand.
type Width int

const (
	// WidthNone is the zero value, for operands without a data width.
	WidthNone Width = iota
	// WidthByte represents 8-bit access.
	WidthByte
	// WidthWord represents 16-bit access.
	WidthWord
)

// Bytes returns the number of bytes covered by the width.
func (w Width) Bytes() int {
	switch w {
	case WidthByte:
		return 1
	case WidthWord:
		return 2
	}
	return 0
}

func (w Width) String() string {
	switch w {
	case WidthByte:
		return "byte"
	case WidthWord:
		return "word"
	}
	return "none"
}

// Instruction lengths. Every opcode occupies one or two words.
const (
	ShortLength = 2
	LongLength  = 4
)

// BranchUnit is the size of one relative displacement step in bytes.
const BranchUnit = 2

package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Urethramancer/c166/cpu"
)

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	// OpInvalid is the zero value.
	OpInvalid OperandKind = iota
	// OpRegister is a GPR, SFR or ESFR name.
	OpRegister
	// OpIndirect is [Rw].
	OpIndirect
	// OpPostInc is [Rw+].
	OpPostInc
	// OpPreDec is [-Rw].
	OpPreDec
	// OpIndOffset is [Rw + #data16].
	OpIndOffset
	// OpImmediate is #value.
	OpImmediate
	// OpDirect is a bare numeric address.
	OpDirect
	// OpBitAddr is word.bit.
	OpBitAddr
	// OpCondition is a cc_ token.
	OpCondition
	// OpRelative is a signed word displacement written +XXh or -XXh.
	OpRelative
	// OpLabel is a symbolic code address.
	OpLabel
)

var kindNames = map[OperandKind]string{
	OpRegister: "register", OpIndirect: "indirect", OpPostInc: "post-increment",
	OpPreDec: "pre-decrement", OpIndOffset: "indirect+offset", OpImmediate: "immediate",
	OpDirect: "direct", OpBitAddr: "bit address", OpCondition: "condition",
	OpRelative: "relative", OpLabel: "label",
}

func (k OperandKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "invalid"
}

// Operand represents a parsed instruction operand.
type Operand struct {
	Kind OperandKind
	// Reg is the register of OpRegister, the index register of the
	// indirect forms and the word of an OpBitAddr written by name.
	Reg cpu.Register
	// Value is the number of OpImmediate, OpDirect, OpRelative, the
	// offset of OpIndOffset and the word address of a numeric OpBitAddr.
	Value int64
	// Wide is set when a literal was written with more than two significant
	// hex digits, asking for a 16-bit field.
	Wide bool
	// Bit is the bit number of an OpBitAddr.
	Bit   uint8
	Cond  cpu.Condition
	Label string
	Raw   string
}

func (o Operand) String() string {
	if o.Raw != "" {
		return o.Raw
	}
	return o.Kind.String()
}

var (
	reIndirect  = regexp.MustCompile(`(?i)^\[\s*(r[0-9]{1,2})\s*\]$`)
	rePostInc   = regexp.MustCompile(`(?i)^\[\s*(r[0-9]{1,2})\s*\+\s*\]$`)
	rePreDec    = regexp.MustCompile(`(?i)^\[\s*-\s*(r[0-9]{1,2})\s*\]$`)
	reIndOffset = regexp.MustCompile(`(?i)^\[\s*(r[0-9]{1,2})\s*\+\s*#\s*([0-9a-f]+h|[0-9])\s*\]$`)
	reImmediate = regexp.MustCompile(`^#\s*(\S+)$`)
	reBitAddr   = regexp.MustCompile(`(?i)^([a-z_][a-z0-9_]*|[0-9][0-9a-f]*h)\.([0-9]{1,2})$`)
	reCondition = regexp.MustCompile(`(?i)^cc_[a-z]+$`)
	reRelative  = regexp.MustCompile(`(?i)^([+-])\s*([0-9a-f]+h|[0-9])$`)
	reHex       = regexp.MustCompile(`(?i)^([0-9a-f]+)h$`)
	reDecimal   = regexp.MustCompile(`^[0-9]$`)
	reLabel     = regexp.MustCompile(`(?i)^[a-z_][a-z0-9_]*$`)
)

// ParseOperand converts one operand token into a structured Operand.
// The whole token must match; nothing is ignored.
func ParseOperand(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Operand{}, fmt.Errorf("%w: empty operand", ErrSyntax)
	}

	// More specific patterns first.
	if op, ok, err := tryParseIndirectModes(s); ok || err != nil {
		return op, err
	}
	if op, ok := tryParseRegister(s); ok {
		return op, nil
	}
	if op, ok, err := tryParseCondition(s); ok || err != nil {
		return op, err
	}
	if op, ok, err := tryParseImmediate(s); ok || err != nil {
		return op, err
	}
	if op, ok, err := tryParseBitAddr(s); ok || err != nil {
		return op, err
	}
	if op, ok, err := tryParseRelative(s); ok || err != nil {
		return op, err
	}
	if op, ok, err := tryParseDirect(s); ok || err != nil {
		return op, err
	}
	if op, ok := tryParseLabel(s); ok {
		return op, nil
	}

	return Operand{}, fmt.Errorf("%w: unknown operand format %q", ErrSyntax, s)
}

// tryParseIndirectModes handles [Rw], [Rw+], [-Rw] and [Rw + #data16].
func tryParseIndirectModes(s string) (Operand, bool, error) {
	if !strings.HasPrefix(s, "[") {
		return Operand{}, false, nil
	}
	op := Operand{Raw: s}
	var reg string
	switch {
	case reIndOffset.MatchString(s):
		m := reIndOffset.FindStringSubmatch(s)
		val, _, err := ParseNumber(m[2])
		if err != nil {
			return op, true, err
		}
		op.Kind, op.Value, reg = OpIndOffset, val, m[1]
	case reIndirect.MatchString(s):
		op.Kind, reg = OpIndirect, reIndirect.FindStringSubmatch(s)[1]
	case rePostInc.MatchString(s):
		op.Kind, reg = OpPostInc, rePostInc.FindStringSubmatch(s)[1]
	case rePreDec.MatchString(s):
		op.Kind, reg = OpPreDec, rePreDec.FindStringSubmatch(s)[1]
	default:
		return op, true, fmt.Errorf("%w: bad indirect operand %q", ErrSyntax, s)
	}

	r, ok := cpu.ParseGPR(reg)
	if !ok || r.Kind != cpu.RegWordGPR {
		return op, true, fmt.Errorf("%w: %q is not a word register", ErrSyntax, reg)
	}
	op.Reg = r
	return op, true, nil
}

// tryParseRegister handles GPR, SFR and ESFR names.
func tryParseRegister(s string) (Operand, bool) {
	r, ok := cpu.LookupRegister(s)
	if !ok {
		return Operand{}, false
	}
	return Operand{Kind: OpRegister, Reg: r, Raw: s}, true
}

// tryParseCondition handles cc_XX.
func tryParseCondition(s string) (Operand, bool, error) {
	if !reCondition.MatchString(s) {
		return Operand{}, false, nil
	}
	c, ok := cpu.ParseCondition(s)
	if !ok {
		return Operand{}, true, fmt.Errorf("%w: unknown condition %q", ErrSyntax, s)
	}
	return Operand{Kind: OpCondition, Cond: c, Raw: s}, true, nil
}

// tryParseImmediate handles #<data>.
func tryParseImmediate(s string) (Operand, bool, error) {
	m := reImmediate.FindStringSubmatch(s)
	if m == nil {
		return Operand{}, false, nil
	}
	val, wide, err := ParseNumber(m[1])
	if err != nil {
		return Operand{}, true, err
	}
	return Operand{Kind: OpImmediate, Value: val, Wide: wide, Raw: s}, true, nil
}

// tryParseBitAddr handles name.bit and address.bit.
func tryParseBitAddr(s string) (Operand, bool, error) {
	m := reBitAddr.FindStringSubmatch(s)
	if m == nil {
		return Operand{}, false, nil
	}
	op := Operand{Kind: OpBitAddr, Raw: s}
	if err := bitWord(&op, m[1]); err != nil {
		return op, true, err
	}
	bit, err := strconv.Atoi(m[2])
	if err != nil || bit > 15 {
		return op, true, fmt.Errorf("%w: bit number %q out of range", ErrSyntax, m[2])
	}
	op.Bit = uint8(bit)
	return op, true, nil
}

// tryParseRelative handles +XXh and -XXh.
func tryParseRelative(s string) (Operand, bool, error) {
	m := reRelative.FindStringSubmatch(s)
	if m == nil {
		return Operand{}, false, nil
	}
	val, _, err := ParseNumber(m[2])
	if err != nil {
		return Operand{}, true, err
	}
	if m[1] == "-" {
		val = -val
	}
	return Operand{Kind: OpRelative, Value: val, Raw: s}, true, nil
}

// tryParseDirect handles a bare numeric address.
func tryParseDirect(s string) (Operand, bool, error) {
	if !reHex.MatchString(s) && !reDecimal.MatchString(s) {
		return Operand{}, false, nil
	}
	val, wide, err := ParseNumber(s)
	if err != nil {
		return Operand{}, true, err
	}
	return Operand{Kind: OpDirect, Value: val, Wide: wide, Raw: s}, true, nil
}

// tryParseLabel handles an operand that is just a label.
func tryParseLabel(s string) (Operand, bool) {
	if !reLabel.MatchString(s) {
		return Operand{}, false
	}
	return Operand{Kind: OpLabel, Label: strings.ToLower(s), Raw: s}, true
}

// bitWord records the word part of a bit address. The word must be
// bit-addressable in at least one window; which short address it gets
// depends on the extension window at the point of use.
func bitWord(op *Operand, word string) error {
	if r, ok := cpu.LookupRegister(word); ok {
		if r.Kind == cpu.RegByteGPR {
			return fmt.Errorf("%w: byte register %s is not bit-addressable", ErrSyntax, word)
		}
		op.Reg = r
		if r.Kind == cpu.RegWordGPR || anyBitShort(r.Address) {
			return nil
		}
		return fmt.Errorf("%w: %s is not bit-addressable", ErrSyntax, word)
	}
	addr, _, err := ParseNumber(word)
	if err != nil {
		return err
	}
	if addr > 0xFFFF || !anyBitShort(uint16(addr)) {
		return fmt.Errorf("%w: %s is not a bit-addressable address", ErrSyntax, word)
	}
	op.Value = addr
	return nil
}

func anyBitShort(addr uint16) bool {
	_, sfr := cpu.BitShort(addr, false)
	_, esfr := cpu.BitShort(addr, true)
	return sfr || esfr
}

// ParseNumber reads hex with an h suffix or a single decimal digit.
// wide reports more than two significant hex digits, after dropping one
// leading zero that only keeps a letter digit from starting the token.
func ParseNumber(s string) (val int64, wide bool, err error) {
	s = strings.TrimSpace(s)
	if reDecimal.MatchString(s) {
		return int64(s[0] - '0'), false, nil
	}
	m := reHex.FindStringSubmatch(s)
	if m == nil {
		return 0, false, fmt.Errorf("%w: invalid number format %q", ErrSyntax, s)
	}
	digits := m[1]
	if len(digits) > 8 {
		return 0, false, fmt.Errorf("%w: number %q too large", ErrSyntax, s)
	}
	for _, c := range strings.ToUpper(digits) {
		val = val<<4 | int64(hexDigit(byte(c)))
	}
	if len(digits) > 1 && digits[0] == '0' && hexDigit(digits[1]) >= 10 {
		digits = digits[1:]
	}
	return val, len(digits) > 2, nil
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

package cpu

import "strings"

// Condition is the 4-bit condition code used by jmpr, jmpa, jmpi, calla and calli.
type Condition uint8

// Condition codes in encoding order.
const (
	CondUC  Condition = iota // unconditional
	CondNET                  // not equal and not end of table
	CondZ                    // zero, also EQ
	CondNZ                   // not zero, also NE
	CondV                    // overflow
	CondNV                   // no overflow
	CondN                    // negative
	CondNN                   // not negative
	CondC                    // carry, also ULT
	CondNC                   // no carry, also UGE
	CondSGT                  // signed greater than
	CondSLE                  // signed less or equal
	CondSLT                  // signed less than
	CondSGE                  // signed greater or equal
	CondUGT                  // unsigned greater than
	CondULE                  // unsigned less or equal
)

var condNames = [16]string{
	"cc_UC", "cc_NET", "cc_Z", "cc_NZ", "cc_V", "cc_NV", "cc_N", "cc_NN",
	"cc_C", "cc_NC", "cc_SGT", "cc_SLE", "cc_SLT", "cc_SGE", "cc_UGT", "cc_ULE",
}

var condAliases = map[string]Condition{
	"cc_eq":  CondZ,
	"cc_ne":  CondNZ,
	"cc_ult": CondC,
	"cc_uge": CondNC,
}

func (c Condition) String() string {
	return condNames[c&0xF]
}

// Unconditional reports whether the condition always holds.
func (c Condition) Unconditional() bool {
	return c&0xF == CondUC
}

// ParseCondition converts a cc_ token (any case) to its code.
func ParseCondition(s string) (Condition, bool) {
	lc := strings.ToLower(s)
	if !strings.HasPrefix(lc, "cc_") {
		return 0, false
	}
	for i, n := range condNames {
		if strings.ToLower(n) == lc {
			return Condition(i), true
		}
	}
	c, ok := condAliases[lc]
	return c, ok
}

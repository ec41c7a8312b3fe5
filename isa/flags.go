package isa

import "strings"

// Flags classify what an opcode does, for control-flow consumers.
type Flags uint16

const (
	FlagArithmetic Flags = 1 << iota
	FlagLogic
	FlagCompare
	FlagMove
	FlagJump
	FlagCall
	FlagReturn
	FlagTrap
	FlagNull
	// FlagCondition marks branches that may fall through.
	FlagCondition
	// FlagRegister marks opcodes with at least one register operand.
	FlagRegister
	// FlagSystem marks power, watchdog and prefix instructions.
	FlagSystem
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{FlagArithmetic, "arith"},
	{FlagLogic, "logic"},
	{FlagCompare, "compare"},
	{FlagMove, "move"},
	{FlagJump, "jump"},
	{FlagCall, "call"},
	{FlagReturn, "return"},
	{FlagTrap, "trap"},
	{FlagNull, "null"},
	{FlagCondition, "cond"},
	{FlagRegister, "reg"},
	{FlagSystem, "system"},
}

// Has reports whether all bits in x are set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// Any reports whether any bit in x is set.
func (f Flags) Any(x Flags) bool {
	return f&x != 0
}

// IsBranch reports whether the opcode transfers control.
func (f Flags) IsBranch() bool {
	return f.Any(FlagJump | FlagCall | FlagReturn | FlagTrap)
}

func (f Flags) String() string {
	var parts []string
	for _, n := range flagNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

package disassembler

import (
	"fmt"

	"github.com/Urethramancer/c166/cpu"
	"github.com/Urethramancer/c166/isa"
)

// BranchKind says how an instruction leaves the straight-line path.
type BranchKind int

const (
	// BranchNone is any instruction that only falls through.
	BranchNone BranchKind = iota
	// BranchJump transfers control without saving a return address.
	BranchJump
	// BranchCall saves a return address.
	BranchCall
	// BranchReturn pops a return address.
	BranchReturn
	// BranchTrap enters a trap vector.
	BranchTrap
)

func (k BranchKind) String() string {
	switch k {
	case BranchJump:
		return "jump"
	case BranchCall:
		return "call"
	case BranchReturn:
		return "return"
	case BranchTrap:
		return "trap"
	}
	return "none"
}

// Branch is the control-flow metadata of one instruction.
type Branch struct {
	Kind BranchKind
	// Static reports whether Target is known without executing anything.
	Static bool
	// Target is the absolute destination when Static is set.
	Target uint32
	// Relative is the raw word displacement of PC-relative branches.
	Relative int32
	// IsRelative is set for jmpr, callr and the bit branches.
	IsRelative bool
	// Conditional is set when the branch may fall through.
	Conditional bool
	// Condition is the 4-bit condition code when HasCondition is set.
	// Bit branches are conditional without one.
	Condition    cpu.Condition
	HasCondition bool
}

// Instruction is one decoded instruction at a specific address.
type Instruction struct {
	Address    uint32
	Bytes      []byte
	Descriptor *isa.Descriptor
	Fields     isa.Fields
	Mnemonic   string
	Text       string
	Flags      isa.Flags
	Branch     Branch
	IsCode     bool // reachable from the entry point
}

// Size returns the instruction length in bytes.
func (inst *Instruction) Size() uint32 {
	return uint32(len(inst.Bytes))
}

// Terminal reports whether execution never continues at the next instruction.
func (inst *Instruction) Terminal() bool {
	switch inst.Branch.Kind {
	case BranchReturn:
		return true
	case BranchJump:
		return !inst.Branch.Conditional
	}
	return false
}

// Decode decodes the instruction at the start of code, which sits at pc.
func Decode(code []byte, pc uint32, opts Options) (*Instruction, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: empty buffer at %06Xh", isa.ErrTruncated, pc)
	}
	d := isa.Lookup(code[0])
	if d == nil {
		return nil, fmt.Errorf("%w: opcode %02Xh at %06Xh", isa.ErrUnknownInstruction, code[0], pc)
	}
	f, err := d.Layout.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("%s at %06Xh: %w", d.Mnemonic, pc, err)
	}

	n := d.Length()
	inst := &Instruction{
		Address:    pc,
		Bytes:      append([]byte(nil), code[:n]...),
		Descriptor: d,
		Fields:     f,
		Mnemonic:   mnemonic(d, &f),
		Flags:      d.Flags,
	}
	inst.Text = Format(d, &inst.Fields, opts)
	inst.Branch = branchOf(d, &inst.Fields, pc)
	return inst, nil
}

func branchOf(d *isa.Descriptor, f *isa.Fields, pc uint32) Branch {
	var b Branch
	switch {
	case d.Flags.Has(isa.FlagCall):
		b.Kind = BranchCall
	case d.Flags.Has(isa.FlagJump):
		b.Kind = BranchJump
	case d.Flags.Has(isa.FlagReturn):
		b.Kind = BranchReturn
	case d.Flags.Has(isa.FlagTrap):
		b.Kind = BranchTrap
	default:
		return b
	}

	if f.Has(isa.FieldCondition0) {
		b.HasCondition = true
		b.Condition = cpu.Condition(f.Uint(isa.FieldCondition0))
		b.Conditional = !b.Condition.Unconditional()
	} else {
		b.Conditional = d.Flags.Has(isa.FlagCondition)
	}

	next := pc + uint32(d.Length())
	switch {
	case f.Has(isa.FieldRelative0):
		b.IsRelative = true
		b.Relative = f.Int(isa.FieldRelative0)
		b.Static = true
		b.Target = uint32(int64(next) + int64(b.Relative)*cpu.BranchUnit)
	case f.Has(isa.FieldAddress1):
		b.Static = true
		b.Target = f.Uint(isa.FieldAddress1)
	case f.Has(isa.FieldAddress0):
		b.Static = true
		b.Target = pc&^0xFFFF | f.Uint(isa.FieldAddress0)
	case f.Has(isa.FieldTrap0):
		b.Static = true
		b.Target = f.Uint(isa.FieldTrap0) * 4
	}
	return b
}

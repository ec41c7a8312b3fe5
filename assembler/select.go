package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/c166/cpu"
	"github.com/Urethramancer/c166/isa"
)

// context carries what operand binding needs beyond the operands themselves.
type context struct {
	mnemonic string
	pc       uint32
	// labels resolves symbolic operands. When lax is set, unknown labels
	// bind to a placeholder so sizes can be computed before all labels exist.
	labels map[string]uint32
	lax    bool
	// extended is set inside the window of an extr, extpr or extsr prefix,
	// where short register and bit addresses reach the ESFRs.
	extended bool
}

func (c *context) label(name string) (uint32, bool) {
	addr, ok := c.labels[name]
	return addr, ok
}

// rule is one step of variant selection. Rules run in order for every
// candidate opcode; the first candidate passing all of them wins.
type rule struct {
	name  string
	check func(d *isa.Descriptor, ops []Operand, c *context) bool
}

var rules = []rule{
	{"operand count", checkCount},
	{"operand kind", perSlot(kindFits)},
	{"register width", perSlot(widthFits)},
	{"numeric range", perSlot(rangeFits)},
	{"index register", perSlot(indexFits)},
	{"opcode-embedded field", checkEmbedded},
}

func perSlot(fn func(s isa.Slot, op *Operand, c *context, length int) bool) func(*isa.Descriptor, []Operand, *context) bool {
	return func(d *isa.Descriptor, ops []Operand, c *context) bool {
		for i, s := range d.Shape.Slots() {
			if !fn(s, &ops[i], c, d.Length()) {
				return false
			}
		}
		return true
	}
}

func checkCount(d *isa.Descriptor, ops []Operand, _ *context) bool {
	return d.Shape.Operands() == len(ops)
}

var slotKinds = map[isa.SlotKind][]OperandKind{
	isa.SlotRw:         {OpRegister},
	isa.SlotRb:         {OpRegister},
	isa.SlotRegW:       {OpRegister, OpDirect},
	isa.SlotRegB:       {OpRegister, OpDirect},
	isa.SlotMem:        {OpDirect, OpRegister},
	isa.SlotInd:        {OpIndirect},
	isa.SlotPostInc:    {OpPostInc},
	isa.SlotPreDec:     {OpPreDec},
	isa.SlotIndOff:     {OpIndOffset},
	isa.SlotData3OrInd: {OpImmediate, OpIndirect, OpPostInc},
	isa.SlotData4:      {OpImmediate},
	isa.SlotData8:      {OpImmediate},
	isa.SlotData16:     {OpImmediate},
	isa.SlotMask8:      {OpImmediate},
	isa.SlotBitAddr:    {OpBitAddr},
	isa.SlotBitoff:     {OpRegister, OpDirect},
	isa.SlotCond:       {OpCondition},
	isa.SlotRel:        {OpRelative, OpLabel},
	isa.SlotCaddr:      {OpDirect, OpLabel},
	isa.SlotSeg:        {OpDirect},
	isa.SlotPageSeg:    {OpImmediate},
	isa.SlotIrange:     {OpImmediate},
	isa.SlotTrap:       {OpImmediate},
}

func kindFits(s isa.Slot, op *Operand, _ *context, _ int) bool {
	for _, k := range slotKinds[s.Kind] {
		if op.Kind == k {
			return true
		}
	}
	return false
}

// widthFits keeps byte registers out of word slots and the other way round.
// SFRs serve either width but never a nibble register field.
func widthFits(s isa.Slot, op *Operand, _ *context, _ int) bool {
	if op.Kind != OpRegister {
		return true
	}
	switch s.Kind {
	case isa.SlotRw:
		return op.Reg.Kind == cpu.RegWordGPR
	case isa.SlotRb:
		return op.Reg.Kind == cpu.RegByteGPR
	case isa.SlotRegW:
		return op.Reg.Kind != cpu.RegByteGPR
	case isa.SlotRegB:
		return op.Reg.Kind != cpu.RegWordGPR
	case isa.SlotMem:
		return !op.Reg.IsGPR()
	case isa.SlotBitoff:
		return op.Reg.Kind != cpu.RegByteGPR
	}
	return true
}

// rangeFits checks that every number fits its field. A narrow literal that
// fits #data3 or #data4 is accepted there, and a wide one is refused, which
// makes the short form win whenever it is listed first.
func rangeFits(s isa.Slot, op *Operand, c *context, length int) bool {
	v := op.Value
	switch s.Kind {
	case isa.SlotRegW, isa.SlotRegB:
		_, ok := regShort(op, c.extended)
		return ok
	case isa.SlotMem:
		_, ok := memAddress(op)
		return ok
	case isa.SlotBitoff:
		_, ok := bitoffShort(op, c.extended)
		return ok
	case isa.SlotBitAddr:
		_, ok := bitAddrShort(op, c.extended)
		return ok
	case isa.SlotIndOff, isa.SlotData16:
		return v >= 0 && v <= 0xFFFF
	case isa.SlotData3OrInd:
		if op.Kind == OpImmediate {
			return !op.Wide && v >= 0 && v <= 7
		}
	case isa.SlotData4:
		return !op.Wide && v >= 0 && v <= 0xF
	case isa.SlotData8, isa.SlotMask8:
		return v >= 0 && v <= 0xFF
	case isa.SlotTrap:
		return v >= 0 && v <= 0x7F
	case isa.SlotIrange:
		return v >= 1 && v <= 4
	case isa.SlotPageSeg:
		if isa.IsPageMnemonic(c.mnemonic) {
			return v >= 0 && v <= 0x3FF
		}
		return v >= 0 && v <= 0xFF
	case isa.SlotSeg:
		return v >= 0 && v <= 0xFF
	case isa.SlotCaddr:
		if op.Kind == OpLabel {
			_, ok := c.label(op.Label)
			return ok || c.lax
		}
		return v >= 0 && v <= 0xFFFF
	case isa.SlotRel:
		r, ok := relative(op, c, length)
		return ok && r >= -128 && r <= 127
	}
	return true
}

// indexFits limits the packed [Rw] and [Rw+] forms to r0-r3.
func indexFits(s isa.Slot, op *Operand, _ *context, _ int) bool {
	if s.Kind == isa.SlotData3OrInd && op.Kind != OpImmediate {
		return op.Reg.Num <= 3
	}
	return true
}

func checkEmbedded(d *isa.Descriptor, ops []Operand, c *context) bool {
	field, ok := d.Layout.Embedded()
	if !ok {
		return true
	}
	f := bind(d, ops, c)
	return f.Uint(field) == uint32(d.Opcode>>4)
}

// Select returns the first descriptor for mn, in preference order, that
// accepts ops, together with the fields to encode.
func Select(mn string, ops []Operand) (*isa.Descriptor, isa.Fields, error) {
	return selectAt(mn, ops, &context{mnemonic: strings.ToLower(mn)})
}

func selectAt(mn string, ops []Operand, c *context) (*isa.Descriptor, isa.Fields, error) {
	mn = strings.ToLower(mn)
	candidates := isa.ByMnemonic(mn)
	if len(candidates) == 0 {
		return nil, isa.Fields{}, fmt.Errorf("%w: %s", ErrUnknownMnemonic, mn)
	}
	c.mnemonic = mn

	for _, d := range candidates {
		if accepts(d, ops, c) {
			return d, bind(d, ops, c), nil
		}
	}

	for _, op := range ops {
		if op.Kind == OpLabel && !c.lax {
			if _, ok := c.label(op.Label); !ok {
				return nil, isa.Fields{}, fmt.Errorf("%w: %s", ErrUndefinedLabel, op.Raw)
			}
		}
	}
	return nil, isa.Fields{}, fmt.Errorf("%w: %s %s", ErrNoEncoding, mn, joinOperands(ops))
}

func accepts(d *isa.Descriptor, ops []Operand, c *context) bool {
	for _, r := range rules {
		if !r.check(d, ops, c) {
			return false
		}
	}
	return true
}

func joinOperands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

// bind converts operands that passed every rule into layout fields.
func bind(d *isa.Descriptor, ops []Operand, c *context) isa.Fields {
	var f isa.Fields
	if d.Layout.SubMnemonics() != nil {
		f.SetString(isa.FieldMnemonic, c.mnemonic)
	}

	for i, s := range d.Shape.Slots() {
		op := &ops[i]
		switch s.Kind {
		case isa.SlotRw, isa.SlotRb, isa.SlotInd, isa.SlotPostInc, isa.SlotPreDec:
			f.SetUint(s.Field, uint32(op.Reg.Num))
		case isa.SlotRegW, isa.SlotRegB:
			short, _ := regShort(op, c.extended)
			f.SetUint(s.Field, uint32(short))
		case isa.SlotMem:
			addr, _ := memAddress(op)
			f.SetUint(s.Field, uint32(addr))
		case isa.SlotIndOff:
			f.SetUint(s.Field, uint32(op.Reg.Num))
			f.SetUint(s.Aux, uint32(op.Value))
		case isa.SlotData3OrInd:
			switch op.Kind {
			case OpImmediate:
				f.SetString(isa.FieldMode0, isa.ModeData3)
				f.SetUint(isa.FieldData0, uint32(op.Value))
			case OpIndirect:
				f.SetString(isa.FieldMode0, isa.ModeReg)
				f.SetUint(isa.FieldRegister1, uint32(op.Reg.Num))
			case OpPostInc:
				f.SetString(isa.FieldMode0, isa.ModeRegInc)
				f.SetUint(isa.FieldRegister1, uint32(op.Reg.Num))
			}
		case isa.SlotData4, isa.SlotData8, isa.SlotData16, isa.SlotMask8,
			isa.SlotTrap, isa.SlotIrange, isa.SlotSeg:
			f.SetUint(s.Field, uint32(op.Value))
		case isa.SlotPageSeg:
			if isa.IsPageMnemonic(c.mnemonic) {
				f.SetUint(isa.FieldPage0, uint32(op.Value))
			} else {
				f.SetUint(isa.FieldSegment0, uint32(op.Value))
			}
		case isa.SlotBitAddr:
			short, _ := bitAddrShort(op, c.extended)
			f.SetUint(s.Field, uint32(short))
			f.SetUint(s.Aux, uint32(op.Bit))
		case isa.SlotBitoff:
			short, _ := bitoffShort(op, c.extended)
			f.SetUint(s.Field, uint32(short))
		case isa.SlotCond:
			f.SetUint(s.Field, uint32(op.Cond))
		case isa.SlotRel:
			r, _ := relative(op, c, d.Length())
			f.SetInt(s.Field, int32(r))
		case isa.SlotCaddr:
			addr := uint32(op.Value)
			if op.Kind == OpLabel {
				addr, _ = c.label(op.Label)
			}
			f.SetUint(s.Field, addr&0xFFFF)
		default:
			panic(fmt.Sprintf("assembler: no binding for operand kind %s", s.Kind))
		}
	}
	return f
}

// regShort maps a register operand to the 8-bit reg field. SFRs are
// reachable outside an extension window and ESFRs only inside one.
func regShort(op *Operand, extended bool) (uint8, bool) {
	switch {
	case op.Kind == OpRegister && op.Reg.IsGPR():
		return cpu.ShortGPR | op.Reg.Num, true
	case op.Kind == OpRegister:
		return cpu.RegShort(op.Reg.Address, extended)
	case op.Kind == OpDirect && op.Value >= 0 && op.Value <= 0xFFFF:
		return cpu.RegShort(uint16(op.Value), extended)
	}
	return 0, false
}

// memAddress maps a direct address or an SFR name to a 16-bit address.
func memAddress(op *Operand) (uint16, bool) {
	switch {
	case op.Kind == OpDirect && op.Value >= 0 && op.Value <= 0xFFFF:
		return uint16(op.Value), true
	case op.Kind == OpRegister && !op.Reg.IsGPR():
		return op.Reg.Address, true
	}
	return 0, false
}

// bitoffShort maps a whole bit-addressable word to its short address.
func bitoffShort(op *Operand, extended bool) (uint8, bool) {
	switch {
	case op.Kind == OpRegister && op.Reg.Kind == cpu.RegWordGPR:
		return cpu.ShortGPR | op.Reg.Num, true
	case op.Kind == OpRegister && !op.Reg.IsGPR():
		return cpu.BitShort(op.Reg.Address, extended)
	case op.Kind == OpDirect && op.Value >= 0 && op.Value <= 0xFFFF:
		return cpu.BitShort(uint16(op.Value), extended)
	}
	return 0, false
}

// bitAddrShort maps the word of a word.bit operand to its short address.
func bitAddrShort(op *Operand, extended bool) (uint8, bool) {
	if op.Kind != OpBitAddr {
		return 0, false
	}
	switch {
	case op.Reg.Kind == cpu.RegWordGPR:
		return cpu.ShortGPR | op.Reg.Num, true
	case op.Reg.Kind != cpu.RegNone:
		return cpu.BitShort(op.Reg.Address, extended)
	}
	return cpu.BitShort(uint16(op.Value), extended)
}

// relative returns the word displacement of a relative operand. Labels are
// measured from the end of the instruction.
func relative(op *Operand, c *context, length int) (int64, bool) {
	if op.Kind == OpRelative {
		return op.Value, true
	}
	target, ok := c.label(op.Label)
	if !ok {
		return 0, c.lax
	}
	delta := int64(target) - int64(c.pc) - int64(length)
	if delta%cpu.BranchUnit != 0 {
		return 0, false
	}
	return delta / cpu.BranchUnit, true
}

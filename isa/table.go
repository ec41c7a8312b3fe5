package isa

import (
	"fmt"
	"sort"
)

// Descriptor describes one opcode byte.
type Descriptor struct {
	Opcode   byte
	Mnemonic string
	Shape    Shape
	Layout   Layout
	Flags    Flags
}

// Length returns the encoded size in bytes.
func (d *Descriptor) Length() int {
	return d.Layout.Length()
}

// Mnemonics returns every mnemonic the opcode can decode to.
func (d *Descriptor) Mnemonics() []string {
	if subs := d.Layout.SubMnemonics(); subs != nil {
		return subs
	}
	return []string{d.Mnemonic}
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%02Xh %s %s (%s) [%s]", d.Opcode, d.Mnemonic, d.Shape, d.Layout, d.Flags)
}

var (
	opcodes    [256]*Descriptor
	byMnemonic = map[string][]*Descriptor{}
)

// aluOps are the eight two-operand arithmetic and logic families that fill
// columns 0-9 of rows 0-7.
var aluOps = [8]struct {
	name  string
	flags Flags
}{
	{"add", FlagArithmetic},
	{"addc", FlagArithmetic},
	{"sub", FlagArithmetic},
	{"subc", FlagArithmetic},
	{"cmp", FlagCompare},
	{"xor", FlagLogic},
	{"and", FlagLogic},
	{"or", FlagLogic},
}

var aluColumns = [10]struct {
	byte   bool
	shape  Shape
	layout Layout
}{
	{false, ShapeRwRw, LayoutNM},
	{true, ShapeRbRb, LayoutNM},
	{false, ShapeRegMemW, LayoutRegMem},
	{true, ShapeRegMemB, LayoutRegMem},
	{false, ShapeMemRegW, LayoutRegMem},
	{true, ShapeMemRegB, LayoutRegMem},
	{false, ShapeRegData16, LayoutRegData16},
	{true, ShapeRegData8, LayoutRegData8},
	{false, ShapeRwData3, LayoutData3OrReg},
	{true, ShapeRbData3, LayoutData3OrReg},
}

const (
	jump   = FlagJump | FlagCondition
	call   = FlagCall | FlagCondition
	logic  = FlagLogic
	move   = FlagMove
	system = FlagSystem
)

var fixed = []Descriptor{
	{0x0A, "bfldl", ShapeBitfield, LayoutBitfield, logic},
	{0x0B, "mul", ShapeRwRw, LayoutNM, FlagArithmetic},
	{0x0C, "rol", ShapeRwRw, LayoutNM, logic},
	{0x1A, "bfldh", ShapeBitfield, LayoutBitfieldH, logic},
	{0x1B, "mulu", ShapeRwRw, LayoutNM, FlagArithmetic},
	{0x1C, "rol", ShapeRwData4, LayoutDataN, logic},
	{0x2A, "bcmp", ShapeBitPair, LayoutBitPair, FlagCompare},
	{0x2B, "prior", ShapeRwRw, LayoutNM, FlagArithmetic},
	{0x2C, "ror", ShapeRwRw, LayoutNM, logic},
	{0x3A, "bmovn", ShapeBitPair, LayoutBitPair, move},
	{0x3C, "ror", ShapeRwData4, LayoutDataN, logic},
	{0x4A, "bmov", ShapeBitPair, LayoutBitPair, move},
	{0x4B, "div", ShapeRw, LayoutNN, FlagArithmetic},
	{0x4C, "shl", ShapeRwRw, LayoutNM, logic},
	{0x5A, "bor", ShapeBitPair, LayoutBitPair, logic},
	{0x5B, "divu", ShapeRw, LayoutNN, FlagArithmetic},
	{0x5C, "shl", ShapeRwData4, LayoutDataN, logic},
	{0x6A, "band", ShapeBitPair, LayoutBitPair, logic},
	{0x6B, "divl", ShapeRw, LayoutNN, FlagArithmetic},
	{0x6C, "shr", ShapeRwRw, LayoutNM, logic},
	{0x7A, "bxor", ShapeBitPair, LayoutBitPair, logic},
	{0x7B, "divlu", ShapeRw, LayoutNN, FlagArithmetic},
	{0x7C, "shr", ShapeRwData4, LayoutDataN, logic},

	{0x80, "cmpi1", ShapeRwData4, LayoutDataN, FlagCompare | FlagArithmetic},
	{0x81, "neg", ShapeRw, LayoutN0, FlagArithmetic},
	{0x82, "cmpi1", ShapeRwMem, LayoutFnMem, FlagCompare | FlagArithmetic},
	{0x84, "mov", ShapeIndMem, Layout0nMem, move},
	{0x86, "cmpi1", ShapeRwData16, LayoutFnData16, FlagCompare | FlagArithmetic},
	{0x87, "idle", ShapeNone, LayoutProtected, system},
	{0x88, "mov", ShapePreDecRw, LayoutNM, move},
	{0x89, "movb", ShapePreDecRb, LayoutNM, move},
	{0x8A, "jb", ShapeBitRel, LayoutBitRel, jump},

	{0x90, "cmpi2", ShapeRwData4, LayoutDataN, FlagCompare | FlagArithmetic},
	{0x91, "cpl", ShapeRw, LayoutN0, logic},
	{0x92, "cmpi2", ShapeRwMem, LayoutFnMem, FlagCompare | FlagArithmetic},
	{0x94, "mov", ShapeMemInd, Layout0nMem, move},
	{0x96, "cmpi2", ShapeRwData16, LayoutFnData16, FlagCompare | FlagArithmetic},
	{0x97, "pwrdn", ShapeNone, LayoutProtected, system},
	{0x98, "mov", ShapeRwPostInc, LayoutNM, move},
	{0x99, "movb", ShapeRbPostInc, LayoutNM, move},
	{0x9A, "jnb", ShapeBitRel, LayoutBitRel, jump},
	{0x9B, "trap", ShapeTrap, LayoutTrap, FlagTrap},
	{0x9C, "jmpi", ShapeCondInd, LayoutCondReg, jump},

	{0xA0, "cmpd1", ShapeRwData4, LayoutDataN, FlagCompare | FlagArithmetic},
	{0xA1, "negb", ShapeRb, LayoutN0, FlagArithmetic},
	{0xA2, "cmpd1", ShapeRwMem, LayoutFnMem, FlagCompare | FlagArithmetic},
	{0xA4, "movb", ShapeIndMemB, Layout0nMem, move},
	{0xA5, "diswdt", ShapeNone, LayoutProtected, system},
	{0xA6, "cmpd1", ShapeRwData16, LayoutFnData16, FlagCompare | FlagArithmetic},
	{0xA7, "srvwdt", ShapeNone, LayoutProtected, system},
	{0xA8, "mov", ShapeRwInd, LayoutNM, move},
	{0xA9, "movb", ShapeRbInd, LayoutNM, move},
	{0xAA, "jbc", ShapeBitRel, LayoutBitRel, jump},
	{0xAB, "calli", ShapeCondInd, LayoutCondReg, call},
	{0xAC, "ashr", ShapeRwRw, LayoutNM, logic},

	{0xB0, "cmpd2", ShapeRwData4, LayoutDataN, FlagCompare | FlagArithmetic},
	{0xB1, "cplb", ShapeRb, LayoutN0, logic},
	{0xB2, "cmpd2", ShapeRwMem, LayoutFnMem, FlagCompare | FlagArithmetic},
	{0xB4, "movb", ShapeMemIndB, Layout0nMem, move},
	{0xB5, "einit", ShapeNone, LayoutProtected, system},
	{0xB6, "cmpd2", ShapeRwData16, LayoutFnData16, FlagCompare | FlagArithmetic},
	{0xB7, "srst", ShapeNone, LayoutProtected, system},
	{0xB8, "mov", ShapeIndRw, LayoutNM, move},
	{0xB9, "movb", ShapeIndRb, LayoutNM, move},
	{0xBA, "jnbs", ShapeBitRel, LayoutBitRel, jump},
	{0xBB, "callr", ShapeRel, LayoutRel, FlagCall},
	{0xBC, "ashr", ShapeRwData4, LayoutDataN, logic},

	{0xC0, "movbz", ShapeRwRb, LayoutMN, move},
	{0xC2, "movbz", ShapeRegMemW, LayoutRegMem, move},
	{0xC4, "mov", ShapeIndOffRw, LayoutNMData16, move},
	{0xC5, "movbz", ShapeMemRegB, LayoutRegMem, move},
	{0xC6, "scxt", ShapeRegData16, LayoutRegData16, move},
	{0xC8, "mov", ShapeIndInd, LayoutNM, move},
	{0xC9, "movb", ShapeIndInd, LayoutNM, move},
	{0xCA, "calla", ShapeCondCaddr, LayoutCondCaddr, call},
	{0xCB, "ret", ShapeNone, LayoutConst, FlagReturn},
	{0xCC, "nop", ShapeNone, LayoutConst, FlagNull},

	{0xD0, "movbs", ShapeRwRb, LayoutMN, move},
	{0xD1, "atomic", ShapeIrange, LayoutAtomic, system},
	{0xD2, "movbs", ShapeRegMemW, LayoutRegMem, move},
	{0xD4, "mov", ShapeRwIndOff, LayoutNMData16, move},
	{0xD5, "movbs", ShapeMemRegB, LayoutRegMem, move},
	{0xD6, "scxt", ShapeRegMemW, LayoutRegMem, move},
	{0xD7, "exts", ShapePageIrange, LayoutExtImm, system},
	{0xD8, "mov", ShapePostIncInd, LayoutNM, move},
	{0xD9, "movb", ShapePostIncInd, LayoutNM, move},
	{0xDA, "calls", ShapeSegCaddr, LayoutSegCaddr, FlagCall},
	{0xDB, "rets", ShapeNone, LayoutConst, FlagReturn},
	{0xDC, "exts", ShapeRwIrange, LayoutExtReg, system},

	{0xE0, "mov", ShapeRwData4, LayoutDataN, move},
	{0xE1, "movb", ShapeRbData4, LayoutDataN, move},
	{0xE2, "pcall", ShapeRegCaddr, LayoutRegMem, FlagCall | move},
	{0xE4, "movb", ShapeIndOffRb, LayoutNMData16, move},
	{0xE6, "mov", ShapeRegData16, LayoutRegData16, move},
	{0xE7, "movb", ShapeRegData8, LayoutRegData8, move},
	{0xE8, "mov", ShapeIndPostInc, LayoutNM, move},
	{0xE9, "movb", ShapeIndPostInc, LayoutNM, move},
	{0xEA, "jmpa", ShapeCondCaddr, LayoutCondCaddr, jump},
	{0xEB, "retp", ShapeReg, LayoutReg, FlagReturn},
	{0xEC, "push", ShapeReg, LayoutReg, move},

	{0xF0, "mov", ShapeRwRw, LayoutNM, move},
	{0xF1, "movb", ShapeRbRb, LayoutNM, move},
	{0xF2, "mov", ShapeRegMemW, LayoutRegMem, move},
	{0xF3, "movb", ShapeRegMemB, LayoutRegMem, move},
	{0xF4, "movb", ShapeRbIndOff, LayoutNMData16, move},
	{0xF6, "mov", ShapeMemRegW, LayoutRegMem, move},
	{0xF7, "movb", ShapeMemRegB, LayoutRegMem, move},
	{0xFA, "jmps", ShapeSegCaddr, LayoutSegCaddr, FlagJump},
	{0xFB, "reti", ShapeNone, LayoutConst, FlagReturn},
	{0xFC, "pop", ShapeReg, LayoutReg, move},
}

func init() {
	add := func(d Descriptor) {
		if opcodes[d.Opcode] != nil {
			panic(fmt.Sprintf("isa: opcode %02Xh defined twice", d.Opcode))
		}
		if d.Shape.HasRegister() {
			d.Flags |= FlagRegister
		}
		opcodes[d.Opcode] = &d
	}

	for row, op := range aluOps {
		for col, c := range aluColumns {
			// cmp has no memory destination forms.
			if op.name == "cmp" && (col == 4 || col == 5) {
				continue
			}
			name := op.name
			if c.byte {
				name += "b"
			}
			add(Descriptor{byte(row<<4 | col), name, c.shape, c.layout, op.flags})
		}
	}

	// Columns D, E and F carry a condition or bit number in the high nibble.
	for hi := 0; hi < 16; hi++ {
		jf := jump
		if hi == 0 {
			jf = FlagJump
		}
		add(Descriptor{byte(hi<<4 | 0xD), "jmpr", ShapeCondRel, LayoutCondRel, jf})
		add(Descriptor{byte(hi<<4 | 0xE), "bclr", ShapeBit, LayoutBitShort, logic})
		add(Descriptor{byte(hi<<4 | 0xF), "bset", ShapeBit, LayoutBitShort, logic})
	}

	for _, d := range fixed {
		add(d)
	}

	for _, d := range opcodes {
		if d == nil {
			continue
		}
		for _, mn := range d.Mnemonics() {
			byMnemonic[mn] = append(byMnemonic[mn], d)
		}
	}
	// Shorter encodings first, then table order.
	for _, list := range byMnemonic {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Length() < list[j].Length()
		})
	}
}

// Lookup returns the descriptor for an opcode byte, or nil for an unused one.
func Lookup(op byte) *Descriptor {
	return opcodes[op]
}

// ByMnemonic returns every descriptor for a mnemonic in encoding preference
// order. The slice must not be modified.
func ByMnemonic(mn string) []*Descriptor {
	return byMnemonic[mn]
}

// Descriptors returns all defined opcodes in opcode order.
func Descriptors() []*Descriptor {
	var out []*Descriptor
	for _, d := range opcodes {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

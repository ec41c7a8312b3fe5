package isa

// SlotKind says how one operand is written in assembly text.
type SlotKind uint8

const (
	SlotRw          SlotKind = iota + 1 // word GPR in a nibble
	SlotRb                              // byte GPR in a nibble
	SlotRegW                            // 8-bit short register address, word access
	SlotRegB                            // 8-bit short register address, byte access
	SlotMem                             // 16-bit direct address
	SlotInd                             // [Rw]
	SlotPostInc                         // [Rw+]
	SlotPreDec                          // [-Rw]
	SlotIndOff                          // [Rw + #data16], offset in Aux
	SlotData3OrInd                      // #data3, [Rw] or [Rw+] chosen by FieldMode0
	SlotData4                           // #data4
	SlotData8                           // #data8
	SlotData16                          // #data16
	SlotMask8                           // #mask8
	SlotBitAddr                         // short.bit, bit number in Aux
	SlotBitoff                          // bit-addressable word without a bit number
	SlotCond                            // cc_XX
	SlotRel                             // signed word displacement
	SlotCaddr                           // 16-bit code address
	SlotSeg                             // 8-bit code segment
	SlotPageSeg                         // #pag10 or #seg8, picked by the ext mnemonic
	SlotIrange                          // #irang2, written 1-4
	SlotTrap                            // #trap7
)

var slotNames = map[SlotKind]string{
	SlotRw: "Rw", SlotRb: "Rb", SlotRegW: "reg", SlotRegB: "regb", SlotMem: "mem",
	SlotInd: "[Rw]", SlotPostInc: "[Rw+]", SlotPreDec: "[-Rw]", SlotIndOff: "[Rw+#data16]",
	SlotData3OrInd: "#data3/[Rw]", SlotData4: "#data4", SlotData8: "#data8",
	SlotData16: "#data16", SlotMask8: "#mask8", SlotBitAddr: "bitaddr",
	SlotBitoff: "bitoff", SlotCond: "cc", SlotRel: "rel", SlotCaddr: "caddr",
	SlotSeg: "seg", SlotPageSeg: "#pag/#seg", SlotIrange: "#irang2", SlotTrap: "#trap7",
}

func (k SlotKind) String() string {
	if n, ok := slotNames[k]; ok {
		return n
	}
	return "?"
}

// Slot binds one operand position to the fields that carry it.
type Slot struct {
	Kind  SlotKind
	Field Field
	// Aux is the second field of two-part operands: the bit of a bit address
	// or the offset of [Rw + #data16].
	Aux Field
}

// Register reports whether the operand names a register.
func (s Slot) Register() bool {
	switch s.Kind {
	case SlotRw, SlotRb, SlotRegW, SlotRegB, SlotInd, SlotPostInc, SlotPreDec, SlotIndOff, SlotData3OrInd:
		return true
	}
	return false
}

// Shape is the operand pattern of an opcode.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeRwRw
	ShapeRbRb
	ShapeRegMemW
	ShapeRegMemB
	ShapeMemRegW
	ShapeMemRegB
	ShapeRegData16
	ShapeRegData8
	ShapeRwData3
	ShapeRbData3
	ShapeBitfield
	ShapeBitPair
	ShapeBitRel
	ShapeBit
	ShapeCondRel
	ShapeRw
	ShapeRb
	ShapeRwData4
	ShapeRbData4
	ShapeRwMem
	ShapeRwData16
	ShapeIndMem
	ShapeIndMemB
	ShapeMemInd
	ShapeMemIndB
	ShapeRwRb
	ShapePreDecRw
	ShapePreDecRb
	ShapeRwPostInc
	ShapeRbPostInc
	ShapeRwInd
	ShapeRbInd
	ShapeIndRw
	ShapeIndRb
	ShapeIndInd
	ShapePostIncInd
	ShapeIndPostInc
	ShapeIndOffRw
	ShapeIndOffRb
	ShapeRwIndOff
	ShapeRbIndOff
	ShapeCondInd
	ShapeCondCaddr
	ShapeSegCaddr
	ShapeRel
	ShapeReg
	ShapeRegCaddr
	ShapeTrap
	ShapeIrange
	ShapeRwIrange
	ShapePageIrange
	numShapes
)

func slot(k SlotKind, f Field) Slot { return Slot{Kind: k, Field: f, Aux: noField} }

var (
	rw0  = slot(SlotRw, FieldRegister0)
	rw1  = slot(SlotRw, FieldRegister1)
	rb0  = slot(SlotRb, FieldRegister0)
	rb1  = slot(SlotRb, FieldRegister1)
	regw = slot(SlotRegW, FieldRegister0)
	regb = slot(SlotRegB, FieldRegister0)
	mem  = slot(SlotMem, FieldAddress0)
	ind0 = slot(SlotInd, FieldRegister0)
	ind1 = slot(SlotInd, FieldRegister1)
	inc0 = slot(SlotPostInc, FieldRegister0)
	inc1 = slot(SlotPostInc, FieldRegister1)
	dec1 = slot(SlotPreDec, FieldRegister1)
	off1 = Slot{Kind: SlotIndOff, Field: FieldRegister1, Aux: FieldData0}
	d3   = slot(SlotData3OrInd, FieldData0)
	d4   = slot(SlotData4, FieldData0)
	d8   = slot(SlotData8, FieldData0)
	d16  = slot(SlotData16, FieldData0)
	bit0 = Slot{Kind: SlotBitAddr, Field: FieldBitoff0, Aux: FieldBit0}
	bit1 = Slot{Kind: SlotBitAddr, Field: FieldBitoff1, Aux: FieldBit1}
	cond = slot(SlotCond, FieldCondition0)
	rel  = slot(SlotRel, FieldRelative0)
	irng = slot(SlotIrange, FieldIrange0)
)

var shapeSlots = [numShapes][]Slot{
	ShapeNone:       nil,
	ShapeRwRw:       {rw0, rw1},
	ShapeRbRb:       {rb0, rb1},
	ShapeRegMemW:    {regw, mem},
	ShapeRegMemB:    {regb, mem},
	ShapeMemRegW:    {mem, regw},
	ShapeMemRegB:    {mem, regb},
	ShapeRegData16:  {regw, d16},
	ShapeRegData8:   {regb, d8},
	ShapeRwData3:    {rw0, d3},
	ShapeRbData3:    {rb0, d3},
	ShapeBitfield:   {slot(SlotBitoff, FieldBitoff0), slot(SlotMask8, FieldMask0), d8},
	ShapeBitPair:    {bit1, bit0},
	ShapeBitRel:     {bit0, rel},
	ShapeBit:        {bit0},
	ShapeCondRel:    {cond, rel},
	ShapeRw:         {rw0},
	ShapeRb:         {rb0},
	ShapeRwData4:    {rw0, d4},
	ShapeRbData4:    {rb0, d4},
	ShapeRwMem:      {rw0, mem},
	ShapeRwData16:   {rw0, d16},
	ShapeIndMem:     {ind0, mem},
	ShapeIndMemB:    {ind0, mem},
	ShapeMemInd:     {mem, ind0},
	ShapeMemIndB:    {mem, ind0},
	ShapeRwRb:       {rw0, rb1},
	ShapePreDecRw:   {dec1, rw0},
	ShapePreDecRb:   {dec1, rb0},
	ShapeRwPostInc:  {rw0, inc1},
	ShapeRbPostInc:  {rb0, inc1},
	ShapeRwInd:      {rw0, ind1},
	ShapeRbInd:      {rb0, ind1},
	ShapeIndRw:      {ind1, rw0},
	ShapeIndRb:      {ind1, rb0},
	ShapeIndInd:     {ind0, ind1},
	ShapePostIncInd: {inc0, ind1},
	ShapeIndPostInc: {ind0, inc1},
	ShapeIndOffRw:   {off1, rw0},
	ShapeIndOffRb:   {off1, rb0},
	ShapeRwIndOff:   {rw0, off1},
	ShapeRbIndOff:   {rb0, off1},
	ShapeCondInd:    {cond, ind0},
	ShapeCondCaddr:  {cond, slot(SlotCaddr, FieldAddress0)},
	ShapeSegCaddr:   {slot(SlotSeg, FieldSegment0), slot(SlotCaddr, FieldAddress0)},
	ShapeRel:        {rel},
	ShapeReg:        {regw},
	ShapeRegCaddr:   {regw, slot(SlotCaddr, FieldAddress0)},
	ShapeTrap:       {slot(SlotTrap, FieldTrap0)},
	ShapeIrange:     {irng},
	ShapeRwIrange:   {rw0, irng},
	ShapePageIrange: {slot(SlotPageSeg, FieldPage0), irng},
}

// Slots returns the operand slots in assembly order.
func (s Shape) Slots() []Slot {
	if s >= numShapes {
		return nil
	}
	return shapeSlots[s]
}

// Operands returns the number of operands.
func (s Shape) Operands() int {
	return len(s.Slots())
}

// HasRegister reports whether any operand names a register.
func (s Shape) HasRegister() bool {
	for _, sl := range s.Slots() {
		if sl.Register() {
			return true
		}
	}
	return false
}

func (s Shape) String() string {
	slots := s.Slots()
	if len(slots) == 0 {
		return "-"
	}
	out := ""
	for i, sl := range slots {
		if i > 0 {
			out += ","
		}
		out += sl.Kind.String()
	}
	return out
}

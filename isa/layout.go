package isa

import (
	"fmt"

	"github.com/Urethramancer/c166/cpu"
)

// Layout identifies how an opcode's operands are packed into its bytes.
// Names follow the byte diagrams of the instruction set manual, after the
// opcode byte.
type Layout uint8

const (
	LayoutInvalid Layout = iota
	LayoutNM             // nm: Rwn high nibble, Rwm low nibble
	LayoutMN             // mn: Rbm high nibble, Rwn low nibble
	LayoutN0             // n0
	LayoutNN             // nn: the register repeated in both nibbles
	LayoutDataN          // #n: data4 high nibble, register low nibble
	LayoutData3OrReg     // n:tt: #data3, [Rwi] or [Rwi+] selected by bits 3-2
	LayoutCondRel        // cD rr: condition in the opcode's high nibble
	LayoutBitShort       // qE QQ: bit number in the opcode's high nibble
	LayoutCondReg        // cn
	LayoutRel            // rr
	LayoutReg            // RR
	LayoutConst          // fixed second byte
	LayoutTrap           // t:ttt0
	LayoutProtected      // ~op op op
	LayoutAtomic         // :ss##-0
	LayoutExtReg         // :ss##-m
	LayoutExtImm         // :ss##-0 pp 0:00pp or :ss##-0 ss 00
	LayoutRegMem         // RR MM MM
	LayoutRegData16      // RR ## ##
	LayoutRegData8       // RR ## xx
	LayoutBitfield       // QQ @@ ##
	LayoutBitfieldH      // QQ ## @@: data before mask
	LayoutBitPair        // QQ ZZ qz
	LayoutBitRel         // QQ rr q0
	LayoutFnMem          // Fn MM MM
	LayoutFnData16       // Fn ## ##
	Layout0nMem          // 0n MM MM
	LayoutNMData16       // nm ## ##
	LayoutCondCaddr      // c0 MM MM
	LayoutSegCaddr       // SS MM MM
	numLayouts
)

// noField marks layouts without an opcode-embedded field.
const noField = numFields

type codec struct {
	name   string
	length int
	// embedded is stored in the high nibble of the opcode byte itself.
	embedded Field
	subs     *[4]string
	decode   func(b []byte, f *Fields) error
	encode   func(b []byte, f *Fields) error
}

var (
	atomicSubs = [4]string{"atomic", "", "extr", ""}
	extSubs    = [4]string{"exts", "extp", "extsr", "extpr"}
)

// constBytes holds the required second byte of LayoutConst opcodes other than 00h.
var constBytes = map[byte]byte{
	0xFB: 0x88, // reti
}

var codecs = [numLayouts]codec{
	LayoutNM: {name: "nm", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]>>4))
			f.SetUint(FieldRegister1, uint32(b[1]&0xF))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packNibbles(b, 1, f, FieldRegister0, FieldRegister1)
		},
	},
	LayoutMN: {name: "mn", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			f.SetUint(FieldRegister1, uint32(b[1]>>4))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packNibbles(b, 1, f, FieldRegister1, FieldRegister0)
		},
	},
	LayoutN0: {name: "n0", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]&0xF != 0 {
				return invalid(b, "low nibble must be 0")
			}
			f.SetUint(FieldRegister0, uint32(b[1]>>4))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			n, err := need(f, FieldRegister0, 0xF)
			b[1] = byte(n << 4)
			return err
		},
	},
	LayoutNN: {name: "nn", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]>>4 != b[1]&0xF {
				return invalid(b, "register nibbles differ")
			}
			f.SetUint(FieldRegister0, uint32(b[1]>>4))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			n, err := need(f, FieldRegister0, 0xF)
			b[1] = byte(n<<4 | n)
			return err
		},
	},
	LayoutDataN: {name: "#n", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldData0, uint32(b[1]>>4))
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packNibbles(b, 1, f, FieldData0, FieldRegister0)
		},
	},
	LayoutData3OrReg: {name: "n:tt", length: 2, embedded: noField,
		decode: decodeData3OrReg,
		encode: encodeData3OrReg,
	},
	LayoutCondRel: {name: "cD rr", length: 2, embedded: FieldCondition0,
		decode: func(b []byte, f *Fields) error {
			f.SetInt(FieldRelative0, int32(int8(b[1])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packRel(b, 1, f)
		},
	},
	LayoutBitShort: {name: "qE QQ", length: 2, embedded: FieldBit0,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldBitoff0, uint32(b[1]))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packByte(b, 1, f, FieldBitoff0)
		},
	},
	LayoutCondReg: {name: "cn", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldCondition0, uint32(b[1]>>4))
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packNibbles(b, 1, f, FieldCondition0, FieldRegister0)
		},
	},
	LayoutRel: {name: "rr", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetInt(FieldRelative0, int32(int8(b[1])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packRel(b, 1, f)
		},
	},
	LayoutReg: {name: "RR", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			return packByte(b, 1, f, FieldRegister0)
		},
	},
	LayoutConst: {name: "00", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1] != constBytes[b[0]] {
				return invalid(b, "unexpected second byte")
			}
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			b[1] = constBytes[b[0]]
			return nil
		},
	},
	LayoutTrap: {name: "t:ttt0", length: 2, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]&1 != 0 {
				return invalid(b, "trap number bit 0 must be 0")
			}
			f.SetUint(FieldTrap0, uint32(b[1]>>1))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			t, err := need(f, FieldTrap0, 0x7F)
			b[1] = byte(t << 1)
			return err
		},
	},
	LayoutProtected: {name: "~op op op", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1] != ^b[0] || b[2] != b[0] || b[3] != b[0] {
				return invalid(b, "protected instruction pattern broken")
			}
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			b[1], b[2], b[3] = ^b[0], b[0], b[0]
			return nil
		},
	},
	LayoutAtomic: {name: ":ss##-0", length: 2, embedded: noField, subs: &atomicSubs,
		decode: func(b []byte, f *Fields) error {
			if b[1]&0xF != 0 {
				return invalid(b, "low nibble must be 0")
			}
			return decodeSub(b, f, &atomicSubs)
		},
		encode: func(b []byte, f *Fields) error {
			return encodeSub(b, f, &atomicSubs)
		},
	},
	LayoutExtReg: {name: ":ss##-m", length: 2, embedded: noField, subs: &extSubs,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			return decodeSub(b, f, &extSubs)
		},
		encode: func(b []byte, f *Fields) error {
			if err := encodeSub(b, f, &extSubs); err != nil {
				return err
			}
			m, err := need(f, FieldRegister0, 0xF)
			b[1] |= byte(m)
			return err
		},
	},
	LayoutExtImm: {name: ":ss##-0 pp 0:00pp", length: 4, embedded: noField, subs: &extSubs,
		decode: decodeExtImm,
		encode: encodeExtImm,
	},
	LayoutRegMem: {name: "RR MM MM", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]))
			f.SetUint(FieldAddress0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packByte(b, 1, f, FieldRegister0); err != nil {
				return err
			}
			return packWord(b, 2, f, FieldAddress0)
		},
	},
	LayoutRegData16: {name: "RR ## ##", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]))
			f.SetUint(FieldData0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packByte(b, 1, f, FieldRegister0); err != nil {
				return err
			}
			return packWord(b, 2, f, FieldData0)
		},
	},
	LayoutRegData8: {name: "RR ## xx", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]))
			f.SetUint(FieldData0, uint32(b[2]))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packByte(b, 1, f, FieldRegister0); err != nil {
				return err
			}
			return packByte(b, 2, f, FieldData0)
		},
	},
	LayoutBitfield: {name: "QQ @@ ##", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldBitoff0, uint32(b[1]))
			f.SetUint(FieldMask0, uint32(b[2]))
			f.SetUint(FieldData0, uint32(b[3]))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			for i, name := range []Field{FieldBitoff0, FieldMask0, FieldData0} {
				if err := packByte(b, i+1, f, name); err != nil {
					return err
				}
			}
			return nil
		},
	},
	LayoutBitfieldH: {name: "QQ ## @@", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldBitoff0, uint32(b[1]))
			f.SetUint(FieldData0, uint32(b[2]))
			f.SetUint(FieldMask0, uint32(b[3]))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			for i, name := range []Field{FieldBitoff0, FieldData0, FieldMask0} {
				if err := packByte(b, i+1, f, name); err != nil {
					return err
				}
			}
			return nil
		},
	},
	LayoutBitPair: {name: "QQ ZZ qz", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldBitoff0, uint32(b[1]))
			f.SetUint(FieldBitoff1, uint32(b[2]))
			f.SetUint(FieldBit0, uint32(b[3]>>4))
			f.SetUint(FieldBit1, uint32(b[3]&0xF))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packByte(b, 1, f, FieldBitoff0); err != nil {
				return err
			}
			if err := packByte(b, 2, f, FieldBitoff1); err != nil {
				return err
			}
			return packNibbles(b, 3, f, FieldBit0, FieldBit1)
		},
	},
	LayoutBitRel: {name: "QQ rr q0", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[3]&0xF != 0 {
				return invalid(b, "low nibble of bit byte must be 0")
			}
			f.SetUint(FieldBitoff0, uint32(b[1]))
			f.SetInt(FieldRelative0, int32(int8(b[2])))
			f.SetUint(FieldBit0, uint32(b[3]>>4))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packByte(b, 1, f, FieldBitoff0); err != nil {
				return err
			}
			if err := packRel(b, 2, f); err != nil {
				return err
			}
			q, err := need(f, FieldBit0, 0xF)
			b[3] = byte(q << 4)
			return err
		},
	},
	LayoutFnMem: {name: "Fn MM MM", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]>>4 != 0xF {
				return invalid(b, "high nibble must be F")
			}
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			f.SetUint(FieldAddress0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			n, err := need(f, FieldRegister0, 0xF)
			if err != nil {
				return err
			}
			b[1] = 0xF0 | byte(n)
			return packWord(b, 2, f, FieldAddress0)
		},
	},
	LayoutFnData16: {name: "Fn ## ##", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]>>4 != 0xF {
				return invalid(b, "high nibble must be F")
			}
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			f.SetUint(FieldData0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			n, err := need(f, FieldRegister0, 0xF)
			if err != nil {
				return err
			}
			b[1] = 0xF0 | byte(n)
			return packWord(b, 2, f, FieldData0)
		},
	},
	Layout0nMem: {name: "0n MM MM", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]>>4 != 0 {
				return invalid(b, "high nibble must be 0")
			}
			f.SetUint(FieldRegister0, uint32(b[1]&0xF))
			f.SetUint(FieldAddress0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			n, err := need(f, FieldRegister0, 0xF)
			if err != nil {
				return err
			}
			b[1] = byte(n)
			return packWord(b, 2, f, FieldAddress0)
		},
	},
	LayoutNMData16: {name: "nm ## ##", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			f.SetUint(FieldRegister0, uint32(b[1]>>4))
			f.SetUint(FieldRegister1, uint32(b[1]&0xF))
			f.SetUint(FieldData0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packNibbles(b, 1, f, FieldRegister0, FieldRegister1); err != nil {
				return err
			}
			return packWord(b, 2, f, FieldData0)
		},
	},
	LayoutCondCaddr: {name: "c0 MM MM", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			if b[1]&0xF != 0 {
				return invalid(b, "low nibble of condition byte must be 0")
			}
			f.SetUint(FieldCondition0, uint32(b[1]>>4))
			f.SetUint(FieldAddress0, uint32(cpu.Word(b[2:])))
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			c, err := need(f, FieldCondition0, 0xF)
			if err != nil {
				return err
			}
			b[1] = byte(c << 4)
			return packWord(b, 2, f, FieldAddress0)
		},
	},
	LayoutSegCaddr: {name: "SS MM MM", length: 4, embedded: noField,
		decode: func(b []byte, f *Fields) error {
			seg := uint32(b[1])
			off := uint32(cpu.Word(b[2:]))
			f.SetUint(FieldSegment0, seg)
			f.SetUint(FieldAddress0, off)
			f.SetUint(FieldAddress1, seg*0x10000+off)
			return nil
		},
		encode: func(b []byte, f *Fields) error {
			if err := packByte(b, 1, f, FieldSegment0); err != nil {
				return err
			}
			return packWord(b, 2, f, FieldAddress0)
		},
	},
}

func (l Layout) codec() *codec {
	if l == LayoutInvalid || l >= numLayouts {
		panic(fmt.Sprintf("isa: layout %d has no codec", uint8(l)))
	}
	return &codecs[l]
}

func (l Layout) String() string {
	if l == LayoutInvalid || l >= numLayouts {
		return "invalid"
	}
	return codecs[l].name
}

// Length returns the instruction length in bytes.
func (l Layout) Length() int {
	return l.codec().length
}

// Embedded returns the field a layout keeps in the opcode byte's high nibble.
func (l Layout) Embedded() (Field, bool) {
	e := l.codec().embedded
	return e, e != noField
}

// SubMnemonics returns the mnemonics a 2-bit sub-opcode selects, or nil.
func (l Layout) SubMnemonics() []string {
	subs := l.codec().subs
	if subs == nil {
		return nil
	}
	var out []string
	for _, s := range subs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Decode extracts the fields of one instruction from the start of code.
// It never reads past the layout's length and fails cleanly on short input.
func (l Layout) Decode(code []byte) (Fields, error) {
	c := l.codec()
	var f Fields
	if len(code) < c.length {
		return f, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrTruncated, c.name, c.length, len(code))
	}
	if c.embedded != noField {
		f.SetUint(c.embedded, uint32(code[0]>>4))
	}
	if err := c.decode(code[:c.length], &f); err != nil {
		return Fields{}, err
	}
	return f, nil
}

// Encode packs fields into a new instruction starting with opcode.
func (l Layout) Encode(opcode byte, f *Fields) ([]byte, error) {
	c := l.codec()
	b := make([]byte, c.length)
	b[0] = opcode
	if c.embedded != noField {
		v, err := need(f, c.embedded, 0xF)
		if err != nil {
			return nil, err
		}
		if v != uint32(opcode>>4) {
			return nil, fmt.Errorf("%w: %s %d is not encoded by opcode %02Xh", ErrFieldRange, c.embedded, v, opcode)
		}
	}
	if err := c.encode(b, f); err != nil {
		return nil, err
	}
	return b, nil
}

func invalid(b []byte, why string) error {
	return fmt.Errorf("%w: % X: %s", ErrInvalidInstruction, b, why)
}

// need fetches a field that must be present and no larger than max.
func need(f *Fields, name Field, max uint32) (uint32, error) {
	v, ok := f.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s missing", ErrFieldRange, name)
	}
	if v.Kind == KindInt && v.Int() < 0 || v.Uint() > max {
		return 0, fmt.Errorf("%w: %s=%s exceeds %#x", ErrFieldRange, name, v, max)
	}
	return v.Uint(), nil
}

func packByte(b []byte, i int, f *Fields, name Field) error {
	v, err := need(f, name, 0xFF)
	b[i] = byte(v)
	return err
}

func packWord(b []byte, i int, f *Fields, name Field) error {
	v, err := need(f, name, 0xFFFF)
	cpu.PutWord(b[i:], uint16(v))
	return err
}

func packNibbles(b []byte, i int, f *Fields, hi, lo Field) error {
	h, err := need(f, hi, 0xF)
	if err != nil {
		return err
	}
	l, err := need(f, lo, 0xF)
	b[i] = byte(h<<4 | l)
	return err
}

func packRel(b []byte, i int, f *Fields) error {
	v, ok := f.Get(FieldRelative0)
	if !ok {
		return fmt.Errorf("%w: %s missing", ErrFieldRange, FieldRelative0)
	}
	r := v.Int()
	if r < -128 || r > 127 {
		return fmt.Errorf("%w: relative displacement %d", ErrFieldRange, r)
	}
	b[i] = byte(int8(r))
	return nil
}

func decodeData3OrReg(b []byte, f *Fields) error {
	f.SetUint(FieldRegister0, uint32(b[1]>>4))
	switch (b[1] >> 2) & 3 {
	case 0, 1:
		f.SetString(FieldMode0, ModeData3)
		f.SetUint(FieldData0, uint32(b[1]&7))
	case 2:
		f.SetString(FieldMode0, ModeReg)
		f.SetUint(FieldRegister1, uint32(b[1]&3))
	case 3:
		f.SetString(FieldMode0, ModeRegInc)
		f.SetUint(FieldRegister1, uint32(b[1]&3))
	}
	return nil
}

func encodeData3OrReg(b []byte, f *Fields) error {
	n, err := need(f, FieldRegister0, 0xF)
	if err != nil {
		return err
	}
	mode, ok := f.Get(FieldMode0)
	if !ok {
		return fmt.Errorf("%w: %s missing", ErrFieldRange, FieldMode0)
	}

	var low uint32
	switch mode.Str() {
	case ModeData3:
		low, err = need(f, FieldData0, 7)
	case ModeReg:
		low, err = need(f, FieldRegister1, 3)
		low |= 0x8
	case ModeRegInc:
		low, err = need(f, FieldRegister1, 3)
		low |= 0xC
	default:
		panic(fmt.Sprintf("isa: unknown data3-or-register mode %q", mode.Str()))
	}
	b[1] = byte(n<<4 | low)
	return err
}

func decodeSub(b []byte, f *Fields, subs *[4]string) error {
	name := subs[b[1]>>6]
	if name == "" {
		return invalid(b, "reserved sub-opcode")
	}
	f.SetString(FieldMnemonic, name)
	f.SetUint(FieldIrange0, uint32((b[1]>>4)&3)+1)
	return nil
}

func encodeSub(b []byte, f *Fields, subs *[4]string) error {
	mn := f.Str(FieldMnemonic)
	sel := -1
	for i, s := range subs {
		if s != "" && s == mn {
			sel = i
		}
	}
	if sel < 0 {
		return fmt.Errorf("%w: sub-opcode %q", ErrFieldRange, mn)
	}
	r, ok := f.Get(FieldIrange0)
	if !ok || r.Uint() < 1 || r.Uint() > 4 {
		return fmt.Errorf("%w: %s must be 1-4", ErrFieldRange, FieldIrange0)
	}
	b[1] = byte(sel)<<6 | byte(r.Uint()-1)<<4
	return nil
}

// pageSub reports whether an ext sub-opcode takes a 10-bit page rather than a segment.
func pageSub(sel byte) bool {
	return sel&1 == 1
}

func decodeExtImm(b []byte, f *Fields) error {
	if b[1]&0xF != 0 {
		return invalid(b, "low nibble must be 0")
	}
	if err := decodeSub(b, f, &extSubs); err != nil {
		return err
	}
	if pageSub(b[1] >> 6) {
		if b[3]&0xFC != 0 {
			return invalid(b, "page number exceeds 10 bits")
		}
		f.SetUint(FieldPage0, uint32(b[2])|uint32(b[3]&3)<<8)
		return nil
	}
	if b[3] != 0 {
		return invalid(b, "segment high byte must be 0")
	}
	f.SetUint(FieldSegment0, uint32(b[2]))
	return nil
}

func encodeExtImm(b []byte, f *Fields) error {
	if err := encodeSub(b, f, &extSubs); err != nil {
		return err
	}
	if pageSub(b[1] >> 6) {
		p, err := need(f, FieldPage0, 0x3FF)
		b[2], b[3] = byte(p), byte(p>>8)
		return err
	}
	s, err := need(f, FieldSegment0, 0xFF)
	b[2], b[3] = byte(s), 0
	return err
}

// IsPageMnemonic reports whether an ext mnemonic takes a page number.
func IsPageMnemonic(mn string) bool {
	for i, s := range extSubs {
		if s == mn {
			return pageSub(byte(i))
		}
	}
	return false
}

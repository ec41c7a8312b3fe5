package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/c166/cpu"
	"github.com/Urethramancer/c166/isa"
)

// Options control how operands are named.
type Options struct {
	// Extended resolves short register and bit addresses in the ESFR window,
	// as after an extr, extpr or extsr prefix.
	Extended bool
	// Linear disables flow analysis in Disassemble; every decodable word is code.
	Linear bool
}

// Format renders a decoded instruction as "mnemonic op1, op2".
func Format(d *isa.Descriptor, f *isa.Fields, opts Options) string {
	return join(mnemonic(d, f), Operands(d, f, opts))
}

// Operands renders each operand in assembly order.
func Operands(d *isa.Descriptor, f *isa.Fields, opts Options) []string {
	slots := d.Shape.Slots()
	ops := make([]string, len(slots))
	for i, s := range slots {
		ops[i] = formatOperand(s, f, opts)
	}
	return ops
}

func mnemonic(d *isa.Descriptor, f *isa.Fields) string {
	if f.Has(isa.FieldMnemonic) {
		return f.Str(isa.FieldMnemonic)
	}
	return d.Mnemonic
}

func join(mn string, ops []string) string {
	if len(ops) == 0 {
		return mn
	}
	return mn + " " + strings.Join(ops, ", ")
}

func formatOperand(s isa.Slot, f *isa.Fields, opts Options) string {
	v := f.Uint(s.Field)
	switch s.Kind {
	case isa.SlotRw:
		return cpu.WordGPRName(uint8(v))
	case isa.SlotRb:
		return cpu.ByteGPRName(uint8(v))
	case isa.SlotRegW:
		return RegName(uint8(v), cpu.WidthWord, opts.Extended)
	case isa.SlotRegB:
		return RegName(uint8(v), cpu.WidthByte, opts.Extended)
	case isa.SlotMem, isa.SlotCaddr:
		return fmt.Sprintf("%04Xh", v)
	case isa.SlotSeg:
		return fmt.Sprintf("%02Xh", v)
	case isa.SlotInd:
		return "[" + cpu.WordGPRName(uint8(v)) + "]"
	case isa.SlotPostInc:
		return "[" + cpu.WordGPRName(uint8(v)) + "+]"
	case isa.SlotPreDec:
		return "[-" + cpu.WordGPRName(uint8(v)) + "]"
	case isa.SlotIndOff:
		return fmt.Sprintf("[%s + #%04Xh]", cpu.WordGPRName(uint8(v)), f.Uint(s.Aux))
	case isa.SlotData3OrInd:
		return formatData3OrInd(f)
	case isa.SlotData4, isa.SlotData8, isa.SlotMask8, isa.SlotTrap:
		return fmt.Sprintf("#%02Xh", v)
	case isa.SlotData16:
		return fmt.Sprintf("#%04Xh", v)
	case isa.SlotBitAddr:
		return BitName(uint8(v), opts.Extended) + fmt.Sprintf(".%d", f.Uint(s.Aux))
	case isa.SlotBitoff:
		return BitName(uint8(v), opts.Extended)
	case isa.SlotCond:
		return cpu.Condition(v).String()
	case isa.SlotRel:
		return FormatRelative(f.Int(s.Field))
	case isa.SlotPageSeg:
		if f.Has(isa.FieldPage0) {
			return fmt.Sprintf("#%04Xh", f.Uint(isa.FieldPage0))
		}
		return fmt.Sprintf("#%02Xh", f.Uint(isa.FieldSegment0))
	case isa.SlotIrange:
		return fmt.Sprintf("#%d", v)
	}
	panic(fmt.Sprintf("disassembler: no formatter for operand kind %s", s.Kind))
}

// formatData3OrInd always names the index register as a word GPR, even when
// the destination is a byte register.
func formatData3OrInd(f *isa.Fields) string {
	switch mode := f.Str(isa.FieldMode0); mode {
	case isa.ModeData3:
		return fmt.Sprintf("#%02Xh", f.Uint(isa.FieldData0))
	case isa.ModeReg:
		return "[" + cpu.WordGPRName(uint8(f.Uint(isa.FieldRegister1))) + "]"
	case isa.ModeRegInc:
		return "[" + cpu.WordGPRName(uint8(f.Uint(isa.FieldRegister1))) + "+]"
	default:
		panic(fmt.Sprintf("disassembler: unknown data3 mode %q", mode))
	}
}

// FormatRelative renders a signed word displacement as +XXh or -XXh.
func FormatRelative(rel int32) string {
	if rel < 0 {
		return fmt.Sprintf("-%02Xh", -rel)
	}
	return fmt.Sprintf("+%02Xh", rel)
}

// RegName names an 8-bit short register address. GPRs come first, then the
// SFR (or ESFR) at the mapped address, then the bare physical address.
func RegName(short uint8, w cpu.Width, extended bool) string {
	if short >= cpu.ShortGPR {
		n := short & 0xF
		if w == cpu.WidthByte {
			return cpu.ByteGPRName(n)
		}
		return cpu.WordGPRName(n)
	}
	addr, _ := cpu.RegAddress(short, extended)
	if sfr, ok := cpu.SFRAt(addr); ok {
		return sfr.Name
	}
	return fmt.Sprintf("%04Xh", addr)
}

// BitName names the word holding a bit-addressable short address, without
// the bit number.
func BitName(short uint8, extended bool) string {
	switch cpu.BitSpace(short) {
	case cpu.SpaceGPR:
		return cpu.WordGPRName(short & 0xF)
	case cpu.SpaceRAM:
		addr, _ := cpu.BitAddress(short, extended)
		return fmt.Sprintf("%04Xh", addr)
	}
	addr, _ := cpu.BitAddress(short, extended)
	if sfr, ok := cpu.SFRAt(addr); ok {
		return sfr.Name
	}
	return fmt.Sprintf("%04Xh", addr)
}

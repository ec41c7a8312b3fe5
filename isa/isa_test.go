package isa_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Urethramancer/c166/isa"
	"github.com/davecgh/go-spew/spew"
)

// Every opcode either has a descriptor or is explicitly absent, and no second
// byte makes a defined opcode panic or fail with anything but a clean error.
func TestOpcodeTotality(t *testing.T) {
	defined := 0
	for op := 0; op < 256; op++ {
		d := isa.Lookup(byte(op))
		if d == nil {
			continue
		}
		defined++
		if d.Opcode != byte(op) {
			t.Fatalf("descriptor for %02Xh claims opcode %02Xh", op, d.Opcode)
		}
		for b1 := 0; b1 < 256; b1++ {
			code := []byte{byte(op), byte(b1), 0, 0}
			_, err := d.Layout.Decode(code)
			if err != nil && !errors.Is(err, isa.ErrInvalidInstruction) {
				t.Errorf("%02X %02X: unexpected error %v", op, b1, err)
			}
		}
	}
	if defined < 150 {
		t.Errorf("only %d opcodes defined", defined)
	}
}

func TestUndefinedOpcodes(t *testing.T) {
	for _, op := range []byte{0x44, 0x45, 0x83, 0x8B, 0x8C, 0xF8, 0xF9} {
		if d := isa.Lookup(op); d != nil {
			t.Errorf("opcode %02Xh should be undefined, got %s", op, d)
		}
	}
}

func TestTruncatedDecode(t *testing.T) {
	for _, d := range isa.Descriptors() {
		code := []byte{d.Opcode, 0, 0, 0}[:d.Length()-1]
		_, err := d.Layout.Decode(code)
		if !errors.Is(err, isa.ErrTruncated) {
			t.Errorf("%s with %d bytes: got %v, want ErrTruncated", d, len(code), err)
		}
	}
}

// Decoding and re-encoding any valid instruction gives back its bytes.
func TestLayoutEncodeInvertsDecode(t *testing.T) {
	for _, d := range isa.Descriptors() {
		tails := [][2]byte{
			{0, 0}, {0x34, 0x12}, {d.Opcode, d.Opcode},
			{0x8C, 0xF0}, {0x10, 0xFE}, {0xD6, 0xF1},
		}
		valid := 0
		for b1 := 0; b1 < 256; b1++ {
			for _, tail := range tails {
				code := []byte{d.Opcode, byte(b1), tail[0], tail[1]}[:d.Length()]
				f, err := d.Layout.Decode(code)
				if err != nil {
					continue
				}
				valid++

				want := append([]byte(nil), code...)
				if d.Layout == isa.LayoutRegData8 {
					want[3] = 0
				}
				got, err := d.Layout.Encode(d.Opcode, &f)
				if err != nil {
					t.Fatalf("%s: encode % X failed: %v\nfields: %s", d, code, err, spew.Sdump(f))
				}
				if !bytes.Equal(got, want) {
					t.Fatalf("%s: got % X, want % X\nfields: %s", d, got, want, f)
				}
			}
		}
		if valid == 0 {
			t.Errorf("%s: no valid encoding found", d)
		}
	}
}

func TestBitfieldByteOrder(t *testing.T) {
	tests := []struct {
		op   byte
		code []byte
	}{
		{0x0A, []byte{0x0A, 0x88, 0xF0, 0x0F}}, // bfldl: mask, data
		{0x1A, []byte{0x1A, 0x88, 0x0F, 0xF0}}, // bfldh: data, mask
	}
	for _, tt := range tests {
		d := isa.Lookup(tt.op)
		f, err := d.Layout.Decode(tt.code)
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if f.Uint(isa.FieldMask0) != 0xF0 || f.Uint(isa.FieldData0) != 0x0F {
			t.Errorf("%s: mask %02Xh data %02Xh", d, f.Uint(isa.FieldMask0), f.Uint(isa.FieldData0))
		}
		got, err := d.Layout.Encode(tt.op, &f)
		if err != nil || !bytes.Equal(got, tt.code) {
			t.Errorf("%s: encoded % X, %v", d, got, err)
		}
	}
}

func TestData3OrRegisterModes(t *testing.T) {
	tests := []struct {
		sub  byte
		mode string
	}{
		{0, isa.ModeData3},
		{1, isa.ModeData3},
		{2, isa.ModeReg},
		{3, isa.ModeRegInc},
	}
	for _, tt := range tests {
		code := []byte{0x08, 0x40 | tt.sub<<2 | 0x03}
		f, err := isa.LayoutData3OrReg.Decode(code)
		if err != nil {
			t.Fatalf("sub-field %d: %v", tt.sub, err)
		}
		if got := f.Str(isa.FieldMode0); got != tt.mode {
			t.Errorf("sub-field %d: got mode %q, want %q", tt.sub, got, tt.mode)
		}
		switch tt.mode {
		case isa.ModeData3:
			if want := uint32(tt.sub<<2 | 3); f.Uint(isa.FieldData0) != want {
				t.Errorf("sub-field %d: data3 %d, want %d", tt.sub, f.Uint(isa.FieldData0), want)
			}
		default:
			if f.Uint(isa.FieldRegister1) != 3 || f.Has(isa.FieldData0) {
				t.Errorf("sub-field %d: bad fields %s", tt.sub, f)
			}
		}
	}
}

func TestBitPairFields(t *testing.T) {
	f, err := isa.LayoutBitPair.Decode([]byte{0x4A, 0x12, 0x34, 0x56})
	if err != nil {
		t.Fatal(err)
	}
	want := map[isa.Field]uint32{
		isa.FieldBitoff0: 0x12,
		isa.FieldBitoff1: 0x34,
		isa.FieldBit0:    5,
		isa.FieldBit1:    6,
	}
	for name, v := range want {
		if got := f.Uint(name); got != v {
			t.Errorf("%s: got %#x, want %#x", name, got, v)
		}
	}
}

func TestSegmentOffsetComposite(t *testing.T) {
	f, err := isa.LayoutSegCaddr.Decode([]byte{0xDA, 0x12, 0x34, 0x56})
	if err != nil {
		t.Fatal(err)
	}
	if f.Uint(isa.FieldSegment0) != 0x12 || f.Uint(isa.FieldAddress0) != 0x5634 {
		t.Errorf("segment/offset wrong: %s", f)
	}
	if got := f.Uint(isa.FieldAddress1); got != 0x125634 {
		t.Errorf("composite address %#x, want 0x125634", got)
	}
}

func TestSubOpcodes(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		mn     string
		irange uint32
		err    error
	}{
		{"atomic", []byte{0xD1, 0x00}, "atomic", 1, nil},
		{"extr", []byte{0xD1, 0xB0}, "extr", 4, nil},
		{"atomic reserved", []byte{0xD1, 0x40}, "", 0, isa.ErrInvalidInstruction},
		{"atomic low nibble", []byte{0xD1, 0x05}, "", 0, isa.ErrInvalidInstruction},
		{"exts reg", []byte{0xDC, 0x05}, "exts", 1, nil},
		{"extp reg", []byte{0xDC, 0x45}, "extp", 1, nil},
		{"extsr reg", []byte{0xDC, 0x95}, "extsr", 2, nil},
		{"extpr reg", []byte{0xDC, 0xE5}, "extpr", 3, nil},
		{"extp page", []byte{0xD7, 0x40, 0x23, 0x01}, "extp", 1, nil},
		{"extp page too wide", []byte{0xD7, 0x40, 0x23, 0x05}, "", 0, isa.ErrInvalidInstruction},
		{"exts seg high byte", []byte{0xD7, 0x00, 0x23, 0x01}, "", 0, isa.ErrInvalidInstruction},
	}
	for _, tt := range tests {
		f, err := isa.Lookup(tt.code[0]).Layout.Decode(tt.code)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%s: got %v, want %v", tt.name, err, tt.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if f.Str(isa.FieldMnemonic) != tt.mn || f.Uint(isa.FieldIrange0) != tt.irange {
			t.Errorf("%s: got %s", tt.name, f)
		}
	}

	f, _ := isa.LayoutExtImm.Decode([]byte{0xD7, 0x40, 0x23, 0x01})
	if f.Uint(isa.FieldPage0) != 0x123 {
		t.Errorf("page: got %#x, want 0x123", f.Uint(isa.FieldPage0))
	}
}

func TestInvalidCondition(t *testing.T) {
	_, err := isa.Lookup(0xCA).Layout.Decode([]byte{0xCA, 0xF7, 0x45, 0x67})
	if !errors.Is(err, isa.ErrInvalidInstruction) {
		t.Fatalf("got %v, want ErrInvalidInstruction", err)
	}
}

func TestByMnemonic(t *testing.T) {
	add := isa.ByMnemonic("add")
	var ops []byte
	for _, d := range add {
		ops = append(ops, d.Opcode)
	}
	if want := []byte{0x00, 0x08, 0x02, 0x04, 0x06}; !bytes.Equal(ops, want) {
		t.Errorf("add order: got % X, want % X", ops, want)
	}

	for _, mn := range []string{"extp", "exts", "extpr", "extsr"} {
		list := isa.ByMnemonic(mn)
		if len(list) != 2 || list[0].Opcode != 0xDC || list[1].Opcode != 0xD7 {
			t.Errorf("%s: %s", mn, spew.Sdump(list))
		}
	}
	if len(isa.ByMnemonic("extr")) != 1 || len(isa.ByMnemonic("jmpr")) != 16 {
		t.Error("extr or jmpr grouping wrong")
	}
	if isa.ByMnemonic("nonsense") != nil {
		t.Error("unknown mnemonic should have no descriptors")
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		op   byte
		has  isa.Flags
		lack isa.Flags
	}{
		{0x00, isa.FlagArithmetic | isa.FlagRegister, isa.FlagJump},
		{0x0D, isa.FlagJump, isa.FlagCondition},
		{0x3D, isa.FlagJump | isa.FlagCondition, isa.FlagCall},
		{0xCA, isa.FlagCall | isa.FlagCondition, isa.FlagJump},
		{0xDA, isa.FlagCall, isa.FlagCondition},
		{0xFA, isa.FlagJump, isa.FlagCondition},
		{0x8A, isa.FlagJump | isa.FlagCondition, 0},
		{0xCB, isa.FlagReturn, isa.FlagRegister},
		{0xEB, isa.FlagReturn | isa.FlagRegister, 0},
		{0x9B, isa.FlagTrap, 0},
		{0xCC, isa.FlagNull, 0},
		{0x40, isa.FlagCompare, isa.FlagArithmetic},
		{0x0E, isa.FlagLogic, isa.FlagRegister},
	}
	for _, tt := range tests {
		d := isa.Lookup(tt.op)
		if !d.Flags.Has(tt.has) || d.Flags.Any(tt.lack) {
			t.Errorf("%s: flags %s", d, d.Flags)
		}
	}
}

func TestEncodeRangeErrors(t *testing.T) {
	var f isa.Fields
	f.SetUint(isa.FieldRegister0, 16)
	f.SetUint(isa.FieldRegister1, 1)
	if _, err := isa.LayoutNM.Encode(0x00, &f); !errors.Is(err, isa.ErrFieldRange) {
		t.Errorf("register 16: got %v", err)
	}

	f = isa.Fields{}
	f.SetUint(isa.FieldBitoff0, 0xEA)
	f.SetUint(isa.FieldBit0, 3)
	if _, err := isa.LayoutBitShort.Encode(0x0E, &f); !errors.Is(err, isa.ErrFieldRange) {
		t.Errorf("bit 3 in opcode 0E: got %v", err)
	}

	f = isa.Fields{}
	f.SetInt(isa.FieldRelative0, 200)
	if _, err := isa.LayoutRel.Encode(0xBB, &f); !errors.Is(err, isa.ErrFieldRange) {
		t.Errorf("relative 200: got %v", err)
	}
}

func TestUnknownData3ModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var f isa.Fields
	f.SetUint(isa.FieldRegister0, 1)
	f.SetString(isa.FieldMode0, "bogus")
	isa.LayoutData3OrReg.Encode(0x08, &f)
}

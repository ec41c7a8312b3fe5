package assembler

import (
	"errors"
	"testing"

	"github.com/Urethramancer/c166/cpu"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		val  int64
		wide bool
		ok   bool
	}{
		{"4", 4, false, true},
		{"4h", 4, false, true},
		{"04h", 4, false, true},
		{"0Fh", 0xF, false, true},
		{"0FFh", 0xFF, false, true},
		{"ABh", 0xAB, false, true},
		{"0004h", 4, true, true},
		{"123h", 0x123, true, true},
		{"0FA00h", 0xFA00, true, true},
		{"12", 0, false, false},
		{"0x12", 0, false, false},
		{"123456789h", 0, false, false},
	}
	for _, tt := range tests {
		val, wide, err := ParseNumber(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("%q: err=%v", tt.in, err)
			continue
		}
		if tt.ok && (val != tt.val || wide != tt.wide) {
			t.Errorf("%q: got %#x wide=%v, want %#x wide=%v", tt.in, val, wide, tt.val, tt.wide)
		}
	}
}

func TestParseOperandKinds(t *testing.T) {
	tests := []struct {
		in   string
		kind OperandKind
	}{
		{"r4", OpRegister},
		{"RL2", OpRegister},
		{"PSW", OpRegister},
		{"[r3]", OpIndirect},
		{"[ r3 + ]", OpPostInc},
		{"[-r3]", OpPreDec},
		{"[r3 + #0010h]", OpIndOffset},
		{"#12h", OpImmediate},
		{"1234h", OpDirect},
		{"P8.3", OpBitAddr},
		{"r2.15", OpBitAddr},
		{"cc_UGT", OpCondition},
		{"-7Fh", OpRelative},
		{"+2", OpRelative},
		{"my_label", OpLabel},
	}
	for _, tt := range tests {
		op, err := ParseOperand(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if op.Kind != tt.kind {
			t.Errorf("%q: got %s, want %s", tt.in, op.Kind, tt.kind)
		}
	}

	op, _ := ParseOperand("P8.3")
	if op.Reg.Address != 0xFFD4 || op.Bit != 3 {
		t.Errorf("P8.3: word %04Xh bit %d", op.Reg.Address, op.Bit)
	}
	op, _ = ParseOperand("-7Fh")
	if op.Value != -0x7F {
		t.Errorf("-7Fh: %d", op.Value)
	}
	op, _ = ParseOperand("[r3 + #0010h]")
	if op.Reg.Kind != cpu.RegWordGPR || op.Reg.Num != 3 || op.Value != 0x10 {
		t.Errorf("indirect offset: %+v", op)
	}
}

func TestParseOperandErrors(t *testing.T) {
	for _, in := range []string{"", "[rl1]", "[r3", "rl1.2", "P8.16", "1234h.0", "#", "r4 r5", "cc_FOO"} {
		if _, err := ParseOperand(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: got %v, want ErrSyntax", in, err)
		}
	}
}

func TestBitAddrWindows(t *testing.T) {
	tests := []struct {
		in    string
		ext   bool
		short uint8
		ok    bool
	}{
		{"P8.3", false, 0xEA, true},
		{"P8.3", true, 0, false},
		{"0FFD4h.3", false, 0xEA, true},
		{"0F1D4h.3", false, 0, false},
		{"0F1D4h.3", true, 0xEA, true},
		{"0FD20h.1", true, 0x10, true},
		{"r2.15", true, 0xF2, true},
	}
	for _, tt := range tests {
		op, err := ParseOperand(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		short, ok := bitAddrShort(&op, tt.ext)
		if ok != tt.ok || short != tt.short {
			t.Errorf("%q ext=%v: got %02Xh %v, want %02Xh %v", tt.in, tt.ext, short, ok, tt.short, tt.ok)
		}
	}
}

func TestParseLine(t *testing.T) {
	st, n, err := ParseLine("loop: add r1, [r2+] ; bump\nnext")
	if err != nil {
		t.Fatal(err)
	}
	if n != len("loop: add r1, [r2+] ; bump\n") {
		t.Errorf("consumed %d", n)
	}
	if st.Label != "loop" || st.Mnemonic != "add" || len(st.Operands) != 2 || st.Operands[1].Kind != OpPostInc {
		t.Errorf("got %+v", st)
	}

	st, _, err = ParseLine("  db 'a,b;c', 0\n")
	if err != nil || len(st.Args) != 2 || st.Args[0] != "'a,b;c'" {
		t.Errorf("db: %+v %v", st, err)
	}

	st, _, _ = ParseLine("; only a comment")
	if !st.Empty() || st.Label != "" {
		t.Errorf("comment line: %+v", st)
	}
}

package disassembler_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/Urethramancer/c166/cpu"
	"github.com/Urethramancer/c166/disassembler"
	"github.com/Urethramancer/c166/isa"
	"github.com/davecgh/go-spew/spew"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name, hex, want string
	}{
		{"add_rw_rw", "00 44", "add r4, r4"},
		{"mov_rw_rw", "F0 54", "mov r5, r4"},
		{"add_data3", "08 44", "add r4, #04h"},
		{"add_indirect", "08 4B", "add r4, [r3]"},
		{"add_postinc", "08 4D", "add r4, [r1+]"},
		{"addb_data3", "09 25", "addb rl1, #05h"},
		{"mov_imm16", "E6 F1 34 12", "mov r1, #1234h"},
		{"movb_imm8", "E7 F3 AB 00", "movb rh1, #ABh"},
		{"mov_sfr_mem", "F2 04 00 FA", "mov CSP, FA00h"},
		{"bclr_sfr", "0E EA", "bclr P8.0"},
		{"bset_ram", "7F 10", "bset FD20h.7"},
		{"bset_gpr", "2F F3", "bset r3.2"},
		{"bmov", "4A F1 EA 23", "bmov P8.3, r1.2"},
		{"bfldl", "0A EA FF 0F", "bfldl P8, #FFh, #0Fh"},
		{"bfldh_data_before_mask", "1A 88 0F F0", "bfldh PSW, #F0h, #0Fh"},
		{"mov_mem_esfr", "F6 08 8C F0", "mov F08Ch, CP"},
		{"jmpr", "3D FE", "jmpr cc_NZ, -02h"},
		{"jmpa", "EA 20 00 30", "jmpa cc_Z, 3000h"},
		{"calls", "DA 01 34 12", "calls 01h, 1234h"},
		{"trap", "9B 20", "trap #10h"},
		{"mov_indoff", "D4 12 10 00", "mov r1, [r2 + #0010h]"},
		{"mov_predec", "88 21", "mov [-r1], r2"},
		{"extr", "D1 90", "extr #2"},
		{"extp_page", "D7 40 23 01", "extp #0123h, #1"},
		{"exts_seg", "D7 00 12 00", "exts #12h, #1"},
		{"ret", "CB 00", "ret"},
		{"reti", "FB 88", "reti"},
		{"srst", "B7 48 B7 B7", "srst"},
	}
	for _, tc := range tests {
		inst, err := disassembler.Decode(mustHex(t, tc.hex), 0, disassembler.Options{})
		if err != nil {
			t.Errorf("[%s] %v", tc.name, err)
			continue
		}
		if inst.Text != tc.want {
			t.Errorf("[%s] got %q, want %q", tc.name, inst.Text, tc.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name, hex string
		want      error
	}{
		{"calla_bad_condition_byte", "CA F7 45 67", isa.ErrInvalidInstruction},
		{"unknown_opcode", "8B 00", isa.ErrUnknownInstruction},
		{"truncated", "E6 F1", isa.ErrTruncated},
		{"protected_broken", "B7 48 B7 00", isa.ErrInvalidInstruction},
		{"ret_nonzero", "CB 01", isa.ErrInvalidInstruction},
	}
	for _, tc := range tests {
		_, err := disassembler.Decode(mustHex(t, tc.hex), 0, disassembler.Options{})
		if !errors.Is(err, tc.want) {
			t.Errorf("[%s] got %v, want %v", tc.name, err, tc.want)
		}
	}
	if _, err := disassembler.Decode(nil, 0, disassembler.Options{}); !errors.Is(err, isa.ErrTruncated) {
		t.Errorf("empty buffer: %v", err)
	}
}

func TestRegisterNames(t *testing.T) {
	tests := []struct {
		short uint8
		width cpu.Width
		ext   bool
		want  string
	}{
		{0x00, cpu.WidthWord, false, "DPP0"},
		{0xF5, cpu.WidthWord, false, "r5"},
		{0xF5, cpu.WidthByte, false, "rh2"},
		{0x28, cpu.WidthWord, false, "T0"},
		{0x28, cpu.WidthWord, true, "T7"},
		{0x03, cpu.WidthWord, true, "F006h"},
	}
	for _, tt := range tests {
		if got := disassembler.RegName(tt.short, tt.width, tt.ext); got != tt.want {
			t.Errorf("RegName(%02Xh, %s, %v) = %q, want %q", tt.short, tt.width, tt.ext, got, tt.want)
		}
	}

	bits := []struct {
		short uint8
		want  string
	}{
		{0x10, "FD20h"},
		{0xEA, "P8"},
		{0xF3, "r3"},
		{0x88, "PSW"},
	}
	for _, tt := range bits {
		if got := disassembler.BitName(tt.short, false); got != tt.want {
			t.Errorf("BitName(%02Xh) = %q, want %q", tt.short, got, tt.want)
		}
	}
	if got := disassembler.BitName(0xEB, true); got != "ODP8" {
		t.Errorf("extended BitName(EBh) = %q", got)
	}
}

func TestBranchMetadata(t *testing.T) {
	tests := []struct {
		name        string
		hex         string
		pc          uint32
		kind        disassembler.BranchKind
		target      uint32
		conditional bool
		terminal    bool
	}{
		{"jmpr_uc", "0D 02", 0x100, disassembler.BranchJump, 0x106, false, true},
		{"jmpr_nz_back", "3D FF", 0x100, disassembler.BranchJump, 0x100, true, false},
		{"calls", "DA 01 34 12", 0, disassembler.BranchCall, 0x011234, false, false},
		{"jmpa_in_segment", "EA 00 00 30", 0x12000, disassembler.BranchJump, 0x13000, false, true},
		{"trap", "9B 20", 0, disassembler.BranchTrap, 0x40, false, false},
		{"callr", "BB FE", 0x10, disassembler.BranchCall, 0x0E, false, false},
		{"jb", "8A EA 03 20", 0x200, disassembler.BranchJump, 0x20A, true, false},
		{"jmps", "FA 02 00 10", 0, disassembler.BranchJump, 0x021000, false, true},
	}
	for _, tc := range tests {
		inst, err := disassembler.Decode(mustHex(t, tc.hex), tc.pc, disassembler.Options{})
		if err != nil {
			t.Fatalf("[%s] %v", tc.name, err)
		}
		b := inst.Branch
		if b.Kind != tc.kind || !b.Static || b.Target != tc.target || b.Conditional != tc.conditional {
			t.Errorf("[%s] unexpected branch:\n%s", tc.name, spew.Sdump(b))
		}
		if inst.Terminal() != tc.terminal {
			t.Errorf("[%s] terminal=%v", tc.name, inst.Terminal())
		}
	}

	inst, _ := disassembler.Decode(mustHex(t, "CB 00"), 0, disassembler.Options{})
	if inst.Branch.Kind != disassembler.BranchReturn || !inst.Terminal() {
		t.Errorf("ret: %s", spew.Sdump(inst.Branch))
	}
	inst, _ = disassembler.Decode(mustHex(t, "9C 20"), 0, disassembler.Options{})
	if inst.Branch.Static || !inst.Branch.Conditional || inst.Branch.Condition != cpu.CondZ {
		t.Errorf("jmpi: %s", spew.Sdump(inst.Branch))
	}
}

func TestDisassembleListing(t *testing.T) {
	code := mustHex(t, `
		E6 F1 34 12
		3D 01
		CB 00
		BB FE
		DB 00
		41 42 43 44 00`)
	want := "    mov r1, #1234h\n" +
		"    jmpr cc_NZ, loc_0008\n" +
		"sub_0006:\n" +
		"    ret\n" +
		"loc_0008:\n" +
		"    callr sub_0006\n" +
		"    rets\n" +
		"string1:\n" +
		"    db 'ABCD', 00h\n"

	got, err := disassembler.Disassemble(code, 0, disassembler.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("listing mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDisassembleUnreachable(t *testing.T) {
	code := mustHex(t, "CB 00 CC 00 12 FF")
	want := "    ret\n    db 0CCh, 00h, 12h, 0FFh\n"
	got, _ := disassembler.Disassemble(code, 0, disassembler.Options{})
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	want = "    ret\n    nop\n    db 12h, 0FFh\n"
	got, _ = disassembler.Disassemble(code, 0, disassembler.Options{Linear: true})
	if got != want {
		t.Errorf("linear got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTargetInsideInstruction(t *testing.T) {
	// The branch lands on the data word of the mov, which is printed whole.
	code := mustHex(t, `
		3D 01
		E6 F1 CB 00
		CB 00`)
	want := "    jmpr cc_NZ, +01h\n" +
		"    mov r1, #00CBh\n" +
		"    ret\n"
	got, err := disassembler.Disassemble(code, 0x1000, disassembler.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "loc_1004") {
		t.Error("label used but never defined")
	}
}

func TestExtendedWindow(t *testing.T) {
	code := mustHex(t, `
		D1 80
		E6 28 34 12
		E6 28 34 12
		CB 00`)
	want := "    extr #1\n" +
		"    mov T7, #1234h\n" +
		"    mov T0, #1234h\n" +
		"    ret\n"
	got, err := disassembler.Disassemble(code, 0, disassembler.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	got, _ = disassembler.Disassemble(mustHex(t, "E6 28 34 12"), 0, disassembler.Options{Extended: true})
	if got != "    mov T7, #1234h\n" {
		t.Errorf("extended option: %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	got, err := disassembler.Disassemble(nil, 0, disassembler.Options{})
	if got != "" || err != nil {
		t.Errorf("got %q, %v", got, err)
	}
}

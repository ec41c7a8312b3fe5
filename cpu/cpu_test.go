package cpu_test

import (
	"testing"

	"github.com/Urethramancer/c166/cpu"
)

func TestParseGPR(t *testing.T) {
	tests := []struct {
		in   string
		kind cpu.RegisterKind
		num  uint8
		ok   bool
	}{
		{"r0", cpu.RegWordGPR, 0, true},
		{"R15", cpu.RegWordGPR, 15, true},
		{"rl0", cpu.RegByteGPR, 0, true},
		{"rh0", cpu.RegByteGPR, 1, true},
		{"RH7", cpu.RegByteGPR, 15, true},
		{"rl3", cpu.RegByteGPR, 6, true},
		{"r16", 0, 0, false},
		{"rl8", 0, 0, false},
		{"r01", 0, 0, false},
		{"r", 0, 0, false},
		{"rx1", 0, 0, false},
		{"sp", 0, 0, false},
	}
	for _, tt := range tests {
		r, ok := cpu.ParseGPR(tt.in)
		if ok != tt.ok {
			t.Errorf("%q: ok=%v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (r.Kind != tt.kind || r.Num != tt.num) {
			t.Errorf("%q: got %+v", tt.in, r)
		}
	}
}

func TestGPRNames(t *testing.T) {
	for n := uint8(0); n < cpu.NumGPR; n++ {
		w, _ := cpu.ParseGPR(cpu.WordGPRName(n))
		b, _ := cpu.ParseGPR(cpu.ByteGPRName(n))
		if w.Num != n || b.Num != n {
			t.Errorf("register %d: names %s/%s do not parse back", n, cpu.WordGPRName(n), cpu.ByteGPRName(n))
		}
	}
	if cpu.ByteGPRName(5) != "rh2" {
		t.Errorf("byte GPR 5: got %s", cpu.ByteGPRName(5))
	}
}

func TestLookupRegister(t *testing.T) {
	tests := []struct {
		in   string
		kind cpu.RegisterKind
		addr uint16
	}{
		{"psw", cpu.RegSFR, 0xFF10},
		{"SP", cpu.RegSFR, 0xFE12},
		{"t7", cpu.RegESFR, 0xF050},
		{"ODP8", cpu.RegESFR, 0xF1D6},
	}
	for _, tt := range tests {
		r, ok := cpu.LookupRegister(tt.in)
		if !ok || r.Kind != tt.kind || r.Address != tt.addr {
			t.Errorf("%q: got %+v, %v", tt.in, r, ok)
		}
	}
	if _, ok := cpu.LookupRegister("nosuch"); ok {
		t.Error("unknown name resolved")
	}
}

func TestConditions(t *testing.T) {
	for c := cpu.Condition(0); c < 16; c++ {
		got, ok := cpu.ParseCondition(c.String())
		if !ok || got != c {
			t.Errorf("%s does not parse back", c)
		}
	}
	aliases := map[string]cpu.Condition{
		"cc_eq": cpu.CondZ, "CC_NE": cpu.CondNZ, "cc_ult": cpu.CondC, "cc_uge": cpu.CondNC,
	}
	for s, want := range aliases {
		if got, ok := cpu.ParseCondition(s); !ok || got != want {
			t.Errorf("%s: got %s", s, got)
		}
	}
	if _, ok := cpu.ParseCondition("nz"); ok {
		t.Error("condition without prefix accepted")
	}
	if !cpu.CondUC.Unconditional() || cpu.CondZ.Unconditional() {
		t.Error("Unconditional is wrong")
	}
}

func TestBitAddressSpaces(t *testing.T) {
	for s := 0; s < 256; s++ {
		short := uint8(s)
		space := cpu.BitSpace(short)
		switch {
		case s < 0x80 && space != cpu.SpaceRAM,
			s >= 0x80 && s < 0xF0 && space != cpu.SpaceSFR,
			s >= 0xF0 && space != cpu.SpaceGPR:
			t.Fatalf("%02Xh classified as %s", s, space)
		}

		addr, ok := cpu.BitAddress(short, false)
		if space == cpu.SpaceGPR {
			if ok {
				t.Errorf("%02Xh: GPR alias has a physical address", s)
			}
			continue
		}
		back, ok := cpu.BitShort(addr, false)
		if !ok || back != short {
			t.Errorf("%02Xh -> %04Xh -> %02Xh", s, addr, back)
		}
		eaddr, _ := cpu.BitAddress(short, true)
		if back, ok := cpu.BitShort(eaddr, true); !ok || back != short {
			t.Errorf("extended %02Xh -> %04Xh -> %02Xh", s, eaddr, back)
		}
		if space == cpu.SpaceSFR {
			if _, ok := cpu.BitShort(eaddr, false); ok {
				t.Errorf("ESFR bit word %04Xh reachable outside an extension window", eaddr)
			}
			if _, ok := cpu.BitShort(addr, true); ok {
				t.Errorf("SFR bit word %04Xh reachable inside an extension window", addr)
			}
		}
	}

	if a, _ := cpu.BitAddress(0x10, false); a != 0xFD20 {
		t.Errorf("RAM bit 10h: %04Xh", a)
	}
	if a, _ := cpu.BitAddress(0xEA, false); a != 0xFFD4 {
		t.Errorf("SFR bit EAh: %04Xh", a)
	}
	if _, ok := cpu.BitShort(0xFD21, false); ok {
		t.Error("odd address accepted")
	}
}

func TestRegAddress(t *testing.T) {
	tests := []struct {
		short uint8
		ext   bool
		addr  uint16
	}{
		{0x00, false, 0xFE00},
		{0x28, false, 0xFE50},
		{0x28, true, 0xF050},
		{0x88, false, 0xFF10},
	}
	for _, tt := range tests {
		a, ok := cpu.RegAddress(tt.short, tt.ext)
		if !ok || a != tt.addr {
			t.Errorf("%02Xh ext=%v: got %04Xh", tt.short, tt.ext, a)
		}
		if s, ok := cpu.RegShort(a, tt.ext); !ok || s != tt.short {
			t.Errorf("%04Xh: got short %02Xh", a, s)
		}
		if _, ok := cpu.RegShort(a, !tt.ext); ok {
			t.Errorf("%04Xh reachable from the other window", a)
		}
	}
	if _, ok := cpu.RegAddress(0xF3, false); ok {
		t.Error("GPR alias has a register address")
	}
}

func TestWords(t *testing.T) {
	b := cpu.WordsToBytes([]uint16{0x1234, 0xABCD})
	if len(b) != 4 || b[0] != 0x34 || b[1] != 0x12 || b[2] != 0xCD || b[3] != 0xAB {
		t.Fatalf("got % X", b)
	}
	w := cpu.BytesToWords([]byte{0x34, 0x12, 0x56})
	if len(w) != 2 || w[0] != 0x1234 || w[1] != 0x0056 {
		t.Errorf("got %04X", w)
	}
}

package disassembler

import "testing"

func TestHexByte(t *testing.T) {
	tests := map[byte]string{
		0x00: "00h",
		0x12: "12h",
		0x9F: "9Fh",
		0xA0: "0A0h",
		0xFF: "0FFh",
	}
	for b, want := range tests {
		if got := hexByte(b); got != want {
			t.Errorf("hexByte(%02X) = %q, want %q", b, got, want)
		}
	}
}

func TestFormatData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"short_run", []byte("AB\x00"), "    db 41h, 42h\n    db 00h\n"},
		{"unterminated", []byte("ABCD"), "    db 41h, 42h, 43h, 44h\n"},
		{"string", []byte("\x01Hello\x00"), "    db 01h\nstring1:\n    db 'Hello', 00h\n"},
		{"quote_breaks_run", []byte("it's\x00"), "    db 69h, 74h\n    db 27h\n    db 73h\n    db 00h\n"},
		{"wrap", []byte{0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88},
			"    db 80h, 81h, 82h, 83h, 84h, 85h, 86h, 87h\n    db 88h\n"},
	}
	for _, tc := range tests {
		n := 1
		if got := analyzeAndFormatData(tc.data, &n); got != tc.want {
			t.Errorf("[%s] got:\n%s\nwant:\n%s", tc.name, got, tc.want)
		}
	}
}

func TestExtState(t *testing.T) {
	inst, err := Decode([]byte{0xDC, 0xE5}, 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var e extState
	e.step(inst)
	if e.remaining != 3 || !e.active() {
		t.Fatalf("extpr #3 left %d remaining", e.remaining)
	}
	nop, _ := Decode([]byte{0xCC, 0x00}, 2, Options{})
	for i := 0; i < 3; i++ {
		e.step(nop)
	}
	if e.active() {
		t.Error("window still open after three instructions")
	}

	e.step(inst)
	e.reset()
	if e.active() {
		t.Error("reset did not close the window")
	}
	if !(&extState{base: true}).active() {
		t.Error("base mode not active")
	}
}

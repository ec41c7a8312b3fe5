package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

// RegisterKind separates the namespaces a register name can come from.
type RegisterKind int

const (
	// RegNone is the zero value.
	RegNone RegisterKind = iota
	// RegWordGPR is one of r0-r15.
	RegWordGPR
	// RegByteGPR is one of rl0-rl7 or rh0-rh7.
	RegByteGPR
	// RegSFR is a special function register in the FE00h-FFFFh window.
	RegSFR
	// RegESFR is an extended special function register in the F000h-F1FFh window.
	RegESFR
)

// NumGPR is the number of general purpose registers in the current bank.
const NumGPR = 16

// Register names one register operand.
type Register struct {
	Kind RegisterKind
	// Num is the 4-bit GPR number. Byte GPRs count rl0=0, rh0=1, rl1=2 and so on.
	Num uint8
	// Address is the physical address of an SFR or ESFR.
	Address uint16
	Name    string
}

// IsGPR reports whether the register lives in the register bank.
func (r Register) IsGPR() bool {
	return r.Kind == RegWordGPR || r.Kind == RegByteGPR
}

// Width returns the natural access width. SFRs can be used either way.
func (r Register) Width() Width {
	switch r.Kind {
	case RegWordGPR:
		return WidthWord
	case RegByteGPR:
		return WidthByte
	}
	return WidthNone
}

func (r Register) String() string {
	switch r.Kind {
	case RegWordGPR:
		return WordGPRName(r.Num)
	case RegByteGPR:
		return ByteGPRName(r.Num)
	case RegSFR, RegESFR:
		if r.Name != "" {
			return r.Name
		}
		return fmt.Sprintf("%04Xh", r.Address)
	}
	return "?"
}

// WordGPRName returns the name of word GPR n.
func WordGPRName(n uint8) string {
	return "r" + strconv.Itoa(int(n&0xF))
}

// ByteGPRName returns the name of byte GPR n, where even numbers are low bytes.
func ByteGPRName(n uint8) string {
	n &= 0xF
	if n%2 == 0 {
		return "rl" + strconv.Itoa(int(n/2))
	}
	return "rh" + strconv.Itoa(int(n/2))
}

// ParseGPR recognises r0-r15, rl0-rl7 and rh0-rh7 in any case.
func ParseGPR(s string) (Register, bool) {
	lc := strings.ToLower(strings.TrimSpace(s))
	var prefix string
	switch {
	case strings.HasPrefix(lc, "rl"), strings.HasPrefix(lc, "rh"):
		prefix = lc[:2]
	case strings.HasPrefix(lc, "r"):
		prefix = "r"
	default:
		return Register{}, false
	}

	digits := lc[len(prefix):]
	if digits == "" || len(digits) > 2 || (len(digits) == 2 && digits[0] == '0') {
		return Register{}, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return Register{}, false
	}

	switch prefix {
	case "r":
		if n >= NumGPR {
			return Register{}, false
		}
		return Register{Kind: RegWordGPR, Num: uint8(n)}, true
	case "rl":
		if n >= NumGPR/2 {
			return Register{}, false
		}
		return Register{Kind: RegByteGPR, Num: uint8(n * 2)}, true
	default:
		if n >= NumGPR/2 {
			return Register{}, false
		}
		return Register{Kind: RegByteGPR, Num: uint8(n*2 + 1)}, true
	}
}

// LookupRegister resolves a GPR, SFR or ESFR name.
func LookupRegister(s string) (Register, bool) {
	if r, ok := ParseGPR(s); ok {
		return r, true
	}
	sfr, ok := SFRNamed(s)
	if !ok {
		return Register{}, false
	}
	kind := RegSFR
	if sfr.Extended {
		kind = RegESFR
	}
	return Register{Kind: kind, Address: sfr.Address, Name: sfr.Name}, true
}

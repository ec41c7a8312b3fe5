package cpu

// Physical bases of the windows reachable through an 8-bit short address.
const (
	// RAMBitBase is the start of the bit-addressable internal RAM.
	RAMBitBase uint16 = 0xFD00
	// SFRBase is the start of the word-register SFR window.
	SFRBase uint16 = 0xFE00
	// ESFRBase is the start of the word-register ESFR window.
	ESFRBase uint16 = 0xF000
	// SFRBitBase is the start of the bit-addressable SFRs.
	SFRBitBase uint16 = 0xFF00
	// ESFRBitBase is the start of the bit-addressable ESFRs.
	ESFRBitBase uint16 = 0xF100
)

// Short address boundaries.
const (
	// ShortSFRBit is the first bit-addressing short address in the SFR window.
	ShortSFRBit uint8 = 0x80
	// ShortGPR is the first short address that aliases a GPR.
	ShortGPR uint8 = 0xF0
)

// Space tells which namespace a short address falls into.
type Space int

const (
	// SpaceRAM is the internal RAM bit window, 00h-7Fh.
	SpaceRAM Space = iota
	// SpaceSFR is the SFR (or ESFR) window.
	SpaceSFR
	// SpaceGPR is the GPR alias, F0h-FFh.
	SpaceGPR
)

func (s Space) String() string {
	switch s {
	case SpaceRAM:
		return "ram"
	case SpaceSFR:
		return "sfr"
	case SpaceGPR:
		return "gpr"
	}
	return "?"
}

// BitSpace classifies a bit-addressing short address.
func BitSpace(short uint8) Space {
	switch {
	case short < ShortSFRBit:
		return SpaceRAM
	case short < ShortGPR:
		return SpaceSFR
	default:
		return SpaceGPR
	}
}

// BitAddress maps a bit-addressing short address below F0h to its physical word.
// Addresses in the GPR alias have no fixed physical address and report false.
func BitAddress(short uint8, extended bool) (uint16, bool) {
	switch BitSpace(short) {
	case SpaceRAM:
		return RAMBitBase + 2*uint16(short), true
	case SpaceSFR:
		base := SFRBitBase
		if extended {
			base = ESFRBitBase
		}
		return base + 2*uint16(short&0x7F), true
	}
	return 0, false
}

// BitShort is the inverse of BitAddress. Outside an extension window only the
// SFR bits are reachable; inside one only the ESFR bits are.
func BitShort(addr uint16, extended bool) (uint8, bool) {
	if addr%2 != 0 {
		return 0, false
	}
	base := SFRBitBase
	if extended {
		base = ESFRBitBase
	}
	switch {
	case addr >= RAMBitBase && addr < RAMBitBase+0x100:
		return uint8((addr - RAMBitBase) / 2), true
	case addr >= base && addr < base+0xE0:
		return ShortSFRBit + uint8((addr-base)/2), true
	}
	return 0, false
}

// RegAddress maps a register short address below F0h to its physical word.
func RegAddress(short uint8, extended bool) (uint16, bool) {
	if short >= ShortGPR {
		return 0, false
	}
	base := SFRBase
	if extended {
		base = ESFRBase
	}
	return base + 2*uint16(short), true
}

// RegShort is the inverse of RegAddress for the window selected by extended.
func RegShort(addr uint16, extended bool) (uint8, bool) {
	base := SFRBase
	if extended {
		base = ESFRBase
	}
	if addr%2 != 0 || addr < base || addr >= base+2*uint16(ShortGPR) {
		return 0, false
	}
	return uint8((addr - base) / 2), true
}

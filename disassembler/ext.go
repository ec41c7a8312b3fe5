package disassembler

import "github.com/Urethramancer/c166/isa"

// extState tracks the ESFR window opened by extr, extpr and extsr for the
// next irange instructions.
type extState struct {
	base      bool
	remaining uint32
}

func (e *extState) active() bool {
	return e.base || e.remaining > 0
}

// step advances past inst, which was printed with the current mode.
func (e *extState) step(inst *Instruction) {
	if e.remaining > 0 {
		e.remaining--
	}
	switch inst.Mnemonic {
	case "extr", "extpr", "extsr":
		e.remaining = inst.Fields.Uint(isa.FieldIrange0)
	}
}

func (e *extState) reset() {
	e.remaining = 0
}

package assembler

// extWindow counts the instructions still covered by an extr, extpr or
// extsr prefix. The count is the prefix's irange operand.
type extWindow struct {
	remaining int64
}

func (w *extWindow) active() bool {
	return w.remaining > 0
}

// step advances past an instruction that was encoded with the current mode.
func (w *extWindow) step(st Statement) {
	if w.remaining > 0 {
		w.remaining--
	}
	switch st.Mnemonic {
	case "extr", "extpr", "extsr":
		if n := len(st.Operands); n > 0 {
			w.remaining = st.Operands[n-1].Value
		}
	}
}

func (w *extWindow) reset() {
	w.remaining = 0
}

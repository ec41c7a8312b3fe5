package assembler

import (
	"fmt"
)

// Assembler holds the state for the assembly process.
type Assembler struct {
	labels map[string]uint32
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{
		labels: make(map[string]uint32),
	}
}

// Labels returns the label addresses found by the last Assemble call.
func (asm *Assembler) Labels() map[string]uint32 {
	out := make(map[string]uint32, len(asm.labels))
	for k, v := range asm.labels {
		out[k] = v
	}
	return out
}

// Assemble takes C166 assembly source and returns the machine code for it
// loaded at baseAddress. Lines end at a newline or a NUL byte. Assembly stops
// at the first line that fails, with a *LineError.
func (asm *Assembler) Assemble(src string, baseAddress uint32) ([]byte, error) {
	asm.labels = make(map[string]uint32)

	nodes, err := asm.parseLines(src)
	if err != nil {
		return nil, err
	}

	// Pass: label addresses and node sizes. Unknown labels bind to a
	// placeholder, which never changes which encoding is chosen.
	pc := baseAddress
	var ext extWindow
	for _, n := range nodes {
		switch n.Type {
		case NodeLabel:
			if _, dup := asm.labels[n.Label]; dup {
				return nil, n.fail(fmt.Errorf("%w: label %s defined twice", ErrSyntax, n.Label))
			}
			asm.labels[n.Label] = pc
			continue
		case NodeDirective:
			size, err := asm.getDirectiveSize(n, pc)
			if err != nil {
				return nil, n.fail(err)
			}
			n.Size = size
			ext.reset()
		case NodeInstruction:
			c := &context{pc: pc, labels: asm.labels, lax: true, extended: ext.active()}
			code, err := encodeAt(n.Statement.Mnemonic, n.Statement.Operands, c)
			if err != nil {
				return nil, n.fail(err)
			}
			n.Size = uint32(len(code))
			ext.step(n.Statement)
		}
		pc += n.Size
	}

	// Generate machine code.
	var machineCode []byte
	pc = baseAddress
	ext.reset()
	for _, n := range nodes {
		var code []byte
		var err error

		switch n.Type {
		case NodeLabel:
			// Labels do not emit code.
			continue
		case NodeDirective:
			code, err = asm.generateDirectiveCode(n, pc)
			ext.reset()
		case NodeInstruction:
			code, err = encodeAt(n.Statement.Mnemonic, n.Statement.Operands, &context{pc: pc, labels: asm.labels, extended: ext.active()})
			ext.step(n.Statement)
		}

		if err != nil {
			return nil, n.fail(err)
		}
		if uint32(len(code)) != n.Size {
			panic(fmt.Sprintf("assembler: line %d changed size between passes", n.Line))
		}
		machineCode = append(machineCode, code...)
		pc += n.Size
	}

	return machineCode, nil
}

// parseLines converts the source into a slice of Node objects, one line at a time.
func (asm *Assembler) parseLines(src string) ([]*Node, error) {
	var nodes []*Node
	for line := 1; src != ""; line++ {
		st, consumed, err := ParseLine(src)
		text := src[:consumed]
		src = src[consumed:]
		if err != nil {
			return nil, &LineError{Line: line, Text: trimLine(text), Err: err}
		}

		if st.Label != "" {
			nodes = append(nodes, &Node{Type: NodeLabel, Label: st.Label, Line: line, Text: trimLine(text)})
		}
		if !st.Empty() {
			typ := NodeInstruction
			if isDirective(st.Mnemonic) {
				typ = NodeDirective
			}
			nodes = append(nodes, &Node{Type: typ, Statement: st, Line: line, Text: trimLine(text)})
		}
	}
	return nodes, nil
}

func trimLine(s string) string {
	for len(s) > 0 {
		switch s[len(s)-1] {
		case '\n', '\r', 0:
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}

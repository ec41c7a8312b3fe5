package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/c166/isa"
)

// LabelType defines the context of a label.
type LabelType int

const (
	// JumpTarget is for jmpr, jmpa, jmps and the bit branches.
	JumpTarget LabelType = iota
	// SubroutineEntry is for a callr, calla, calls or pcall target.
	SubroutineEntry
)

// Disassemble decodes code loaded at base and returns an assembly listing.
// Unless opts.Linear is set, only bytes reachable from base are shown as
// instructions and everything else is rendered as data.
func Disassemble(code []byte, base uint32, opts Options) (string, error) {
	if len(code) == 0 {
		return "", nil
	}

	// --- STAGE 1: Linear Sweep ---
	instructions := sweep(code, base, opts)

	// --- STAGE 2: Control Flow Analysis ---
	labelTargets := make(map[uint32]LabelType)
	if opts.Linear {
		markLinear(instructions, uint32(len(code)))
	} else {
		follow(instructions, labelTargets, uint32(len(code)), base)
	}
	// A target inside an instruction that is rendered whole gets no label
	// line, so its branches keep the numeric operand.
	starts := renderStarts(instructions, uint32(len(code)))
	for target := range labelTargets {
		if !starts[target] {
			delete(labelTargets, target)
		}
	}

	// --- STAGE 3: Render Final Output ---
	var out strings.Builder
	stringCounter := 1
	ext := extState{base: opts.Extended}
	pc := uint32(0)
	totalLen := uint32(len(code))

	for pc < totalLen {
		// Everything up to the next reachable instruction is data.
		if inst, ok := instructions[pc]; !ok || !inst.IsCode {
			dataEnd := nextCode(instructions, pc, totalLen)
			out.WriteString(analyzeAndFormatData(code[pc:dataEnd], &stringCounter))
			ext.reset()
			pc = dataEnd
			continue
		}

		if labelType, ok := labelTargets[pc]; ok {
			fmt.Fprintf(&out, "%s:\n", labelName(base+pc, labelType))
		}

		inst := instructions[pc]
		ro := opts
		ro.Extended = ext.active()
		ops := Operands(inst.Descriptor, &inst.Fields, ro)
		substituteLabel(inst, ops, labelTargets, base)
		fmt.Fprintf(&out, "    %s\n", join(inst.Mnemonic, ops))

		ext.step(inst)
		pc += inst.Size()
	}

	return out.String(), nil
}

// nextCode returns the offset of the first code instruction at or after pc.
func nextCode(instructions map[uint32]*Instruction, pc, size uint32) uint32 {
	for ; pc < size; pc++ {
		if inst, ok := instructions[pc]; ok && inst.IsCode {
			break
		}
	}
	return pc
}

// renderStarts walks the listing the way Disassemble renders it and returns
// the offsets that begin a printed instruction.
func renderStarts(instructions map[uint32]*Instruction, size uint32) map[uint32]bool {
	starts := make(map[uint32]bool)
	for pc := uint32(0); pc < size; {
		inst, ok := instructions[pc]
		if !ok || !inst.IsCode {
			pc = nextCode(instructions, pc, size)
			continue
		}
		starts[pc] = true
		pc += inst.Size()
	}
	return starts
}

// sweep decodes an instruction at every even offset.
func sweep(code []byte, base uint32, opts Options) map[uint32]*Instruction {
	instructions := make(map[uint32]*Instruction)
	for pc := 0; pc+1 < len(code); pc += 2 {
		inst, err := Decode(code[pc:], base+uint32(pc), opts)
		if err != nil {
			continue
		}
		instructions[uint32(pc)] = inst
	}
	return instructions
}

// markLinear walks from offset 0, skipping one byte past anything undecodable.
func markLinear(instructions map[uint32]*Instruction, size uint32) {
	for pc := uint32(0); pc < size; {
		inst, ok := instructions[pc]
		if !ok {
			pc++
			continue
		}
		inst.IsCode = true
		pc += inst.Size()
	}
}

// follow marks everything reachable from the entry point, using only the
// semantic flags of each opcode.
func follow(instructions map[uint32]*Instruction, labels map[uint32]LabelType, size, base uint32) {
	q := newQueue()
	q.push(0)

	for {
		off, ok := q.pop()
		if !ok {
			break
		}

		inst, exists := instructions[off]
		if !exists || inst.IsCode {
			continue
		}
		inst.IsCode = true

		if !inst.Terminal() {
			q.push(off + inst.Size())
		}

		b := inst.Branch
		if !b.Static || (b.Kind != BranchJump && b.Kind != BranchCall) {
			continue
		}
		if b.Target < base || b.Target-base >= size {
			continue
		}
		target := b.Target - base
		q.push(target)
		if b.Kind == BranchCall {
			labels[target] = SubroutineEntry
		} else if _, exists := labels[target]; !exists {
			labels[target] = JumpTarget
		}
	}
}

// substituteLabel replaces a relative or code-address operand with the label
// of its target.
func substituteLabel(inst *Instruction, ops []string, labels map[uint32]LabelType, base uint32) {
	b := inst.Branch
	if !b.Static || b.Target < base {
		return
	}
	labelType, ok := labels[b.Target-base]
	if !ok {
		return
	}
	for i, s := range inst.Descriptor.Shape.Slots() {
		if s.Kind == isa.SlotRel || s.Kind == isa.SlotCaddr {
			ops[i] = labelName(b.Target, labelType)
		}
	}
}

// labelName generates a label string based on the address and its context.
func labelName(addr uint32, labelType LabelType) string {
	prefix := "loc_"
	switch labelType {
	case SubroutineEntry:
		prefix = "sub_"
	}
	return fmt.Sprintf("%s%04X", prefix, addr)
}

// addrQueue is a simple worklist queue for offsets to decode.
type addrQueue struct {
	items []uint32
	seen  map[uint32]bool
}

func newQueue() *addrQueue {
	return &addrQueue{seen: make(map[uint32]bool)}
}

func (q *addrQueue) push(addr uint32) {
	if addr%2 == 1 {
		addr-- // Align to word boundary
	}
	if !q.seen[addr] {
		q.items = append(q.items, addr)
		q.seen[addr] = true
	}
}

func (q *addrQueue) pop() (uint32, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}

package isa

import "errors"

var (
	// ErrUnknownInstruction means the opcode byte has no table entry.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrInvalidInstruction means the opcode exists but a nested field holds a reserved value.
	ErrInvalidInstruction = errors.New("instruction was invalid")
	// ErrTruncated means the buffer is shorter than the opcode's length.
	ErrTruncated = errors.New("truncated instruction")
	// ErrFieldRange means a value does not fit the bits a layout gives it.
	ErrFieldRange = errors.New("field value out of range")
)

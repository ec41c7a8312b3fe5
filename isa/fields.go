package isa

import (
	"fmt"
	"strings"
)

// Field names one value extracted from an instruction's bytes.
type Field uint8

const (
	FieldRegister0 Field = iota
	FieldRegister1
	FieldData0
	FieldAddress0
	// FieldAddress1 carries the composed segment*10000h+offset of a far address.
	FieldAddress1
	FieldBitoff0
	FieldBitoff1
	FieldBit0
	FieldBit1
	FieldCondition0
	FieldSegment0
	FieldPage0
	FieldRelative0
	FieldMask0
	FieldIrange0
	FieldTrap0
	// FieldMode0 is the data3-or-register tag: ModeData3, ModeReg or ModeRegInc.
	FieldMode0
	// FieldMnemonic holds the mnemonic chosen by a sub-opcode.
	FieldMnemonic
	numFields
)

var fieldNames = [numFields]string{
	"register0", "register1", "data0", "address0", "address1", "bitoff0",
	"bitoff1", "bit0", "bit1", "condition0", "segment0", "page0", "relative0",
	"mask0", "irange0", "trap0", "mode0", "mnemonic",
}

func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("field%d", uint8(f))
}

// Tags stored in FieldMode0 by the data3-or-register layout.
const (
	ModeData3  = "#data3"
	ModeReg    = "reg"
	ModeRegInc = "reg_inc"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindUint
	KindInt
	KindString
)

// Value is an unsigned integer, a signed integer or a string.
type Value struct {
	Kind Kind
	u    uint32
	i    int32
	s    string
}

// Unsigned makes an unsigned Value.
func Unsigned(v uint32) Value { return Value{Kind: KindUint, u: v} }

// Signed makes a signed Value.
func Signed(v int32) Value { return Value{Kind: KindInt, i: v} }

// Text makes a string Value.
func Text(s string) Value { return Value{Kind: KindString, s: s} }

// Uint returns the value as unsigned. Signed values are reinterpreted.
func (v Value) Uint() uint32 {
	if v.Kind == KindInt {
		return uint32(v.i)
	}
	return v.u
}

// Int returns the value as signed.
func (v Value) Int() int32 {
	if v.Kind == KindUint {
		return int32(v.u)
	}
	return v.i
}

// Str returns the string payload, or "" for numbers.
func (v Value) Str() string {
	return v.s
}

func (v Value) String() string {
	switch v.Kind {
	case KindUint:
		return fmt.Sprintf("%#x", v.u)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	}
	return "<none>"
}

// Fields maps field names to the values one decode produced.
// The zero value is empty and ready to use.
type Fields struct {
	set    uint32
	values [numFields]Value
}

// Set stores a value.
func (f *Fields) Set(name Field, v Value) {
	f.set |= 1 << name
	f.values[name] = v
}

// SetUint stores an unsigned value.
func (f *Fields) SetUint(name Field, v uint32) { f.Set(name, Unsigned(v)) }

// SetInt stores a signed value.
func (f *Fields) SetInt(name Field, v int32) { f.Set(name, Signed(v)) }

// SetString stores a string value.
func (f *Fields) SetString(name Field, s string) { f.Set(name, Text(s)) }

// Has reports whether a field was set.
func (f *Fields) Has(name Field) bool {
	return f.set&(1<<name) != 0
}

// Get returns a field and whether it was set.
func (f *Fields) Get(name Field) (Value, bool) {
	if !f.Has(name) {
		return Value{}, false
	}
	return f.values[name], true
}

// Uint returns a field as unsigned, or 0 when absent.
func (f *Fields) Uint(name Field) uint32 {
	return f.values[name].Uint()
}

// Int returns a field as signed, or 0 when absent.
func (f *Fields) Int(name Field) int32 {
	return f.values[name].Int()
}

// Str returns a string field, or "" when absent.
func (f *Fields) Str(name Field) string {
	return f.values[name].Str()
}

// Len returns the number of fields set.
func (f *Fields) Len() int {
	n := 0
	for name := Field(0); name < numFields; name++ {
		if f.Has(name) {
			n++
		}
	}
	return n
}

func (f Fields) String() string {
	var parts []string
	for name := Field(0); name < numFields; name++ {
		if f.Has(name) {
			parts = append(parts, name.String()+"="+f.values[name].String())
		}
	}
	return strings.Join(parts, " ")
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"strconv"
	"strings"
)

// State is the value of a constant bit.
//
type State uint8

// Constant bit values.
//
const (
	S0 State = iota
	S1
	Sx
	Sz
)

func (s State) String() string {
	switch s {
	case S0:
		return "0"
	case S1:
		return "1"
	case Sz:
		return "z"
	}
	return "x"
}

// A SigBit is a single bit of a wire or a constant bit.
// SigBits are comparable and can be used as map keys: two bits are equal if
// they refer to the same *Wire at the same offset, or are the same constant.
//
type SigBit struct {
	Wire   *Wire
	Offset int   // bit index in Wire, valid if Wire != nil
	Data   State // constant value, valid if Wire == nil
}

// ConstBit returns a constant bit.
//
func ConstBit(s State) SigBit {
	return SigBit{Data: s}
}

// IsConst returns true if b is a constant bit.
//
func (b SigBit) IsConst() bool { return b.Wire == nil }

func (b SigBit) String() string {
	if b.Wire == nil {
		return b.Data.String()
	}
	if b.Wire.Width == 1 {
		return b.Wire.name
	}
	return b.Wire.name + "[" + strconv.Itoa(b.Offset) + "]"
}

// A SigSpec is an ordered list of bits, LSB first.
//
type SigSpec []SigBit

// Sig returns a SigSpec covering all bits of w.
//
func Sig(w *Wire) SigSpec {
	s := make(SigSpec, w.Width)
	for i := range s {
		s[i] = SigBit{Wire: w, Offset: i}
	}
	return s
}

// ConstSig returns a constant SigSpec of the given width.
//
func ConstSig(s State, width int) SigSpec {
	sig := make(SigSpec, width)
	for i := range sig {
		sig[i] = ConstBit(s)
	}
	return sig
}

// Copy returns a copy of s.
//
func (s SigSpec) Copy() SigSpec {
	if s == nil {
		return nil
	}
	t := make(SigSpec, len(s))
	copy(t, s)
	return t
}

// Equal reports whether s and t contain the same bits.
//
func (s SigSpec) Equal(t SigSpec) bool {
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		if s[i] != t[i] {
			return false
		}
	}
	return true
}

func (s SigSpec) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := len(s) - 1; i >= 0; i-- {
		if i < len(s)-1 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i].String())
	}
	b.WriteByte('}')
	return b.String()
}

// A SigSig is a direct connection between two signals of the same width.
//
type SigSig struct {
	LHS, RHS SigSpec
}

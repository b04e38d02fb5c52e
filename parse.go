// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"github.com/db47h/netlist/internal/hdl"
	"github.com/pkg/errors"
)

// Sig parses a signal expression and resolves it against the wires of m. The
// expression is a comma separated list of items, LSB first:
//
//	clk          all bits of wire clk
//	data[3]      bit 3 of wire data
//	addr[0..4]   bits 0 to 4 (inclusive) of wire addr; addr[4..0] reverses
//	0, 1         constant bits
//
// For example:
//
//	m.Sig("a[0..1], 1") // returns {1 a[1] a[0]}
//
func (m *Module) Sig(expr string) (SigSpec, error) {
	var sig SigSpec
	p := hdl.Parser{Input: expr}
	for {
		it, err := p.Next(false)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return sig, nil
		}
		bits, err := m.resolve(expr, it)
		if err != nil {
			return nil, err
		}
		sig = append(sig, bits...)
	}
}

// Connection is a parsed port=signal assignment.
//
type Connection struct {
	Port string
	Sig  SigSpec
}

// ParseConnections parses a connection string like "C=clk, D=d[3], CE=1" and
// resolves the signals against the wires of m.
//
func (m *Module) ParseConnections(conns string) ([]Connection, error) {
	var out []Connection
	seen := make(map[string]bool)
	p := hdl.Parser{Input: conns}
	for {
		it, err := p.Next(true)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return out, nil
		}
		a := it.(hdl.PinAssignment)
		if seen[a.LHS.Name] {
			return nil, errors.Errorf("in %q at pos %d: port %s connected more than once", conns, a.LHS.Pos+1, a.LHS.Name)
		}
		seen[a.LHS.Name] = true
		bits, err := m.resolve(conns, a.RHS)
		if err != nil {
			return nil, err
		}
		out = append(out, Connection{a.LHS.Name, bits})
	}
}

// AddCellConns creates a new cell and connects its ports according to a
// connection string (see ParseConnections).
//
func (m *Module) AddCellConns(name, typ string, conns string) (*Cell, error) {
	cs, err := m.ParseConnections(conns)
	if err != nil {
		return nil, errors.Wrapf(err, "cell %s (%s)", name, typ)
	}
	c := m.AddCell(name, typ)
	for _, pc := range cs {
		c.SetPort(pc.Port, pc.Sig)
	}
	return c, nil
}

func (m *Module) resolve(in string, it interface{}) (SigSpec, error) {
	switch it := it.(type) {
	case hdl.Const:
		return SigSpec{ConstBit(State(it.Value))}, nil
	case hdl.Pin:
		w, err := m.lookup(in, it)
		if err != nil {
			return nil, err
		}
		return Sig(w), nil
	case hdl.PinIndex:
		w, err := m.lookup(in, it.Pin)
		if err != nil {
			return nil, err
		}
		if it.Index < 0 || it.Index >= w.Width {
			return nil, errors.Errorf("in %q at pos %d: index %d out of range for %s[%d]", in, it.Pos+1, it.Index, w.name, w.Width)
		}
		return SigSpec{w.Bit(it.Index)}, nil
	case hdl.PinRange:
		w, err := m.lookup(in, it.Pin)
		if err != nil {
			return nil, err
		}
		if it.Start < 0 || it.End < 0 || it.Start >= w.Width || it.End >= w.Width {
			return nil, errors.Errorf("in %q at pos %d: range %d..%d out of range for %s[%d]", in, it.Pos+1, it.Start, it.End, w.name, w.Width)
		}
		step := 1
		if it.End < it.Start {
			step = -1
		}
		var sig SigSpec
		for i := it.Start; ; i += step {
			sig = append(sig, w.Bit(i))
			if i == it.End {
				break
			}
		}
		return sig, nil
	}
	panic("unexpected parser item")
}

func (m *Module) lookup(in string, p hdl.Pin) (*Wire, error) {
	w := m.wires[p.Name]
	if w == nil {
		return nil, errors.Errorf("in %q at pos %d: no wire %s in module %s", in, p.Pos+1, p.Name, m.name)
	}
	return w, nil
}

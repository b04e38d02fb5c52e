// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package nltest provides utility functions for testing netlist rewrites.
//
package nltest

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/netlist"
	"github.com/db47h/netlist/xilinx"
)

// Builder builds a module for tests. All methods fail the test on error.
//
type Builder struct {
	t testing.TB
	m *netlist.Module
}

// NewModule returns a Builder for a new module in a new design using the
// Xilinx library.
//
func NewModule(t testing.TB, name string) *Builder {
	t.Helper()
	d := netlist.NewDesign(xilinx.Library())
	return &Builder{t, d.AddModule(name)}
}

// AddModule returns a Builder for a new module in d.
//
func AddModule(t testing.TB, d *netlist.Design, name string) *Builder {
	return &Builder{t, d.AddModule(name)}
}

// Module returns the module being built, with its port list up to date.
//
func (b *Builder) Module() *netlist.Module {
	b.m.FixupPorts()
	return b.m
}

// Input adds an input port.
//
func (b *Builder) Input(name string, width int) *Builder {
	w := b.m.AddWire(name, width)
	w.PortInput = true
	return b
}

// Output adds an output port.
//
func (b *Builder) Output(name string, width int) *Builder {
	w := b.m.AddWire(name, width)
	w.PortOutput = true
	return b
}

// Inout adds a bidirectional port.
//
func (b *Builder) Inout(name string, width int) *Builder {
	w := b.m.AddWire(name, width)
	w.PortInput, w.PortOutput = true, true
	return b
}

// Wire adds an internal wire.
//
func (b *Builder) Wire(name string, width int) *Builder {
	b.m.AddWire(name, width)
	return b
}

// Attr sets an attribute on wire name.
//
func (b *Builder) Attr(wire, attr, value string) *Builder {
	b.t.Helper()
	w := b.m.Wire(wire)
	if w == nil {
		b.t.Fatalf("no wire %s", wire)
	}
	if w.Attributes == nil {
		w.Attributes = make(netlist.Attributes)
	}
	w.Attributes[attr] = value
	return b
}

// Cell adds a cell with connections given as a connection string, like
// "C=clk, D=d[0], CE=1".
//
func (b *Builder) Cell(name, typ, conns string) *Builder {
	b.t.Helper()
	if _, err := b.m.AddCellConns(name, typ, conns); err != nil {
		b.t.Fatal(err)
	}
	return b
}

// Connect adds a direct connection between two signal expressions.
//
func (b *Builder) Connect(lhs, rhs string) *Builder {
	b.t.Helper()
	l, r := b.Sig(lhs), b.Sig(rhs)
	if len(l) != len(r) {
		b.t.Fatalf("width mismatch: %s (%d) = %s (%d)", lhs, len(l), rhs, len(r))
	}
	b.m.Connect(l, r)
	return b
}

// Sig resolves a signal expression.
//
func (b *Builder) Sig(expr string) netlist.SigSpec {
	b.t.Helper()
	s, err := b.m.Sig(expr)
	if err != nil {
		b.t.Fatal(err)
	}
	return s
}

// CellsOfType returns the cells of m with the given type, sorted by name.
//
func CellsOfType(m *netlist.Module, typ string) []*netlist.Cell {
	var cs []*netlist.Cell
	for _, c := range m.Cells() {
		if c.Type == typ {
			cs = append(cs, c)
		}
	}
	return cs
}

// CountCells returns the number of cells of m with the given type.
//
func CountCells(m *netlist.Module, typ string) int {
	return len(CellsOfType(m, typ))
}

// Driver returns the cell driving the net of bit b through one of its output
// ports, or nil.
//
func Driver(m *netlist.Module, b netlist.SigBit) *netlist.Cell {
	sm := netlist.NewSigMap(m)
	b = sm.Bit(b)
	for _, c := range m.Cells() {
		for _, pc := range c.Connections() {
			if !c.Output(pc.Port) {
				continue
			}
			for _, ob := range sm.Map(pc.Sig) {
				if ob == b {
					return c
				}
			}
		}
	}
	return nil
}

// Dump returns a textual description of m that does not depend on
// generated names: one line per port and per cell, with signals given as
// canonical bits. Generated wire names are replaced by ~N in order of first
// appearance.
//
func Dump(m *netlist.Module) string {
	sm := netlist.NewSigMap(m)
	alias := make(map[string]string)
	name := func(b netlist.SigBit) string {
		b = sm.Bit(b)
		if b.IsConst() || b.Wire.IsPublic() {
			return b.String()
		}
		n, ok := alias[b.Wire.Name()]
		if !ok {
			n = "~" + strconv.Itoa(len(alias))
			alias[b.Wire.Name()] = n
		}
		if b.Wire.Width == 1 {
			return n
		}
		return n + "[" + strconv.Itoa(b.Offset) + "]"
	}
	sig := func(s netlist.SigSpec) string {
		parts := make([]string, len(s))
		for i, b := range s {
			parts[i] = name(b)
		}
		return strings.Join(parts, " ")
	}

	var lines []string
	for _, p := range m.Ports() {
		w := m.Wire(p)
		dir := "input"
		switch {
		case w.PortInput && w.PortOutput:
			dir = "inout"
		case w.PortOutput:
			dir = "output"
		}
		lines = append(lines, "port "+strconv.Itoa(w.PortID)+" "+dir+" "+p+" "+strconv.Itoa(w.Width))
	}
	var cells []string
	for _, c := range m.Cells() {
		var conns []string
		for _, pc := range c.Connections() {
			conns = append(conns, pc.Port+"="+sig(pc.Sig))
		}
		cn := c.Name()
		if !netlist.IsPublicName(cn) {
			cn = "$"
		}
		cells = append(cells, "cell "+c.Type+" "+cn+" "+strings.Join(conns, ", "))
	}
	sort.Strings(cells)
	lines = append(lines, cells...)
	return strings.Join(lines, "\n")
}

// RandomModule builds a random module with registers, RAMs, LUTs and clock
// buffers, its clocks driven by module inputs, LUT outputs and pre-existing
// buffers, with some aliasing between wires. It is meant for property
// based tests.
//
func RandomModule(t testing.TB, r *rand.Rand) *netlist.Module {
	t.Helper()
	b := NewModule(t, "rnd")
	nIn := 1 + r.Intn(4)
	for i := 0; i < nIn; i++ {
		b.Input("in"+strconv.Itoa(i), 1+r.Intn(3))
	}
	b.Output("q", 8)
	nW := 1 + r.Intn(6)
	for i := 0; i < nW; i++ {
		b.Wire("w"+strconv.Itoa(i), 1)
	}
	m := b.m

	// candidate clock sources: input bits and internal wires
	var srcs []netlist.SigBit
	for _, w := range m.Wires() {
		if w.PortOutput {
			continue
		}
		for i := 0; i < w.Width; i++ {
			srcs = append(srcs, w.Bit(i))
		}
	}
	pick := func() netlist.SigSpec { return netlist.SigSpec{srcs[r.Intn(len(srcs))]} }

	// drive internal wires
	for i := 0; i < nW; i++ {
		w := m.Wire("w" + strconv.Itoa(i))
		switch r.Intn(4) {
		case 0:
			c := m.AddCell("lut"+strconv.Itoa(i), "LUT1")
			c.SetPort("I0", pick())
			c.SetPort("O", netlist.Sig(w))
		case 1:
			c := m.AddCell("buf"+strconv.Itoa(i), "BUFGCE")
			c.SetPort("I", pick())
			c.SetPort("CE", netlist.ConstSig(netlist.S1, 1))
			c.SetPort("O", netlist.Sig(w))
		case 2:
			// alias of an input bit
			in := m.Wire("in0")
			m.Connect(netlist.Sig(w), netlist.SigSpec{in.Bit(r.Intn(in.Width))})
		default:
			if r.Intn(2) == 0 {
				w.Attributes = netlist.Attributes{"skip_bufgmap": "1"}
			}
		}
	}

	q := m.Wire("q")
	for i := 0; i < q.Width; i++ {
		switch r.Intn(3) {
		case 0:
			c := m.AddCell("ff"+strconv.Itoa(i), "FDRE")
			c.SetPort("C", pick())
			c.SetPort("CE", netlist.ConstSig(netlist.S1, 1))
			c.SetPort("R", netlist.ConstSig(netlist.S0, 1))
			c.SetPort("D", pick())
			c.SetPort("Q", netlist.SigSpec{q.Bit(i)})
		case 1:
			c := m.AddCell("srl"+strconv.Itoa(i), "SRL16E")
			c.SetPort("CLK", pick())
			c.SetPort("CE", netlist.ConstSig(netlist.S1, 1))
			c.SetPort("D", pick())
			c.SetPort("A0", netlist.ConstSig(netlist.S0, 1))
			c.SetPort("Q", netlist.SigSpec{q.Bit(i)})
		default:
			c := m.AddCell("lutq"+strconv.Itoa(i), "LUT2")
			c.SetPort("I0", pick())
			c.SetPort("I1", pick())
			c.SetPort("O", netlist.SigSpec{q.Bit(i)})
		}
	}
	m.FixupPorts()
	return m
}

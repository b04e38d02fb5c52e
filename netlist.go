// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PortDir is the direction of a cell port.
//
type PortDir uint8

// Port directions. PortUnknown is returned for ports of cell types that are
// not known to a design's Library.
//
const (
	PortUnknown PortDir = iota
	PortInput
	PortOutput
	PortInout
)

func (d PortDir) String() string {
	switch d {
	case PortInput:
		return "input"
	case PortOutput:
		return "output"
	case PortInout:
		return "inout"
	}
	return "unknown"
}

// A Library provides port directions for cell types.
//
type Library interface {
	PortDirection(cellType, port string) PortDir
}

// LibraryFunc adapts a function to the Library interface.
//
type LibraryFunc func(cellType, port string) PortDir

// PortDirection implements Library.
func (f LibraryFunc) PortDirection(cellType, port string) PortDir { return f(cellType, port) }

// Attributes maps attribute names to values.
//
type Attributes map[string]string

// Bool returns the value of a boolean attribute. Unset attributes are false.
// Values like "1", "true" or binary strings with at least one bit set
// ("00000000000000000000000000000001") are true.
//
func (a Attributes) Bool(name string) bool {
	v, ok := a[name]
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if v == "" || strings.Trim(v, "01") != "" {
		return false
	}
	return strings.IndexByte(v, '1') >= 0
}

// Design is a collection of modules.
//
type Design struct {
	// Library is used to look up port directions of cells that do not carry
	// explicit directions. It may be nil.
	Library Library

	modules map[string]*Module
}

// NewDesign returns a new empty design using lib to resolve cell port
// directions.
//
func NewDesign(lib Library) *Design {
	return &Design{Library: lib, modules: make(map[string]*Module)}
}

// AddModule creates a new module. It panics if a module with the same name
// already exists.
//
func (d *Design) AddModule(name string) *Module {
	if _, ok := d.modules[name]; ok {
		panic(errors.Errorf("duplicate module %q", name))
	}
	m := &Module{
		design: d,
		name:   name,
		wires:  make(map[string]*Wire),
		cells:  make(map[string]*Cell),
	}
	d.modules[name] = m
	return m
}

// Module returns the module with the given name or nil.
//
func (d *Design) Module(name string) *Module { return d.modules[name] }

// ResolveInstancePorts records on every cell that instantiates a module of d
// the directions of its connected ports as explicit directions. Afterwards,
// port lookups on those cells no longer read the instantiated module, which
// can then be modified concurrently with its parents.
//
func (d *Design) ResolveInstancePorts() {
	for _, m := range d.modules {
		for _, c := range m.cells {
			sub := d.modules[c.Type]
			if sub == nil {
				continue
			}
			for p := range c.conns {
				if _, ok := c.dirs[p]; !ok {
					c.SetPortDirection(p, sub.portDir(p))
				}
			}
		}
	}
}

// Modules returns all modules sorted by name.
//
func (d *Design) Modules() []*Module {
	ms := make([]*Module, 0, len(d.modules))
	for _, m := range d.modules {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].name < ms[j].name })
	return ms
}

// A Wire is a named multi-bit signal carrier. Wires with PortInput or
// PortOutput set are ports of their module.
//
type Wire struct {
	module     *Module
	name       string
	Width      int
	PortID     int
	PortInput  bool
	PortOutput bool
	Attributes Attributes
}

// Name returns the wire name.
func (w *Wire) Name() string { return w.name }

// Module returns the module w belongs to.
func (w *Wire) Module() *Module { return w.module }

// Bit returns bit i of w.
//
func (w *Wire) Bit(i int) SigBit { return SigBit{Wire: w, Offset: i} }

// IsPort returns true if w is a module port.
//
func (w *Wire) IsPort() bool { return w.PortInput || w.PortOutput }

// IsPublic returns true if w has a user-visible name. Generated names start
// with a '$'.
//
func (w *Wire) IsPublic() bool { return IsPublicName(w.name) }

// IsPublicName returns true if name is not an auto-generated name.
//
func IsPublicName(name string) bool { return !strings.HasPrefix(name, "$") }

// A Cell is a typed node with named ports.
//
type Cell struct {
	module     *Module
	name       string
	Type       string
	Parameters map[string]string
	Attributes Attributes

	conns map[string]SigSpec
	dirs  map[string]PortDir
}

// Name returns the cell name.
func (c *Cell) Name() string { return c.name }

// Module returns the module c belongs to.
func (c *Cell) Module() *Module { return c.module }

// PortConn is a cell port connection.
//
type PortConn struct {
	Port string
	Sig  SigSpec
}

// Connections returns a copy of c's port connections sorted by port name.
//
func (c *Cell) Connections() []PortConn {
	pcs := make([]PortConn, 0, len(c.conns))
	for p, s := range c.conns {
		pcs = append(pcs, PortConn{p, s.Copy()})
	}
	sort.Slice(pcs, func(i, j int) bool { return pcs[i].Port < pcs[j].Port })
	return pcs
}

// Port returns a copy of the signal connected to port, or nil.
//
func (c *Cell) Port(port string) SigSpec { return c.conns[port].Copy() }

// HasPort returns true if port is connected.
//
func (c *Cell) HasPort(port string) bool {
	_, ok := c.conns[port]
	return ok
}

// SetPort connects port to a copy of sig, replacing any previous connection.
//
func (c *Cell) SetPort(port string, sig SigSpec) {
	c.conns[port] = sig.Copy()
}

// UnsetPort disconnects port.
//
func (c *Cell) UnsetPort(port string) {
	delete(c.conns, port)
}

// SetPortDirection records an explicit direction for port. Explicit
// directions take precedence over the design's Library.
//
func (c *Cell) SetPortDirection(port string, dir PortDir) {
	if c.dirs == nil {
		c.dirs = make(map[string]PortDir)
	}
	c.dirs[port] = dir
}

// PortDirection returns the direction of port. Explicit directions come
// first, then the port wires of the module c instantiates, if c's type names a
// module of the design, then the design's Library.
//
func (c *Cell) PortDirection(port string) PortDir {
	if d, ok := c.dirs[port]; ok {
		return d
	}
	if sub := c.module.design.modules[c.Type]; sub != nil {
		return sub.portDir(port)
	}
	if lib := c.module.design.Library; lib != nil {
		return lib.PortDirection(c.Type, port)
	}
	return PortUnknown
}

// Input returns true if port is an input (or inout) of c.
//
func (c *Cell) Input(port string) bool {
	d := c.PortDirection(port)
	return d == PortInput || d == PortInout
}

// Output returns true if port is an output (or inout) of c.
//
func (c *Cell) Output(port string) bool {
	d := c.PortDirection(port)
	return d == PortOutput || d == PortInout
}

// A Module is a graph of cells connected by wires.
//
type Module struct {
	design *Design
	name   string

	Attributes Attributes

	wires   map[string]*Wire
	cells   map[string]*Cell
	conns   []SigSig
	ports   []string
	autoidx int
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Design returns the design m belongs to.
func (m *Module) Design() *Design { return m.design }

func (m *Module) nameUsed(name string) bool {
	_, w := m.wires[name]
	_, c := m.cells[name]
	return w || c
}

// NewID returns a fresh name of the form $auto$tag$N that is not used by any
// wire or cell of m.
//
func (m *Module) NewID(tag string) string {
	for {
		m.autoidx++
		name := "$auto$" + tag + "$" + strconv.Itoa(m.autoidx)
		if !m.nameUsed(name) {
			return name
		}
	}
}

// AddWire creates a new wire. It panics if the name is already in use or if
// width is negative.
//
func (m *Module) AddWire(name string, width int) *Wire {
	if m.nameUsed(name) {
		panic(errors.Errorf("%s: duplicate name %q", m.name, name))
	}
	if width < 0 {
		panic(errors.Errorf("%s: negative width for wire %q", m.name, name))
	}
	w := &Wire{module: m, name: name, Width: width}
	m.wires[name] = w
	return w
}

// AddWireLike creates a new wire with the same width, port flags, port id
// and attributes as other.
//
func (m *Module) AddWireLike(name string, other *Wire) *Wire {
	w := m.AddWire(name, other.Width)
	w.PortID = other.PortID
	w.PortInput = other.PortInput
	w.PortOutput = other.PortOutput
	if other.Attributes != nil {
		w.Attributes = make(Attributes, len(other.Attributes))
		for k, v := range other.Attributes {
			w.Attributes[k] = v
		}
	}
	return w
}

func (m *Module) portDir(name string) PortDir {
	w := m.wires[name]
	switch {
	case w == nil:
		return PortUnknown
	case w.PortInput && w.PortOutput:
		return PortInout
	case w.PortInput:
		return PortInput
	case w.PortOutput:
		return PortOutput
	}
	return PortUnknown
}

// Wire returns the wire with the given name or nil.
//
func (m *Module) Wire(name string) *Wire { return m.wires[name] }

// Wires returns all wires sorted by name.
//
func (m *Module) Wires() []*Wire {
	ws := make([]*Wire, 0, len(m.wires))
	for _, w := range m.wires {
		ws = append(ws, w)
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].name < ws[j].name })
	return ws
}

// AddCell creates a new cell of the given type with no connections. It
// panics if the name is already in use.
//
func (m *Module) AddCell(name, typ string) *Cell {
	if m.nameUsed(name) {
		panic(errors.Errorf("%s: duplicate name %q", m.name, name))
	}
	c := &Cell{module: m, name: name, Type: typ, conns: make(map[string]SigSpec)}
	m.cells[name] = c
	return c
}

// Cell returns the cell with the given name or nil.
//
func (m *Module) Cell(name string) *Cell { return m.cells[name] }

// Cells returns all cells sorted by name.
//
func (m *Module) Cells() []*Cell {
	cs := make([]*Cell, 0, len(m.cells))
	for _, c := range m.cells {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].name < cs[j].name })
	return cs
}

// Connect adds a direct connection between lhs and rhs. It panics if their
// widths differ.
//
func (m *Module) Connect(lhs, rhs SigSpec) {
	if len(lhs) != len(rhs) {
		panic(errors.Errorf("%s: width mismatch in connection %v = %v", m.name, lhs, rhs))
	}
	m.conns = append(m.conns, SigSig{lhs.Copy(), rhs.Copy()})
}

// Connections returns the direct connections of m.
//
func (m *Module) Connections() []SigSig {
	cs := make([]SigSig, len(m.conns))
	copy(cs, m.conns)
	return cs
}

// SwapNames exchanges the names of two wires of m.
//
func (m *Module) SwapNames(a, b *Wire) {
	if a.module != m || b.module != m {
		panic(errors.New("SwapNames: wire does not belong to module " + m.name))
	}
	a.name, b.name = b.name, a.name
	m.wires[a.name] = a
	m.wires[b.name] = b
}

// Ports returns the names of the port wires of m in port order, as computed by
// the last call to FixupPorts.
//
func (m *Module) Ports() []string {
	ps := make([]string, len(m.ports))
	copy(ps, m.ports)
	return ps
}

// sortedPorts returns the port wires of m in port order: wires with a port
// id by id, then new ports (id 0) by name.
//
func (m *Module) sortedPorts() []*Wire {
	var ports []*Wire
	for _, w := range m.wires {
		if w.IsPort() {
			ports = append(ports, w)
		}
	}
	sort.Slice(ports, func(i, j int) bool {
		a, b := ports[i], ports[j]
		switch {
		case a.PortID == 0 && b.PortID != 0:
			return false
		case a.PortID != 0 && b.PortID == 0:
			return true
		case a.PortID != b.PortID:
			return a.PortID < b.PortID
		}
		return a.name < b.name
	})
	return ports
}

// FixupPorts rebuilds the port list after port flags have changed. Wires that
// are no longer ports get a PortID of 0. Remaining ports are renumbered from 1
// keeping their relative order; new ports (PortID 0) go last, by name.
//
func (m *Module) FixupPorts() {
	for _, w := range m.wires {
		if !w.IsPort() {
			w.PortID = 0
		}
	}
	m.ports = m.ports[:0]
	for i, w := range m.sortedPorts() {
		w.PortID = i + 1
		m.ports = append(m.ports, w.name)
	}
}

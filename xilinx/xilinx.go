// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package xilinx describes the Xilinx primitives known to the netlist tools:
// the direction of their ports, which ports consume a clock and which ports
// are driven by a global or regional clock buffer.
//
package xilinx

import (
	"sort"
	"strings"

	"github.com/db47h/netlist"
	"github.com/pkg/errors"
)

// Port roles
const (
	roleNone = iota
	roleClock
	roleBufOut
)

type port struct {
	name string
	dir  netlist.PortDir
	role int
}

func in(names ...string) []port {
	ps := make([]port, len(names))
	for i, n := range names {
		ps[i] = port{n, netlist.PortInput, roleNone}
	}
	return ps
}

func out(names ...string) []port {
	ps := make([]port, len(names))
	for i, n := range names {
		ps[i] = port{n, netlist.PortOutput, roleNone}
	}
	return ps
}

func clk(name string) port  { return port{name, netlist.PortInput, roleClock} }
func bufo(name string) port { return port{name, netlist.PortOutput, roleBufOut} }

func def(groups ...[]port) []port {
	var ps []port
	for _, g := range groups {
		ps = append(ps, g...)
	}
	return ps
}

func one(p port) []port { return []port{p} }

// A PortRef identifies a port of a cell type.
//
type PortRef struct {
	Type string
	Port string
}

func (r PortRef) String() string { return r.Type + "." + r.Port }

// ParsePortRef parses a "TYPE.PORT" string.
//
func ParsePortRef(s string) (PortRef, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return PortRef{}, errors.Errorf("malformed port reference %q, expected TYPE.PORT", s)
	}
	return PortRef{s[:i], s[i+1:]}, nil
}

// A PortSet is a read-only set of cell type ports.
//
type PortSet struct {
	m map[PortRef]struct{}
}

// NewPortSet returns a set containing refs.
//
func NewPortSet(refs ...PortRef) PortSet {
	s := PortSet{make(map[PortRef]struct{}, len(refs))}
	for _, r := range refs {
		s.m[r] = struct{}{}
	}
	return s
}

// Contains returns true if port of cellType is in s.
//
func (s PortSet) Contains(cellType, port string) bool {
	_, ok := s.m[PortRef{cellType, port}]
	return ok
}

// Len returns the number of ports in s.
func (s PortSet) Len() int { return len(s.m) }

// Union returns a new set containing the ports of s and refs.
//
func (s PortSet) Union(refs ...PortRef) PortSet {
	u := PortSet{make(map[PortRef]struct{}, len(s.m)+len(refs))}
	for r := range s.m {
		u.m[r] = struct{}{}
	}
	for _, r := range refs {
		u.m[r] = struct{}{}
	}
	return u
}

// Refs returns the ports in s, sorted.
//
func (s PortSet) Refs() []PortRef {
	rs := make([]PortRef, 0, len(s.m))
	for r := range s.m {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Type != rs[j].Type {
			return rs[i].Type < rs[j].Type
		}
		return rs[i].Port < rs[j].Port
	})
	return rs
}

var (
	clockPorts  PortSet
	bufferPorts PortSet
	dirs        map[PortRef]netlist.PortDir
)

func init() {
	var cps, bps []PortRef
	dirs = make(map[PortRef]netlist.PortDir)
	for typ, ps := range primitives {
		for _, p := range ps {
			r := PortRef{typ, p.name}
			dirs[r] = p.dir
			switch p.role {
			case roleClock:
				cps = append(cps, r)
			case roleBufOut:
				bps = append(bps, r)
			}
		}
	}
	clockPorts = NewPortSet(cps...)
	bufferPorts = NewPortSet(bps...)
}

// ClockPorts returns the ports of sequential primitives that consume a clock.
//
func ClockPorts() PortSet { return clockPorts }

// BufferPorts returns the output ports of clock buffer primitives.
//
func BufferPorts() PortSet { return bufferPorts }

// Known returns true if typ is a known primitive.
//
func Known(typ string) bool {
	_, ok := primitives[typ]
	return ok
}

// Library returns a netlist.Library that resolves port directions of Xilinx
// primitives. Ports of unknown cell types have an unknown direction.
//
func Library() netlist.Library {
	return netlist.LibraryFunc(func(typ, p string) netlist.PortDir {
		return dirs[PortRef{typ, p}]
	})
}

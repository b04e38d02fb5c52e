// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"fmt"
	"sort"
)

// A Driver is a source of a net: either an output port of a cell or an input
// port of the module (Cell == nil).
//
type Driver struct {
	Cell *Cell
	Port string // cell port name, or wire name for module inputs
	Bit  int    // bit index in Port
}

func (d Driver) String() string {
	if d.Cell == nil {
		return fmt.Sprintf("input %s[%d]", d.Port, d.Bit)
	}
	return fmt.Sprintf("%s.%s[%d]", d.Cell.name, d.Port, d.Bit)
}

// Drivers returns the drivers of every net of m, keyed by representative bit
// under sm. Constant nets are omitted.
//
func Drivers(m *Module, sm *SigMap) map[SigBit][]Driver {
	drv := make(map[SigBit][]Driver)
	for _, w := range m.Wires() {
		if !w.PortInput {
			continue
		}
		for i := 0; i < w.Width; i++ {
			b := sm.Bit(w.Bit(i))
			if b.IsConst() {
				continue
			}
			drv[b] = append(drv[b], Driver{Port: w.name, Bit: i})
		}
	}
	for _, c := range m.Cells() {
		for _, pc := range c.Connections() {
			if !c.Output(pc.Port) {
				continue
			}
			for i, b := range sm.Map(pc.Sig) {
				if b.IsConst() {
					continue
				}
				drv[b] = append(drv[b], Driver{Cell: c, Port: pc.Port, Bit: i})
			}
		}
	}
	return drv
}

// IssueKind classifies problems found by Check.
//
type IssueKind int

// Issue kinds.
//
const (
	MultipleDrivers IssueKind = iota
	Undriven
)

// An Issue is a structural problem in a module.
//
type Issue struct {
	Kind    IssueKind
	Module  string
	Net     SigBit
	Drivers []Driver
	Reader  string // for Undriven: cell.port reading the net
}

func (i Issue) String() string {
	switch i.Kind {
	case MultipleDrivers:
		return fmt.Sprintf("%s: net %v has %d drivers %v", i.Module, i.Net, len(i.Drivers), i.Drivers)
	}
	return fmt.Sprintf("%s: net %v read by %s is not driven", i.Module, i.Net, i.Reader)
}

// Check reports nets of m with more than one driver, and cell inputs connected
// to nets with no driver at all. Cells whose port directions are unknown are
// ignored.
//
func Check(m *Module) []Issue {
	sm := NewSigMap(m)
	drv := Drivers(m, sm)

	var issues []Issue
	for b, ds := range drv {
		if len(ds) > 1 {
			issues = append(issues, Issue{Kind: MultipleDrivers, Module: m.name, Net: b, Drivers: ds})
		}
	}
	reported := make(map[SigBit]bool)
	for _, c := range m.Cells() {
		for _, pc := range c.Connections() {
			if !c.Input(pc.Port) || c.Output(pc.Port) {
				continue
			}
			for _, b := range sm.Map(pc.Sig) {
				if b.IsConst() || reported[b] || len(drv[b]) > 0 {
					continue
				}
				reported[b] = true
				issues = append(issues, Issue{Kind: Undriven, Module: m.name, Net: b, Reader: c.name + "." + pc.Port})
			}
		}
	}
	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Net.String() < b.Net.String()
	})
	return issues
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

type selPattern struct {
	module string
	wire   string // empty: whole module
}

// A Selection restricts the modules and wires a pass works on.
// A nil *Selection selects everything.
//
type Selection struct {
	pats []selPattern
}

// NewSelection parses selection patterns. Each pattern is either "module" or
// "module/wire", where both parts are shell globs as accepted by path.Match:
//
//	NewSelection("top")         // all of module top
//	NewSelection("*/clk*")      // wires whose name starts with clk, in all modules
//
// NewSelection with no patterns returns nil, which selects everything.
//
func NewSelection(patterns ...string) (*Selection, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	s := &Selection{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, errors.New("empty selection pattern")
		}
		sp := selPattern{module: p}
		if i := strings.IndexByte(p, '/'); i >= 0 {
			sp.module, sp.wire = p[:i], p[i+1:]
			if sp.module == "" || sp.wire == "" {
				return nil, errors.Errorf("malformed selection pattern %q", p)
			}
		}
		for _, g := range []string{sp.module, sp.wire} {
			if _, err := path.Match(g, ""); err != nil {
				return nil, errors.Wrapf(err, "selection pattern %q", p)
			}
		}
		s.pats = append(s.pats, sp)
	}
	return s, nil
}

func match(pattern, name string) bool {
	ok, _ := path.Match(pattern, name)
	return ok
}

// Module returns true if m is fully or partially selected.
//
func (s *Selection) Module(m *Module) bool {
	if s == nil {
		return true
	}
	for _, p := range s.pats {
		if match(p.module, m.name) {
			return true
		}
	}
	return false
}

// Wire returns true if wire w of module m is selected.
//
func (s *Selection) Wire(m *Module, w *Wire) bool {
	if s == nil {
		return true
	}
	for _, p := range s.pats {
		if !match(p.module, m.name) {
			continue
		}
		if p.wire == "" || match(p.wire, w.name) {
			return true
		}
	}
	return false
}

// SelectedModules returns the selected modules of d sorted by name.
//
func (s *Selection) SelectedModules(d *Design) []*Module {
	var ms []*Module
	for _, m := range d.Modules() {
		if s.Module(m) {
			ms = append(ms, m)
		}
	}
	return ms
}

// SelectedWires returns the selected wires of m sorted by name.
//
func (s *Selection) SelectedWires(m *Module) []*Wire {
	var ws []*Wire
	for _, w := range m.Wires() {
		if s.Wire(m, w) {
			ws = append(ws, w)
		}
	}
	return ws
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"testing"

	nl "github.com/db47h/netlist"
	"github.com/db47h/netlist/xilinx"
	"github.com/google/go-cmp/cmp"
)

func wireNames(ws []*nl.Wire) []string {
	var ns []string
	for _, w := range ws {
		ns = append(ns, w.Name())
	}
	return ns
}

func TestSelection(t *testing.T) {
	d := nl.NewDesign(xilinx.Library())
	top, sub := d.AddModule("top"), d.AddModule("sub")
	for _, m := range []*nl.Module{top, sub} {
		m.AddWire("clk", 1)
		m.AddWire("clk2", 1)
		m.AddWire("data", 8)
	}

	td := []struct {
		pats    []string
		modules []string
		top     []string
		sub     []string
	}{
		{nil, []string{"sub", "top"}, []string{"clk", "clk2", "data"}, []string{"clk", "clk2", "data"}},
		{[]string{"top"}, []string{"top"}, []string{"clk", "clk2", "data"}, nil},
		{[]string{"*/clk*"}, []string{"sub", "top"}, []string{"clk", "clk2"}, []string{"clk", "clk2"}},
		{[]string{"top/clk", "s?b/data"}, []string{"sub", "top"}, []string{"clk"}, []string{"data"}},
		{[]string{"none"}, nil, nil, nil},
	}
	for _, x := range td {
		s, err := nl.NewSelection(x.pats...)
		if err != nil {
			t.Fatalf("%v: %v", x.pats, err)
		}
		var ms []string
		for _, m := range s.SelectedModules(d) {
			ms = append(ms, m.Name())
		}
		if diff := cmp.Diff(x.modules, ms); diff != "" {
			t.Errorf("%v: modules (-want +got):\n%s", x.pats, diff)
		}
		if diff := cmp.Diff(x.top, wireNames(s.SelectedWires(top))); diff != "" {
			t.Errorf("%v: top wires (-want +got):\n%s", x.pats, diff)
		}
		if diff := cmp.Diff(x.sub, wireNames(s.SelectedWires(sub))); diff != "" {
			t.Errorf("%v: sub wires (-want +got):\n%s", x.pats, diff)
		}
	}
}

func TestSelectionErrors(t *testing.T) {
	for _, p := range []string{"", " ", "/clk", "top/", "[", "top/[a"} {
		if _, err := nl.NewSelection(p); err == nil {
			t.Errorf("%q: expected error", p)
		}
	}
}

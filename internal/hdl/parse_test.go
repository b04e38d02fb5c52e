// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl_test

import (
	"reflect"
	"testing"

	"github.com/db47h/netlist/internal/hdl"
)

func parseAll(in string, conns bool) ([]interface{}, error) {
	var items []interface{}
	p := hdl.Parser{Input: in}
	for {
		it, err := p.Next(conns)
		if err != nil {
			return items, err
		}
		if it == nil {
			return items, nil
		}
		items = append(items, it)
	}
}

func TestParser_signals(t *testing.T) {
	items, err := parseAll(" clk, d[3],addr[0..12] , 1, \\esc", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{
		hdl.Pin{"clk", 1},
		hdl.PinIndex{hdl.Pin{"d", 6}, 3},
		hdl.PinRange{hdl.Pin{"addr", 11}, 0, 12},
		hdl.Const{1, 25},
		hdl.Pin{"\\esc", 28},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %#v\nwant %#v", items, want)
	}
}

func TestParser_connections(t *testing.T) {
	items, err := parseAll("C=clk,D=d[1]", true)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{
		hdl.PinAssignment{hdl.Pin{"C", 0}, hdl.Pin{"clk", 2}},
		hdl.PinAssignment{hdl.Pin{"D", 6}, hdl.PinIndex{hdl.Pin{"d", 8}, 1}},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %#v\nwant %#v", items, want)
	}
}

func TestParser_errors(t *testing.T) {
	td := []struct {
		in    string
		conns bool
		err   string
	}{
		{"a,,b", false, `in "a,,b" at pos 3: expected signal name`},
		{"a.b", false, `in "a.b" at pos 2: unexpected '.'`},
		{"a=b", false, `in "a=b" at pos 2: unexpected "="`},
		{"1=b", true, `in "1=b" at pos 1: expected port name`},
		{"a b", true, `in "a b" at pos 3: expected '=' after port name`},
		{"a=b c", true, `in "a=b c" at pos 5: unexpected "c"`},
		{"a[9223372036854775808]", false, `in "a[9223372036854775808]" at pos 3: integer value out of range`},
		{"a[0..99999999999]", false, `in "a[0..99999999999]" at pos 6: integer value out of range`},
		{"99999999999", false, `in "99999999999" at pos 1: constant must be 0 or 1`},
	}
	for _, d := range td {
		_, err := parseAll(d.in, d.conns)
		if err == nil || err.Error() != d.err {
			t.Errorf("%q: got error %v, want %s", d.in, err, d.err)
		}
	}
}

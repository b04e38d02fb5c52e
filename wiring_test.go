// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"strings"
	"testing"

	nl "github.com/db47h/netlist"
	"github.com/db47h/netlist/nltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	m := nltest.NewModule(t, "top").
		Input("a", 1).
		Output("q", 2).
		Wire("x", 1).
		Wire("y", 1).
		Wire("z", 1).
		Cell("l1", "LUT1", "I0=a, O=x").
		Cell("l2", "LUT1", "I0=a, O=x").
		Cell("ff0", "FDRE", "C=y, CE=1, R=0, D=x, Q=q[0]").
		Cell("ff1", "FDRE", "C=y, CE=1, R=0, D=a, Q=q[1]").
		Cell("bb", "BLACKBOX", "A=z").
		Module()

	issues := nl.Check(m)
	require.Len(t, issues, 2)

	md := issues[0]
	assert.Equal(t, nl.MultipleDrivers, md.Kind)
	assert.Equal(t, "top", md.Module)
	assert.Equal(t, m.Wire("x").Bit(0), md.Net)
	assert.Len(t, md.Drivers, 2)
	assert.Contains(t, md.String(), "net x has 2 drivers")

	ud := issues[1]
	assert.Equal(t, nl.Undriven, ud.Kind)
	assert.Equal(t, m.Wire("y").Bit(0), ud.Net)
	assert.Equal(t, "ff0.C", ud.Reader)
	assert.True(t, strings.HasSuffix(ud.String(), "is not driven"))
}

func TestCheckClean(t *testing.T) {
	m := nltest.NewModule(t, "top").
		Input("clk", 1).
		Input("d", 1).
		Output("q", 1).
		Wire("c", 1).
		Connect("c", "clk").
		Cell("ff", "FDRE", "C=c, CE=1, R=0, D=d, Q=q").
		Module()
	assert.Empty(t, nl.Check(m))
}

func TestDrivers(t *testing.T) {
	m := nltest.NewModule(t, "top").
		Input("in", 2).
		Wire("w", 1).
		Cell("buf", "BUFG", "I=in[1], O=w").
		Cell("tie", "LUT1", "I0=in[0], O=0").
		Module()
	sm := nl.NewSigMap(m)
	drv := nl.Drivers(m, sm)

	in := m.Wire("in")
	require.Len(t, drv[in.Bit(1)], 1)
	assert.Nil(t, drv[in.Bit(1)][0].Cell)
	assert.Equal(t, "input in[1]", drv[in.Bit(1)][0].String())

	ws := drv[m.Wire("w").Bit(0)]
	require.Len(t, ws, 1)
	assert.Equal(t, "buf.O[0]", ws[0].String())

	for b := range drv {
		assert.False(t, b.IsConst(), "constant net in driver map")
	}
}

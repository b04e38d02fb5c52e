// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package xilinx_test

import (
	"testing"

	"github.com/db47h/netlist"
	"github.com/db47h/netlist/xilinx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockPorts(t *testing.T) {
	cp := xilinx.ClockPorts()
	assert.Equal(t, 38, cp.Len())
	for _, r := range []string{
		"FDRE.C", "FDCE_1.C", "RAM128X1D.WCLK", "RAM256X1S_1.WCLK", "RAM32M.WCLK",
		"SRL16E.CLK", "SRLC32E.CLK", "RAMB18E1.CLKARDCLK", "RAMB36E1.CLKBWRCLK",
		"FIFO18E1.RDCLK", "FIFO36E1.WRCLK", "RAMB8BWER.CLKBRDCLK", "RAMB16BWER.CLKA",
		"DSP48A1.CLK", "DSP48E1.CLK",
	} {
		ref, err := xilinx.ParsePortRef(r)
		require.NoError(t, err)
		assert.True(t, cp.Contains(ref.Type, ref.Port), r)
	}
	assert.False(t, cp.Contains("FDRE", "D"))
	assert.False(t, cp.Contains("BUFG", "I"))
	assert.False(t, cp.Contains("RAMB18E1", "CLKA"))
}

func TestBufferPorts(t *testing.T) {
	bp := xilinx.BufferPorts()
	assert.Equal(t, 12, bp.Len())
	for _, r := range bp.Refs() {
		assert.Equal(t, "O", r.Port, r.String())
		assert.True(t, xilinx.Known(r.Type))
	}
	assert.True(t, bp.Contains("BUFG", "O"))
	assert.True(t, bp.Contains("BUFGCTRL", "O"))
	assert.False(t, bp.Contains("IBUFG", "O"))
	assert.False(t, bp.Contains("BUFG", "I"))
}

func TestLibrary(t *testing.T) {
	lib := xilinx.Library()
	td := []struct {
		typ, port string
		want      netlist.PortDir
	}{
		{"FDRE", "C", netlist.PortInput},
		{"FDRE", "Q", netlist.PortOutput},
		{"BUFG", "I", netlist.PortInput},
		{"BUFG", "O", netlist.PortOutput},
		{"IBUFG", "O", netlist.PortOutput},
		{"IOBUF", "IO", netlist.PortInout},
		{"RAMB36E1", "CASCADEOUTA", netlist.PortOutput},
		{"LUT6", "I5", netlist.PortInput},
		{"LUT6", "I6", netlist.PortUnknown},
		{"MYSTERY", "A", netlist.PortUnknown},
	}
	for _, d := range td {
		assert.Equal(t, d.want, lib.PortDirection(d.typ, d.port), d.typ+"."+d.port)
	}
	assert.False(t, xilinx.Known("MYSTERY"))
}

func TestParsePortRef(t *testing.T) {
	r, err := xilinx.ParsePortRef("MYFF.CK")
	require.NoError(t, err)
	assert.Equal(t, xilinx.PortRef{Type: "MYFF", Port: "CK"}, r)
	assert.Equal(t, "MYFF.CK", r.String())

	r, err = xilinx.ParsePortRef("a.b.C")
	require.NoError(t, err)
	assert.Equal(t, xilinx.PortRef{Type: "a.b", Port: "C"}, r)

	for _, s := range []string{"", "FDRE", ".C", "FDRE."} {
		_, err := xilinx.ParsePortRef(s)
		assert.Error(t, err, s)
	}
}

func TestPortSetUnion(t *testing.T) {
	cp := xilinx.ClockPorts()
	u := cp.Union(xilinx.PortRef{Type: "MYFF", Port: "CK"}, xilinx.PortRef{Type: "FDRE", Port: "C"})
	assert.Equal(t, 39, u.Len())
	assert.True(t, u.Contains("MYFF", "CK"))
	assert.False(t, cp.Contains("MYFF", "CK"))
	assert.Equal(t, 38, xilinx.ClockPorts().Len())

	var empty xilinx.PortSet
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Contains("FDRE", "C"))
	assert.Equal(t, 1, empty.Union(xilinx.PortRef{Type: "A", Port: "B"}).Len())
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package netlist provides an in-memory representation of a synthesized circuit
(modules made of cells and multi-bit wires) together with the few tools needed
to rewrite it: signal canonicalization (SigMap), fresh name allocation, port
list maintenance and Yosys JSON import/export.

Cells are typed nodes with named ports. Each port is connected to a SigSpec, an
ordered list of SigBits. A SigBit is either one bit of a wire or a constant:

	m := d.AddModule("top")
	clk := m.AddWire("clk", 1)
	clk.PortInput = true
	ff, err := m.AddCellConns("ff", "FDRE", "C=clk, D=d, Q=q, CE=1, R=0")

Direct connections between signals (Module.Connect) make several wire bits
aliases of the same net. A SigMap maps every bit to the representative bit of
its net.

Packages xilinx and bufgmap build on top of this one to insert global clock
buffers into Xilinx netlists.
*/
package netlist

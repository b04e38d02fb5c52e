// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package xilinx

import (
	"strconv"

	"github.com/db47h/netlist"
)

// Cell types inserted by the bufgmap pass.
const (
	BUFG  = "BUFG"
	IBUFG = "IBUFG"
)

// numbered returns prefix0..prefix<n-1>.
func numbered(prefix string, n int) []string {
	s := make([]string, n)
	for i := range s {
		s[i] = prefix + strconv.Itoa(i)
	}
	return s
}

func ff(rst string) []port {
	return def(one(clk("C")), in("CE", rst, "D"), out("Q"))
}

func ramxd(abits int) []port {
	return def(one(clk("WCLK")), in("WE", "D"), in(numbered("A", abits)...), in(numbered("DPRA", abits)...), out("SPO", "DPO"))
}

func ramxs(abits int) []port {
	return def(one(clk("WCLK")), in("WE", "D"), in(numbered("A", abits)...), out("O"))
}

func ramx2s(abits int) []port {
	return def(one(clk("WCLK")), in("WE", "D0", "D1"), in(numbered("A", abits)...), out("O0", "O1"))
}

func lut(n int) []port {
	return def(in(numbered("I", n)...), out("O"))
}

var (
	ramb18 = def(
		[]port{clk("CLKARDCLK"), clk("CLKBWRCLK")},
		in("ENARDEN", "ENBWREN", "REGCEAREGCE", "REGCEB", "RSTRAMARSTRAM", "RSTRAMB", "RSTREGARSTREG", "RSTREGB",
			"ADDRARDADDR", "ADDRBWRADDR", "DIADI", "DIBDI", "DIPADIP", "DIPBDIP", "WEA", "WEBWE"),
		out("DOADO", "DOBDO", "DOPADOP", "DOPBDOP"))

	ramb36 = def(ramb18,
		in("CASCADEINA", "CASCADEINB", "INJECTDBITERR", "INJECTSBITERR"),
		out("CASCADEOUTA", "CASCADEOUTB", "DBITERR", "ECCPARITY", "RDADDRECC", "SBITERR"))

	fifo18 = def(
		[]port{clk("RDCLK"), clk("WRCLK")},
		in("RDEN", "WREN", "RST", "RSTREG", "REGCE", "DI", "DIP"),
		out("DO", "DOP", "EMPTY", "FULL", "ALMOSTEMPTY", "ALMOSTFULL", "RDCOUNT", "WRCOUNT", "RDERR", "WRERR"))

	fifo36 = def(fifo18,
		in("INJECTDBITERR", "INJECTSBITERR"),
		out("DBITERR", "ECCPARITY", "SBITERR"))

	dsp48a1 = def(
		one(clk("CLK")),
		in("A", "B", "C", "D", "CARRYIN", "OPMODE", "PCIN",
			"CEA", "CEB", "CEC", "CED", "CEM", "CEP", "CEOPMODE", "CECARRYIN",
			"RSTA", "RSTB", "RSTC", "RSTD", "RSTM", "RSTP", "RSTOPMODE", "RSTCARRYIN"),
		out("P", "PCOUT", "M", "BCOUT", "CARRYOUT", "CARRYOUTF"))

	dsp48e1 = def(
		one(clk("CLK")),
		in("A", "B", "C", "D", "ACIN", "BCIN", "PCIN", "CARRYIN", "CARRYINSEL", "CARRYCASCIN", "MULTSIGNIN",
			"ALUMODE", "INMODE", "OPMODE",
			"CEA1", "CEA2", "CEAD", "CEALUMODE", "CEB1", "CEB2", "CEC", "CECARRYIN", "CECTRL", "CED", "CEINMODE", "CEM", "CEP",
			"RSTA", "RSTALLCARRYIN", "RSTALUMODE", "RSTB", "RSTC", "RSTCTRL", "RSTD", "RSTINMODE", "RSTM", "RSTP"),
		out("P", "ACOUT", "BCOUT", "PCOUT", "CARRYOUT", "CARRYCASCOUT", "MULTSIGNOUT",
			"OVERFLOW", "UNDERFLOW", "PATTERNDETECT", "PATTERNBDETECT"))
)

var primitives = map[string][]port{
	"FDRE":   ff("R"),
	"FDSE":   ff("S"),
	"FDPE":   ff("PRE"),
	"FDCE":   ff("CLR"),
	"FDRE_1": ff("R"),
	"FDSE_1": ff("S"),
	"FDPE_1": ff("PRE"),
	"FDCE_1": ff("CLR"),

	"RAM32X1D":  ramxd(5),
	"RAM64X1D":  ramxd(6),
	"RAM128X1D": def(one(clk("WCLK")), in("WE", "D", "A", "DPRA"), out("SPO", "DPO")),

	"RAM32X1S":    ramxs(5),
	"RAM64X1S":    ramxs(6),
	"RAM128X1S":   ramxs(7),
	"RAM256X1S":   def(one(clk("WCLK")), in("WE", "D", "A"), out("O")),
	"RAM32X1S_1":  ramxs(5),
	"RAM64X1S_1":  ramxs(6),
	"RAM128X1S_1": ramxs(7),
	"RAM256X1S_1": def(one(clk("WCLK")), in("WE", "D", "A"), out("O")),
	"RAM32X2S":    ramx2s(5),
	"RAM64X2S":    ramx2s(6),
	"RAM32M": def(one(clk("WCLK")),
		in("WE", "ADDRA", "ADDRB", "ADDRC", "ADDRD", "DIA", "DIB", "DIC", "DID"),
		out("DOA", "DOB", "DOC", "DOD")),

	"SRL16E":  def(one(clk("CLK")), in("CE", "D", "A0", "A1", "A2", "A3"), out("Q")),
	"SRLC32E": def(one(clk("CLK")), in("CE", "D", "A"), out("Q", "Q31")),

	"RAMB18E1": ramb18,
	"RAMB36E1": ramb36,
	"FIFO18E1": fifo18,
	"FIFO36E1": fifo36,
	"RAMB8BWER": def(
		[]port{clk("CLKAWRCLK"), clk("CLKBRDCLK")},
		in("ENAWREN", "ENBRDEN", "REGCEA", "REGCEBREGCE", "RSTA", "RSTBRST",
			"ADDRAWRADDR", "ADDRBRDADDR", "DIADI", "DIBDI", "DIPADIP", "DIPBDIP", "WEAWEL", "WEBWEU"),
		out("DOADO", "DOBDO", "DOPADOP", "DOPBDOP")),
	"RAMB16BWER": def(
		[]port{clk("CLKA"), clk("CLKB")},
		in("ENA", "ENB", "REGCEA", "REGCEB", "RSTA", "RSTB", "ADDRA", "ADDRB", "DIA", "DIB", "DIPA", "DIPB", "WEA", "WEB"),
		out("DOA", "DOB", "DOPA", "DOPB")),

	"DSP48A1": dsp48a1,
	"DSP48E1": dsp48e1,

	BUFG:           def(in("I"), one(bufo("O"))),
	"BUFGCE":       def(in("I", "CE"), one(bufo("O"))),
	"BUFGCE_1":     def(in("I", "CE"), one(bufo("O"))),
	"BUFGMUX":      def(in("I0", "I1", "S"), one(bufo("O"))),
	"BUFGMUX_CTRL": def(in("I0", "I1", "S"), one(bufo("O"))),
	"BUFGCTRL":     def(in("I0", "I1", "S0", "S1", "CE0", "CE1", "IGNORE0", "IGNORE1"), one(bufo("O"))),
	"BUFH":         def(in("I"), one(bufo("O"))),
	"BUFHCE":       def(in("I", "CE"), one(bufo("O"))),
	"BUFR":         def(in("I", "CE", "CLR"), one(bufo("O"))),
	"BUFMR":        def(in("I"), one(bufo("O"))),
	"BUFMRCE":      def(in("I", "CE"), one(bufo("O"))),
	"BUFIO":        def(in("I"), one(bufo("O"))),

	IBUFG:   def(in("I"), out("O")),
	"IBUF":  def(in("I"), out("O")),
	"OBUF":  def(in("I"), out("O")),
	"IOBUF": def(in("I", "T"), out("O"), []port{{"IO", netlist.PortInout, roleNone}}),

	"LUT1": lut(1),
	"LUT2": lut(2),
	"LUT3": lut(3),
	"LUT4": lut(4),
	"LUT5": lut(5),
	"LUT6": lut(6),
}

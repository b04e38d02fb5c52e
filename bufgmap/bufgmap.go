// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bufgmap inserts global clock buffers (BUFG) between the nets that
// drive clock inputs of Xilinx primitives and their drivers, and optionally
// input clock buffers (IBUFG) between module inputs and those BUFGs.
//
package bufgmap

import (
	"context"
	"sync"

	"github.com/db47h/netlist"
	"github.com/db47h/netlist/xilinx"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SkipAttr is the wire attribute that disables buffer insertion on a wire.
//
const SkipAttr = "skip_bufgmap"

// Options configures a Pass.
//
type Options struct {
	// Pad enables the insertion of IBUFG cells on module inputs that would
	// become BUFG inputs.
	Pad bool
	// Select restricts the modules and wires to work on. Nil selects
	// everything.
	Select *netlist.Selection
	// ClockPorts lists the cell ports that consume a clock. Defaults to
	// xilinx.ClockPorts().
	ClockPorts *xilinx.PortSet
	// BufferPorts lists the cell ports driven by a clock buffer. Defaults to
	// xilinx.BufferPorts().
	BufferPorts *xilinx.PortSet
	// Workers is the number of modules processed concurrently. Values <= 1
	// process modules sequentially.
	Workers int
	// Logger defaults to the standard logrus logger.
	Logger log.FieldLogger
}

// Stats counts the cells inserted by a Pass.
//
type Stats struct {
	Modules int
	BUFG    int
	IBUFG   int
}

func (s *Stats) add(o Stats) {
	s.Modules += o.Modules
	s.BUFG += o.BUFG
	s.IBUFG += o.IBUFG
}

// A Pass inserts clock buffers. A Pass holds no per-run state and can be
// reused.
//
type Pass struct {
	pad      bool
	sel      *netlist.Selection
	clkPorts xilinx.PortSet
	bufPorts xilinx.PortSet
	workers  int
	log      log.FieldLogger
}

// New returns a new Pass.
//
func New(opts Options) *Pass {
	p := &Pass{
		pad:      opts.Pad,
		sel:      opts.Select,
		clkPorts: xilinx.ClockPorts(),
		bufPorts: xilinx.BufferPorts(),
		workers:  opts.Workers,
		log:      opts.Logger,
	}
	if opts.ClockPorts != nil {
		p.clkPorts = *opts.ClockPorts
	}
	if opts.BufferPorts != nil {
		p.bufPorts = *opts.BufferPorts
	}
	if p.log == nil {
		p.log = log.StandardLogger()
	}
	return p
}

// Run runs the pass on all selected modules of d and returns the total number
// of inserted cells. Modules are independent and may be processed
// concurrently (see Options.Workers). The only possible error is the
// cancellation of ctx, checked between modules.
//
// Cells instantiating modules of d get the directions of their connected
// ports recorded explicitly before any module is processed.
//
func (p *Pass) Run(ctx context.Context, d *netlist.Design) (Stats, error) {
	var (
		total Stats
		mu    sync.Mutex
	)
	// instance port directions must not be read from modules being rewritten
	d.ResolveInstancePorts()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.workers, 1))
	for _, m := range p.sel.SelectedModules(d) {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := p.RunModule(m)
			mu.Lock()
			total.add(s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, ctx.Err()
}

type buffer struct {
	cell *netlist.Cell
	out  *netlist.Wire
}

type padWire struct {
	wire *netlist.Wire
	bits map[int]bool
}

// RunModule runs the pass on a single module, regardless of the module
// selection. Wire selection still applies.
//
// The work is done in stages, each one completing over the whole module
// before the next starts: collect the nets that feed clock ports, discard
// the ones already driven by a clock buffer, insert one BUFG per remaining
// net, rewire the consumers of those nets to the BUFG outputs, and finally
// insert IBUFGs on module inputs. The last stage adds direct connections,
// so it must run after all lookups through the SigMap are done.
//
func (p *Pass) RunModule(m *netlist.Module) Stats {
	lg := p.log.WithField("module", m.Name())
	st := Stats{Modules: 1}
	sm := netlist.NewSigMap(m)
	cells := m.Cells()

	// nets that could use a clock buffer
	clockBits := make(map[netlist.SigBit]bool)
	for _, c := range cells {
		for _, pc := range c.Connections() {
			if p.clkPorts.Contains(c.Type, pc.Port) {
				for _, b := range sm.Map(pc.Sig) {
					clockBits[b] = true
				}
			}
		}
	}
	n := len(clockBits)

	// discard the ones that already have a clock buffer
	for _, c := range cells {
		for _, pc := range c.Connections() {
			if p.bufPorts.Contains(c.Type, pc.Port) {
				for _, b := range sm.Map(pc.Sig) {
					delete(clockBits, b)
				}
			}
		}
	}
	lg.Debugf("%d clock nets, %d already buffered", n, n-len(clockBits))

	buffered := make(map[netlist.SigBit]buffer)
	var padQueue []padWire
	for _, w := range p.sel.SelectedWires(m) {
		if w.Attributes.Bool(SkipAttr) {
			continue
		}
		var padBits map[int]bool
		for i := 0; i < w.Width; i++ {
			b := w.Bit(i)
			mb := sm.Bit(b)
			// only map the canonical bit of a net.
			if b != mb || !clockBits[mb] {
				continue
			}
			lg.Infof("Inserting BUFG on %s.%s[%d].", m.Name(), w.Name(), i)
			c := m.AddCell(m.NewID("bufgmap"), xilinx.BUFG)
			ow := m.AddWire(m.NewID("bufgmap"), 1)
			c.SetPortDirection("I", netlist.PortInput)
			c.SetPortDirection("O", netlist.PortOutput)
			c.SetPort("O", netlist.Sig(ow))
			c.SetPort("I", netlist.SigSpec{mb})
			buffered[mb] = buffer{c, ow}
			st.BUFG++

			if p.pad && w.PortInput && !w.PortOutput {
				if padBits == nil {
					padBits = make(map[int]bool)
				}
				padBits[i] = true
			}
		}
		if padBits != nil {
			padQueue = append(padQueue, padWire{w, padBits})
		}
	}

	// rewire consumers, including the new BUFGs, hence the fresh cell list.
	if len(buffered) > 0 {
		for _, c := range m.Cells() {
			for _, pc := range c.Connections() {
				if !c.Input(pc.Port) || c.Output(pc.Port) {
					continue
				}
				sig := pc.Sig
				changed := false
				for i, b := range sig {
					buf, ok := buffered[sm.Bit(b)]
					// do not substitute the BUFG's own input.
					if !ok || c == buf.cell {
						continue
					}
					sig[i] = buf.out.Bit(0)
					changed = true
				}
				if changed {
					c.SetPort(pc.Port, sig)
				}
			}
		}
	}

	for _, pw := range padQueue {
		st.IBUFG += p.insertPads(lg, m, pw)
	}
	m.FixupPorts()
	lg.Debugf("inserted %d BUFG and %d IBUFG cells", st.BUFG, st.IBUFG)
	return st
}

// insertPads moves the port role of pw.wire to a new wire with the same name
// and drives the old wire from it, through an IBUFG for the bits in pw.bits
// and directly otherwise.
//
func (p *Pass) insertPads(lg log.FieldLogger, m *netlist.Module, pw padWire) int {
	w := pw.wire
	nw := m.AddWireLike(m.NewID("bufgmap"), w)
	m.SwapNames(nw, w)
	w.Attributes = nil

	cnt := 0
	for i := 0; i < w.Width; i++ {
		if !pw.bits[i] {
			m.Connect(netlist.SigSpec{w.Bit(i)}, netlist.SigSpec{nw.Bit(i)})
			continue
		}
		lg.Infof("Inserting IBUFG on %s.%s[%d].", m.Name(), nw.Name(), i)
		c := m.AddCell(m.NewID("bufgmap"), xilinx.IBUFG)
		c.SetPortDirection("I", netlist.PortInput)
		c.SetPortDirection("O", netlist.PortOutput)
		c.SetPort("O", netlist.SigSpec{w.Bit(i)})
		c.SetPort("I", netlist.SigSpec{nw.Bit(i)})
		cnt++
	}
	w.PortID = 0
	w.PortInput = false
	w.PortOutput = false
	return cnt
}

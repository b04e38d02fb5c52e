// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Yosys JSON netlist format, as written by "write_json" and read by
// "read_json".

type jsonDesign struct {
	Creator string                 `json:"creator,omitempty"`
	Modules map[string]*jsonModule `json:"modules"`
}

type jsonModule struct {
	Attributes map[string]jsonValue `json:"attributes,omitempty"`
	Ports      jsonPorts            `json:"ports"`
	Cells      map[string]*jsonCell `json:"cells"`
	Netnames   map[string]*jsonNet  `json:"netnames"`
}

type jsonPort struct {
	Direction string    `json:"direction"`
	Bits      []jsonBit `json:"bits"`
}

type namedPort struct {
	name string
	port *jsonPort
}

// jsonPorts keeps ports in file order.
type jsonPorts []namedPort

type jsonCell struct {
	HideName       int                  `json:"hide_name"`
	Type           string               `json:"type"`
	Parameters     map[string]jsonValue `json:"parameters"`
	Attributes     map[string]jsonValue `json:"attributes"`
	PortDirections map[string]string    `json:"port_directions,omitempty"`
	Connections    map[string][]jsonBit `json:"connections"`
}

type jsonNet struct {
	HideName   int                  `json:"hide_name"`
	Bits       []jsonBit            `json:"bits"`
	Attributes map[string]jsonValue `json:"attributes"`
}

// jsonBit is either a net id >= 2 or one of the constants "0", "1", "x", "z".
type jsonBit struct {
	id int
	s  State
}

// jsonValue is a parameter or attribute value. Yosys writes them as strings,
// older versions as numbers.
type jsonValue string

func (v *jsonValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = jsonValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("invalid attribute or parameter value %s", b)
	}
	*v = jsonValue(n.String())
	return nil
}

func (b *jsonBit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "0":
			b.s = S0
		case "1":
			b.s = S1
		case "x":
			b.s = Sx
		case "z":
			b.s = Sz
		default:
			return errors.Errorf("invalid constant bit %q", s)
		}
		b.id = 0
		return nil
	}
	if err := json.Unmarshal(data, &b.id); err != nil {
		return errors.Errorf("invalid bit %s", data)
	}
	if b.id < 2 {
		return errors.Errorf("invalid net id %d", b.id)
	}
	return nil
}

func (b jsonBit) MarshalJSON() ([]byte, error) {
	if b.id == 0 {
		return json.Marshal(b.s.String())
	}
	return []byte(strconv.Itoa(b.id)), nil
}

func (ps *jsonPorts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	t, err := dec.Token()
	if err != nil {
		return err
	}
	if t == nil {
		*ps = nil
		return nil
	}
	if d, ok := t.(json.Delim); !ok || d != '{' {
		return errors.New("ports: object expected")
	}
	for dec.More() {
		t, err = dec.Token()
		if err != nil {
			return err
		}
		p := &jsonPort{}
		if err = dec.Decode(p); err != nil {
			return errors.Wrapf(err, "port %v", t)
		}
		*ps = append(*ps, namedPort{t.(string), p})
	}
	return nil
}

func (ps jsonPorts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.port)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toAttributes(vs map[string]jsonValue) Attributes {
	if len(vs) == 0 {
		return nil
	}
	a := make(Attributes, len(vs))
	for k, v := range vs {
		a[k] = string(v)
	}
	return a
}

func fromAttributes(a map[string]string) map[string]jsonValue {
	vs := make(map[string]jsonValue, len(a))
	for k, v := range a {
		vs[k] = jsonValue(v)
	}
	return vs
}

func parseDir(s string) (PortDir, error) {
	switch s {
	case "input":
		return PortInput, nil
	case "output":
		return PortOutput, nil
	case "inout":
		return PortInout, nil
	}
	return PortUnknown, errors.Errorf("invalid port direction %q", s)
}

// ReadJSON reads a design in Yosys JSON format. lib is used for the port
// directions of cells that do not list them explicitly.
//
// Bits that share a net id become direct connections between the wires that
// carry them.
//
func ReadJSON(r io.Reader, lib Library) (*Design, error) {
	var jd jsonDesign
	if err := json.NewDecoder(r).Decode(&jd); err != nil {
		return nil, errors.Wrap(err, "decode JSON netlist")
	}
	d := NewDesign(lib)
	names := make([]string, 0, len(jd.Modules))
	for n := range jd.Modules {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if jd.Modules[n] == nil {
			return nil, errors.Errorf("module %s: null module", n)
		}
		if err := readModule(d.AddModule(n), jd.Modules[n]); err != nil {
			return nil, errors.Wrapf(err, "module %s", n)
		}
	}
	return d, nil
}

type netBinder struct {
	m     *Module
	owner map[int]SigBit
}

func (nb *netBinder) bind(w *Wire, bits []jsonBit) {
	for i, jb := range bits {
		b := w.Bit(i)
		if jb.id == 0 {
			nb.m.Connect(SigSpec{b}, SigSpec{ConstBit(jb.s)})
			continue
		}
		if o, ok := nb.owner[jb.id]; ok {
			nb.m.Connect(SigSpec{b}, SigSpec{o})
			continue
		}
		nb.owner[jb.id] = b
	}
}

func (nb *netBinder) sig(bits []jsonBit) SigSpec {
	s := make(SigSpec, len(bits))
	for i, jb := range bits {
		if jb.id == 0 {
			s[i] = ConstBit(jb.s)
			continue
		}
		b, ok := nb.owner[jb.id]
		if !ok {
			// net without a name
			w := nb.m.AddWire(nb.m.NewID("json"), 1)
			b = w.Bit(0)
			nb.owner[jb.id] = b
		}
		s[i] = b
	}
	return s
}

func readModule(m *Module, jm *jsonModule) error {
	nb := &netBinder{m: m, owner: make(map[int]SigBit)}
	m.Attributes = toAttributes(jm.Attributes)

	nets := make([]string, 0, len(jm.Netnames))
	for n := range jm.Netnames {
		nets = append(nets, n)
	}
	sort.Strings(nets)
	for _, n := range nets {
		jn := jm.Netnames[n]
		if jn == nil {
			return errors.Errorf("netname %s: null net", n)
		}
		w := m.AddWire(n, len(jn.Bits))
		w.Attributes = toAttributes(jn.Attributes)
		nb.bind(w, jn.Bits)
	}

	for i, p := range jm.Ports {
		if p.port == nil {
			return errors.Errorf("port %s: null port", p.name)
		}
		w := m.wires[p.name]
		if w == nil {
			w = m.AddWire(p.name, len(p.port.Bits))
			nb.bind(w, p.port.Bits)
		} else if w.Width != len(p.port.Bits) {
			return errors.Errorf("port %s: width %d does not match net width %d", p.name, len(p.port.Bits), w.Width)
		}
		dir, err := parseDir(p.port.Direction)
		if err != nil {
			return errors.Wrapf(err, "port %s", p.name)
		}
		w.PortInput = dir == PortInput || dir == PortInout
		w.PortOutput = dir == PortOutput || dir == PortInout
		w.PortID = i + 1
	}

	cells := make([]string, 0, len(jm.Cells))
	for n := range jm.Cells {
		cells = append(cells, n)
	}
	sort.Strings(cells)
	for _, n := range cells {
		jc := jm.Cells[n]
		if jc == nil {
			return errors.Errorf("cell %s: null cell", n)
		}
		if m.nameUsed(n) {
			return errors.Errorf("cell %s: name already used by a net", n)
		}
		c := m.AddCell(n, jc.Type)
		c.Attributes = toAttributes(jc.Attributes)
		if len(jc.Parameters) > 0 {
			c.Parameters = make(map[string]string, len(jc.Parameters))
			for k, v := range jc.Parameters {
				c.Parameters[k] = string(v)
			}
		}
		for p, ds := range jc.PortDirections {
			dir, err := parseDir(ds)
			if err != nil {
				return errors.Wrapf(err, "cell %s port %s", n, p)
			}
			c.SetPortDirection(p, dir)
		}
	}
	// connect once all cell names are taken, so that nets without a name
	// cannot steal one.
	for _, n := range cells {
		jc := jm.Cells[n]
		ports := make([]string, 0, len(jc.Connections))
		for p := range jc.Connections {
			ports = append(ports, p)
		}
		sort.Strings(ports)
		c := m.cells[n]
		for _, p := range ports {
			c.SetPort(p, nb.sig(jc.Connections[p]))
		}
	}
	m.FixupPorts()
	return nil
}

// WriteJSON writes d in Yosys JSON format. Net ids are assigned to the
// representative bits of each module's nets, so aliased wires share ids.
// Ports are written in the order FixupPorts would give them, but d is not
// modified.
//
func (d *Design) WriteJSON(w io.Writer) error {
	jd := jsonDesign{
		Creator: "github.com/db47h/netlist",
		Modules: make(map[string]*jsonModule, len(d.modules)),
	}
	for _, m := range d.Modules() {
		jd.Modules[m.name] = writeModule(m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(&jd), "encode JSON netlist")
}

func writeModule(m *Module) *jsonModule {
	sm := NewSigMap(m)
	ids := make(map[SigBit]int)
	next := 2
	bits := func(s SigSpec) []jsonBit {
		jb := make([]jsonBit, len(s))
		for i, b := range sm.Map(s) {
			if b.IsConst() {
				jb[i] = jsonBit{s: b.Data}
				continue
			}
			id, ok := ids[b]
			if !ok {
				id = next
				next++
				ids[b] = id
			}
			jb[i] = jsonBit{id: id}
		}
		return jb
	}

	jm := &jsonModule{
		Attributes: fromAttributes(m.Attributes),
		Cells:      make(map[string]*jsonCell),
		Netnames:   make(map[string]*jsonNet),
	}
	for _, w := range m.sortedPorts() {
		n := w.name
		dir := "input"
		switch {
		case w.PortInput && w.PortOutput:
			dir = "inout"
		case w.PortOutput:
			dir = "output"
		}
		jm.Ports = append(jm.Ports, namedPort{n, &jsonPort{Direction: dir, Bits: bits(Sig(w))}})
	}
	for _, c := range m.Cells() {
		jc := &jsonCell{
			Type:        c.Type,
			Parameters:  fromAttributes(c.Parameters),
			Attributes:  fromAttributes(c.Attributes),
			Connections: make(map[string][]jsonBit),
		}
		if !IsPublicName(c.name) {
			jc.HideName = 1
		}
		for _, pc := range c.Connections() {
			jc.Connections[pc.Port] = bits(pc.Sig)
			if dir := c.PortDirection(pc.Port); dir != PortUnknown {
				if jc.PortDirections == nil {
					jc.PortDirections = make(map[string]string)
				}
				jc.PortDirections[pc.Port] = dir.String()
			}
		}
		jm.Cells[c.name] = jc
	}
	for _, w := range m.Wires() {
		jn := &jsonNet{Bits: bits(Sig(w)), Attributes: fromAttributes(w.Attributes)}
		if !w.IsPublic() {
			jn.HideName = 1
		}
		jm.Netnames[w.name] = jn
	}
	return jm
}

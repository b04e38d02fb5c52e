// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

// A SigMap maps bits to the representative bit of their net.
//
// Nets are the equivalence classes of bits under a module's direct
// connections. The representative of a net is chosen deterministically: a
// constant bit if the net has one, then a bit of a port wire, then a bit of a
// public wire, then the bit with the smallest wire name and offset.
//
// A SigMap is a snapshot: connections added to the module after it was built
// are not seen unless passed to Add.
//
type SigMap struct {
	parent map[SigBit]SigBit
}

// NewSigMap returns a SigMap for the direct connections of m. If m is nil the
// map is empty and every bit is its own representative.
//
func NewSigMap(m *Module) *SigMap {
	sm := &SigMap{parent: make(map[SigBit]SigBit)}
	if m != nil {
		for _, c := range m.conns {
			sm.Add(c.LHS, c.RHS)
		}
	}
	return sm
}

// Add merges the nets of the bits of a and b pairwise.
//
func (sm *SigMap) Add(a, b SigSpec) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sm.merge(a[i], b[i])
	}
}

func (sm *SigMap) find(b SigBit) SigBit {
	root := b
	for {
		p, ok := sm.parent[root]
		if !ok || p == root {
			break
		}
		root = p
	}
	// path compression
	for b != root {
		next := sm.parent[b]
		sm.parent[b] = root
		b = next
	}
	return root
}

func (sm *SigMap) merge(a, b SigBit) {
	ra, rb := sm.find(a), sm.find(b)
	if ra == rb {
		return
	}
	if prefer(rb, ra) {
		ra, rb = rb, ra
	}
	sm.parent[rb] = ra
	if _, ok := sm.parent[ra]; !ok {
		sm.parent[ra] = ra
	}
}

func rank(b SigBit) int {
	switch {
	case b.Wire == nil:
		return 0
	case b.Wire.IsPort():
		return 1
	case b.Wire.IsPublic():
		return 2
	}
	return 3
}

// prefer returns true if a is a better representative than b.
//
func prefer(a, b SigBit) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	if a.Wire == nil {
		// two distinct constants: keep defined values over x/z
		return a.Data < b.Data
	}
	if a.Wire.name != b.Wire.name {
		return a.Wire.name < b.Wire.name
	}
	return a.Offset < b.Offset
}

// Bit returns the representative of b.
//
func (sm *SigMap) Bit(b SigBit) SigBit {
	return sm.find(b)
}

// Map returns s with every bit replaced by its representative.
//
func (sm *SigMap) Map(s SigSpec) SigSpec {
	r := make(SigSpec, len(s))
	for i, b := range s {
		r[i] = sm.find(b)
	}
	return r
}

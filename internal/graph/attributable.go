package graph

import "sync"

// Attributable is the mixin shared by every graph element (nodes, edges and
// the graph itself) that can carry named toggle, string, integer and float
// attributes. All accessors are safe for concurrent use.
type Attributable struct {
	mu      sync.RWMutex
	toggles map[string]bool
	strings map[string]string
	ints    map[string]int64
	floats  map[string]float64
}

func newAttributable() Attributable {
	return Attributable{}
}

// SetToggle records the presence of a boolean (flag-style) attribute.
func (a *Attributable) SetToggle(name string, value bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.toggles == nil {
		a.toggles = make(map[string]bool)
	}
	a.toggles[name] = value
}

// Toggle reports whether the named toggle attribute is set, and whether it
// exists at all.
func (a *Attributable) Toggle(name string) (bool, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.toggles[name]
	return v, ok
}

// SetString records a string-valued attribute.
func (a *Attributable) SetString(name, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.strings == nil {
		a.strings = make(map[string]string)
	}
	a.strings[name] = value
}

// String returns the named string attribute and whether it was set.
func (a *Attributable) String(name string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.strings[name]
	return v, ok
}

// SetInt records an integer-valued attribute.
func (a *Attributable) SetInt(name string, value int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ints == nil {
		a.ints = make(map[string]int64)
	}
	a.ints[name] = value
}

// Int returns the named integer attribute and whether it was set.
func (a *Attributable) Int(name string) (int64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.ints[name]
	return v, ok
}

// AddInt adds delta to the named integer attribute, creating it at delta if
// absent. Used by the diagnostics phase to tally per-severity counters.
func (a *Attributable) AddInt(name string, delta int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ints == nil {
		a.ints = make(map[string]int64)
	}
	a.ints[name] += delta
	return a.ints[name]
}

// SetFloat records a float-valued attribute.
func (a *Attributable) SetFloat(name string, value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.floats == nil {
		a.floats = make(map[string]float64)
	}
	a.floats[name] = value
}

// Float returns the named float attribute and whether it was set.
func (a *Attributable) Float(name string) (float64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.floats[name]
	return v, ok
}

// AddFloat adds delta to the named float attribute, creating it at delta if
// absent.
func (a *Attributable) AddFloat(name string, delta float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.floats == nil {
		a.floats = make(map[string]float64)
	}
	a.floats[name] += delta
	return a.floats[name]
}

// IntNames returns the names of every integer attribute currently set, in
// no particular order. Used by the metric aggregator to discover which
// attributes to sum without a hardcoded list.
func (a *Attributable) IntNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.ints))
	for n := range a.ints {
		names = append(names, n)
	}
	return names
}

// FloatNames returns the names of every float attribute currently set.
func (a *Attributable) FloatNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.floats))
	for n := range a.floats {
		names = append(names, n)
	}
	return names
}

// SetRangeAttr is sugar over four int attributes named
// "<name>_StartLine", "<name>_EndLine", "<name>_StartCharacter" and
// "<name>_EndCharacter". It is how a Range is stored as a single named
// attribute — SourceRange and SelectionRange both go through this.
func (a *Attributable) SetRangeAttr(name string, r Range) {
	a.SetInt(name+"_StartLine", int64(r.StartLine))
	a.SetInt(name+"_EndLine", int64(r.EndLine))
	a.SetInt(name+"_StartCharacter", int64(r.StartChar))
	a.SetInt(name+"_EndCharacter", int64(r.EndChar))
}

// RangeAttr reconstructs the range previously stored by SetRangeAttr under
// name. ok is false if none of the four components were ever set.
func (a *Attributable) RangeAttr(name string) (r Range, ok bool) {
	sl, ok1 := a.Int(name + "_StartLine")
	el, ok2 := a.Int(name + "_EndLine")
	sc, ok3 := a.Int(name + "_StartCharacter")
	ec, ok4 := a.Int(name + "_EndCharacter")
	if !ok1 && !ok2 && !ok3 && !ok4 {
		return Range{}, false
	}
	return Range{StartLine: int(sl), StartChar: int(sc), EndLine: int(el), EndChar: int(ec)}, true
}

// Attr is one name/kind/value triple, as produced by SortedAttrs.
type Attr struct {
	Kind  string // "bool", "string", "int" or "float"
	Name  string
	Value any
}

// SortedAttrs returns every attribute on the element, across all four
// kinds, sorted by name within each kind and grouped bool/string/int/float
// in that order. It is the GXL writer's sole source of attribute data,
// chosen to keep serialisation deterministic across runs.
func (a *Attributable) SortedAttrs() []Attr {
	s := a.snapshot()
	out := make([]Attr, 0, len(s.toggles)+len(s.strings)+len(s.ints)+len(s.floats))
	for _, e := range s.toggles {
		out = append(out, Attr{Kind: "bool", Name: e.Key, Value: e.Value})
	}
	for _, e := range s.strings {
		out = append(out, Attr{Kind: "string", Name: e.Key, Value: e.Value})
	}
	for _, e := range s.ints {
		out = append(out, Attr{Kind: "int", Name: e.Key, Value: e.Value})
	}
	for _, e := range s.floats {
		out = append(out, Attr{Kind: "float", Name: e.Key, Value: e.Value})
	}
	return out
}

// snapshot captures a stable, sorted copy of every attribute, used as the
// input to the isomorphism content hash.
func (a *Attributable) snapshot() attrSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := attrSnapshot{}
	for k, v := range a.toggles {
		s.toggles = append(s.toggles, kv[bool]{k, v})
	}
	for k, v := range a.strings {
		s.strings = append(s.strings, kv[string]{k, v})
	}
	for k, v := range a.ints {
		s.ints = append(s.ints, kv[int64]{k, v})
	}
	for k, v := range a.floats {
		s.floats = append(s.floats, kv[float64]{k, v})
	}
	s.sort()
	return s
}

type kv[T any] struct {
	Key   string
	Value T
}

package graph

import (
	"hash/fnv"
	"sort"
	"strconv"
)

// attrSnapshot is a deterministic, sorted view over one element's
// attributes, used both to compute the isomorphism content hash and to
// compare two nodes for attribute equality.
type attrSnapshot struct {
	toggles []kv[bool]
	strings []kv[string]
	ints    []kv[int64]
	floats  []kv[float64]
}

func (s *attrSnapshot) sort() {
	sort.Slice(s.toggles, func(i, j int) bool { return s.toggles[i].Key < s.toggles[j].Key })
	sort.Slice(s.strings, func(i, j int) bool { return s.strings[i].Key < s.strings[j].Key })
	sort.Slice(s.ints, func(i, j int) bool { return s.ints[i].Key < s.ints[j].Key })
	sort.Slice(s.floats, func(i, j int) bool { return s.floats[i].Key < s.floats[j].Key })
}

// linkageNameAttr is the string attribute Node.SetID derives from the ID.
// It is left out of the isomorphism hash and comparison, since the node
// phase looks for an isomorphic node before the candidate has an ID.
const linkageNameAttr = "Linkage.Name"

// isoStrings returns in without its linkageNameAttr entry.
func isoStrings(in []kv[string]) []kv[string] {
	out := make([]kv[string], 0, len(in))
	for _, e := range in {
		if e.Key != linkageNameAttr {
			out = append(out, e)
		}
	}
	return out
}

// contentHash returns an FNV-1a digest of typ plus the sorted attribute
// snapshot. It is used as the secondary index key for isomorphism dedup:
// two elements with the same hash are candidates for the equality check
// that isomorphicTo still performs to rule out collisions.
func contentHash(typ string, s attrSnapshot) uint64 {
	h := fnv.New64a()
	write := func(b string) { _, _ = h.Write([]byte(b)) }
	write(typ)
	write("\x00")
	for _, e := range s.toggles {
		write(e.Key)
		if e.Value {
			write("\x01T")
		} else {
			write("\x01F")
		}
	}
	for _, e := range isoStrings(s.strings) {
		write(e.Key)
		write("\x02")
		write(e.Value)
	}
	for _, e := range s.ints {
		write(e.Key)
		write("\x03")
		write(strconv.FormatInt(e.Value, 10))
	}
	for _, e := range s.floats {
		write(e.Key)
		write("\x04")
		write(strconv.FormatFloat(e.Value, 'g', -1, 64))
	}
	return h.Sum64()
}

// equal reports whether two snapshots carry exactly the same attributes,
// apart from linkageNameAttr.
func (s attrSnapshot) equal(other attrSnapshot) bool {
	ss, os := isoStrings(s.strings), isoStrings(other.strings)
	if len(s.toggles) != len(other.toggles) || len(ss) != len(os) ||
		len(s.ints) != len(other.ints) || len(s.floats) != len(other.floats) {
		return false
	}
	for i := range s.toggles {
		if s.toggles[i] != other.toggles[i] {
			return false
		}
	}
	for i := range ss {
		if ss[i] != os[i] {
			return false
		}
	}
	for i := range s.ints {
		if s.ints[i] != other.ints[i] {
			return false
		}
	}
	for i := range s.floats {
		if s.floats[i] != other.floats[i] {
			return false
		}
	}
	return true
}

// Package graph implements the in-memory typed, attributed, hierarchical
// graph that an import run builds: directories, files and symbols as nodes,
// cross-references as edges.
package graph

// Range is a half-open source location expressed in LSP's own coordinate
// system: zero-based lines, UTF-16 code units as "characters".
type Range struct {
	StartLine int
	StartChar int
	EndLine   int
	EndChar   int
}

// Contains reports whether r fully encloses other, inclusive of shared
// boundaries. A Range always contains itself.
func (r Range) Contains(other Range) bool {
	if other.StartLine < r.StartLine || (other.StartLine == r.StartLine && other.StartChar < r.StartChar) {
		return false
	}
	if other.EndLine > r.EndLine || (other.EndLine == r.EndLine && other.EndChar > r.EndChar) {
		return false
	}
	return true
}

// lineSpan is the number of lines a range covers, used as the coarse
// component of the tightest-enclosing comparison.
func (r Range) lineSpan() int {
	return r.EndLine - r.StartLine
}

// charSpan is the number of UTF-16 units the range covers on its last line
// relative to its first, used as the tie-break component once two ranges
// have an equal line span.
func (r Range) charSpan() int {
	if r.EndLine == r.StartLine {
		return r.EndChar - r.StartChar
	}
	return r.EndChar - r.StartChar + (r.EndLine-r.StartLine)*1_000_000
}

// tighter reports whether a is a strictly tighter enclosing range than b,
// using the two-step comparison from the import's edge-target resolution:
// fewer lines wins outright; an equal line span falls through to fewer
// characters.
func (a Range) tighter(b Range) bool {
	as, bs := a.lineSpan(), b.lineSpan()
	if as != bs {
		return as < bs
	}
	return a.charSpan() < b.charSpan()
}

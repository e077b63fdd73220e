package fieldpath

// Segment is a single component of a path: a field name, an element index,
// or both (`name[index]`).
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// Field creates a segment naming a field.
func Field(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// Elem creates an index-only segment addressing a list or array element.
func Elem(index int) Segment {
	return Segment{Index: index}
}

// HasIndex returns true if the segment carries an element index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path is the structured location of a value, from the instruction's
// top-level arguments down to the addressed value.
type Path struct {
	Segments []Segment
}

// Of builds a path from a stack of segments. The slice is copied, so the
// caller may keep mutating its stack.
func Of(segments []Segment) Path {
	if len(segments) == 0 {
		return Path{}
	}
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return Path{Segments: cp}
}

// IsRoot reports whether the path addresses the instruction itself.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

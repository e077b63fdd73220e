package fieldpath

import (
	"reflect"
	"strconv"
	"strings"
)

// String serializes the path into its canonical representation. Index-only
// segments attach to the previous segment (`list[0]`).
func (p Path) String() string {
	var sb strings.Builder
	for i, segment := range p.Segments {
		if segment.Name != "" {
			if i > 0 {
				sb.WriteRune('.')
			}
			sb.WriteString(segment.Name)
		}
		if segment.HasIndex() {
			sb.WriteRune('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteRune(']')
		}
	}
	return sb.String()
}

// Equal checks for deep equality between two paths.
func (p Path) Equal(other Path) bool {
	if len(p.Segments) == 0 && len(other.Segments) == 0 {
		return true
	}
	return reflect.DeepEqual(p.Segments, other.Segments)
}

// Child returns a new path with a field segment appended.
func (p Path) Child(name string) Path {
	return Of(append(p.Segments[:len(p.Segments):len(p.Segments)], Field(name)))
}

// Index returns a new path with an element segment appended.
func (p Path) Index(i int) Path {
	return Of(append(p.Segments[:len(p.Segments):len(p.Segments)], Elem(i)))
}

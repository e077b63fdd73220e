package fieldpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex matches one dot-separated part: an optional name followed by
// any number of bracketed indices, e.g. `name`, `name[1]` or `[0][2]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]*)((?:\[\d+\])*)$`)

var indexRegex = regexp.MustCompile(`\[(\d+)\]`)

// Parse creates a Path from its canonical string representation. The empty
// string is the root path.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, nil
	}

	var segments []Segment
	for i, part := range strings.Split(raw, ".") {
		matches := segmentRegex.FindStringSubmatch(part)
		if matches == nil {
			return Path{}, fmt.Errorf("invalid path segment format: %q", part)
		}
		name, indices := matches[1], matches[2]
		if name == "" && (i > 0 || indices == "") {
			return Path{}, fmt.Errorf("path contains empty segment")
		}

		if name != "" {
			segments = append(segments, Field(name))
		}
		for _, m := range indexRegex.FindAllStringSubmatch(indices, -1) {
			index, err := strconv.Atoi(m[1])
			if err != nil {
				return Path{}, fmt.Errorf("invalid index %q: %w", m[1], err)
			}
			segments = append(segments, Elem(index))
		}
	}
	return Path{Segments: segments}, nil
}

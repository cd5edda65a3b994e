package thread

import "strings"

// ParsePath derives a comment's parent id and depth from its dot-separated
// ancestry path ("0.12.34": the root sentinel, then one segment per ancestor
// level, the last segment being the comment itself).
//
// After dropping the sentinel, zero or one remaining segments mean the
// comment is a root; with two or more the parent is the second-to-last
// segment. Depth is the original segment count minus two, floored at zero.
// Malformed or empty paths yield no parent and depth zero rather than an
// error: parent and depth are presentational, so leniency beats failing the
// whole load.
func ParsePath(path string) (parentID int64, hasParent bool, depth int) {
	if path == "" {
		return 0, false, 0
	}
	segs := strings.Split(path, ".")
	if depth = len(segs) - 2; depth < 0 {
		depth = 0
	}
	rest := segs[1:]
	if len(rest) < 2 {
		return 0, false, depth
	}
	id, err := parseID(rest[len(rest)-2])
	if err != nil {
		return 0, false, depth
	}
	return id, true, depth
}

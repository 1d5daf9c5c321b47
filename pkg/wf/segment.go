package wf

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// validateSegment rejects Extract path segments that could escape the
// parent's cache directory or that are not plain path components: empty
// segments, ".", "..", embedded separators, and anything that isn't a
// valid doublestar pattern (glob metacharacters have no business in a
// literal path segment here, so a segment that doublestar itself can't
// parse as a pattern is almost certainly a mistake).
func validateSegment(s string) error {
	if s == "" {
		return fmt.Errorf("wf: empty path segment")
	}
	if s == "." || s == ".." {
		return fmt.Errorf("wf: invalid path segment %q", s)
	}
	if strings.ContainsAny(s, "/\\") {
		return fmt.Errorf("wf: path segment %q must not contain path separators", s)
	}
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("wf: path segment %q is not a valid path component", s)
	}
	return nil
}

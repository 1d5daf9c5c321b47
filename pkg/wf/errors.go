package wf

import "errors"

// ErrExtractOverValue is returned by NewExtract when the directory argument
// is a Value workflow. A Value workflow produces an in-memory result, never
// a path on disk, so projecting a sub-path out of it is meaningless.
var ErrExtractOverValue = errors.New("wf: cannot extract a sub-path from a value workflow")

// ErrEmptySegments is returned by NewExtract when called with no path
// segments at all.
var ErrEmptySegments = errors.New("wf: extract requires at least one path segment")

package tagstream

import "github.com/cockroachdb/errors"

// Errors
var (
	ErrUnknownTag  = errors.New("tagstream: unknown tag byte")
	ErrTruncated   = errors.New("tagstream: truncated document")
	ErrUnsupported = errors.New("tagstream: unsupported value")
	ErrTooDeep     = errors.New("tagstream: value nested too deeply")
	ErrShortBuffer = errors.New("tagstream: allocator returned a buffer smaller than requested")
	ErrTrailing    = errors.New("tagstream: trailing bytes after entry")
	ErrFinalized   = errors.New("tagstream: merger already finalized")
)

// ErrCorrupt is returned if the document was corrupt
type ErrCorrupt struct{ Err string }

// internal constants used for corrupt
var (
	errBadVarint   = "bad varint"
	errBadCodeUnit = "bad string code unit"
	errBadOffset   = "bad offset"
)

func (c ErrCorrupt) Error() string { return "tagstream: corrupt document: " + c.Err }

// Is makes errors.Is(err, ErrCorrupt{}) match any corruption.
func (c ErrCorrupt) Is(target error) bool {
	_, ok := target.(ErrCorrupt)
	return ok
}

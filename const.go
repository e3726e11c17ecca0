package tagstream

// Tag is the single byte written in front of every encoded entry.
type Tag byte

const (
	TagObject          Tag = 'O'
	TagArray           Tag = 'A'
	TagString          Tag = 'S'
	TagPositiveInteger Tag = '+'
	TagNegativeInteger Tag = '-'
	TagFloat           Tag = 'F'
	TagSet             Tag = 'U'
	TagNull            Tag = 'N'
	TagMap             Tag = 'M'
	TagTrue            Tag = '1'
	TagFalse           Tag = '0'
)

// Valid reports whether t is one of the eleven wire tags.
func (t Tag) Valid() bool {
	switch t {
	case TagObject, TagArray, TagString, TagPositiveInteger, TagNegativeInteger,
		TagFloat, TagSet, TagNull, TagMap, TagTrue, TagFalse:
		return true
	}
	return false
}

func (t Tag) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return string(rune(t))
}

const (
	// defaultBufferSize is the backing buffer allocated when a Stream is
	// created without one.
	defaultBufferSize = 5000

	// maxVarintBytes bounds a varint: five 7-bit groups cover 32 bits.
	maxVarintBytes = 5

	// MaxMagnitude is the largest integer magnitude a varint can carry.
	MaxMagnitude = 1<<32 - 1

	// DefaultMaxDepth is the nesting limit used when Encoder.MaxDepth or
	// Decoder.MaxDepth is zero.
	DefaultMaxDepth = 10000
)

package tagstream

import (
	"github.com/cockroachdb/errors"
)

// A Merger concatenates independently encoded documents into one Array
// document whose elements are the documents' entries, in Append order.
type Merger struct {
	numElements int
	finalized   bool
	buf         []byte
}

// NewMerger returns an empty merger.
func NewMerger() *Merger {
	return &Merger{buf: make([]byte, 0, 32)}
}

// Append adds the entry encoded in b. b must hold exactly one well-formed
// entry; otherwise an error is returned and the merger is unchanged.
func (m *Merger) Append(b []byte) error {
	if m.finalized {
		return ErrFinalized
	}

	if uint64(m.numElements) >= MaxMagnitude {
		return errors.Wrapf(ErrUnsupported, "more than %d elements", int64(MaxMagnitude))
	}

	sz, err := Skip(b, 0)
	if err != nil {
		return err
	}
	if sz != len(b) {
		return errors.Wrapf(ErrTrailing, "%d bytes after a %d byte entry", len(b)-sz, sz)
	}

	m.buf = append(m.buf, b...)
	m.numElements++

	return nil
}

// Len returns the number of entries appended so far.
func (m *Merger) Len() int { return m.numElements }

// Finish returns the merged document. Later calls return the same bytes and
// later Appends fail with ErrFinalized.
func (m *Merger) Finish() []byte {
	if !m.finalized {
		n := uint32(m.numElements)
		out := make([]byte, 0, 1+VarintLen(n)+len(m.buf))
		out = append(out, byte(TagArray))
		out = AppendVarint(out, n)
		out = append(out, m.buf...)
		m.buf = out
		m.finalized = true
	}

	return m.buf
}

// Skip returns the size in bytes of the entry starting at offset in b,
// checking its structure without building a Value.
func Skip(b []byte, offset int) (int, error) {
	if offset < 0 || offset > len(b) {
		return 0, errors.Wrapf(ErrCorrupt{errBadOffset}, "offset %d, length %d", offset, len(b))
	}
	end, err := skipItem(b, offset, 0)
	if err != nil {
		return 0, err
	}
	return end - offset, nil
}

func skipItem(b []byte, idx int, depth int) (int, error) {
	if depth > DefaultMaxDepth {
		return 0, errors.Wrapf(ErrTooDeep, "depth %d at offset %d", depth, idx)
	}

	if idx >= len(b) {
		return 0, errors.Wrapf(ErrTruncated, "tag at offset %d", idx)
	}

	var err error
	tag := Tag(b[idx])
	idx++

	switch tag {
	case TagNull, TagTrue, TagFalse:
		// no payload

	case TagPositiveInteger, TagNegativeInteger:
		_, sz, err := varintdecode(b[idx:])
		if err != nil {
			return 0, err
		}
		idx += sz

	case TagFloat:
		if len(b)-idx < 4 {
			return 0, errors.Wrapf(ErrTruncated, "float at offset %d", idx)
		}
		idx += 4

	case TagString:
		if idx, err = skipString(b, idx); err != nil {
			return 0, err
		}

	case TagArray, TagSet:
		ln, sz, err := varintdecode(b[idx:])
		if err != nil {
			return 0, err
		}
		idx += sz
		if int64(ln) > int64(len(b)-idx) {
			return 0, errors.Wrapf(ErrTruncated, "%d entries at offset %d", ln, idx)
		}

		for i := 0; i < int(ln); i++ {
			if idx, err = skipItem(b, idx, depth+1); err != nil {
				return 0, err
			}
		}

	case TagMap:
		ln, sz, err := varintdecode(b[idx:])
		if err != nil {
			return 0, err
		}
		idx += sz
		if 2*int64(ln) > int64(len(b)-idx) {
			return 0, errors.Wrapf(ErrTruncated, "%d entries at offset %d", ln, idx)
		}

		// keys and values
		for i := 0; i < int(ln)*2; i++ {
			if idx, err = skipItem(b, idx, depth+1); err != nil {
				return 0, err
			}
		}

	case TagObject:
		ln, sz, err := varintdecode(b[idx:])
		if err != nil {
			return 0, err
		}
		idx += sz
		if 2*int64(ln) > int64(len(b)-idx) {
			return 0, errors.Wrapf(ErrTruncated, "%d entries at offset %d", ln, idx)
		}

		for i := 0; i < int(ln); i++ {
			if idx, err = skipString(b, idx); err != nil {
				return 0, err
			}
			if idx, err = skipItem(b, idx, depth+1); err != nil {
				return 0, err
			}
		}

	default:
		return 0, errors.Wrapf(ErrUnknownTag, "tag 0x%02x at offset %d", byte(tag), idx-1)
	}

	return idx, nil
}

func skipString(b []byte, idx int) (int, error) {
	ln, sz, err := varintdecode(b[idx:])
	if err != nil {
		return 0, err
	}
	idx += sz
	if int64(ln) > int64(len(b)-idx) {
		return 0, errors.Wrapf(ErrTruncated, "string of %d code units at offset %d", ln, idx)
	}

	for i := 0; i < int(ln); i++ {
		u, sz, err := varintdecode(b[idx:])
		if err != nil {
			return 0, err
		}
		if u > 0xffff {
			return 0, ErrCorrupt{errBadCodeUnit}
		}
		idx += sz
	}

	return idx, nil
}

package tagstream

import (
	"github.com/cockroachdb/errors"
)

// A Decoder reads Values in the tagstream format. The zero value is ready to
// use and a Decoder may be shared between goroutines.
type Decoder struct {
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth, negative means
	// no limit.
	MaxDepth int
}

// DeserializeOptions configures Deserialize.
type DeserializeOptions struct {
	// Position is the offset of the entry in the buffer.
	Position int
}

// Deserialize decodes the entry at opts.Position (default 0). Bytes after
// the entry are ignored.
func Deserialize(b []byte, opts *DeserializeOptions) (Value, error) {
	var d Decoder
	pos := 0
	if opts != nil {
		pos = opts.Position
	}
	v, _, err := d.Decode(b, pos)
	return v, err
}

// Unmarshal decodes the entry at the start of b.
func Unmarshal(b []byte) (Value, error) {
	var d Decoder
	return d.Unmarshal(b)
}

// Unmarshal decodes the entry at the start of b. Trailing bytes are ignored.
func (d *Decoder) Unmarshal(b []byte) (Value, error) {
	v, _, err := d.Decode(b, 0)
	return v, err
}

// Decode decodes the entry at offset in b and returns it with the number of
// bytes it occupied.
func (d *Decoder) Decode(b []byte, offset int) (Value, int, error) {
	if offset < 0 || offset > len(b) {
		return nil, 0, errors.Wrapf(ErrCorrupt{errBadOffset}, "offset %d, length %d", offset, len(b))
	}
	s := NewReader(b, offset)
	v, err := d.DecodeFrom(s)
	if err != nil {
		return nil, 0, err
	}
	return v, s.Position(), nil
}

// DecodeFrom decodes the entry at the stream's cursor. On error nothing is
// returned and the cursor position is unspecified.
func (d *Decoder) DecodeFrom(s *Stream) (Value, error) {
	return d.decode(s, 0)
}

func (d *Decoder) maxDepth() int {
	switch {
	case d.MaxDepth == 0:
		return DefaultMaxDepth
	case d.MaxDepth < 0:
		return int(^uint(0) >> 1)
	}
	return d.MaxDepth
}

func (d *Decoder) decode(s *Stream, depth int) (Value, error) {
	if depth > d.maxDepth() {
		return nil, errors.Wrapf(ErrTooDeep, "depth %d at position %d", depth, s.Position())
	}

	pos := s.Position()
	b, err := s.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch tag := Tag(b); tag {
	case TagNull:
		return Null{}, nil
	case TagTrue:
		return Bool(true), nil
	case TagFalse:
		return Bool(false), nil
	case TagPositiveInteger:
		n, err := s.ReadVarint()
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case TagNegativeInteger:
		n, err := s.ReadVarint()
		if err != nil {
			return nil, err
		}
		return -Int(n), nil
	case TagFloat:
		f, err := s.ReadFloat32()
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case TagString:
		str, err := s.ReadString()
		if err != nil {
			return nil, err
		}
		return String(str), nil
	case TagArray:
		arr, err := d.decodeArray(s, depth)
		if err != nil {
			return nil, err
		}
		return Array(arr), nil
	case TagSet:
		arr, err := d.decodeArray(s, depth)
		if err != nil {
			return nil, err
		}
		return Set(arr), nil
	case TagMap:
		return d.decodeMap(s, depth)
	case TagObject:
		return d.decodeObject(s, depth)
	default:
		return nil, errors.Wrapf(ErrUnknownTag, "tag 0x%02x at position %d", b, pos)
	}
}

// readCount reads a length prefix and rejects it when the rest of the buffer
// cannot hold that many entries of at least minSize bytes each.
func readCount(s *Stream, minSize int) (int, error) {
	n, err := s.ReadVarint()
	if err != nil {
		return 0, err
	}
	if int64(n)*int64(minSize) > int64(s.Remaining()) {
		return 0, errors.Wrapf(ErrTruncated, "%d entries at position %d", n, s.Position())
	}
	return int(n), nil
}

func (d *Decoder) decodeArray(s *Stream, depth int) ([]Value, error) {
	ln, err := readCount(s, 1)
	if err != nil {
		return nil, err
	}

	arr := make([]Value, ln)
	for i := range arr {
		if arr[i], err = d.decode(s, depth+1); err != nil {
			return nil, err
		}
	}

	return arr, nil
}

func (d *Decoder) decodeMap(s *Stream, depth int) (Value, error) {
	ln, err := readCount(s, 2)
	if err != nil {
		return nil, err
	}

	m := make(Map, ln)
	for i := range m {
		if m[i].Key, err = d.decode(s, depth+1); err != nil {
			return nil, err
		}
		if m[i].Value, err = d.decode(s, depth+1); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (d *Decoder) decodeObject(s *Stream, depth int) (Value, error) {
	ln, err := readCount(s, 2)
	if err != nil {
		return nil, err
	}

	o := make(Object, ln)
	for i := range o {
		if o[i].Name, err = s.ReadString(); err != nil {
			return nil, err
		}
		if o[i].Value, err = d.decode(s, depth+1); err != nil {
			return nil, err
		}
	}

	return o, nil
}

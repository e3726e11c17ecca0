package tagstream

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// An Encoder writes Values in the tagstream format. The zero value is ready
// to use and an Encoder may be shared between goroutines; each call gets its
// own Stream.
type Encoder struct {
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth, negative means
	// no limit.
	MaxDepth int

	// Allocator replaces GrowthAllocator for every stream this encoder
	// creates.
	Allocator Allocator
}

// SerializeOptions configures Serialize.
type SerializeOptions struct {
	// Buffer is reused as the initial backing buffer. It is grown, never
	// shrunk, when the encoding does not fit.
	Buffer []byte

	// Allocator is the buffer factory used for growth.
	Allocator Allocator
}

// Result is the outcome of Serialize. Buffer may be longer than Size; the
// encoding is Buffer[:Size].
type Result struct {
	Buffer []byte
	Size   int
}

// Bytes returns the encoding.
func (r Result) Bytes() []byte { return r.Buffer[:r.Size] }

// Serialize encodes v with a default Encoder.
func Serialize(v Value, opts *SerializeOptions) (Result, error) {
	var e Encoder
	return e.Serialize(v, opts)
}

// Marshal returns the encoding of v.
func Marshal(v Value) ([]byte, error) {
	var e Encoder
	return e.Marshal(v)
}

// Serialize encodes v into a new stream built from opts.
func (e *Encoder) Serialize(v Value, opts *SerializeOptions) (Result, error) {
	so := StreamOptions{Allocator: e.Allocator}
	if opts != nil {
		so.Buffer = opts.Buffer
		if opts.Allocator != nil {
			so.Allocator = opts.Allocator
		}
	}
	s := NewStream(so)
	if err := e.Encode(s, v); err != nil {
		return Result{}, err
	}
	return Result{Buffer: s.Buffer(), Size: s.Position()}, nil
}

// Marshal returns the encoding of v.
func (e *Encoder) Marshal(v Value) ([]byte, error) {
	r, err := e.Serialize(v, nil)
	if err != nil {
		return nil, err
	}
	return r.Bytes(), nil
}

// Encode writes v at the stream's cursor. On error the stream's cursor is
// restored, so nothing partial is left behind.
func (e *Encoder) Encode(s *Stream, v Value) (err error) {
	start := s.off
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}

			switch r := r.(type) {
			case string:
				err = errors.New(r)
			case error:
				err = r
			default:
				panic(r)
			}
		}
		if err != nil {
			s.off = start
		}
	}()

	return e.encode(s, v, 0)
}

func (e *Encoder) maxDepth() int {
	switch {
	case e.MaxDepth == 0:
		return DefaultMaxDepth
	case e.MaxDepth < 0:
		return int(^uint(0) >> 1)
	}
	return e.MaxDepth
}

func (e *Encoder) encode(s *Stream, v Value, depth int) error {
	if depth > e.maxDepth() {
		return errors.Wrapf(ErrTooDeep, "depth %d", depth)
	}

	switch v := v.(type) {
	case nil, Null:
		s.PutUint8(byte(TagNull))
	case Bool:
		if v {
			s.PutUint8(byte(TagTrue))
		} else {
			s.PutUint8(byte(TagFalse))
		}
	case Int:
		return e.encodeInt(s, int64(v))
	case Float:
		s.PutUint8(byte(TagFloat)).PutFloat32(float32(v))
	case String:
		return e.encodeString(s, string(v))
	case Array:
		return e.encodeArray(s, TagArray, v, depth)
	case Set:
		return e.encodeArray(s, TagSet, v, depth)
	case Map:
		return e.encodeMap(s, v, depth)
	case Object:
		return e.encodeObject(s, v, depth)
	default:
		return errors.Wrapf(ErrUnsupported, "no support for type %T", v)
	}

	return nil
}

// encodeInt tags strictly positive integers '+' and everything else '-', so
// zero is written as a negative zero.
func (e *Encoder) encodeInt(s *Stream, i int64) error {
	if i > 0 {
		if i > MaxMagnitude {
			return errors.Wrapf(ErrUnsupported, "integer %d exceeds %d", i, int64(MaxMagnitude))
		}
		s.PutUint8(byte(TagPositiveInteger)).PutVarint(uint32(i))
		return nil
	}

	if i < -MaxMagnitude {
		return errors.Wrapf(ErrUnsupported, "integer %d exceeds -%d", i, int64(MaxMagnitude))
	}
	s.PutUint8(byte(TagNegativeInteger)).PutVarint(uint32(-i))
	return nil
}

func (e *Encoder) encodeString(s *Stream, str string) error {
	if err := checkLen(len(str)); err != nil {
		return err
	}
	s.PutUint8(byte(TagString)).PutString(str)
	return nil
}

func (e *Encoder) encodeArray(s *Stream, tag Tag, arr []Value, depth int) error {
	l := len(arr)
	if err := checkLen(l); err != nil {
		return err
	}

	s.PutUint8(byte(tag)).PutVarint(uint32(l))

	for _, v := range arr {
		if err := e.encode(s, v, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeMap(s *Stream, m Map, depth int) error {
	l := len(m)
	if err := checkLen(l); err != nil {
		return err
	}

	s.PutUint8(byte(TagMap)).PutVarint(uint32(l))

	for _, p := range m {
		if err := e.encode(s, p.Key, depth+1); err != nil {
			return err
		}
		if err := e.encode(s, p.Value, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// encodeObject writes field names as bare strings: they are always strings,
// so no tag precedes them.
func (e *Encoder) encodeObject(s *Stream, o Object, depth int) error {
	l := len(o)
	if err := checkLen(l); err != nil {
		return err
	}

	s.PutUint8(byte(TagObject)).PutVarint(uint32(l))

	for _, f := range o {
		if err := checkLen(len(f.Name)); err != nil {
			return err
		}
		s.PutString(f.Name)
		if err := e.encode(s, f.Value, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// checkLen rejects counts a varint cannot hold. A UTF-8 byte length bounds
// the UTF-16 unit count from above, so it is a safe check for strings too.
func checkLen(n int) error {
	if uint64(n) > MaxMagnitude {
		return errors.Wrapf(ErrUnsupported, "length %d exceeds %d", n, int64(MaxMagnitude))
	}
	return nil
}

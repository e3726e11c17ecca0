package tagstream

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// Allocator returns a new backing buffer of at least minSize bytes.
type Allocator func(minSize int) []byte

// GrowthAllocator is the default Allocator: it over-allocates by half so that
// a run of small writes reallocates a logarithmic number of times.
func GrowthAllocator(minSize int) []byte {
	n := minSize * 3 / 2
	if n < minSize {
		n = minSize
	}
	return make([]byte, n)
}

// StreamOptions configures a Stream.
type StreamOptions struct {
	// Buffer is the initial backing buffer. When nil a 5000 byte buffer is
	// allocated. For reading, it is the document.
	Buffer []byte

	// Allocator replaces GrowthAllocator.
	Allocator Allocator

	// Offset is where the stream's view of Buffer starts. Positions are
	// relative to it. A negative Offset is taken as zero, and Buffer is
	// grown when it is shorter than Offset.
	Offset int
}

// Stream is a cursor over a single growable byte buffer. Every multi-byte
// value is big-endian. Writes grow the buffer on demand, so Buffer must be
// re-queried after writing. A Stream is not safe for concurrent use.
type Stream struct {
	buf   []byte
	base  int
	off   int
	alloc Allocator
}

// NewStream returns a stream configured by opts.
func NewStream(opts StreamOptions) *Stream {
	s := &Stream{
		buf:   opts.Buffer,
		base:  opts.Offset,
		alloc: opts.Allocator,
	}
	if s.buf == nil {
		s.buf = make([]byte, defaultBufferSize)
	}
	if s.alloc == nil {
		s.alloc = GrowthAllocator
	}
	if s.base < 0 {
		s.base = 0
	}
	s.ensure(0)
	return s
}

// NewReader returns a stream reading b from offset. An offset outside b
// leaves nothing to read: every read fails with ErrTruncated.
func NewReader(b []byte, offset int) *Stream {
	return &Stream{buf: b, base: offset, alloc: GrowthAllocator}
}

// Buffer returns the current backing buffer, including unused capacity.
func (s *Stream) Buffer() []byte { return s.buf }

// Bytes returns the bytes between the view start and the cursor.
func (s *Stream) Bytes() []byte {
	if s.base < 0 || s.base > len(s.buf) {
		return nil
	}
	return s.buf[s.base : s.base+s.off]
}

// Position returns the cursor, relative to the view start.
func (s *Stream) Position() int { return s.off }

// Len returns the size of the backing buffer.
func (s *Stream) Len() int { return len(s.buf) }

// Remaining returns the number of bytes between the cursor and the end of
// the buffer.
func (s *Stream) Remaining() int {
	if n := len(s.buf) - s.base - s.off; n > 0 {
		return n
	}
	return 0
}

// Reset moves the cursor back to the view start. The buffer is kept.
func (s *Stream) Reset() { s.off = 0 }

// ensure makes room for n more bytes after the cursor.
func (s *Stream) ensure(n int) {
	needed := s.base + s.off + n
	if needed <= len(s.buf) {
		return
	}
	newbuf := s.alloc(needed)
	if len(newbuf) < needed {
		panic(errors.Wrapf(ErrShortBuffer, "asked for %d bytes, got %d", needed, len(newbuf)))
	}
	copy(newbuf, s.buf)
	s.buf = newbuf
}

// next returns the n bytes at the cursor and advances past them.
func (s *Stream) next(n int) ([]byte, error) {
	start := s.base + s.off
	if n < 0 || start < 0 || start > len(s.buf) || len(s.buf)-start < n {
		return nil, errors.Wrapf(ErrTruncated, "need %d bytes at position %d", n, s.off)
	}
	s.off += n
	return s.buf[start : start+n], nil
}

// grow reserves n bytes at the cursor, advances past them and returns them
// for the caller to fill.
func (s *Stream) grow(n int) []byte {
	s.ensure(n)
	start := s.base + s.off
	s.off += n
	return s.buf[start : start+n]
}

// ReadUint8 reads one byte.
func (s *Stream) ReadUint8() (uint8, error) {
	b, err := s.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads one byte as a signed integer.
func (s *Stream) ReadInt8() (int8, error) {
	v, err := s.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads a big-endian uint16.
func (s *Stream) ReadUint16() (uint16, error) {
	b, err := s.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt16 reads a big-endian int16.
func (s *Stream) ReadInt16() (int16, error) {
	v, err := s.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a big-endian uint32.
func (s *Stream) ReadUint32() (uint32, error) {
	b, err := s.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadInt32 reads a big-endian int32.
func (s *Stream) ReadInt32() (int32, error) {
	v, err := s.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads a big-endian IEEE-754 single.
func (s *Stream) ReadFloat32() (float32, error) {
	v, err := s.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a big-endian IEEE-754 double.
func (s *Stream) ReadFloat64() (float64, error) {
	b, err := s.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ReadBytes returns a copy of the next n bytes.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	b, err := s.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Skip advances the cursor by n bytes.
func (s *Stream) Skip(n int) error {
	_, err := s.next(n)
	return err
}

// PutUint8 writes one byte.
func (s *Stream) PutUint8(v uint8) *Stream {
	s.grow(1)[0] = v
	return s
}

// PutInt8 writes v as one byte.
func (s *Stream) PutInt8(v int8) *Stream { return s.PutUint8(uint8(v)) }

// PutUint16 writes v big-endian.
func (s *Stream) PutUint16(v uint16) *Stream {
	binary.BigEndian.PutUint16(s.grow(2), v)
	return s
}

// PutInt16 writes v big-endian.
func (s *Stream) PutInt16(v int16) *Stream { return s.PutUint16(uint16(v)) }

// PutUint32 writes v big-endian.
func (s *Stream) PutUint32(v uint32) *Stream {
	binary.BigEndian.PutUint32(s.grow(4), v)
	return s
}

// PutInt32 writes v big-endian.
func (s *Stream) PutInt32(v int32) *Stream { return s.PutUint32(uint32(v)) }

// PutFloat32 writes v as a big-endian IEEE-754 single.
func (s *Stream) PutFloat32(v float32) *Stream { return s.PutUint32(math.Float32bits(v)) }

// PutFloat64 writes v as a big-endian IEEE-754 double.
func (s *Stream) PutFloat64(v float64) *Stream {
	binary.BigEndian.PutUint64(s.grow(8), math.Float64bits(v))
	return s
}

// PutBytes writes p verbatim.
func (s *Stream) PutBytes(p []byte) *Stream {
	copy(s.grow(len(p)), p)
	return s
}

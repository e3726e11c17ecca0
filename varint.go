package tagstream

import (
	"unicode/utf16"

	"github.com/cockroachdb/errors"
)

// Varints carry 7 bits per byte, most significant group first. Every byte
// but the last has the 0x80 continuation bit set. This is the reverse of the
// little-endian scheme used by encoding/binary.

// PutVarint writes v as a varint.
func (s *Stream) PutVarint(v uint32) *Stream {
	var tmp [maxVarintBytes]byte
	s.PutBytes(tmp[:putVarint(tmp[:], v)])
	return s
}

// ReadVarint reads a varint.
func (s *Stream) ReadVarint() (uint32, error) {
	var v uint64
	for i := 0; i < maxVarintBytes; i++ {
		b, err := s.ReadUint8()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			if v > MaxMagnitude {
				return 0, ErrCorrupt{errBadVarint}
			}
			return uint32(v), nil
		}
	}
	return 0, ErrCorrupt{errBadVarint}
}

// PutString writes s as its UTF-16 code unit count followed by one varint per
// code unit.
func (s *Stream) PutString(str string) *Stream {
	units := utf16.Encode([]rune(str))
	s.PutVarint(uint32(len(units)))
	for _, u := range units {
		s.PutVarint(uint32(u))
	}
	return s
}

// ReadString reads a string written by PutString.
func (s *Stream) ReadString() (string, error) {
	n, err := s.ReadVarint()
	if err != nil {
		return "", err
	}
	// every code unit takes at least one byte
	if int64(n) > int64(s.Remaining()) {
		return "", errors.Wrapf(ErrTruncated, "string of %d code units at position %d", n, s.Position())
	}
	units := make([]uint16, n)
	for i := range units {
		u, err := s.ReadVarint()
		if err != nil {
			return "", err
		}
		if u > 0xffff {
			return "", ErrCorrupt{errBadCodeUnit}
		}
		units[i] = uint16(u)
	}
	return string(utf16.Decode(units)), nil
}

// putVarint writes v into b, which must hold maxVarintBytes, and returns the
// number of bytes used.
func putVarint(b []byte, v uint32) int {
	n := 0
	writing := false
	for shift := 28; shift >= 0; shift -= 7 {
		group := byte(v>>uint(shift)) & 0x7f
		writing = writing || group != 0 || shift == 0
		if !writing {
			continue
		}
		if shift > 0 {
			group |= 0x80
		}
		b[n] = group
		n++
	}
	return n
}

// AppendVarint appends the varint encoding of v to by.
func AppendVarint(by []byte, v uint32) []byte {
	var tmp [maxVarintBytes]byte
	return append(by, tmp[:putVarint(tmp[:], v)]...)
}

// VarintLen returns the number of bytes PutVarint uses for v.
func VarintLen(v uint32) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// varintdecode reads a varint from the front of by.
func varintdecode(by []byte) (n uint32, sz int, err error) {
	var v uint64
	for i, b := range by {
		if i == maxVarintBytes {
			return 0, 0, ErrCorrupt{errBadVarint}
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			if v > MaxMagnitude {
				return 0, 0, ErrCorrupt{errBadVarint}
			}
			return uint32(v), i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

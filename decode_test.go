package tagstream

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	for _, tt := range encodings {
		v, err := Deserialize(tt.encoded, nil)
		require.NoError(t, err, tt.what)
		assert.Equal(t, tt.value, v, tt.what)
	}
}

func TestDecodeConsumed(t *testing.T) {
	var d Decoder
	for _, tt := range encodings {
		_, n, err := d.Decode(tt.encoded, 0)
		require.NoError(t, err, tt.what)
		assert.Equal(t, len(tt.encoded), n, tt.what)
	}
}

func TestDecodeFloat(t *testing.T) {
	v, err := Unmarshal(wire(TagFloat, 68, 2, 199, 225))
	require.NoError(t, err)
	assert.Equal(t, Float(523.1231079101562), v)

	v, err = Unmarshal(wire(TagFloat, 0x7f, 0xc0, 0, 0))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(v.(Float))))

	v, err = Unmarshal(wire(TagFloat, 0xff, 0x80, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, Float(math.Inf(-1)), v)
}

func TestDecodeZero(t *testing.T) {
	for _, b := range [][]byte{
		wire(TagNegativeInteger, 0),
		wire(TagPositiveInteger, 0),
	} {
		v, err := Unmarshal(b)
		require.NoError(t, err)
		assert.Equal(t, Int(0), v)
	}
}

func TestDecodePosition(t *testing.T) {
	b := wire(0xde, 0xad, TagPositiveInteger, 9, TagTrue)

	v, err := Deserialize(b, &DeserializeOptions{Position: 2})
	require.NoError(t, err)
	assert.Equal(t, Int(9), v)

	v, err = Deserialize(b, &DeserializeOptions{Position: 4})
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	_, err = Deserialize(b, &DeserializeOptions{Position: 0})
	assert.ErrorIs(t, err, ErrUnknownTag)

	_, err = Deserialize(b, &DeserializeOptions{Position: 5})
	assert.ErrorIs(t, err, ErrTruncated)

	for _, pos := range []int{-1, 6} {
		_, err = Deserialize(b, &DeserializeOptions{Position: pos})
		assert.ErrorIs(t, err, ErrCorrupt{}, "position %d", pos)
	}
}

func TestDecodeTrailingIgnored(t *testing.T) {
	v, err := Unmarshal(wire(TagNull, "garbage"))
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)
}

func TestDecodeFrom(t *testing.T) {
	b := wire(TagPositiveInteger, 1, TagString, 2, "hi", TagArray, 0)
	s := NewReader(b, 0)

	var d Decoder
	var got []Value
	for s.Remaining() > 0 {
		v, err := d.DecodeFrom(s)
		require.NoError(t, err)
		got = append(got, v)
	}

	assert.Equal(t, []Value{Int(1), String("hi"), Array{}}, got)
	assert.Equal(t, len(b), s.Position())
}

func TestDecodeUnknownTag(t *testing.T) {
	for i := 0; i < 256; i++ {
		if Tag(i).Valid() {
			continue
		}

		_, err := Unmarshal([]byte{byte(i)})
		require.Error(t, err, "byte 0x%02x", i)
		assert.True(t, errors.Is(err, ErrUnknownTag), "byte 0x%02x: %v", i, err)
	}

	_, err := Unmarshal(wire(TagArray, 2, TagNull, 'x'))
	assert.ErrorIs(t, err, ErrUnknownTag)
	assert.Contains(t, err.Error(), "position 3")
}

func TestDecodeTruncated(t *testing.T) {
	for _, tt := range encodings {
		for i := 0; i < len(tt.encoded); i++ {
			_, err := Unmarshal(tt.encoded[:i])
			assert.ErrorIs(t, err, ErrTruncated, "%s cut at %d", tt.what, i)
		}
	}

	cases := []struct {
		what string
		b    []byte
	}{
		{"empty", []byte{}},
		{"nil", nil},
		{"varint continuation", wire(TagPositiveInteger, 0x81)},
		{"float", wire(TagFloat, 1, 2, 3)},
		{"string body", wire(TagString, 5, "abc")},
		{"array count", wire(TagArray, 0x7f, TagNull)},
		{"huge array count", wire(TagArray, 0x8f, 0xff, 0xff, 0xff, 0x7f)},
		{"huge map count", wire(TagMap, 0x8f, 0xff, 0xff, 0xff, 0x7f)},
		{"huge object count", wire(TagObject, 0x8f, 0xff, 0xff, 0xff, 0x7f)},
		{"object value", wire(TagObject, 1, 1, "a")},
		{"map value", wire(TagMap, 1, TagTrue, TagNull)[:3]},
	}
	for _, tt := range cases {
		_, err := Unmarshal(tt.b)
		assert.ErrorIs(t, err, ErrTruncated, tt.what)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	cases := []struct {
		what string
		b    []byte
	}{
		{"six byte varint", wire(TagPositiveInteger, 0x80, 0x80, 0x80, 0x80, 0x80, 0)},
		{"varint overflow", wire(TagPositiveInteger, 0x90, 0x80, 0x80, 0x80, 0)},
		{"code unit overflow", wire(TagString, 1, 0x84, 0x80, 0)},
	}
	for _, tt := range cases {
		_, err := Unmarshal(tt.b)
		assert.ErrorIs(t, err, ErrCorrupt{}, tt.what)
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	b := wire(TagArray, 1, TagArray, 1, TagArray, 1, TagNull)

	_, err := (&Decoder{MaxDepth: 2}).Unmarshal(b)
	assert.ErrorIs(t, err, ErrTooDeep)

	v, err := (&Decoder{MaxDepth: 3}).Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, Array{Array{Array{Null{}}}}, v)

	deep := make([]byte, 0, 2*DefaultMaxDepth+3)
	for i := 0; i <= DefaultMaxDepth; i++ {
		deep = append(deep, byte(TagArray), 1)
	}
	deep = append(deep, byte(TagNull))

	_, err = Unmarshal(deep)
	assert.ErrorIs(t, err, ErrTooDeep)

	_, err = (&Decoder{MaxDepth: -1}).Unmarshal(deep)
	assert.NoError(t, err)
}

func TestDecodeDuplicates(t *testing.T) {
	v, err := Unmarshal(wire(TagObject, 2, 1, "a", TagTrue, 1, "a", TagFalse))
	require.NoError(t, err)
	assert.Equal(t, Object{{"a", Bool(true)}, {"a", Bool(false)}}, v)

	v, err = Unmarshal(wire(TagSet, 2, TagNull, TagNull))
	require.NoError(t, err)
	assert.Equal(t, Set{Null{}, Null{}}, v)
}

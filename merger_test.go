package tagstream

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MergerSuite struct {
	suite.Suite

	m *Merger
}

func (s *MergerSuite) SetupTest() {
	s.m = NewMerger()
}

func (s *MergerSuite) marshal(v Value) []byte {
	b, err := Marshal(v)
	s.Require().NoError(err)
	return b
}

func (s *MergerSuite) TestEmpty() {
	s.Equal(wire(TagArray, 0), s.m.Finish())
	s.Zero(s.m.Len())
}

func (s *MergerSuite) TestMerge() {
	docs := []Value{
		Int(1),
		String("two"),
		Object{{"three", Set{Int(3)}}},
		Map{{Null{}, Float(4)}},
	}
	for _, v := range docs {
		s.Require().NoError(s.m.Append(s.marshal(v)))
	}
	s.Equal(len(docs), s.m.Len())

	got, err := Unmarshal(s.m.Finish())
	s.Require().NoError(err)
	s.True(Equal(Array(docs), got))
}

func (s *MergerSuite) TestManyEntries() {
	b := s.marshal(Bool(true))
	for i := 0; i < 200; i++ {
		s.Require().NoError(s.m.Append(b))
	}

	out := s.m.Finish()
	s.Equal(wire(TagArray, 0x81, 0x48), out[:3])

	got, err := Unmarshal(out)
	s.Require().NoError(err)
	s.Len(got, 200)
}

func (s *MergerSuite) TestRejectsBadEntries() {
	s.ErrorIs(s.m.Append(nil), ErrTruncated)
	s.ErrorIs(s.m.Append(wire(TagString, 3, "ab")), ErrTruncated)
	s.ErrorIs(s.m.Append(wire('x')), ErrUnknownTag)
	s.ErrorIs(s.m.Append(wire(TagNull, TagNull)), ErrTrailing)
	s.ErrorIs(s.m.Append(wire(TagPositiveInteger, 0x90, 0x80, 0x80, 0x80, 0)), ErrCorrupt{})
	s.Zero(s.m.Len(), "failed appends leave the merger unchanged")
}

func (s *MergerSuite) TestFinalized() {
	s.Require().NoError(s.m.Append(s.marshal(Null{})))

	first := s.m.Finish()
	s.Equal(first, s.m.Finish())
	s.ErrorIs(s.m.Append(s.marshal(Null{})), ErrFinalized)
	s.Equal(wire(TagArray, 1, TagNull), s.m.Finish())
}

func (s *MergerSuite) TestTooManyEntries() {
	var limit uint64 = MaxMagnitude
	s.m.numElements = int(limit)
	if uint64(s.m.numElements) != limit {
		s.T().Skip("int cannot hold the entry limit")
	}

	s.ErrorIs(s.m.Append(s.marshal(Null{})), ErrUnsupported)
	s.Equal(int(limit), s.m.Len())
}

func TestMerger(t *testing.T) {
	suite.Run(t, new(MergerSuite))
}

func TestSkipMatchesDecode(t *testing.T) {
	var d Decoder
	for _, v := range roundtrips {
		b, err := Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		b = append(b, "tail"...)

		_, n, err := d.Decode(b, 0)
		if err != nil {
			t.Fatal(err)
		}
		sz, err := Skip(b, 0)
		if err != nil {
			t.Fatal(err)
		}
		if n != sz {
			t.Errorf("%#v: decode consumed %d bytes, skip %d", v, n, sz)
		}
	}
}

func TestSkipOffset(t *testing.T) {
	b := wire(TagNull, TagArray, 2, TagTrue, TagString, 1, "z", TagNull)

	sz, err := Skip(b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sz != 6 {
		t.Errorf("got size %d, want 6", sz)
	}

	if _, err := Skip(b, len(b)+1); err == nil {
		t.Error("expected an error for an offset past the end")
	}
}

//go:build gofuzz
// +build gofuzz

package tagstream

import (
	"github.com/google/go-cmp/cmp"
)

// Fuzz is the go-fuzz entry point: documents that decode must re-encode and
// decode to an equal value.
func Fuzz(data []byte) int {
	v, err := Unmarshal(data)
	if err != nil {
		return 0
	}

	enc, err := Marshal(v)
	if err != nil {
		panic("unable to marshal: " + err.Error())
	}

	v2, err := Unmarshal(enc)
	if err != nil {
		panic("unmarshalling marshalled data: " + err.Error())
	}

	if !Equal(v, v2) {
		s := cmp.Diff(v, v2)
		panic("failed to roundtrip: " + s)
	}

	return 1
}

// FuzzSkip checks that Skip and Decode agree on where an entry ends.
func FuzzSkip(data []byte) int {
	var d Decoder
	_, n, err := d.Decode(data, 0)
	sz, serr := Skip(data, 0)

	if (err == nil) != (serr == nil) {
		panic("decode and skip disagree on validity")
	}
	if err != nil {
		return 0
	}
	if n != sz {
		panic("decode and skip disagree on size")
	}

	return 1
}

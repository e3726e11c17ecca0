package tagstream

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// fixed keys: hashes only need to be stable within a process, but fixing
// them keeps them stable across processes too.
const (
	hashK0 = 0x736f6d6570736575
	hashK1 = 0x646f72616e646f6d
)

// Equal reports whether a and b are the same tree. Array, Map and Object
// order is significant. Set is compared as a multiset: order is ignored but
// each element must be matched exactly once. NaN equals NaN.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}

	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Int:
		bi, ok := b.(Int)
		return ok && a == bi
	case Float:
		bf, ok := b.(Float)
		return ok && (a == bf || (a != a && bf != bf))
	case String:
		bs, ok := b.(String)
		return ok && a == bs
	case Array:
		ba, ok := b.(Array)
		return ok && sliceEqual(a, ba)
	case Set:
		bs, ok := b.(Set)
		return ok && setEqual(a, bs)
	case Map:
		bm, ok := b.(Map)
		if !ok || len(a) != len(bm) {
			return false
		}
		for i := range a {
			if !Equal(a[i].Key, bm[i].Key) || !Equal(a[i].Value, bm[i].Value) {
				return false
			}
		}
		return true
	case Object:
		bo, ok := b.(Object)
		if !ok || len(a) != len(bo) {
			return false
		}
		for i := range a {
			if a[i].Name != bo[i].Name || !Equal(a[i].Value, bo[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func sliceEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func setEqual(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}

	buckets := make(map[uint64][]int, len(b))
	for i, e := range b {
		h := Hash(e)
		buckets[h] = append(buckets[h], i)
	}

	used := make([]bool, len(b))
	for _, e := range a {
		h := Hash(e)
		found := false
		for _, i := range buckets[h] {
			if !used[i] && Equal(e, b[i]) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Hash returns a SipHash-2-4 digest of v consistent with Equal: equal values
// hash equally, including sets holding the same elements in another order.
func Hash(v Value) uint64 {
	var buf []byte

	switch v := v.(type) {
	case nil, Null:
		buf = []byte{byte(TagNull)}
	case Bool:
		if v {
			buf = []byte{byte(TagTrue)}
		} else {
			buf = []byte{byte(TagFalse)}
		}
	case Int:
		buf = binary.BigEndian.AppendUint64([]byte{'I'}, uint64(v))
	case Float:
		f := float64(v)
		switch {
		case f == 0:
			f = 0 // folds -0
		case f != f:
			f = math.NaN()
		}
		buf = binary.BigEndian.AppendUint64([]byte{byte(TagFloat)}, math.Float64bits(f))
	case String:
		buf = append([]byte{byte(TagString)}, v...)
	case Array:
		buf = appendHashes([]byte{byte(TagArray)}, v)
	case Set:
		// addition commutes, so element order drops out
		var sum uint64
		for _, e := range v {
			sum += Hash(e)
		}
		buf = binary.BigEndian.AppendUint64([]byte{byte(TagSet)}, uint64(len(v)))
		buf = binary.BigEndian.AppendUint64(buf, sum)
	case Map:
		buf = []byte{byte(TagMap)}
		for _, p := range v {
			buf = binary.BigEndian.AppendUint64(buf, Hash(p.Key))
			buf = binary.BigEndian.AppendUint64(buf, Hash(p.Value))
		}
	case Object:
		buf = []byte{byte(TagObject)}
		for _, f := range v {
			buf = binary.BigEndian.AppendUint64(buf, uint64(len(f.Name)))
			buf = append(buf, f.Name...)
			buf = binary.BigEndian.AppendUint64(buf, Hash(f.Value))
		}
	}

	return siphash.Hash(hashK0, hashK1, buf)
}

func appendHashes(buf []byte, vs []Value) []byte {
	for _, e := range vs {
		buf = binary.BigEndian.AppendUint64(buf, Hash(e))
	}
	return buf
}

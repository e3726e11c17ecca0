package tagstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, KindNull, KindOf(nil))
	assert.Equal(t, KindSet, KindOf(Set{}))
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestTag(t *testing.T) {
	valid := 0
	for i := 0; i < 256; i++ {
		if Tag(i).Valid() {
			valid++
		}
	}
	assert.Equal(t, 11, valid)
	assert.Equal(t, "U", TagSet.String())
	assert.Equal(t, "invalid", Tag('x').String())
}

func TestLookups(t *testing.T) {
	o := Object{{"a", Int(1)}, {"a", Int(2)}}
	v, ok := o.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Int(1), v)
	_, ok = o.Get("b")
	assert.False(t, ok)

	m := Map{{Array{Int(1)}, String("one")}, {Null{}, String("null")}}
	v, ok = m.Get(Array{Int(1)})
	assert.True(t, ok)
	assert.Equal(t, String("one"), v)
	v, ok = m.Get(nil)
	assert.True(t, ok)
	assert.Equal(t, String("null"), v)
	_, ok = m.Get(Int(1))
	assert.False(t, ok)

	s := Set{Set{Int(1), Int(2)}, Float(0.5)}
	assert.True(t, s.Contains(Set{Int(2), Int(1)}))
	assert.True(t, s.Contains(Float(0.5)))
	assert.False(t, s.Contains(Int(1)))
}

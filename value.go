package tagstream

import "strconv"

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindSet
	KindMap
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindSet:    "set",
	KindMap:    "map",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one node of an encodable tree. The set of implementations is
// closed: Null, Bool, Int, Float, String, Array, Set, Map and Object. A nil
// Value is treated as Null.
//
// Values must form a finite, acyclic tree. Nothing is shared or deduplicated
// on the wire; a value reachable twice is written twice.
type Value interface {
	Kind() Kind
	value()
}

// Null is the absent value.
type Null struct{}

// Bool is true or false.
type Bool bool

// Int is a signed integer. Only magnitudes up to MaxMagnitude can be encoded.
type Int int64

// Float is a floating point number. It is written as an IEEE-754 single, so
// encoding narrows it to float32 precision.
type Float float64

// String is text. On the wire it is a sequence of UTF-16 code units.
type String string

// Array is an ordered sequence.
type Array []Value

// Set is a collection whose order carries no meaning. The codec keeps the
// order it is given and does not remove duplicates.
type Set []Value

// Pair is one Map entry.
type Pair struct {
	Key   Value
	Value Value
}

// Map associates arbitrary keys with values, in insertion order.
type Map []Pair

// Field is one Object member.
type Field struct {
	Name  string
	Value Value
}

// Object associates string names with values, in insertion order.
type Object []Field

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Set) Kind() Kind    { return KindSet }
func (Map) Kind() Kind    { return KindMap }
func (Object) Kind() Kind { return KindObject }

func (Null) value()   {}
func (Bool) value()   {}
func (Int) value()    {}
func (Float) value()  {}
func (String) value() {}
func (Array) value()  {}
func (Set) value()    {}
func (Map) value()    {}
func (Object) value() {}

// Get returns the value of the first field called name.
func (o Object) Get(name string) (Value, bool) {
	for _, f := range o {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Get returns the value of the first pair whose key equals key.
func (m Map) Get(key Value) (Value, bool) {
	for _, p := range m {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// Contains reports whether an element of s equals v.
func (s Set) Contains(v Value) bool {
	for _, e := range s {
		if Equal(e, v) {
			return true
		}
	}
	return false
}

// KindOf returns v's kind, treating nil as KindNull.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

/*
Package tagstream implements a compact, self-describing binary serialization
format for trees of null, booleans, integers, floats, strings, arrays, sets,
maps and objects.

Every entry is one ASCII tag byte followed by its payload:

	N  null                 (no payload)
	1  true                 (no payload)
	0  false                (no payload)
	+  positive integer     varint magnitude
	-  zero or negative     varint magnitude
	F  float                4 bytes, IEEE-754 single, big-endian
	S  string               varint count, then one varint per UTF-16 unit
	A  array                varint count, then entries
	U  set                  varint count, then entries
	M  map                  varint count, then key entry, value entry pairs
	O  object               varint count, then bare string, value entry pairs

Varints are big-endian: 7 bits per byte, most significant group first, with
0x80 set on every byte except the last. They hold at most 32 bits.

Values are described by the closed Value interface, whose implementations
are Null, Bool, Int, Float, String, Array, Set, Map and Object. ValueOf and
Interface convert to and from plain Go values.

	r, err := tagstream.Serialize(tagstream.Array{tagstream.Int(1), tagstream.String("l")}, nil)
	v, err := tagstream.Deserialize(r.Bytes(), nil)
*/
package tagstream

package tagstream

import (
	"bytes"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
)

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

func reflectValueOf(v interface{}) reflect.Value {

	rv, ok := v.(reflect.Value)
	if !ok {
		rv = reflect.ValueOf(v)
	}
	return rv

}

// ValueOf converts a Go value into a Value.
//
// Booleans, integers, floats and strings map onto the scalar variants.
// Slices and arrays become Array. Maps with struct{} values become Set;
// other maps with string keys become Object; the rest become Map. String
// keys are sorted, other keys are ordered by their encoding, so the result
// does not depend on Go's map iteration order. Structs become Object with
// one field per exported struct field, named by the `tagstream:"name"` tag
// when present ("-" skips the field, "omitempty" skips zero values). Nil
// pointers, interfaces, slices and maps become Null. A Value is returned
// unchanged.
//
// Functions, channels, complex numbers, unsafe pointers and unsigned
// integers above math.MaxInt64 are rejected with ErrUnsupported.
func ValueOf(x interface{}) (Value, error) {
	return valueOf(reflectValueOf(x), 0)
}

func valueOf(rv reflect.Value, depth int) (Value, error) {
	if depth > DefaultMaxDepth {
		return nil, errors.Wrapf(ErrTooDeep, "depth %d", depth)
	}

	if !rv.IsValid() {
		return Null{}, nil
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return Null{}, nil
		}
		return valueOf(rv.Elem(), depth+1)
	}

	if rv.Type().Implements(valueType) && rv.CanInterface() {
		return rv.Interface().(Value), nil
	}

	switch rk := rv.Kind(); rk {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return nil, errors.Wrapf(ErrUnsupported, "unsigned integer %d", u)
		}
		return Int(u), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		return valueOfArray(rv, depth)
	case reflect.Array:
		return valueOfArray(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			return Null{}, nil
		}
		return valueOfMap(rv, depth)
	case reflect.Struct:
		return valueOfStruct(rv, depth)
	default:
		return nil, errors.Wrapf(ErrUnsupported, "no support for type '%s'", rk.String())
	}
}

func valueOfArray(rv reflect.Value, depth int) (Value, error) {
	l := rv.Len()
	arr := make(Array, l)
	for i := 0; i < l; i++ {
		v, err := valueOf(rv.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return arr, nil
}

type sortableKey struct {
	rk  reflect.Value
	key Value
	enc []byte
}

func valueOfMap(rv reflect.Value, depth int) (Value, error) {
	mt := rv.Type()
	stringKeys := mt.Key().Kind() == reflect.String

	keys := make([]sortableKey, 0, rv.Len())
	for _, rk := range rv.MapKeys() {
		k, err := valueOf(rk, depth+1)
		if err != nil {
			return nil, err
		}
		var enc []byte
		if !stringKeys {
			if enc, err = Marshal(k); err != nil {
				return nil, err
			}
		}
		keys = append(keys, sortableKey{rk, k, enc})
	}
	if stringKeys {
		sort.Slice(keys, func(i, j int) bool { return keys[i].rk.String() < keys[j].rk.String() })
	} else {
		sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i].enc, keys[j].enc) < 0 })
	}

	if mt.Elem().Kind() == reflect.Struct && mt.Elem().NumField() == 0 {
		set := make(Set, len(keys))
		for i, k := range keys {
			set[i] = k.key
		}
		return set, nil
	}

	if stringKeys {
		o := make(Object, len(keys))
		for i, k := range keys {
			v, err := valueOf(rv.MapIndex(k.rk), depth+1)
			if err != nil {
				return nil, err
			}
			o[i] = Field{Name: k.rk.String(), Value: v}
		}
		return o, nil
	}

	m := make(Map, len(keys))
	for i, k := range keys {
		v, err := valueOf(rv.MapIndex(k.rk), depth+1)
		if err != nil {
			return nil, err
		}
		m[i] = Pair{Key: k.key, Value: v}
	}
	return m, nil
}

func valueOfStruct(rv reflect.Value, depth int) (Value, error) {
	tags := structTags.Get(rv.Type())
	o := make(Object, 0, len(tags))
	for _, t := range tags {
		f := rv.Field(t.id)
		if t.omitEmpty && f.IsZero() {
			continue
		}
		v, err := valueOf(f, depth+1)
		if err != nil {
			return nil, err
		}
		o = append(o, Field{Name: t.name, Value: v})
	}
	return o, nil
}

// Interface converts v into plain Go values: nil, bool, int64, float64,
// string, []interface{} for Array and Set, and map[string]interface{} for
// Object (later duplicate names win). A Map becomes map[interface{}]interface{}
// when every key is a scalar; otherwise it becomes a []interface{} of
// two-element []interface{}{key, value} pairs, since composite keys are not
// comparable in Go.
func Interface(v Value) interface{} {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(v)
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	case String:
		return string(v)
	case Array:
		return interfaceSlice(v)
	case Set:
		return interfaceSlice(v)
	case Object:
		m := make(map[string]interface{}, len(v))
		for _, f := range v {
			m[f.Name] = Interface(f.Value)
		}
		return m
	case Map:
		scalar := true
		for _, p := range v {
			switch KindOf(p.Key) {
			case KindArray, KindSet, KindMap, KindObject:
				scalar = false
			}
		}
		if scalar {
			m := make(map[interface{}]interface{}, len(v))
			for _, p := range v {
				m[Interface(p.Key)] = Interface(p.Value)
			}
			return m
		}
		pairs := make([]interface{}, len(v))
		for i, p := range v {
			pairs[i] = []interface{}{Interface(p.Key), Interface(p.Value)}
		}
		return pairs
	}
	return nil
}

func interfaceSlice(vs []Value) []interface{} {
	out := make([]interface{}, len(vs))
	for i, e := range vs {
		out[i] = Interface(e)
	}
	return out
}

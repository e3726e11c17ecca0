package transcode

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/tagstream/tagstream"
)

const (
	setKey = "$set"
	mapKey = "$map"
)

// ErrInvalidJSON is returned for JSON that cannot be read as a Value.
var ErrInvalidJSON = errors.New("transcode: invalid JSON")

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// ToJSON writes v to w as JSON.
func ToJSON(w io.Writer, v tagstream.Value) error {
	stream := api.BorrowStream(w)
	defer api.ReturnStream(stream)

	if err := writeValue(stream, v, 0); err != nil {
		return err
	}
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

// MarshalJSON returns v as JSON.
func MarshalJSON(v tagstream.Value) ([]byte, error) {
	var sb strings.Builder
	if err := ToJSON(&sb, v); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func writeValue(stream *jsoniter.Stream, v tagstream.Value, depth int) error {
	if depth > tagstream.DefaultMaxDepth {
		return tagstream.ErrTooDeep
	}

	switch v := v.(type) {
	case nil, tagstream.Null:
		stream.WriteNil()
	case tagstream.Bool:
		stream.WriteBool(bool(v))
	case tagstream.Int:
		stream.WriteInt64(int64(v))
	case tagstream.Float:
		return writeFloat(stream, float64(v))
	case tagstream.String:
		stream.WriteString(string(v))
	case tagstream.Array:
		return writeArray(stream, v, depth)
	case tagstream.Set:
		stream.WriteObjectStart()
		stream.WriteObjectField(setKey)
		if err := writeArray(stream, v, depth); err != nil {
			return err
		}
		stream.WriteObjectEnd()
	case tagstream.Map:
		stream.WriteObjectStart()
		stream.WriteObjectField(mapKey)
		stream.WriteArrayStart()
		for i, p := range v {
			if i > 0 {
				stream.WriteMore()
			}
			if err := writeArray(stream, []tagstream.Value{p.Key, p.Value}, depth); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
		stream.WriteObjectEnd()
	case tagstream.Object:
		stream.WriteObjectStart()
		for i, f := range v {
			if i > 0 {
				stream.WriteMore()
			}
			name := f.Name
			if strings.HasPrefix(name, "$") {
				name = "$" + name
			}
			stream.WriteObjectField(name)
			if err := writeValue(stream, f.Value, depth+1); err != nil {
				return err
			}
		}
		stream.WriteObjectEnd()
	default:
		return errors.Wrapf(tagstream.ErrUnsupported, "no support for type %T", v)
	}

	return nil
}

func writeArray(stream *jsoniter.Stream, vs []tagstream.Value, depth int) error {
	stream.WriteArrayStart()
	for i, e := range vs {
		if i > 0 {
			stream.WriteMore()
		}
		if err := writeValue(stream, e, depth+1); err != nil {
			return err
		}
	}
	stream.WriteArrayEnd()
	return nil
}

func writeFloat(stream *jsoniter.Stream, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.Wrapf(tagstream.ErrUnsupported, "float %v has no JSON form", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	stream.WriteRaw(s)
	return nil
}

// FromJSON parses one JSON document into a Value.
func FromJSON(data []byte) (tagstream.Value, error) {
	iter := jsoniter.ParseBytes(api, data)

	v, err := readValue(iter, 0)
	if err != nil {
		return nil, err
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(ErrInvalidJSON, iter.Error.Error())
	}
	// only whitespace may follow, so the next read must hit EOF
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || iter.Error != io.EOF {
		return nil, errors.Wrap(ErrInvalidJSON, "trailing data after document")
	}

	return v, nil
}

func readValue(iter *jsoniter.Iterator, depth int) (tagstream.Value, error) {
	if depth > tagstream.DefaultMaxDepth {
		return nil, tagstream.ErrTooDeep
	}

	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return tagstream.Null{}, nil
	case jsoniter.BoolValue:
		return tagstream.Bool(iter.ReadBool()), nil
	case jsoniter.StringValue:
		return tagstream.String(iter.ReadString()), nil
	case jsoniter.NumberValue:
		return parseNumber(string(iter.ReadNumber()))
	case jsoniter.ArrayValue:
		return readArray(iter, depth)
	case jsoniter.ObjectValue:
		return readObject(iter, depth)
	}

	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(ErrInvalidJSON, iter.Error.Error())
	}
	return nil, errors.Wrap(ErrInvalidJSON, "expected a value")
}

func parseNumber(s string) (tagstream.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return tagstream.Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidJSON, "number %q", s)
	}
	return tagstream.Float(f), nil
}

func readArray(iter *jsoniter.Iterator, depth int) (tagstream.Array, error) {
	arr := tagstream.Array{}
	var err error
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		var v tagstream.Value
		if v, err = readValue(it, depth+1); err != nil {
			return false
		}
		arr = append(arr, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(ErrInvalidJSON, iter.Error.Error())
	}
	return arr, nil
}

func readObject(iter *jsoniter.Iterator, depth int) (tagstream.Value, error) {
	o := tagstream.Object{}
	var err error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		var v tagstream.Value
		if v, err = readValue(it, depth+1); err != nil {
			return false
		}
		o = append(o, tagstream.Field{Name: field, Value: v})
		return true
	})
	if err != nil {
		return nil, err
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(ErrInvalidJSON, iter.Error.Error())
	}

	if len(o) == 1 {
		switch o[0].Name {
		case setKey:
			arr, ok := o[0].Value.(tagstream.Array)
			if !ok {
				return nil, errors.Wrap(ErrInvalidJSON, "$set needs an array")
			}
			return tagstream.Set(arr), nil
		case mapKey:
			return pairsToMap(o[0].Value)
		}
	}

	for i := range o {
		if strings.HasPrefix(o[i].Name, "$$") {
			o[i].Name = o[i].Name[1:]
		}
	}
	return o, nil
}

func pairsToMap(v tagstream.Value) (tagstream.Value, error) {
	arr, ok := v.(tagstream.Array)
	if !ok {
		return nil, errors.Wrap(ErrInvalidJSON, "$map needs an array of pairs")
	}
	m := make(tagstream.Map, len(arr))
	for i, e := range arr {
		pair, ok := e.(tagstream.Array)
		if !ok || len(pair) != 2 {
			return nil, errors.Wrapf(ErrInvalidJSON, "$map entry %d is not a [key, value] pair", i)
		}
		m[i] = tagstream.Pair{Key: pair[0], Value: pair[1]}
	}
	return m, nil
}

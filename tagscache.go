package tagstream

import (
	"reflect"
	"strings"
	"sync"
)

// tagsCache remembers how each struct type maps onto Object fields.
type tagsCache struct {
	cmap sync.Map // reflect.Type -> []tag
}

type tag struct {
	id        int
	name      string
	omitEmpty bool
}

var structTags tagsCache

// Get returns the encodable fields of the struct type t in declaration
// order.
func (tc *tagsCache) Get(t reflect.Type) []tag {
	if t.Kind() != reflect.Struct {
		return nil
	}

	if m, ok := tc.cmap.Load(t); ok {
		return m.([]tag)
	}

	var m []tag

	l := t.NumField()
	for i := 0; i < l; i++ {
		field := t.Field(i)
		name, opts := parseTag(field.Tag.Get("tagstream"))
		if name == "-" {
			// tagstream tag is "-" -- skip
			continue
		}

		if field.PkgPath != "" {
			// field not exported -- skip
			continue
		}

		if name == "" {
			name = field.Name
		}
		m = append(m, tag{i, name, opts.Contains("omitempty")})
	}

	actual, _ := tc.cmap.LoadOrStore(t, m)
	return actual.([]tag)
}

type tagOptions string

// parseTag splits a struct field's tag into its name and comma-separated
// options.
func parseTag(tag string) (string, tagOptions) {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx], tagOptions(tag[idx+1:])
	}
	return tag, ""
}

// Contains reports whether a comma-separated list of options contains a
// particular option.
func (o tagOptions) Contains(option string) bool {
	s := string(o)
	for s != "" {
		var next string
		if i := strings.Index(s, ","); i >= 0 {
			s, next = s[:i], s[i+1:]
		}
		if s == option {
			return true
		}
		s = next
	}
	return false
}

// Package transcode converts between tagstream Values and JSON.
//
// Objects keep their field order in both directions. JSON has no set or
// non-string-keyed map, so those are written as single-field objects:
//
//	{"$set": [elem, ...]}
//	{"$map": [[key, value], ...]}
//
// Object field names that start with "$" are written with a second "$" in
// front so they cannot be mistaken for these forms. Floats are always
// written with a fraction or exponent and integers never are, which keeps
// Int and Float apart on the way back.
package transcode

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema decodes configuration into Go values from an explicitly
// declared field list instead of reflection.
//
// A Schema is a list of Fields, each pairing a name with a destination
// pointer and the type it expects:
//
//	var cfg struct {
//	    Name string
//	    DB   struct {
//	        Host string
//	        Port int
//	    }
//	}
//	s := schema.Schema{
//	    schema.String("name", &cfg.Name).Required(),
//	    schema.Section("db", schema.Schema{
//	        schema.String("host", &cfg.DB.Host),
//	        schema.Int("port", &cfg.DB.Port),
//	    }),
//	}
//
// Names are matched after normalization (see [key.Normalize]); when several
// input keys normalize to the same name the lexically first one is used.
// Unknown input keys are ignored and fields without input keep their current
// value unless they are marked Required. Integers are parsed as base 10 and an
// empty value is a type mismatch for every scalar but String.
package schema

import (
	"encoding"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/z5labs/iniconfig/internal/coerce"
	"github.com/z5labs/iniconfig/key"
)

var (
	// ErrMissingField is the cause of a FieldError for required fields
	// with no corresponding input.
	ErrMissingField = errors.New("missing required field")

	// ErrTypeMismatch is the cause of a FieldError for input which can
	// not be coerced to the field type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// FieldError identifies the field which failed to decode and why.
type FieldError struct {
	// Field is the dot separated path of the field e.g. "db.port".
	Field string
	Cause error
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e FieldError) Unwrap() error {
	return e.Cause
}

// Input is the structure a Schema is decoded from. Values and section
// names share a single namespace; a value shadows a section of the same name.
type Input struct {
	Values   map[string]string
	Sections map[string]map[string]string
}

type node struct {
	value     string
	section   map[string]string
	isSection bool
}

func (in Input) lookup(name string) (node, bool) {
	if k, ok := find(in.Values, name); ok {
		return node{value: in.Values[k]}, true
	}
	if k, ok := find(in.Sections, name); ok {
		return node{section: in.Sections[k], isSection: true}, true
	}
	return node{}, false
}

// find returns the lexically first key matching name after
// normalization.
func find[V any](m map[string]V, name string) (string, bool) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if key.Match(k, name) {
			return k, true
		}
	}
	return "", false
}

// Field describes a single named destination.
type Field struct {
	name     string
	required bool
	decode   func(path string, n node) error
}

// Name returns the field name.
func (f Field) Name() string {
	return f.name
}

// Required returns a copy of f which fails to decode with ErrMissingField
// when the input has no corresponding key.
func (f Field) Required() Field {
	f.required = true
	return f
}

// Schema is an ordered list of fields.
type Schema []Field

// Decode assigns every field of s from in. Decoding stops at the first
// failing field.
func (s Schema) Decode(in Input) error {
	return s.decode("", in)
}

func (s Schema) decode(prefix string, in Input) error {
	for _, f := range s {
		path := f.name
		if prefix != "" {
			path = prefix + "." + f.name
		}

		n, ok := in.lookup(f.name)
		if !ok {
			if f.required {
				return FieldError{Field: path, Cause: ErrMissingField}
			}
			continue
		}

		err := f.decode(path, n)
		if err != nil {
			return err
		}
	}
	return nil
}

func mismatch(path, reason string) error {
	return FieldError{
		Field: path,
		Cause: fmt.Errorf("%w: %s", ErrTypeMismatch, reason),
	}
}

func scalar[T any](name string, dst *T, parse func(string) (T, error)) Field {
	return Field{
		name: name,
		decode: func(path string, n node) error {
			if n.isSection {
				return mismatch(path, "expected a value but found a section")
			}
			v, err := parse(n.value)
			if err != nil {
				return FieldError{
					Field: path,
					Cause: fmt.Errorf("%w: %w", ErrTypeMismatch, err),
				}
			}
			*dst = v
			return nil
		},
	}
}

// String declares a string field.
func String(name string, dst *string) Field {
	return scalar(name, dst, func(s string) (string, error) {
		return s, nil
	})
}

// Bool declares a bool field. Accepted values are those of strconv.ParseBool.
func Bool(name string, dst *bool) Field {
	return scalar(name, dst, coerce.Bool)
}

// Int declares an int field. Values are always base 10, "010" is 10.
func Int(name string, dst *int) Field {
	return scalar(name, dst, func(s string) (int, error) {
		n, err := coerce.Int(s, strconv.IntSize)
		return int(n), err
	})
}

// Int64 declares an int64 field. Values are always base 10.
func Int64(name string, dst *int64) Field {
	return scalar(name, dst, func(s string) (int64, error) {
		return coerce.Int(s, 64)
	})
}

// Float64 declares a float64 field.
func Float64(name string, dst *float64) Field {
	return scalar(name, dst, func(s string) (float64, error) {
		return coerce.Float(s, 64)
	})
}

// Duration declares a time.Duration field. Values without a unit are
// interpreted as nanoseconds.
func Duration(name string, dst *time.Duration) Field {
	return scalar(name, dst, coerce.Duration)
}

// Text declares a field decoded by its own UnmarshalText method.
func Text(name string, dst encoding.TextUnmarshaler) Field {
	return Field{
		name: name,
		decode: func(path string, n node) error {
			if n.isSection {
				return mismatch(path, "expected a value but found a section")
			}
			err := dst.UnmarshalText([]byte(n.value))
			if err != nil {
				return FieldError{Field: path, Cause: err}
			}
			return nil
		},
	}
}

// StringMap declares a field receiving a copy of a whole section. Of
// the keys normalizing to the same name only the lexically first is kept.
func StringMap(name string, dst *map[string]string) Field {
	return Field{
		name: name,
		decode: func(path string, n node) error {
			if !n.isSection {
				return mismatch(path, "expected a section but found a value")
			}
			*dst = key.Distinct(n.section)
			return nil
		},
	}
}

// Section declares a nested record decoded from a section using s.
func Section(name string, s Schema) Field {
	return Field{
		name: name,
		decode: func(path string, n node) error {
			if !n.isSection {
				return mismatch(path, "expected a section but found a value")
			}
			return s.decode(path, Input{Values: n.section})
		},
	}
}

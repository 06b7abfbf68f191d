// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package coerce converts raw configuration values to scalar types.
// It is shared by struct and schema based mapping so both agree on
// which strings are valid for a given type.
package coerce

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// ErrEmptyValue is returned when an empty value is coerced to a
// non-string scalar.
var ErrEmptyValue = errors.New("empty value")

// Int parses s as a base 10 integer which fits in bitSize bits.
// Leading zeros do not change the base, "010" is 10.
func Int(s string, bitSize int) (int64, error) {
	if s == "" {
		return 0, ErrEmptyValue
	}
	return strconv.ParseInt(s, 10, bitSize)
}

// Uint parses s as a base 10 unsigned integer which fits in bitSize bits.
func Uint(s string, bitSize int) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyValue
	}
	return strconv.ParseUint(s, 10, bitSize)
}

// Float parses s as a floating point number which fits in bitSize bits.
func Float(s string, bitSize int) (float64, error) {
	if s == "" {
		return 0, ErrEmptyValue
	}
	if bitSize == 32 {
		f, err := cast.ToFloat32E(s)
		return float64(f), err
	}
	return cast.ToFloat64E(s)
}

// Bool accepts the values of strconv.ParseBool.
func Bool(s string) (bool, error) {
	if s == "" {
		return false, ErrEmptyValue
	}
	return cast.ToBoolE(s)
}

// Duration parses s as a time.Duration. Values without a unit are
// nanoseconds.
func Duration(s string) (time.Duration, error) {
	if s == "" {
		return 0, ErrEmptyValue
	}
	return cast.ToDurationE(s)
}

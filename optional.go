// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package iniconfig

// Optional represents a value which may or may not be present. It
// distinguishes "no configuration" from a failed load.
type Optional[T any] struct {
	value T
	set   bool
}

// OptionalOf returns a present Optional holding v.
func OptionalOf[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Value returns the underlying value and whether it is present.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set
}

// Or returns the underlying value if present, otherwise def.
func (o Optional[T]) Or(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

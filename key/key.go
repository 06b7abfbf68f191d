// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for addressing configuration values
// by section and key.
package key

import (
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys.
type Chain []Keyer

// Key implements the [Keyer] interface. Keys are joined with ".".
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range len(k) {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}

// Name represents a single key. Name is used verbatim, brackets and
// dots included.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Of returns the Keyer addressing key within section. Keys of the
// root section are addressed by their name alone.
func Of(section, key string) Keyer {
	if section == "" {
		return Name(key)
	}
	return Chain{Name(section), Name(key)}
}

// Normalize folds s for name matching: it is lower cased and
// '_' and '-' are dropped, so "max_conns", "max-conns" and
// "MaxConns" all normalize to "maxconns".
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Match reports whether a and b are equal after normalization.
func Match(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Distinct returns a copy of m holding a single key per normalized
// name. Of the keys which normalize to the same name, the lexically
// first one is kept.
func Distinct[V any](m map[string]V) map[string]V {
	seen := make(map[string]struct{}, len(m))
	out := make(map[string]V, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		n := Normalize(k)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out[k] = m[k]
	}
	return out
}

// Unshadow returns a copy of flat without the keys nested below
// another key of flat, e.g. "db.host" is dropped when "db" is present.
// The result can be expanded into nested maps without one key
// overwriting another.
func Unshadow[V any](flat map[string]V) map[string]V {
	out := make(map[string]V, len(flat))
	for k, v := range flat {
		if !shadowed(flat, k) {
			out[k] = v
		}
	}
	return out
}

func shadowed[V any](flat map[string]V, k string) bool {
	for i := range len(k) {
		if k[i] != '.' {
			continue
		}
		if _, ok := flat[k[:i]]; ok {
			return true
		}
	}
	return false
}

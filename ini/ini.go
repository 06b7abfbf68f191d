// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ini parses INI formatted text into an ordered, two level
// section -> key -> value structure.
//
// The empty section name denotes the root section which holds every
// key that appears before the first section header.
//
// Duplicates are resolved by plain overwrite: assigning a key twice within
// a section keeps the last value, and re-opening a section header merges
// into the existing section instead of replacing it.
package ini

import (
	"maps"
	"slices"
)

// Map is the two level section -> key -> value structure.
type Map map[string]map[string]string

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	c := make(Map, len(m))
	for name, section := range m {
		c[name] = maps.Clone(section)
		if c[name] == nil {
			c[name] = make(map[string]string)
		}
	}
	return c
}

// Document is a parsed INI document. Unlike Map, Document remembers
// the order in which sections and keys were first seen.
type Document struct {
	sections map[string]map[string]string
	order    []string
	keys     map[string][]string
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{
		sections: make(map[string]map[string]string),
		keys:     make(map[string][]string),
	}
}

// FromMap builds a Document from m. Go maps do not carry insertion
// order so sections and keys are ordered lexically.
func FromMap(m Map) *Document {
	d := NewDocument()
	for _, name := range slices.Sorted(maps.Keys(m)) {
		d.Open(name)

		section := m[name]
		for _, k := range slices.Sorted(maps.Keys(section)) {
			d.Set(name, k, section[k])
		}
	}
	return d
}

// Open creates the named section if it does not exist yet.
// Opening an existing section is a no-op.
func (d *Document) Open(section string) {
	if _, ok := d.sections[section]; ok {
		return
	}
	d.sections[section] = make(map[string]string)
	d.order = append(d.order, section)
}

// Set assigns value to key within section, creating the section if needed.
// A later Set of the same key overwrites the earlier value.
func (d *Document) Set(section, key, value string) {
	d.Open(section)

	values := d.sections[section]
	if _, ok := values[key]; !ok {
		d.keys[section] = append(d.keys[section], key)
	}
	values[key] = value
}

// Lookup returns the value of key within section.
func (d *Document) Lookup(section, key string) (string, bool) {
	values, ok := d.sections[section]
	if !ok {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

// HasSection reports whether the named section exists.
func (d *Document) HasSection(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Sections returns the section names in the order they were first seen.
func (d *Document) Sections() []string {
	return slices.Clone(d.order)
}

// Keys returns the keys of section in the order they were first assigned.
func (d *Document) Keys(section string) []string {
	return slices.Clone(d.keys[section])
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.order)
}

// Map returns a deep copy of the document contents.
func (d *Document) Map() Map {
	return Map(d.sections).Clone()
}

// Reroot returns a new Document whose root section is a copy of the
// named section. All other sections are discarded.
func (d *Document) Reroot(section string) (*Document, bool) {
	values, ok := d.sections[section]
	if !ok {
		return nil, false
	}

	sub := NewDocument()
	sub.Open("")
	for _, k := range d.keys[section] {
		sub.Set("", k, values[k])
	}
	return sub, true
}

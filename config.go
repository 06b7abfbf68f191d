// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package iniconfig

import (
	"github.com/z5labs/iniconfig/ini"
	"github.com/z5labs/iniconfig/key"

	"gopkg.in/yaml.v3"
)

// Config is an immutable, queryable view over a parsed INI document.
//
// A nil *Config behaves as an empty configuration, which makes it safe to
// use the zero value returned alongside an absent Optional.
type Config struct {
	doc *ini.Document
}

// New returns a Config holding a copy of m.
func New(m ini.Map) *Config {
	return &Config{doc: ini.FromMap(m)}
}

// Value looks up key in the root section.
func (c *Config) Value(key string) (string, bool) {
	return c.SectionValue("", key)
}

// SectionValue looks up key within the named section.
func (c *Config) SectionValue(section, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.doc.Lookup(section, key)
}

// Section returns a new Config whose root section is the named section.
// All other sections are dropped, which allows a single section to be
// mapped on its own.
func (c *Config) Section(name string) (*Config, bool) {
	if c == nil {
		return nil, false
	}
	doc, ok := c.doc.Reroot(name)
	if !ok {
		return nil, false
	}
	return &Config{doc: doc}, true
}

// Sections returns the section names in the order they first appeared.
func (c *Config) Sections() []string {
	if c == nil {
		return nil
	}
	return c.doc.Sections()
}

// Keys returns the keys of section in the order they first appeared.
func (c *Config) Keys(section string) []string {
	if c == nil {
		return nil
	}
	return c.doc.Keys(section)
}

// Map returns a copy of the full section -> key -> value structure.
func (c *Config) Map() ini.Map {
	if c == nil {
		return ini.Map{}
	}
	return c.doc.Map()
}

// Flatten returns a single level "section.key" -> value mapping.
// Root section keys are used as is. Key names are never reinterpreted,
// so "[key3]" in section "section1" becomes "section1.[key3]".
func (c *Config) Flatten() map[string]string {
	flat := make(map[string]string)
	if c == nil {
		return flat
	}
	for _, section := range c.doc.Sections() {
		for _, k := range c.doc.Keys(section) {
			v, _ := c.doc.Lookup(section, k)
			flat[key.Of(section, k).Key()] = v
		}
	}
	return flat
}

// MarshalYAML implements the yaml.Marshaler interface. Sections and keys
// are emitted in document order, which makes the output stable enough
// for debugging and golden files.
func (c *Config) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range c.Sections() {
		values := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range c.doc.Keys(section) {
			v, _ := c.doc.Lookup(section, k)
			values.Content = append(values.Content, stringNode(k), stringNode(v))
		}
		root.Content = append(root.Content, stringNode(section), values)
	}
	return root, nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

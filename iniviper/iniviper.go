// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package iniviper hands INI configuration over to [viper].
//
// Values are registered as viper defaults under their flattened
// "section.key" name, so flags, environment variables and explicit
// Set calls bound to the returned instance still take precedence.
// A key nested below another key, e.g. "db.host" next to a root key
// "db", is not registered so the root value is not replaced by a map.
package iniviper

import (
	"io/fs"
	"maps"
	"slices"

	"github.com/z5labs/iniconfig"
	"github.com/z5labs/iniconfig/key"

	"github.com/spf13/viper"
)

// New returns a viper instance holding every value of cfg. A nil cfg
// results in an empty instance.
func New(cfg *iniconfig.Config) *viper.Viper {
	v := viper.New()

	flat := key.Unshadow(cfg.Flatten())
	for _, k := range slices.Sorted(maps.Keys(flat)) {
		v.SetDefault(k, flat[k])
	}
	return v
}

// Load reads the INI file at path. A missing file results in an empty
// viper instance rather than an error.
func Load(path string, opts ...iniconfig.LoadOption) (*viper.Viper, error) {
	o, err := iniconfig.Load(path, opts...)
	if err != nil {
		return nil, err
	}
	cfg, _ := o.Value()
	return New(cfg), nil
}

// LoadFS reads the INI resource name from fsys. A missing resource
// results in an empty viper instance rather than an error.
func LoadFS(fsys fs.FS, name string, opts ...iniconfig.LoadOption) (*viper.Viper, error) {
	o, err := iniconfig.LoadFS(fsys, name, opts...)
	if err != nil {
		return nil, err
	}
	cfg, _ := o.Value()
	return New(cfg), nil
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package inikoanf implements a [koanf.Provider] backed by INI configuration.
//
//	k := koanf.New(".")
//	err := k.Load(inikoanf.File("app.ini"), nil)
//
// Values are exposed under their flattened "section.key" name. A missing
// file or resource provides an empty configuration. A key whose dotted
// prefix is also a key, e.g. "db.host" next to a root key "db", is left
// out so the root value wins.
package inikoanf

import (
	"errors"
	"io/fs"

	"github.com/z5labs/iniconfig"
	"github.com/z5labs/iniconfig/key"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/v2"
)

var _ koanf.Provider = (*Provider)(nil)

// ErrBytesNotSupported is returned by ReadBytes. The provider already
// parses its source so it must be loaded with a nil koanf.Parser.
var ErrBytesNotSupported = errors.New("inikoanf provider does not support ReadBytes")

// Provider implements koanf.Provider.
type Provider struct {
	load func() (iniconfig.Optional[*iniconfig.Config], error)
}

// File returns a Provider reading the INI file at path.
func File(path string, opts ...iniconfig.LoadOption) *Provider {
	return &Provider{
		load: func() (iniconfig.Optional[*iniconfig.Config], error) {
			return iniconfig.Load(path, opts...)
		},
	}
}

// FS returns a Provider reading the INI resource name from fsys.
func FS(fsys fs.FS, name string, opts ...iniconfig.LoadOption) *Provider {
	return &Provider{
		load: func() (iniconfig.Optional[*iniconfig.Config], error) {
			return iniconfig.LoadFS(fsys, name, opts...)
		},
	}
}

// Config returns a Provider serving an already loaded Config.
// A nil cfg provides an empty configuration.
func Config(cfg *iniconfig.Config) *Provider {
	return &Provider{
		load: func() (iniconfig.Optional[*iniconfig.Config], error) {
			if cfg == nil {
				return iniconfig.Optional[*iniconfig.Config]{}, nil
			}
			return iniconfig.OptionalOf(cfg), nil
		},
	}
}

// ReadBytes implements the koanf.Provider interface.
func (p *Provider) ReadBytes() ([]byte, error) {
	return nil, ErrBytesNotSupported
}

// Read implements the koanf.Provider interface. It returns the
// configuration as a nested map split on ".".
func (p *Provider) Read() (map[string]any, error) {
	o, err := p.load()
	if err != nil {
		return nil, err
	}

	cfg, _ := o.Value()
	flat := key.Unshadow(cfg.Flatten())

	m := make(map[string]any, len(flat))
	for k, v := range flat {
		m[k] = v
	}
	return maps.Unflatten(m, "."), nil
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package iniconfig

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"syscall"

	"github.com/z5labs/iniconfig/ini"
	"github.com/z5labs/iniconfig/internal/noop"
	"github.com/z5labs/iniconfig/internal/try"
)

// LoadOption configures how configuration is loaded.
type LoadOption func(*loadOptions)

type loadOptions struct {
	logHandler    slog.Handler
	name          string
	skipMalformed bool
}

// LogHandler configures the slog.Handler used to report load events.
// By default nothing is logged.
func LogHandler(h slog.Handler) LoadOption {
	return func(lo *loadOptions) {
		lo.logHandler = h
	}
}

// Name sets the source name reported in parse errors and logs.
// Load and LoadFS default it to the given path.
func Name(name string) LoadOption {
	return func(lo *loadOptions) {
		lo.name = name
	}
}

// SkipMalformedLines makes the parser log and skip lines without a
// '=' separator instead of failing the whole load.
func SkipMalformedLines() LoadOption {
	return func(lo *loadOptions) {
		lo.skipMalformed = true
	}
}

func newLoadOptions(name string, opts []LoadOption) loadOptions {
	lo := loadOptions{
		logHandler: noop.LogHandler{},
		name:       name,
	}
	for _, opt := range opts {
		opt(&lo)
	}
	return lo
}

// Load reads the INI file at path. A file which does not exist is not
// an error; it results in an absent Optional. This includes paths
// running through a regular file, e.g. "app.ini/extra.ini".
func Load(path string, opts ...LoadOption) (Optional[*Config], error) {
	lo := newLoadOptions(path, opts)
	return lo.open(func() (io.Reader, error) {
		return os.Open(path)
	})
}

// LoadFS reads the INI file name from fsys, e.g. an embed.FS holding
// resources bundled with the program. A missing resource results in an
// absent Optional.
func LoadFS(fsys fs.FS, name string, opts ...LoadOption) (Optional[*Config], error) {
	lo := newLoadOptions(name, opts)
	return lo.open(func() (io.Reader, error) {
		return fsys.Open(name)
	})
}

// LoadReader parses INI text from r. A nil r results in an absent
// Optional. If r is also an io.Closer it is closed once parsing
// completes, successfully or not.
func LoadReader(r io.Reader, opts ...LoadOption) (Optional[*Config], error) {
	lo := newLoadOptions("", opts)
	return lo.load(r)
}

func (lo loadOptions) open(f func() (io.Reader, error)) (Optional[*Config], error) {
	log := slog.New(lo.logHandler)

	r, err := f()
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		log.Debug("configuration source does not exist", slog.String("name", lo.name))
		return Optional[*Config]{}, nil
	}
	if err != nil {
		return Optional[*Config]{}, err
	}
	return lo.load(r)
}

func (lo loadOptions) load(r io.Reader) (cfg Optional[*Config], err error) {
	log := slog.New(lo.logHandler)
	if r == nil {
		log.Debug("no configuration source provided", slog.String("name", lo.name))
		return Optional[*Config]{}, nil
	}
	defer try.Close(&err, r)

	parseOpts := []ini.ParseOption{ini.Name(lo.name)}
	if lo.skipMalformed {
		parseOpts = append(parseOpts, ini.OnMalformed(func(pe ini.ParseError) error {
			log.Warn(
				"skipping malformed configuration line",
				slog.String("name", pe.Name),
				slog.Int("line", pe.Line),
				slog.String("text", pe.Text),
			)
			return nil
		}))
	}

	doc, err := ini.Parse(r, parseOpts...)
	if err != nil {
		return Optional[*Config]{}, err
	}

	log.Debug(
		"loaded configuration",
		slog.String("name", lo.name),
		slog.Int("sections", doc.Len()),
	)
	return OptionalOf(&Config{doc: doc}), nil
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package iniconfig

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/z5labs/iniconfig/ini"
	"github.com/z5labs/iniconfig/internal/try"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testfile = `# test configuration
key1 = value1

[section1]
key1 = section1value1
key2 = section1value2 # trailing comment
[key3] = section1value3
`

type fsFunc func(string) (fs.File, error)

func (f fsFunc) Open(name string) (fs.File, error) {
	return f(name)
}

type readCloser struct {
	io.Reader
	closed   bool
	closeErr error
}

func (rc *readCloser) Close() error {
	rc.closed = true
	return rc.closeErr
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.ini")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}

func TestLoad(t *testing.T) {
	t.Run("will return an absent config", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			o, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
			if !assert.Nil(t, err) {
				return
			}

			cfg, ok := o.Value()
			if !assert.False(t, ok) {
				return
			}
			if !assert.Nil(t, cfg) {
				return
			}
		})

		t.Run("if a parent of the path is a regular file", func(t *testing.T) {
			parent := writeFile(t, testfile)

			o, err := Load(filepath.Join(parent, "config.ini"))
			if !assert.Nil(t, err) {
				return
			}

			_, ok := o.Value()
			if !assert.False(t, ok) {
				return
			}
		})
	})

	t.Run("will return an empty config", func(t *testing.T) {
		t.Run("if the file is empty", func(t *testing.T) {
			path := writeFile(t, "")

			o, err := Load(path)
			require.NoError(t, err)

			cfg, ok := o.Value()
			if !assert.True(t, ok) {
				return
			}
			if !assert.Empty(t, cfg.Map()) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the file contains a malformed line", func(t *testing.T) {
			path := writeFile(t, "key1 = value1\nnot a pair\n")

			_, err := Load(path)

			var perr ini.ParseError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, path, perr.Name) {
				return
			}
			if !assert.Equal(t, 2, perr.Line) {
				return
			}
		})

		t.Run("if the path is a directory", func(t *testing.T) {
			_, err := Load(t.TempDir())
			if !assert.Error(t, err) {
				return
			}
		})
	})

	t.Run("will parse the file", func(t *testing.T) {
		t.Run("if it exists", func(t *testing.T) {
			path := writeFile(t, testfile)

			o, err := Load(path)
			require.NoError(t, err)

			cfg, ok := o.Value()
			require.True(t, ok)

			expected := ini.Map{
				"": {"key1": "value1"},
				"section1": {
					"key1":   "section1value1",
					"key2":   "section1value2",
					"[key3]": "section1value3",
				},
			}
			if !assert.Equal(t, expected, cfg.Map()) {
				return
			}
			if !assert.Equal(t, "section1value3", cfg.Flatten()["section1.[key3]"]) {
				return
			}
		})
	})
}

func TestLoadFS(t *testing.T) {
	t.Run("will return an absent config", func(t *testing.T) {
		t.Run("if the resource does not exist", func(t *testing.T) {
			o, err := LoadFS(fstest.MapFS{}, "missing-file.ini")
			if !assert.Nil(t, err) {
				return
			}

			_, ok := o.Value()
			if !assert.False(t, ok) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the fs.FS fails to open the resource", func(t *testing.T) {
			openErr := errors.New("failed to open")
			fsys := fsFunc(func(string) (fs.File, error) {
				return nil, openErr
			})

			_, err := LoadFS(fsys, "testfile.ini")
			if !assert.ErrorIs(t, err, openErr) {
				return
			}
		})
	})

	t.Run("will parse the resource", func(t *testing.T) {
		t.Run("if it exists", func(t *testing.T) {
			fsys := fstest.MapFS{
				"testfile.ini": &fstest.MapFile{Data: []byte(testfile)},
			}

			o, err := LoadFS(fsys, "testfile.ini")
			require.NoError(t, err)

			cfg, ok := o.Value()
			require.True(t, ok)

			v, ok := cfg.SectionValue("section1", "key1")
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, "section1value1", v) {
				return
			}
		})
	})
}

func TestLoadReader(t *testing.T) {
	t.Run("will return an absent config", func(t *testing.T) {
		t.Run("if the io.Reader is nil", func(t *testing.T) {
			o, err := LoadReader(nil)
			if !assert.Nil(t, err) {
				return
			}

			_, ok := o.Value()
			if !assert.False(t, ok) {
				return
			}
		})
	})

	t.Run("will close the io.Reader", func(t *testing.T) {
		t.Run("if parsing succeeds", func(t *testing.T) {
			rc := &readCloser{Reader: strings.NewReader("key = value")}

			_, err := LoadReader(rc)
			require.NoError(t, err)
			assert.True(t, rc.closed)
		})

		t.Run("if parsing fails", func(t *testing.T) {
			rc := &readCloser{Reader: strings.NewReader("garbage")}

			_, err := LoadReader(rc)
			require.ErrorIs(t, err, ini.ErrMissingSeparator)
			assert.True(t, rc.closed)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if closing the io.Reader fails", func(t *testing.T) {
			closeErr := errors.New("failed to close")
			rc := &readCloser{
				Reader:   strings.NewReader("garbage"),
				closeErr: closeErr,
			}

			_, err := LoadReader(rc)

			var cerr try.CloseError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}
			if !assert.ErrorIs(t, err, ini.ErrMissingSeparator) {
				return
			}
		})
	})

	t.Run("will skip malformed lines", func(t *testing.T) {
		t.Run("if SkipMalformedLines is used", func(t *testing.T) {
			var buf bytes.Buffer
			h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			o, err := LoadReader(
				strings.NewReader("key1 = value1\ngarbage\nkey2 = value2"),
				Name("inline.ini"),
				SkipMalformedLines(),
				LogHandler(h),
			)
			require.NoError(t, err)

			cfg, ok := o.Value()
			require.True(t, ok)

			if !assert.Equal(t, ini.Map{"": {"key1": "value1", "key2": "value2"}}, cfg.Map()) {
				return
			}
			if !assert.Contains(t, buf.String(), `"msg":"skipping malformed configuration line"`) {
				return
			}
			if !assert.Contains(t, buf.String(), `"line":2`) {
				return
			}
			if !assert.Contains(t, buf.String(), `"name":"inline.ini"`) {
				return
			}
		})
	})
}

func TestOptional_Or(t *testing.T) {
	testCases := []struct {
		name     string
		optional Optional[string]
		expected string
	}{
		{name: "present value", optional: OptionalOf("value"), expected: "value"},
		{name: "present zero value", optional: OptionalOf(""), expected: ""},
		{name: "absent value", optional: Optional[string]{}, expected: "default"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.optional.Or("default"))
		})
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package iniconfig

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/z5labs/iniconfig/internal/coerce"
	"github.com/z5labs/iniconfig/key"
	"github.com/z5labs/iniconfig/schema"

	"github.com/go-viper/mapstructure/v2"
)

// MappingError occurs when configuration can not be projected onto
// a target value.
type MappingError struct {
	// Field is the path of the failing field, when known.
	Field string
	Cause error
}

// Error implements the error interface.
func (e MappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("failed to map config: %s", e.Cause)
	}
	return fmt.Sprintf("failed to map config field %s: %s", e.Field, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e MappingError) Unwrap() error {
	return e.Cause
}

// UnmarshalOption configures Config.Unmarshal.
type UnmarshalOption func(*unmarshalOptions)

type unmarshalOptions struct {
	tagName    string
	errorUnset bool
	hooks      []mapstructure.DecodeHookFunc
}

// TagName sets the struct tag used to rename fields. Defaults to "config".
func TagName(name string) UnmarshalOption {
	return func(uo *unmarshalOptions) {
		uo.tagName = name
	}
}

// ErrorUnset makes Unmarshal fail when a struct field has no
// corresponding configuration key.
func ErrorUnset() UnmarshalOption {
	return func(uo *unmarshalOptions) {
		uo.errorUnset = true
	}
}

// DecodeHook registers an additional mapstructure decode hook. Hooks
// run in registration order after the builtin ones, each receiving the
// output of the previous hook.
func DecodeHook(h mapstructure.DecodeHookFunc) UnmarshalOption {
	return func(uo *unmarshalOptions) {
		uo.hooks = append(uo.hooks, h)
	}
}

// Unmarshal projects the configuration onto v, which must be a non-nil pointer.
//
// Named sections become nested fields and root keys are flattened in next to
// them, a root key shadowing a section of the same name. Field names match
// keys case-insensitively with '_' and '-' ignored; when several keys match
// the same field the lexically first one is used. Unknown keys are ignored.
// Fields typed as a struct are decoded recursively from their section and
// fields typed as map[string]string receive a copy of the section. String values
// are coerced to numeric, bool, time.Duration and encoding.TextUnmarshaler fields.
// Integers are always base 10 and an empty value fails to coerce to any
// scalar other than a string.
func (c *Config) Unmarshal(v any, opts ...UnmarshalOption) error {
	uo := unmarshalOptions{
		tagName: "config",
	}
	for _, opt := range opts {
		opt(&uo)
	}

	builtin := composeDecodeHooks(
		textUnmarshalerHookFunc(),
		timeDurationHookFunc(),
		intHookFunc(),
		uintHookFunc(),
		floatHookFunc(),
		boolHookFunc(),
	)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          uo.tagName,
		Result:           v,
		ErrorUnset:       uo.errorUnset,
		WeaklyTypedInput: true,
		MatchName:        key.Match,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(builtin, pipeDecodeHooks(uo.hooks...)),
	})
	if err != nil {
		return err
	}

	err = dec.Decode(c.tree())
	if err != nil {
		return MappingError{Field: decodeErrorField(err), Cause: err}
	}
	return nil
}

// decodeErrorField recovers the field path mapstructure prefixes
// decode hook errors with.
func decodeErrorField(err error) string {
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if field := decodeErrorField(e); field != "" {
				return field
			}
		}
	case interface{ Unwrap() error }:
		cause := x.Unwrap()
		tce, ok := cause.(TypeCoercionError)
		if !ok {
			return decodeErrorField(cause)
		}
		prefix, suffix := "error decoding '", "': "+tce.Error()
		msg := err.Error()
		if strings.HasPrefix(msg, prefix) && strings.HasSuffix(msg, suffix) {
			return strings.TrimSuffix(strings.TrimPrefix(msg, prefix), suffix)
		}
	}
	return ""
}

// Decode assigns the fields declared by s from the configuration,
// following the same layout and name matching rules as Unmarshal.
func (c *Config) Decode(s schema.Schema) error {
	err := s.Decode(c.input())
	if err == nil {
		return nil
	}

	var ferr schema.FieldError
	if errors.As(err, &ferr) {
		return MappingError{Field: ferr.Field, Cause: err}
	}
	return MappingError{Cause: err}
}

func (c *Config) tree() map[string]any {
	in := c.input()
	values := key.Distinct(in.Values)

	t := make(map[string]any)
	for name, section := range key.Distinct(in.Sections) {
		if _, ok := findNormalized(values, name); ok {
			continue
		}
		m := make(map[string]any, len(section))
		for k, v := range key.Distinct(section) {
			m[k] = v
		}
		t[name] = m
	}
	for k, v := range values {
		t[k] = v
	}
	return t
}

func findNormalized(m map[string]string, name string) (string, bool) {
	for k := range m {
		if key.Match(k, name) {
			return k, true
		}
	}
	return "", false
}

func (c *Config) input() schema.Input {
	in := schema.Input{
		Values:   make(map[string]string),
		Sections: make(map[string]map[string]string),
	}
	for name, section := range c.Map() {
		if name == "" {
			in.Values = section
			continue
		}
		in.Sections[name] = section
	}
	return in
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when attempting to unmarshal a config
// value to a struct field whose type does not match the config
// value type, up to, coercion.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

// pipeDecodeHooks runs hs in order, handing each hook the output of
// the previous one.
func pipeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	pipe := mapstructure.ComposeDecodeHookFunc(hs...)
	return func(f, t reflect.Value) (any, error) {
		v, err := mapstructure.DecodeHookExec(pipe, f, t)
		if err != nil {
			return nil, TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
		}
		return v, nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(data.(string)))
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) || f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		return coerce.Duration(data.(string))
	}
}

func intHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return nil, errInvalidDecodeCondition
		}
		n, err := coerce.Int(data.(string), t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	}
}

func uintHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return nil, errInvalidDecodeCondition
		}
		n, err := coerce.Uint(data.(string), t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	}
}

func floatHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		if t.Kind() != reflect.Float32 && t.Kind() != reflect.Float64 {
			return nil, errInvalidDecodeCondition
		}
		n, err := coerce.Float(data.(string), t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	}
}

func boolHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return nil, errInvalidDecodeCondition
		}
		b, err := coerce.Bool(data.(string))
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(b).Convert(t).Interface(), nil
	}
}

// LoadMapped loads the INI file at path and unmarshals it into a T.
// A missing file results in an absent Optional.
func LoadMapped[T any](path string, opts ...LoadOption) (Optional[T], error) {
	return mapped[T](Load(path, opts...))
}

// LoadMappedFS loads name from fsys and unmarshals it into a T.
// A missing resource results in an absent Optional.
func LoadMappedFS[T any](fsys fs.FS, name string, opts ...LoadOption) (Optional[T], error) {
	return mapped[T](LoadFS(fsys, name, opts...))
}

// LoadMappedReader parses r and unmarshals it into a T. A nil r
// results in an absent Optional.
func LoadMappedReader[T any](r io.Reader, opts ...LoadOption) (Optional[T], error) {
	return mapped[T](LoadReader(r, opts...))
}

func mapped[T any](o Optional[*Config], err error) (Optional[T], error) {
	if err != nil {
		return Optional[T]{}, err
	}
	cfg, ok := o.Value()
	if !ok {
		return Optional[T]{}, nil
	}

	var v T
	err = cfg.Unmarshal(&v)
	if err != nil {
		return Optional[T]{}, err
	}
	return OptionalOf(v), nil
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineSize is the longest line, in bytes, Parse will accept.
const MaxLineSize = 1 << 20

// ErrMissingSeparator is the cause of a ParseError for content lines
// which contain no '=' between key and value.
var ErrMissingSeparator = errors.New("missing '=' separator")

// ParseError occurs when a line can not be interpreted as a comment,
// section header or key value assignment.
type ParseError struct {
	// Name identifies the parsed source e.g. a file path. It may be empty.
	Name string

	// Line is the 1-based line number.
	Line int

	// Text is the offending line after trimming.
	Text string

	Cause error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	name := e.Name
	if name == "" {
		name = "ini"
	}
	return fmt.Sprintf("%s:%d: %s: %q", name, e.Line, e.Cause, e.Text)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

// ParseOption configures Parse.
type ParseOption func(*parser)

// Name sets the source name reported by ParseError.
func Name(name string) ParseOption {
	return func(p *parser) {
		p.name = name
	}
}

// OnMalformed registers f to decide what happens to malformed lines.
// Returning nil skips the line, returning an error aborts parsing with it.
// By default, the ParseError itself is returned.
func OnMalformed(f func(ParseError) error) ParseOption {
	return func(p *parser) {
		p.onMalformed = f
	}
}

type parser struct {
	name        string
	onMalformed func(ParseError) error

	doc     *Document
	section string
}

// Parse reads INI text from r line by line.
//
// Each line is trimmed and anything from the first " #" onwards is
// discarded. Empty lines and lines starting with '#' or ';' are skipped.
// "[name]" opens section name. Every other line is split on its first '='
// into a trimmed key and value which are stored under the current section.
func Parse(r io.Reader, opts ...ParseOption) (*Document, error) {
	p := &parser{
		onMalformed: func(pe ParseError) error { return pe },
		doc:         NewDocument(),
	}
	for _, opt := range opts {
		opt(p)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if n == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		err := p.parseLine(n, line)
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) parseLine(n int, line string) error {
	line = strings.TrimSpace(line)
	line, _, _ = strings.Cut(line, " #")
	line = strings.TrimSpace(line)

	switch {
	case line == "":
	case line[0] == '#', line[0] == ';':
	case len(line) >= 2 && line[0] == '[' && line[len(line)-1] == ']':
		p.section = line[1 : len(line)-1]
		p.doc.Open(p.section)
	default:
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return p.onMalformed(ParseError{
				Name:  p.name,
				Line:  n,
				Text:  line,
				Cause: ErrMissingSeparator,
			})
		}
		p.doc.Set(p.section, strings.TrimSpace(k), strings.TrimSpace(v))
	}
	return nil
}

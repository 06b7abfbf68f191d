// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package iniconfig loads INI formatted configuration into a queryable,
// immutable Config and projects it onto typed values.
//
// # Input format
//
//	name = my-app            # inline comments need a leading space
//	; full line comments start with ';' or '#'
//
//	[database]
//	host = localhost
//	port = 5432
//
// Keys before the first section header belong to the root section, which
// is identified by the empty string. A key assigned twice keeps its last
// value and a section header seen twice merges into the earlier section.
// Lines without a '=' separator are reported as an [ini.ParseError] unless
// [SkipMalformedLines] is used.
//
// # Loading
//
// Optional configuration is the expected case: a file which does not exist,
// a missing fs.FS resource and a nil io.Reader all load as an absent
// [Optional] rather than an error.
//
//	o, err := iniconfig.Load("app.ini")
//	if err != nil {
//	    return err
//	}
//	cfg, ok := o.Value()
//
// # Querying
//
//	name, ok := cfg.Value("name")
//	host, ok := cfg.SectionValue("database", "host")
//	db, ok := cfg.Section("database") // "database" becomes the root section
//	flat := cfg.Flatten()             // {"name": ..., "database.host": ...}
//
// # Mapping
//
// Unmarshal uses struct fields and tags, Decode an explicit [schema.Schema]:
//
//	var app struct {
//	    Name     string
//	    Database struct {
//	        Host string
//	        Port int
//	    }
//	}
//	err := cfg.Unmarshal(&app)
package iniconfig

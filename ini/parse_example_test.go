// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ini

import (
	"fmt"
	"strings"
)

func ExampleParse() {
	r := strings.NewReader(`
name = example # inline comment

; database settings
[database]
host = localhost
port = 5432
`)

	doc, err := Parse(r)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, section := range doc.Sections() {
		for _, k := range doc.Keys(section) {
			v, _ := doc.Lookup(section, k)
			fmt.Printf("[%s] %s=%s\n", section, k, v)
		}
	}
	// Output: [] name=example
	// [database] host=localhost
	// [database] port=5432
}

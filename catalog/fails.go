// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"bufio"
	"bytes"
	"os"
	"strings"
)

// A FailSet is the set of benchmarks excluded from backend wildcard
// expansion because they are known to fail.
type FailSet map[string]bool

// Contains reports whether name is in the fail-set.
func (s FailSet) Contains(name string) bool {
	return s[name]
}

// LoadFailList reads a fail-list: one benchmark name per line. Blank
// lines and lines starting with '#' are ignored.
func LoadFailList(path string) (FailSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{path, err}
	}
	set := make(FailSet)
	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = true
	}
	if err := s.Err(); err != nil {
		return nil, &ConfigurationError{path, err}
	}
	return set, nil
}

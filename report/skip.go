// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"io/fs"
	"os"
)

// A SkipSet is the set of benchmark names that already have a result.
type SkipSet map[string]bool

// Contains reports whether name is in s. A nil SkipSet is empty.
func (s SkipSet) Contains(name string) bool {
	return s[name]
}

// Load reads the report at path and returns the names of its
// well-formed results. Malformed lines are returned separately and
// their names are not skipped. A missing report yields an empty set.
//
// Load only reads; appending is done through OpenAppender.
func Load(path string) (SkipSet, []*SyntaxError, error) {
	skip := make(SkipSet)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return skip, nil, nil
	} else if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var bad []*SyntaxError
	r := NewReader(f, path)
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *Result:
			skip[rec.Name] = true
		case *SyntaxError:
			bad = append(bad, rec)
		}
	}
	if err := r.Err(); err != nil {
		return nil, nil, err
	}
	return skip, bad, nil
}

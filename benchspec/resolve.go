// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gpubench/autobench/catalog"
)

// An UnknownBenchmarkError reports a requested benchmark that is not in
// the catalog.
type UnknownBenchmarkError struct {
	Name string
}

func (e *UnknownBenchmarkError) Error() string {
	return fmt.Sprintf("unknown benchmark %q (not a catalog entry or one of %s)", e.Name, backendList())
}

func backendList() string {
	var s []string
	for _, b := range Backends {
		s = append(s, string(b))
	}
	return strings.Join(s, ", ")
}

// Resolve expands tokens into specs. A token is either a backend tag,
// which selects every catalog entry whose name ends in the tag and is
// not in fails, or the exact name of a catalog entry.
//
// Tag expansions follow catalog order and the tokens themselves are
// taken in request order, so the same request always produces the same
// sequence. A benchmark selected more than once is only resolved the
// first time.
func Resolve(cat *catalog.Catalog, fails catalog.FailSet, tokens []string, opts *Options) ([]*Spec, error) {
	if len(tokens) == 0 {
		return nil, errors.New("no benchmarks requested")
	}

	var entries []*catalog.Entry
	seen := make(map[string]bool)
	add := func(e *catalog.Entry) {
		if !seen[e.Name] {
			seen[e.Name] = true
			entries = append(entries, e)
		}
	}
	for _, tok := range tokens {
		if b, ok := ParseBackend(tok); ok {
			for _, e := range cat.Entries() {
				if strings.HasSuffix(e.Name, string(b)) && !fails.Contains(e.Name) {
					add(e)
				}
			}
			continue
		}
		e, ok := cat.Lookup(tok)
		if !ok {
			return nil, &UnknownBenchmarkError{tok}
		}
		add(e)
	}

	specs := make([]*Spec, 0, len(entries))
	for _, e := range entries {
		s, err := New(e, opts)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

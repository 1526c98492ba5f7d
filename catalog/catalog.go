// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog loads the benchmark catalog and the list of
// benchmarks known to fail.
//
// A catalog maps each benchmark name to the information needed to run
// it and interpret its output:
//
//	{
//		"foo-cuda": ["Time: (\\d+\\.\\d+)"],
//		"bar-sycl": ["kernel: ([0-9.]+) ms", ["-n", "1024"], "bar", true]
//	}
//
// The elements are, in order, the result pattern, the run arguments,
// the binary name (default "main") and the invert flag (default
// false). Only the pattern is required. Catalogs may also be written
// in YAML using the same shape.
//
// The order of entries in the document is preserved, since it
// determines the order in which benchmarks are built, run and
// reported.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBinary is the binary name used when an entry does not name one.
const DefaultBinary = "main"

// An Entry is the execution metadata for one benchmark.
type Entry struct {
	Name    string
	Pattern string   // result pattern, applied to the binary's stdout
	Args    []string // run arguments
	Binary  string   // binary file name in the benchmark directory
	Invert  bool     // replace the extracted metric by its reciprocal
}

// A Catalog is an ordered set of entries.
type Catalog struct {
	entries []*Entry
	index   map[string]int
}

// New returns a catalog holding entries in the given order. A later
// entry with the same name as an earlier one replaces it in place.
func New(entries ...*Entry) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, e := range entries {
		c.add(e)
	}
	return c
}

func (c *Catalog) add(e *Entry) {
	if e.Binary == "" {
		e.Binary = DefaultBinary
	}
	if i, ok := c.index[e.Name]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Lookup returns the entry named name.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

// Entries returns the catalog entries in document order.
// The caller must not modify the returned slice.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Len returns the number of entries in c.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// A ConfigurationError reports a missing or malformed catalog or
// fail-list. No part of a catalog that fails to load is usable.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Load reads the catalog at path. Files named *.yaml or *.yml are
// decoded as YAML; anything else is decoded as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{path, err}
	}
	var c *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c, err = parseYAML(data)
	default:
		c, err = parseJSON(data)
	}
	if err != nil {
		return nil, &ConfigurationError{path, err}
	}
	return c, nil
}

// checkEntry validates fields common to both encodings.
func checkEntry(e *Entry) error {
	if e.Name == "" {
		return fmt.Errorf("empty benchmark name")
	}
	if strings.ContainsAny(e.Name, ",\r\n") {
		return fmt.Errorf("benchmark name %q contains a comma or line break", e.Name)
	}
	if e.Pattern == "" {
		return fmt.Errorf("%s: empty result pattern", e.Name)
	}
	if strings.ContainsAny(e.Binary, `/\`) {
		return fmt.Errorf("%s: binary %q must be a file name", e.Name, e.Binary)
	}
	return nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// parseYAML decodes a YAML catalog. Like parseJSON it works on the
// document tree so that mapping order is kept.
func parseYAML(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("catalog must contain exactly one document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: catalog must be a mapping", root.Line)
	}

	c := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var name string
		if err := key.Decode(&name); err != nil {
			return nil, fmt.Errorf("line %d: %w", key.Line, err)
		}
		e, err := yamlEntry(name, val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", val.Line, err)
		}
		c.add(e)
	}
	return c, nil
}

func yamlEntry(name string, val *yaml.Node) (*Entry, error) {
	if val.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: entry must be a sequence", name)
	}
	fields := val.Content
	if len(fields) < 1 || len(fields) > 4 {
		return nil, fmt.Errorf("%s: entry has %d elements, want 1 to 4", name, len(fields))
	}

	e := &Entry{Name: name}
	if err := fields[0].Decode(&e.Pattern); err != nil {
		return nil, fmt.Errorf("%s: result pattern: %w", name, err)
	}
	if len(fields) > 1 {
		if err := fields[1].Decode(&e.Args); err != nil {
			return nil, fmt.Errorf("%s: run arguments: %w", name, err)
		}
	}
	if len(fields) > 2 {
		if err := fields[2].Decode(&e.Binary); err != nil {
			return nil, fmt.Errorf("%s: binary name: %w", name, err)
		}
	}
	if len(fields) > 3 {
		if err := fields[3].Decode(&e.Invert); err != nil {
			return nil, fmt.Errorf("%s: invert flag: %w", name, err)
		}
	}
	if err := checkEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

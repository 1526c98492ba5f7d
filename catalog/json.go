// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// parseJSON decodes a JSON catalog. It walks the top-level object with
// the token API rather than unmarshaling into a map so that document
// order survives.
func parseJSON(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("catalog must be a JSON object, found %v", tok)
	}

	c := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		e, err := jsonEntry(name, raw)
		if err != nil {
			return nil, err
		}
		c.add(e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after catalog object")
	}
	return c, nil
}

func jsonEntry(name string, raw json.RawMessage) (*Entry, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%s: entry must be an array: %w", name, err)
	}
	if len(fields) < 1 || len(fields) > 4 {
		return nil, fmt.Errorf("%s: entry has %d elements, want 1 to 4", name, len(fields))
	}

	e := &Entry{Name: name}
	if err := json.Unmarshal(fields[0], &e.Pattern); err != nil {
		return nil, fmt.Errorf("%s: result pattern: %w", name, err)
	}
	if len(fields) > 1 {
		if err := json.Unmarshal(fields[1], &e.Args); err != nil {
			return nil, fmt.Errorf("%s: run arguments: %w", name, err)
		}
	}
	if len(fields) > 2 {
		if err := json.Unmarshal(fields[2], &e.Binary); err != nil {
			return nil, fmt.Errorf("%s: binary name: %w", name, err)
		}
	}
	if len(fields) > 3 {
		if err := json.Unmarshal(fields[3], &e.Invert); err != nil {
			return nil, fmt.Errorf("%s: invert flag: %w", name, err)
		}
	}
	if err := checkEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

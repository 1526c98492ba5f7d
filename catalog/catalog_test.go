// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func names(c *Catalog) []string {
	var out []string
	for _, e := range c.Entries() {
		out = append(out, e.Name)
	}
	return out
}

const jsonCatalog = `{
	"zeta-cuda": ["Time: (\\d+\\.\\d+)"],
	"alpha-sycl": ["kernel: ([0-9.]+) ms", ["-n", "1024"], "bench", true],
	"mid-hip": ["t=(\\d+)", []]
}`

const yamlCatalog = `
zeta-cuda: ['Time: (\d+\.\d+)']
alpha-sycl: ['kernel: ([0-9.]+) ms', ['-n', '1024'], bench, true]
mid-hip: ['t=(\d+)', []]
`

func TestLoadFormats(t *testing.T) {
	for _, test := range []struct {
		file, data string
	}{
		{"subset.json", jsonCatalog},
		{"subset.yaml", yamlCatalog},
	} {
		t.Run(test.file, func(t *testing.T) {
			c, err := Load(writeFile(t, test.file, test.data))
			require.NoError(t, err)

			assert.Equal(t, []string{"zeta-cuda", "alpha-sycl", "mid-hip"}, names(c))

			e, ok := c.Lookup("zeta-cuda")
			require.True(t, ok)
			assert.Equal(t, `Time: (\d+\.\d+)`, e.Pattern)
			assert.Empty(t, e.Args)
			assert.Equal(t, DefaultBinary, e.Binary)
			assert.False(t, e.Invert)

			e, ok = c.Lookup("alpha-sycl")
			require.True(t, ok)
			assert.Equal(t, []string{"-n", "1024"}, e.Args)
			assert.Equal(t, "bench", e.Binary)
			assert.True(t, e.Invert)

			_, ok = c.Lookup("missing")
			assert.False(t, ok)
		})
	}
}

func TestLoadDuplicateKeepsPosition(t *testing.T) {
	c, err := Load(writeFile(t, "dup.json", `{"a": ["x"], "b": ["y"], "a": ["z"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(c))
	e, _ := c.Lookup("a")
	assert.Equal(t, "z", e.Pattern)
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct {
		name, file, data string
	}{
		{"not object", "c.json", `["a"]`},
		{"not array", "c.json", `{"a": "pattern"}`},
		{"empty entry", "c.json", `{"a": []}`},
		{"too many", "c.json", `{"a": ["p", [], "main", false, 1]}`},
		{"bad args", "c.json", `{"a": ["p", "x"]}`},
		{"bad invert", "c.json", `{"a": ["p", [], "main", "yes"]}`},
		{"empty pattern", "c.json", `{"a": [""]}`},
		{"binary path", "c.json", `{"a": ["p", [], "../main"]}`},
		{"comma in name", "c.json", `{"a,b-cuda": ["p"]}`},
		{"newline in name", "c.json", `{"a\nb-cuda": ["p"]}`},
		{"yaml comma in name", "c.yaml", "a,b-cuda: [p]\n"},
		{"truncated", "c.json", `{"a": ["p"]`},
		{"trailing", "c.json", `{"a": ["p"]} {}`},
		{"yaml scalar", "c.yaml", `a: pattern`},
		{"yaml list", "c.yml", `- a`},
	} {
		t.Run(test.name, func(t *testing.T) {
			path := writeFile(t, test.file, test.data)
			_, err := Load(path)
			var cerr *ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, path, cerr.Path)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadFailList(t *testing.T) {
	path := writeFile(t, "fails.txt", "bad-cuda\n\n  # comment\n worse-sycl \n")
	set, err := LoadFailList(path)
	require.NoError(t, err)
	assert.True(t, set.Contains("bad-cuda"))
	assert.True(t, set.Contains("worse-sycl"))
	assert.False(t, set.Contains("# comment"))
	assert.Len(t, set, 2)

	_, err = LoadFailList(filepath.Join(t.TempDir(), "missing.txt"))
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

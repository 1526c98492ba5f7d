// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchspec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpubench/autobench/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		&catalog.Entry{Name: "foo-cuda", Pattern: `Time: (\d+\.\d+)`},
		&catalog.Entry{Name: "bar-sycl", Pattern: `t=(\d+)`, Args: []string{"-n", "8"}, Binary: "bar"},
		&catalog.Entry{Name: "baz-cuda", Pattern: `t=(\d+)`},
		&catalog.Entry{Name: "qux-hip", Pattern: `t=(\d+)`, Invert: true},
		&catalog.Entry{Name: "cl-opencl", Pattern: `t=(\d+)`},
		&catalog.Entry{Name: "plain", Pattern: `t=(\d+)`},
	)
}

func specNames(specs []*Spec) []string {
	var out []string
	for _, s := range specs {
		out = append(out, s.Name)
	}
	return out
}

func TestResolveWildcard(t *testing.T) {
	cat := testCatalog()
	opts := &Options{BenchDir: t.TempDir(), SYCLType: SYCLCUDA, NvidiaSM: 60}

	specs, err := Resolve(cat, catalog.FailSet{}, []string{"cuda"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo-cuda", "baz-cuda"}, specNames(specs))

	// The fail-list only affects wildcard expansion.
	fails := catalog.FailSet{"foo-cuda": true}
	specs, err = Resolve(cat, fails, []string{"cuda"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"baz-cuda"}, specNames(specs))

	specs, err = Resolve(cat, fails, []string{"foo-cuda"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo-cuda"}, specNames(specs))
}

func TestResolveOrderAndDuplicates(t *testing.T) {
	opts := &Options{BenchDir: t.TempDir()}
	specs, err := Resolve(testCatalog(), nil, []string{"plain", "cuda", "baz-cuda", "hip", "plain"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "foo-cuda", "baz-cuda", "qux-hip"}, specNames(specs))
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve(testCatalog(), nil, []string{"cuda", "nope-cuda"}, &Options{})
	var uerr *UnknownBenchmarkError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "nope-cuda", uerr.Name)

	_, err = Resolve(testCatalog(), nil, nil, &Options{})
	assert.Error(t, err)
}

func TestResolveBadPattern(t *testing.T) {
	cat := catalog.New(&catalog.Entry{Name: "x-cuda", Pattern: `(`})
	_, err := Resolve(cat, nil, []string{"x-cuda"}, &Options{})
	var cerr *catalog.ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

func TestResolveSpecFields(t *testing.T) {
	base := t.TempDir()
	specs, err := Resolve(testCatalog(), nil, []string{"bar-sycl"}, &Options{BenchDir: base})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	s := specs[0]
	// The directory does not exist yet, so no symlinks are resolved.
	assert.Equal(t, filepath.Join(base, "bar-sycl"), s.Dir)
	assert.Equal(t, "bar", s.Binary)
	assert.Equal(t, []string{"-n", "8"}, s.Args)
	assert.Equal(t, SYCL, s.Backend)
	require.NotNil(t, s.Extractor)
}

func TestMakeArgs(t *testing.T) {
	opts := Options{
		NvidiaSM:     80,
		AMDArch:      "gfx90a",
		GCCToolchain: "/opt/gcc",
		OpenCLIncDir: "/usr/include",
	}
	for _, test := range []struct {
		name  string
		sycl  SYCLType
		extra string
		want  []string
	}{
		{"a-sycl", SYCLCUDA, "", []string{`GCC_TOOLCHAIN="/opt/gcc"`, "CUDA=yes", "CUDA_ARCH=sm_80"}},
		{"a-sycl", SYCLHIP, "", []string{`GCC_TOOLCHAIN="/opt/gcc"`, "HIP=yes", "HIP_ARCH=gfx90a"}},
		{"a-sycl", SYCLOpenCL, "", []string{`GCC_TOOLCHAIN="/opt/gcc"`, "CUDA=no", "HIP=no", "CC=icpx", "CXX=icpx"}},
		{"a-cuda", SYCLCUDA, "", []string{"CUDA_ARCH=sm_80"}},
		{"a-hip", SYCLCUDA, "", []string{"CC=hipcc", "CXX=hipcc"}},
		{"a-opencl", SYCLCUDA, "-O3,-g", []string{"EXTRA_CFLAGS=-O3 -g", "OPENCL_INC=/usr/include"}},
		{"a-omp", SYCLCUDA, "", nil},
		{"a-cuda", SYCLCUDA, "-DX", []string{"CUDA_ARCH=sm_80", "EXTRA_CFLAGS=-DX"}},
	} {
		o := opts
		o.SYCLType = test.sycl
		o.ExtraCFlags = test.extra
		assert.Equal(t, test.want, MakeArgs(test.name, &o), "%s sycl=%s", test.name, test.sycl)
	}
}

func TestParse(t *testing.T) {
	b, ok := ParseBackend("opencl")
	assert.True(t, ok)
	assert.Equal(t, OpenCL, b)
	_, ok = ParseBackend("omp")
	assert.False(t, ok)

	typ, err := ParseSYCLType("hip")
	require.NoError(t, err)
	assert.Equal(t, SYCLHIP, typ)
	_, err = ParseSYCLType("level0")
	assert.Error(t, err)
}

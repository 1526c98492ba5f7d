// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchspec turns requested benchmark names and backend tags
// into fully resolved benchmark specifications.
//
// A benchmark's backend is implied by the suffix of its name, and
// determines the make variables passed to its build:
//
//	*-sycl    GCC_TOOLCHAIN plus one of three device modes (see SYCLType)
//	*-cuda    CUDA_ARCH=sm_N
//	*-hip     CC=hipcc CXX=hipcc
//	*-opencl  OPENCL_INC, if an include directory is configured
//
// Extra compiler flags are passed to every build as EXTRA_CFLAGS.
package benchspec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gpubench/autobench/catalog"
	"github.com/gpubench/autobench/extract"
)

// A Backend is a compute platform family.
type Backend string

const (
	SYCL   Backend = "sycl"
	CUDA   Backend = "cuda"
	HIP    Backend = "hip"
	OpenCL Backend = "opencl"
)

// Backends lists the backend tags accepted by Resolve.
var Backends = []Backend{SYCL, CUDA, HIP, OpenCL}

// ParseBackend reports whether tok is a backend tag.
func ParseBackend(tok string) (Backend, bool) {
	for _, b := range Backends {
		if string(b) == tok {
			return b, true
		}
	}
	return "", false
}

// BackendOf returns the backend implied by a benchmark name, or "" if
// the name has no backend suffix.
func BackendOf(name string) Backend {
	for _, b := range Backends {
		if strings.HasSuffix(name, string(b)) {
			return b
		}
	}
	return ""
}

// A SYCLType selects the device SYCL benchmarks are compiled for.
type SYCLType string

const (
	SYCLCUDA   SYCLType = "cuda"   // NVIDIA GPUs
	SYCLHIP    SYCLType = "hip"    // AMD GPUs
	SYCLOpenCL SYCLType = "opencl" // host/OpenCL only, built with icpx
)

// ParseSYCLType parses a SYCL device type.
func ParseSYCLType(s string) (SYCLType, error) {
	switch t := SYCLType(s); t {
	case SYCLCUDA, SYCLHIP, SYCLOpenCL:
		return t, nil
	}
	return "", fmt.Errorf("unknown SYCL type %q (want cuda, hip or opencl)", s)
}

// Options holds the build parameters shared by every resolved spec.
type Options struct {
	BenchDir     string // parent of the benchmark directories; "" means the working directory
	SYCLType     SYCLType
	NvidiaSM     int    // CUDA compute capability, e.g. 60 for sm_60
	AMDArch      string // e.g. gfx908
	GCCToolchain string
	OpenCLIncDir string // directory containing CL/cl.h
	ExtraCFlags  string // comma- or space-separated
}

// A Spec is a resolved benchmark. Specs are created by Resolve and are
// read-only afterwards.
type Spec struct {
	Name     string
	Backend  Backend
	Dir      string // absolute path of the build directory
	Binary   string
	Pattern  string
	Args     []string
	Invert   bool
	MakeArgs []string

	// Extractor finds the metric values in the binary's output.
	Extractor extract.Extractor
}

func (s *Spec) String() string {
	return s.Name
}

// New resolves a single catalog entry.
func New(e *catalog.Entry, opts *Options) (*Spec, error) {
	p, err := extract.Compile(e.Pattern)
	if err != nil {
		return nil, &catalog.ConfigurationError{Path: e.Name, Err: err}
	}
	dir, err := benchDir(opts.BenchDir, e.Name)
	if err != nil {
		return nil, err
	}
	return &Spec{
		Name:      e.Name,
		Backend:   BackendOf(e.Name),
		Dir:       dir,
		Binary:    e.Binary,
		Pattern:   e.Pattern,
		Args:      append([]string(nil), e.Args...),
		Invert:    e.Invert,
		MakeArgs:  MakeArgs(e.Name, opts),
		Extractor: p,
	}, nil
}

// MakeArgs returns the make variable assignments for building the
// benchmark called name.
func MakeArgs(name string, opts *Options) []string {
	var args []string
	switch BackendOf(name) {
	case SYCL:
		args = append(args, `GCC_TOOLCHAIN="`+opts.GCCToolchain+`"`)
		switch opts.SYCLType {
		case SYCLCUDA:
			args = append(args, "CUDA=yes", fmt.Sprintf("CUDA_ARCH=sm_%d", opts.NvidiaSM))
		case SYCLHIP:
			args = append(args, "HIP=yes", "HIP_ARCH="+opts.AMDArch)
		case SYCLOpenCL:
			args = append(args, "CUDA=no", "HIP=no", "CC=icpx", "CXX=icpx")
		}
	case CUDA:
		args = append(args, fmt.Sprintf("CUDA_ARCH=sm_%d", opts.NvidiaSM))
	case HIP:
		args = append(args, "CC=hipcc", "CXX=hipcc")
	}
	if opts.ExtraCFlags != "" {
		args = append(args, "EXTRA_CFLAGS="+strings.ReplaceAll(opts.ExtraCFlags, ",", " "))
	}
	if strings.HasSuffix(name, string(OpenCL)) && opts.OpenCLIncDir != "" {
		args = append(args, "OPENCL_INC="+opts.OpenCLIncDir)
	}
	return args
}

func benchDir(base, name string) (string, error) {
	dir, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	return dir, nil
}

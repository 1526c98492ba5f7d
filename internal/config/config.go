// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config gathers the settings of one autobench invocation.
//
// Settings come from command-line flags, AUTOBENCH_* environment
// variables and an optional config file, in decreasing order of
// precedence. Load validates them once and returns an immutable
// Config; nothing reads viper after that.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"

	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/build"
	"github.com/gpubench/autobench/harness"
	"github.com/gpubench/autobench/internal/proc"
	"github.com/gpubench/autobench/trial"
	"github.com/gpubench/autobench/upload"
)

// EnvPrefix is the prefix of environment variables that set flags.
const EnvPrefix = "AUTOBENCH"

// Keys of settings. Each is also the long name of its flag.
const (
	KeyOutput       = "output"
	KeyRepeat       = "repeat"
	KeyWarmup       = "warmup"
	KeySYCLType     = "sycl-type"
	KeyNvidiaSM     = "nvidia-sm"
	KeyAMDArch      = "amd-arch"
	KeyGCCToolchain = "gcc-toolchain"
	KeyOpenCLIncDir = "opencl-inc-dir"
	KeyExtraFlags   = "extra-compile-flags"
	KeyClean        = "clean"
	KeyVerbose      = "verbose"
	KeyBenchDir     = "bench-dir"
	KeyBenchData    = "bench-data"
	KeyBenchFails   = "bench-fails"
	KeyExtraEnv     = "extra-env"
	KeyNumactlArgs  = "numactl-args"
	KeyVTunePrefix  = "vtune-root-prefix"
	KeyVTuneSuffix  = "vtune-root-suffix"
	KeyTimeout      = "timeout"
	KeySkipPrefix   = "skip-prefix"
	KeyDB           = "db"
	KeyUpload       = "upload"
	KeyCredentials  = "credentials"
	KeyConfigFile   = "config"
)

const (
	defaultBenchData  = "benchmarks/subset.json"
	defaultBenchFails = "benchmarks/subset-fails.txt"
)

// RegisterFlags defines the autobench flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyOutput, "o", "", "append results to `file` and skip benchmarks it already holds (default stdout)")
	fs.IntP(KeyRepeat, "r", 1, "run each benchmark `n` times; 0 only builds")
	fs.BoolP(KeyWarmup, "w", true, "run each benchmark once before measuring it")
	fs.StringP(KeySYCLType, "s", string(benchspec.SYCLCUDA), "SYCL device `type`: cuda, hip or opencl")
	fs.Int(KeyNvidiaSM, 60, "NVIDIA compute capability, e.g. 60 for sm_60")
	fs.String(KeyAMDArch, "gfx908", "AMD GPU `arch`itecture")
	fs.String(KeyGCCToolchain, "", "GCC toolchain `dir` for SYCL builds")
	fs.String(KeyOpenCLIncDir, "/usr/include", "`dir` containing CL/cl.h")
	fs.StringP(KeyExtraFlags, "e", "", "extra compiler `flags`, comma separated")
	fs.BoolP(KeyClean, "c", false, "run make clean before building")
	fs.BoolP(KeyVerbose, "v", false, "log build and run output")
	fs.StringP(KeyBenchDir, "b", "", "benchmark source `dir` (default current directory)")
	fs.StringP(KeyBenchData, "d", defaultBenchData, "benchmark catalog `file` (.json or .yaml)")
	fs.StringP(KeyBenchFails, "f", defaultBenchFails, "`file` listing benchmarks excluded from backend tags")
	fs.String(KeyExtraEnv, "", "extra environment for runs, as `KEY=VAL;KEY2=VAL2`")
	fs.String(KeyNumactlArgs, "", "run benchmarks under numactl with these `args`")
	fs.String(KeyVTunePrefix, "", "profile with VTune, writing results to `prefix`<name><suffix>")
	fs.String(KeyVTuneSuffix, "", "VTune result directory `suffix`, used with --vtune-root-prefix")
	fs.Duration(KeyTimeout, trial.DefaultTimeout, "wall-clock limit of one benchmark run")
	fs.StringSlice(KeySkipPrefix, nil, "skip benchmarks whose names start with `prefix` (repeatable)")
	fs.String(KeyDB, "", "also record results in a database, as `driver:dsn` (sqlite3 or mysql)")
	fs.String(KeyUpload, "", "upload the report to `gs://bucket/path` when done")
	fs.String(KeyCredentials, "", "service account key `file` for --upload (default application credentials)")
	fs.String(KeyConfigFile, "", "read settings from `file` (yaml, toml or json)")
}

// NewViper returns a viper instance bound to the flags in fs and to
// AUTOBENCH_* environment variables. If --config is set, the file is
// read as well.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// A DB names a results database.
type DB struct {
	Driver string
	DSN    string
}

// Config is the validated configuration of one invocation.
type Config struct {
	Benches []string // requested names and backend tags

	Output  string
	Repeat  int
	Warmup  bool
	Clean   bool
	Verbose bool

	Spec benchspec.Options

	BenchData  string
	BenchFails string

	Env     []string // KEY=VALUE overlay
	Wrapper trial.Wrapper
	Timeout time.Duration

	SkipPrefixes []string

	DB          *DB         // nil if not mirroring
	Upload      *upload.URL // nil if not uploading
	Credentials string
}

// Load validates the settings in v and returns the configuration for
// the requested benchmarks args.
func Load(v *viper.Viper, args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, errors.New("no benchmarks requested")
	}
	c := &Config{
		Benches:    append([]string(nil), args...),
		Output:     v.GetString(KeyOutput),
		Repeat:     v.GetInt(KeyRepeat),
		Warmup:     v.GetBool(KeyWarmup),
		Clean:      v.GetBool(KeyClean),
		Verbose:    v.GetBool(KeyVerbose),
		BenchData:  v.GetString(KeyBenchData),
		BenchFails: v.GetString(KeyBenchFails),
		Timeout:    v.GetDuration(KeyTimeout),
		Spec: benchspec.Options{
			BenchDir:     v.GetString(KeyBenchDir),
			NvidiaSM:     v.GetInt(KeyNvidiaSM),
			AMDArch:      v.GetString(KeyAMDArch),
			GCCToolchain: v.GetString(KeyGCCToolchain),
			OpenCLIncDir: v.GetString(KeyOpenCLIncDir),
			ExtraCFlags:  v.GetString(KeyExtraFlags),
		},
		Wrapper: trial.Wrapper{
			VTunePrefix: v.GetString(KeyVTunePrefix),
			VTuneSuffix: v.GetString(KeyVTuneSuffix),
		},
		Credentials: v.GetString(KeyCredentials),
	}
	if c.Repeat < 0 {
		return nil, fmt.Errorf("--%s: %d is negative", KeyRepeat, c.Repeat)
	}
	if c.Timeout <= 0 {
		return nil, fmt.Errorf("--%s: must be positive", KeyTimeout)
	}
	if c.Spec.NvidiaSM <= 0 {
		return nil, fmt.Errorf("--%s: must be positive", KeyNvidiaSM)
	}

	var err error
	if c.Spec.SYCLType, err = benchspec.ParseSYCLType(v.GetString(KeySYCLType)); err != nil {
		return nil, fmt.Errorf("--%s: %w", KeySYCLType, err)
	}
	if c.Env, err = proc.ParseEnv(v.GetString(KeyExtraEnv)); err != nil {
		return nil, fmt.Errorf("--%s: %w", KeyExtraEnv, err)
	}
	if s := v.GetString(KeyNumactlArgs); s != "" {
		// Expand with an empty environment so the arguments mean the
		// same thing wherever the command line came from.
		if c.Wrapper.Numactl, err = shell.Fields(s, func(string) string { return "" }); err != nil {
			return nil, fmt.Errorf("--%s: %w", KeyNumactlArgs, err)
		}
	}
	for _, p := range v.GetStringSlice(KeySkipPrefix) {
		if p = strings.TrimSpace(p); p != "" {
			c.SkipPrefixes = append(c.SkipPrefixes, p)
		}
	}
	if s := v.GetString(KeyDB); s != "" {
		if c.DB, err = parseDB(s); err != nil {
			return nil, fmt.Errorf("--%s: %w", KeyDB, err)
		}
	}
	if s := v.GetString(KeyUpload); s != "" {
		if c.Output == "" {
			return nil, fmt.Errorf("--%s requires --%s", KeyUpload, KeyOutput)
		}
		if c.Upload, err = upload.ParseURL(s); err != nil {
			return nil, fmt.Errorf("--%s: %w", KeyUpload, err)
		}
	}
	return c, nil
}

func parseDB(s string) (*DB, error) {
	driver, dsn, ok := strings.Cut(s, ":")
	if !ok || dsn == "" {
		return nil, fmt.Errorf("%q: want driver:dsn", s)
	}
	switch driver {
	case "sqlite3", "mysql":
	default:
		return nil, fmt.Errorf("unsupported driver %q (want sqlite3 or mysql)", driver)
	}
	return &DB{Driver: driver, DSN: dsn}, nil
}

// Harness returns the measurement options. Runs under a wrapper tool
// are forced to a single trial without warmup.
func (c *Config) Harness() harness.Options {
	opts := harness.Options{
		Trials:       c.Repeat,
		Warmup:       c.Warmup,
		Settle:       harness.DefaultSettle,
		SkipPrefixes: c.SkipPrefixes,
	}
	return opts.Effective(c.Wrapper.Active())
}

// Builder returns a Builder configured by c.
func (c *Config) Builder(exec proc.Executor) *build.Builder {
	return &build.Builder{
		Exec:    exec,
		Clean:   c.Clean,
		Settle:  build.DefaultSettle,
		Verbose: c.Verbose,
	}
}

// Runner returns a trial Runner configured by c.
func (c *Config) Runner(exec proc.Executor) *trial.Runner {
	w := c.Wrapper
	return &trial.Runner{
		Exec:    exec,
		Timeout: c.Timeout,
		Wrapper: &w,
		Env:     c.Env,
		Verbose: c.Verbose,
	}
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trial runs a built benchmark once and extracts its metric.
package trial

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/extract"
	"github.com/gpubench/autobench/internal/proc"
)

// DefaultTimeout is the wall-clock limit of a single run.
const DefaultTimeout = 1200 * time.Second

// A Wrapper describes tools the benchmark binary is run under.
type Wrapper struct {
	// Numactl holds numactl arguments. If non-empty, the run is
	// wrapped in "numactl <Numactl...>".
	Numactl []string

	// If VTunePrefix is set, the run is profiled with VTune, writing
	// its result directory to VTunePrefix + name + VTuneSuffix.
	// VTuneSuffix alone has no effect.
	VTunePrefix string
	VTuneSuffix string
}

// Active reports whether w wraps runs in any tool.
func (w *Wrapper) Active() bool {
	return w != nil && (len(w.Numactl) > 0 || w.VTunePrefix != "")
}

// Prefix returns the wrapper command line for the benchmark called name.
func (w *Wrapper) Prefix(name string) []string {
	if w == nil {
		return nil
	}
	var args []string
	if len(w.Numactl) > 0 {
		args = append(args, "numactl")
		args = append(args, w.Numactl...)
	}
	if w.VTunePrefix != "" {
		args = append(args, "vtune", "-collect", "gpu-hotspots", "-r", w.VTunePrefix+name+w.VTuneSuffix)
	}
	return args
}

// A Runner runs benchmark binaries.
type Runner struct {
	Exec    proc.Executor
	Timeout time.Duration // zero means DefaultTimeout
	Wrapper *Wrapper
	Env     []string // KEY=VALUE overlay on the inherited environment

	// Verbose logs the output of every run.
	Verbose bool

	Log *log.Logger
}

// An Error reports a failed run. It wraps the underlying failure,
// which may be a *proc.ExitError, a *proc.TimeoutError or a
// *extract.NoMetricMatchError.
type Error struct {
	Name    string
	Dir     string
	Cmdline string
	Output  string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (in %s): %v", e.Name, e.Cmdline, e.Dir, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Command returns the command that runs s.
func (r *Runner) Command(s *benchspec.Spec) *proc.Cmd {
	argv := r.Wrapper.Prefix(s.Name)
	argv = append(argv, "./"+s.Binary)
	argv = append(argv, s.Args...)
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &proc.Cmd{
		Path:    argv[0],
		Args:    argv[1:],
		Dir:     s.Dir,
		Env:     r.Env,
		Timeout: timeout,
	}
}

// Run runs s once and returns its metric.
func (r *Runner) Run(ctx context.Context, s *benchspec.Spec) (float64, error) {
	cmd := r.Command(s)
	logger := r.logger()
	logger.Debug("Running: "+cmd.String(), "dir", cmd.Dir)

	res, err := r.Exec.Run(ctx, cmd)
	var out string
	if res != nil {
		out = string(res.Stdout)
	}
	if err != nil {
		return 0, r.fail(s, cmd, out, err)
	}
	if r.Verbose {
		logger.Debug("output", "bench", s.Name, "stdout", strings.TrimRight(out, "\n"))
	}
	m, err := extract.Metric(s.Extractor, out, s.Invert)
	if err != nil {
		return 0, r.fail(s, cmd, out, err)
	}
	return m, nil
}

func (r *Runner) fail(s *benchspec.Spec, cmd *proc.Cmd, out string, err error) error {
	return &Error{Name: s.Name, Dir: cmd.Dir, Cmdline: cmd.String(), Output: out, Err: err}
}

func (r *Runner) logger() *log.Logger {
	if r.Log == nil {
		return log.Default()
	}
	return r.Log
}

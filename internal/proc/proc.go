// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proc runs external commands with captured output, an
// environment overlay and an optional wall-clock limit. Builds and
// benchmark runs both go through it.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// A Cmd describes one process invocation.
type Cmd struct {
	Path string   // program; looked up in PATH unless it contains a separator
	Args []string // arguments, not including the program
	Dir  string   // working directory; relative Paths are resolved against it

	// Env is a list of KEY=VALUE pairs overlaid on the inherited
	// environment. Keys in Env replace inherited keys.
	Env []string

	// Timeout bounds the wall-clock time of the process. Zero means
	// no limit.
	Timeout time.Duration
}

// String returns the command line of c.
func (c *Cmd) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// A Result is the outcome of a process that ran.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// An Executor runs commands.
type Executor interface {
	// Run runs c to completion. If the process cannot be started,
	// Run returns a nil Result. If it exits non-zero, Run returns
	// an *ExitError; if it exceeds c.Timeout, a *TimeoutError.
	// Both errors carry the Result.
	Run(ctx context.Context, c *Cmd) (*Result, error)
}

// An ExitError reports a process that exited with a failure status.
type ExitError struct {
	Cmd    *Cmd
	Result *Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s (in %s): exit status %d", e.Cmd, e.Cmd.Dir, e.Result.ExitCode)
}

// A TimeoutError reports a process that was killed for exceeding its
// wall-clock limit.
type TimeoutError struct {
	Cmd    *Cmd
	Result *Result
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s (in %s): timed out after %v", e.Cmd, e.Cmd.Dir, e.Cmd.Timeout)
}

// Local runs commands on the local machine with os/exec.
type Local struct {
	// WaitDelay bounds how long Run waits for output pipes to close
	// after the process is killed. Zero means one second.
	WaitDelay time.Duration
}

func (l *Local) Run(ctx context.Context, c *Cmd) (*Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), c.Env)
	}
	cmd.WaitDelay = l.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = time.Second
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return res, nil
	}

	if c.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) && cmd.ProcessState != nil {
		return res, &TimeoutError{Cmd: c, Result: res}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{Cmd: c, Result: res}
	}
	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("%s (in %s): %w", c, c.Dir, err)
	}
	return res, fmt.Errorf("%s (in %s): %w", c, c.Dir, err)
}

// MergeEnv returns base with the KEY=VALUE pairs of overlay applied.
// A key in overlay replaces the first entry for that key in base and
// drops any later ones; new keys are appended in overlay order.
func MergeEnv(base, overlay []string) []string {
	vals := make(map[string]string, len(overlay))
	var order []string
	for _, kv := range overlay {
		k, v, _ := strings.Cut(kv, "=")
		if _, ok := vals[k]; !ok {
			order = append(order, k)
		}
		vals[k] = v
	}

	out := make([]string, 0, len(base)+len(overlay))
	done := make(map[string]bool, len(vals))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		v, ok := vals[k]
		if !ok {
			out = append(out, kv)
			continue
		}
		if !done[k] {
			out = append(out, k+"="+v)
			done[k] = true
		}
	}
	for _, k := range order {
		if !done[k] {
			out = append(out, k+"="+vals[k])
		}
	}
	return out
}

// ParseEnv parses an environment overlay of the form
// "KEY=VALUE;KEY2=VALUE2". Values may contain '='. Empty items are
// ignored.
func ParseEnv(s string) ([]string, error) {
	var env []string
	for _, item := range strings.Split(s, ";") {
		if item == "" {
			continue
		}
		k, _, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad environment item %q: want KEY=VALUE", item)
		}
		env = append(env, item)
	}
	return env, nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proctest provides a scripted proc.Executor for tests.
package proctest

import (
	"context"
	"sync"

	"github.com/gpubench/autobench/internal/proc"
)

// A Handler decides the outcome of one command.
type Handler func(c *proc.Cmd) (*proc.Result, error)

// Fake is a proc.Executor that records every command it is asked to
// run and answers with Handler. It is safe for concurrent use.
type Fake struct {
	Handler Handler

	mu   sync.Mutex
	cmds []*proc.Cmd
}

func (f *Fake) Run(ctx context.Context, c *proc.Cmd) (*proc.Result, error) {
	f.mu.Lock()
	f.cmds = append(f.cmds, c)
	f.mu.Unlock()
	if f.Handler == nil {
		return &proc.Result{}, nil
	}
	return f.Handler(c)
}

// Cmds returns the commands run so far, in the order they started.
func (f *Fake) Cmds() []*proc.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*proc.Cmd(nil), f.cmds...)
}

// Output returns a successful result with the given stdout.
func Output(stdout string) (*proc.Result, error) {
	return &proc.Result{Stdout: []byte(stdout)}, nil
}

// Exit returns the result and error of c exiting with code.
func Exit(c *proc.Cmd, code int, stdout, stderr string) (*proc.Result, error) {
	res := &proc.Result{Stdout: []byte(stdout), Stderr: []byte(stderr), ExitCode: code}
	return res, &proc.ExitError{Cmd: c, Result: res}
}

// Timeout returns the result and error of c exceeding its limit.
func Timeout(c *proc.Cmd) (*proc.Result, error) {
	res := &proc.Result{ExitCode: -1}
	return res, &proc.TimeoutError{Cmd: c, Result: res}
}

// Sequence returns a Handler that answers the i'th command with
// outputs[i] and every later command with the last output.
func Sequence(outputs ...string) Handler {
	var mu sync.Mutex
	i := 0
	return func(c *proc.Cmd) (*proc.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		out := outputs[len(outputs)-1]
		if i < len(outputs) {
			out = outputs[i]
		}
		i++
		return Output(out)
	}
}

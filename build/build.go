// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build compiles resolved benchmarks in parallel.
//
// Each benchmark is built by running make in its directory. Builds
// are independent, so they run on a fixed pool of workers. The build
// phase is all-or-nothing: a missing binary would make every later
// measurement meaningless, so any failure fails the whole phase. A
// failure does not cancel builds that are already running; the phase
// waits for every build before reporting.
package build

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/internal/proc"
)

// Workers is the number of builds that run at once.
const Workers = 8

// DefaultSettle is the pause between cleaning and building a benchmark.
const DefaultSettle = time.Second

// A Builder builds benchmarks.
type Builder struct {
	Exec proc.Executor

	// Clean runs "make clean" before each build, followed by a
	// pause of Settle so the clean's side effects are complete
	// before the build starts.
	Clean  bool
	Settle time.Duration

	// Verbose logs the output of successful builds.
	Verbose bool

	Log *log.Logger
}

// An Outcome is the result of building one benchmark.
type Outcome struct {
	Spec   *benchspec.Spec
	Stdout []byte
	Stderr []byte
	Err    error
}

// A BuildFailure reports that one or more builds failed.
type BuildFailure struct {
	Failed []*Outcome
}

func (e *BuildFailure) Error() string {
	var names []string
	for _, o := range e.Failed {
		names = append(names, o.Spec.Name)
	}
	return fmt.Sprintf("build failed for %d benchmark(s): %s", len(e.Failed), strings.Join(names, ", "))
}

// Build builds every spec and returns their outcomes in the order of
// specs. If any build failed, Build returns a *BuildFailure listing
// the failed outcomes.
func (b *Builder) Build(ctx context.Context, specs []*benchspec.Spec) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(specs))

	var g errgroup.Group
	g.SetLimit(Workers)
	for i, s := range specs {
		i, s := i, s
		g.Go(func() error {
			outcomes[i] = b.build(ctx, s)
			return outcomes[i].Err
		})
	}
	if g.Wait() == nil {
		return outcomes, nil
	}

	fail := new(BuildFailure)
	for _, o := range outcomes {
		if o.Err != nil {
			fail.Failed = append(fail.Failed, o)
		}
	}
	return outcomes, fail
}

func (b *Builder) build(ctx context.Context, s *benchspec.Spec) *Outcome {
	logger := b.logger().With("bench", s.Name)
	logger.Info("compiling")
	o := &Outcome{Spec: s}

	if b.Clean {
		clean := &proc.Cmd{Path: "make", Args: []string{"clean"}, Dir: s.Dir}
		res, err := b.Exec.Run(ctx, clean)
		if err != nil {
			if res != nil {
				o.Stdout, o.Stderr = res.Stdout, res.Stderr
			}
			o.Err = err
			return o
		}
		if b.Settle > 0 {
			select {
			case <-time.After(b.Settle):
			case <-ctx.Done():
				o.Err = ctx.Err()
				return o
			}
		}
	}

	cmd := &proc.Cmd{Path: "make", Args: s.MakeArgs, Dir: s.Dir}
	res, err := b.Exec.Run(ctx, cmd)
	if res != nil {
		o.Stdout, o.Stderr = res.Stdout, res.Stderr
	}
	if err != nil {
		o.Err = err
		return o
	}
	if b.Verbose && len(o.Stdout) > 0 {
		logger.Debug("build output", "stdout", string(o.Stdout))
	}
	return o
}

func (b *Builder) logger() *log.Logger {
	if b.Log == nil {
		return log.Default()
	}
	return b.Log
}

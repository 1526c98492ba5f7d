// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package harness measures built benchmarks and records their
// statistics.
//
// Benchmarks are measured one at a time, since concurrent runs would
// contend for the device under test. Each benchmark moves through
// the states
//
//	NotStarted -> WarmedUp -> Measuring -> Recorded
//
// or ends in Failed if any run fails, or in Skipped if it already has
// a result or is excluded by name. A failed benchmark never stops the
// loop.
package harness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gpubench/autobench/benchmath"
	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/report"
)

// DefaultSettle is the pause before a benchmark's first run and after
// a failure.
const DefaultSettle = time.Second

// A State is the progress of one benchmark.
type State int

const (
	NotStarted State = iota
	WarmedUp
	Measuring
	Recorded
	Failed
	Skipped
)

var stateNames = [...]string{"not started", "warmed up", "measuring", "recorded", "failed", "skipped"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// A Runner runs a benchmark once and returns its metric.
type Runner interface {
	Run(ctx context.Context, s *benchspec.Spec) (float64, error)
}

// A Sink receives recorded results.
type Sink interface {
	Write(res *report.Result) error
}

// Options controls the measurement of each benchmark.
type Options struct {
	Trials int  // timed runs per benchmark; at least 1
	Warmup bool // run once, untimed, before the trials

	Settle time.Duration

	// SkipPrefixes excludes benchmarks whose names start with any
	// of the prefixes.
	SkipPrefixes []string
}

// Effective returns the options actually used. Runs under a wrapper
// tool are expensive and produce their own artifacts, so a wrapped
// benchmark runs exactly once with no warmup.
func (o Options) Effective(wrapped bool) Options {
	if wrapped {
		o.Warmup = false
		o.Trials = 1
	}
	return o
}

// A Harness measures benchmarks.
type Harness struct {
	Runner Runner

	// Report receives every recorded result. A failure to write to
	// it fails the benchmark.
	Report Sink

	// Mirrors receive copies of recorded results. Their failures are
	// logged and otherwise ignored.
	Mirrors []Sink

	// Skip holds benchmarks that already have a result.
	Skip report.SkipSet

	Options Options
	Log     *log.Logger

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// An Outcome is the final state of one benchmark.
type Outcome struct {
	Name   string
	State  State
	Result *report.Result // set if State == Recorded
	Err    error          // set if State == Failed
}

// Run measures specs in order and returns their outcomes. Run stops
// early only if ctx is canceled; the outcomes of unmeasured
// benchmarks are then NotStarted.
func (h *Harness) Run(ctx context.Context, specs []*benchspec.Spec) []*Outcome {
	outcomes := make([]*Outcome, len(specs))
	for i, s := range specs {
		outcomes[i] = &Outcome{Name: s.Name}
	}
	for i, s := range specs {
		if ctx.Err() != nil {
			break
		}
		h.logger().Info(fmt.Sprintf("running %d/%d: %s", i+1, len(specs), s.Name))
		h.measure(ctx, s, outcomes[i])
	}
	return outcomes
}

func (h *Harness) measure(ctx context.Context, s *benchspec.Spec, o *Outcome) {
	logger := h.logger().With("bench", s.Name)
	if h.Skip.Contains(s.Name) {
		logger.Info("result already exists, skipping")
		o.State = Skipped
		return
	}
	for _, p := range h.Options.SkipPrefixes {
		if p != "" && strings.HasPrefix(s.Name, p) {
			logger.Info("excluded by prefix, skipping", "prefix", p)
			o.State = Skipped
			return
		}
	}

	h.pause(ctx)
	res, err := h.trials(ctx, s, o)
	if err == nil {
		err = h.Report.Write(res)
	}
	if err != nil {
		o.State, o.Err = Failed, err
		logger.Error("benchmark failed", "dir", s.Dir, "err", err)
		h.pause(ctx)
		return
	}
	o.State, o.Result = Recorded, res
	for _, m := range h.Mirrors {
		if err := m.Write(res); err != nil {
			logger.Warn("mirroring result", "err", err)
		}
	}
}

// trials runs the warmup and timed runs of s and summarizes them.
func (h *Harness) trials(ctx context.Context, s *benchspec.Spec, o *Outcome) (*report.Result, error) {
	if h.Options.Warmup {
		if _, err := h.Runner.Run(ctx, s); err != nil {
			return nil, fmt.Errorf("warmup: %w", err)
		}
		o.State = WarmedUp
	}

	o.State = Measuring
	n := max(h.Options.Trials, 1)
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v, err := h.Runner.Run(ctx, s)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	sum, err := benchmath.NewSample(values).Summary()
	if err != nil {
		return nil, err
	}
	return report.NewResult(s.Name, values, sum), nil
}

func (h *Harness) pause(ctx context.Context) {
	if h.sleep != nil {
		h.sleep(ctx, h.Options.Settle)
		return
	}
	if h.Options.Settle <= 0 {
		return
	}
	t := time.NewTimer(h.Options.Settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (h *Harness) logger() *log.Logger {
	if h.Log == nil {
		return log.Default()
	}
	return h.Log
}

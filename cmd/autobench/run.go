// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/build"
	"github.com/gpubench/autobench/catalog"
	"github.com/gpubench/autobench/harness"
	"github.com/gpubench/autobench/internal/config"
	"github.com/gpubench/autobench/internal/proc"
	"github.com/gpubench/autobench/report"
	"github.com/gpubench/autobench/resultdb"
	"github.com/gpubench/autobench/upload"
)

// app holds what a run needs from the outside world.
type app struct {
	exec   proc.Executor
	stdout io.Writer // report, if there is no output file
	stderr io.Writer // summary table
	log    *log.Logger

	// publish uploads the finished report. Nil means
	// (*app).publishReport.
	publish func(ctx context.Context, cfg *config.Config) error
}

func (a *app) run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	specs, err := a.resolve(cfg)
	if err != nil {
		return err
	}

	b := cfg.Builder(a.exec)
	b.Log = a.log
	if _, err := b.Build(ctx, specs); err != nil {
		var fail *build.BuildFailure
		if errors.As(err, &fail) {
			for _, o := range fail.Failed {
				a.log.Error("build failed", "bench", o.Spec.Name, "dir", o.Spec.Dir, "err", o.Err)
				if len(o.Stdout) > 0 {
					a.log.Print(string(o.Stdout))
				}
				if len(o.Stderr) > 0 {
					a.log.Print(string(o.Stderr))
				}
			}
		}
		return err
	}
	compiled := time.Now()
	if cfg.Repeat == 0 {
		a.log.Info(fmt.Sprintf("compilation took %.3f s", compiled.Sub(start).Seconds()))
		return nil
	}

	outs, err := a.measure(ctx, cfg, specs)
	if err != nil {
		return err
	}
	if err := harness.WriteSummary(a.stderr, outs); err != nil {
		return err
	}
	done := time.Now()
	a.log.Info(fmt.Sprintf("compilation took %.3f s, running took %.3f s",
		compiled.Sub(start).Seconds(), done.Sub(compiled).Seconds()))

	if cfg.Upload != nil {
		publish := a.publish
		if publish == nil {
			publish = a.publishReport
		}
		if err := publish(ctx, cfg); err != nil {
			return fmt.Errorf("upload: %w", err)
		}
	}
	return nil
}

// resolve loads the catalog and fail-list and resolves the requested
// benchmarks.
func (a *app) resolve(cfg *config.Config) ([]*benchspec.Spec, error) {
	cat, err := catalog.Load(cfg.BenchData)
	if err != nil {
		return nil, err
	}
	fails, err := catalog.LoadFailList(cfg.BenchFails)
	if err != nil {
		return nil, err
	}
	specs, err := benchspec.Resolve(cat, fails, cfg.Benches, &cfg.Spec)
	if err != nil {
		return nil, err
	}
	a.log.Debug("resolved benchmarks", "count", len(specs), "catalog", cfg.BenchData)
	return specs, nil
}

// measure runs the measurement phase, writing results to the report
// and to the database, if any.
func (a *app) measure(ctx context.Context, cfg *config.Config, specs []*benchspec.Spec) ([]*harness.Outcome, error) {
	r := cfg.Runner(a.exec)
	r.Log = a.log
	h := &harness.Harness{
		Runner:  r,
		Report:  report.NewWriter(a.stdout),
		Options: cfg.Harness(),
		Log:     a.log,
	}

	if cfg.Output != "" {
		skip, bad, err := report.Load(cfg.Output)
		if err != nil {
			return nil, err
		}
		for _, e := range bad {
			a.log.Warn("ignoring malformed report line", "err", e)
		}
		if len(skip) > 0 {
			a.log.Info("resuming report", "path", cfg.Output, "results", len(skip))
		}
		out, err := report.OpenAppender(cfg.Output)
		if err != nil {
			return nil, err
		}
		defer out.Close()
		h.Report, h.Skip = out, skip
	}

	if cfg.DB != nil {
		db, err := resultdb.OpenSQL(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening %s database: %w", cfg.DB.Driver, err)
		}
		defer db.Close()
		host, _ := os.Hostname()
		run, err := db.NewRun(ctx, resultdb.RunInfo{
			Host:   host,
			Trials: h.Options.Trials,
			Warmup: h.Options.Warmup,
			Args:   os.Args,
		})
		if err != nil {
			return nil, err
		}
		a.log.Debug("recording to database", "driver", cfg.DB.Driver, "run", run.ID)
		h.Mirrors = append(h.Mirrors, run)
	}

	return h.Run(ctx, specs), nil
}

func (a *app) publishReport(ctx context.Context, cfg *config.Config) error {
	c, err := upload.New(ctx, cfg.Credentials)
	if err != nil {
		return err
	}
	defer c.Close()
	u, err := c.Upload(ctx, cfg.Output, cfg.Upload)
	if err != nil {
		return err
	}
	a.log.Info("uploaded report", "url", u)
	return nil
}

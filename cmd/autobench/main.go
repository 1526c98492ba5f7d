// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Autobench builds and measures GPU benchmark programs.
//
// Usage:
//
//	autobench [flags] bench...
//
// Each bench is either a benchmark name from the catalog or a backend
// tag (sycl, cuda, hip or opencl) standing for every catalog benchmark
// of that backend not on the fail-list. All requested benchmarks are
// built in parallel; if any build fails, autobench exits without
// running anything. Otherwise each benchmark is run once to warm up
// and then -repeat more times, and one line
//
//	name,min,mean,stddev,coefvar
//
// is written per benchmark to the -output report, or to standard
// output. Benchmarks already in the report are skipped, so an
// interrupted run can be resumed by running the same command again.
//
// Every flag can also be set with an AUTOBENCH_<FLAG> environment
// variable (AUTOBENCH_SYCL_TYPE for -sycl-type) or in a -config file.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"

	"github.com/gpubench/autobench/internal/config"
	"github.com/gpubench/autobench/internal/proc"
	_ "github.com/gpubench/autobench/resultdb/sqlite3"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "autobench [flags] bench...",
		Short:         "Build and measure GPU benchmarks",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := config.Load(v, args)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				a.log.SetLevel(log.DebugLevel)
			}
			return a.run(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "autobench",
		ReportTimestamp: true,
	})
	a := &app{
		exec:   new(proc.Local),
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    logger,
	}
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trial

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/catalog"
	"github.com/gpubench/autobench/extract"
	"github.com/gpubench/autobench/internal/proc"
	"github.com/gpubench/autobench/internal/proc/proctest"
)

func testSpec(t *testing.T, e *catalog.Entry) *benchspec.Spec {
	t.Helper()
	if e.Binary == "" {
		e.Binary = catalog.DefaultBinary
	}
	s, err := benchspec.New(e, &benchspec.Options{BenchDir: "/bench"})
	require.NoError(t, err)
	return s
}

func TestRunMetric(t *testing.T) {
	s := testSpec(t, &catalog.Entry{Name: "foo-cuda", Pattern: `Time: (\d+\.\d+)`, Args: []string{"100"}})
	fake := &proctest.Fake{Handler: func(*proc.Cmd) (*proc.Result, error) {
		return proctest.Output("Time: 1.5\nTime: 2.0\n")
	}}
	r := &Runner{Exec: fake, Env: []string{"A=1"}, Log: log.New(io.Discard)}
	m, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 3.5, m)

	cmds := fake.Cmds()
	require.Len(t, cmds, 1)
	assert.Equal(t, "./main 100", cmds[0].String())
	assert.Equal(t, "/bench/foo-cuda", cmds[0].Dir)
	assert.Equal(t, []string{"A=1"}, cmds[0].Env)
	assert.Equal(t, DefaultTimeout, cmds[0].Timeout)
}

func TestRunInvert(t *testing.T) {
	s := testSpec(t, &catalog.Entry{Name: "foo-hip", Pattern: `t=(\d+)`, Invert: true})
	r := &Runner{Exec: &proctest.Fake{Handler: proctest.Sequence("t=4")}, Log: log.New(io.Discard)}
	m, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 0.25, m)
}

func TestRunFailures(t *testing.T) {
	s := testSpec(t, &catalog.Entry{Name: "foo-cuda", Pattern: `Time: (\d+)`})
	for _, test := range []struct {
		name    string
		handler proctest.Handler
		check   func(t *testing.T, err error)
	}{
		{
			"no match",
			proctest.Sequence("done\n"),
			func(t *testing.T, err error) {
				var nm *extract.NoMetricMatchError
				require.ErrorAs(t, err, &nm)
				assert.Equal(t, "done\n", nm.Output)
			},
		},
		{
			"exit",
			func(c *proc.Cmd) (*proc.Result, error) { return proctest.Exit(c, 1, "Time: 3", "") },
			func(t *testing.T, err error) {
				var ee *proc.ExitError
				require.ErrorAs(t, err, &ee)
			},
		},
		{
			"timeout",
			proctest.Timeout,
			func(t *testing.T, err error) {
				var te *proc.TimeoutError
				require.ErrorAs(t, err, &te)
			},
		},
		{
			"start",
			func(*proc.Cmd) (*proc.Result, error) { return nil, errors.New("exec: not found") },
			func(t *testing.T, err error) {
				var te *Error
				require.ErrorAs(t, err, &te)
				assert.Empty(t, te.Output)
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			r := &Runner{Exec: &proctest.Fake{Handler: test.handler}, Log: log.New(io.Discard)}
			_, err := r.Run(context.Background(), s)
			require.Error(t, err)
			var te *Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "foo-cuda", te.Name)
			assert.Equal(t, "/bench/foo-cuda", te.Dir)
			assert.Equal(t, "./main", te.Cmdline)
			test.check(t, err)
		})
	}
}

func TestWrapper(t *testing.T) {
	var w *Wrapper
	assert.False(t, w.Active())
	assert.Nil(t, w.Prefix("x"))

	w = &Wrapper{Numactl: []string{"-N", "0", "-m", "0"}}
	assert.True(t, w.Active())
	assert.Equal(t, []string{"numactl", "-N", "0", "-m", "0"}, w.Prefix("x-sycl"))

	w = &Wrapper{VTuneSuffix: "-run1"}
	assert.False(t, w.Active())
	assert.Empty(t, w.Prefix("x-sycl"))

	w = &Wrapper{Numactl: []string{"-N", "1"}, VTuneSuffix: "-run1"}
	assert.Equal(t, []string{"numactl", "-N", "1"}, w.Prefix("x-sycl"))

	w = &Wrapper{Numactl: []string{"-N", "1"}, VTunePrefix: "/tmp/vt-", VTuneSuffix: "-run1"}
	assert.Equal(t,
		[]string{"numactl", "-N", "1", "vtune", "-collect", "gpu-hotspots", "-r", "/tmp/vt-x-sycl-run1"},
		w.Prefix("x-sycl"))

	s := testSpec(t, &catalog.Entry{Name: "x-sycl", Pattern: `t=(\d+)`, Args: []string{"8"}, Binary: "bin"})
	r := &Runner{Wrapper: w}
	c := r.Command(s)
	assert.Equal(t, "numactl", c.Path)
	assert.Equal(t, "numactl -N 1 vtune -collect gpu-hotspots -r /tmp/vt-x-sycl-run1 ./bin 8", c.String())
}

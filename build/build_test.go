// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpubench/autobench/benchspec"
	"github.com/gpubench/autobench/internal/proc"
	"github.com/gpubench/autobench/internal/proc/proctest"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func specs(names ...string) []*benchspec.Spec {
	var out []*benchspec.Spec
	for _, n := range names {
		out = append(out, &benchspec.Spec{Name: n, Dir: "/bench/" + n, MakeArgs: []string{"CUDA_ARCH=sm_60"}})
	}
	return out
}

func TestBuildAll(t *testing.T) {
	fake := &proctest.Fake{}
	b := &Builder{Exec: fake, Log: quietLogger()}
	outs, err := b.Build(context.Background(), specs("a-cuda", "b-cuda", "c-cuda"))
	require.NoError(t, err)
	require.Len(t, outs, 3)
	for i, name := range []string{"a-cuda", "b-cuda", "c-cuda"} {
		assert.Equal(t, name, outs[i].Spec.Name)
		assert.NoError(t, outs[i].Err)
	}

	cmds := fake.Cmds()
	require.Len(t, cmds, 3)
	dirs := map[string]bool{}
	for _, c := range cmds {
		assert.Equal(t, "make", c.Path)
		assert.Equal(t, []string{"CUDA_ARCH=sm_60"}, c.Args)
		dirs[c.Dir] = true
	}
	assert.Len(t, dirs, 3)
}

func TestBuildFailureWaitsForAll(t *testing.T) {
	fake := &proctest.Fake{Handler: func(c *proc.Cmd) (*proc.Result, error) {
		if strings.HasSuffix(c.Dir, "/bad-cuda") {
			return proctest.Exit(c, 2, "", "main.cu:1: error")
		}
		return proctest.Output("ok")
	}}
	b := &Builder{Exec: fake, Log: quietLogger()}
	outs, err := b.Build(context.Background(), specs("a-cuda", "bad-cuda", "c-cuda", "d-cuda"))

	var fail *BuildFailure
	require.ErrorAs(t, err, &fail)
	require.Len(t, fail.Failed, 1)
	assert.Equal(t, "bad-cuda", fail.Failed[0].Spec.Name)
	assert.Equal(t, "main.cu:1: error", string(fail.Failed[0].Stderr))
	assert.Contains(t, err.Error(), "bad-cuda")

	// Siblings still ran to completion.
	assert.Len(t, fake.Cmds(), 4)
	for _, o := range outs {
		require.NotNil(t, o)
	}
	assert.Equal(t, "ok", string(outs[3].Stdout))
}

func TestBuildClean(t *testing.T) {
	fake := &proctest.Fake{}
	b := &Builder{Exec: fake, Clean: true, Settle: time.Millisecond, Log: quietLogger()}
	_, err := b.Build(context.Background(), specs("a-hip"))
	require.NoError(t, err)

	cmds := fake.Cmds()
	require.Len(t, cmds, 2)
	assert.Equal(t, "make clean", cmds[0].String())
	assert.Equal(t, "make CUDA_ARCH=sm_60", cmds[1].String())
}

func TestBuildCleanFailure(t *testing.T) {
	fake := &proctest.Fake{Handler: func(c *proc.Cmd) (*proc.Result, error) {
		return proctest.Exit(c, 2, "", "no rule")
	}}
	b := &Builder{Exec: fake, Clean: true, Log: quietLogger()}
	_, err := b.Build(context.Background(), specs("a-hip"))
	var fail *BuildFailure
	require.ErrorAs(t, err, &fail)
	require.Len(t, fail.Failed, 1)
	assert.Equal(t, "no rule", string(fail.Failed[0].Stderr))
	// The build itself is not attempted after a failed clean.
	assert.Len(t, fake.Cmds(), 1)
}

func TestBuildConcurrencyLimit(t *testing.T) {
	var running, peak atomic.Int32
	var once sync.Once
	release := make(chan struct{})
	fake := &proctest.Fake{Handler: func(c *proc.Cmd) (*proc.Result, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if n == Workers {
			once.Do(func() { close(release) })
		}
		<-release
		running.Add(-1)
		return proctest.Output("")
	}}

	var names []string
	for i := 0; i < 3*Workers; i++ {
		names = append(names, "b"+strings.Repeat("x", i)+"-cuda")
	}
	b := &Builder{Exec: fake, Log: quietLogger()}
	_, err := b.Build(context.Background(), specs(names...))
	require.NoError(t, err)
	assert.Equal(t, int32(Workers), peak.Load())
	assert.Len(t, fake.Cmds(), 3*Workers)
}

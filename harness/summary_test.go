// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harness

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpubench/autobench/report"
)

func TestWriteSummary(t *testing.T) {
	outs := []*Outcome{
		{Name: "foo-cuda", State: Recorded, Result: &report.Result{
			Name: "foo-cuda", Min: 1, Mean: 1.5, StdDev: 0.5, CoefVar: 1.0 / 3, Values: []float64{1, 2, 1.5},
		}},
		{Name: "bar-cuda", State: Failed, Err: errors.New("no match")},
		{Name: "baz-hip", State: Skipped},
	}
	var b strings.Builder
	require.NoError(t, WriteSummary(&b, outs))
	assert.Equal(t, ""+
		"name       min  mean  ±cv n state\n"+
		"foo-cuda 1.000 1.500 ±33% 3 recorded\n"+
		"bar-cuda                    failed\n"+
		"baz-hip                     skipped\n",
		b.String())
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harness

import (
	"io"
	"strconv"

	"github.com/gpubench/autobench/benchmath"
	"github.com/gpubench/autobench/benchunit"
	"github.com/gpubench/autobench/internal/texttab"
)

// WriteSummary writes a table of outcomes to w for people to read.
func WriteSummary(w io.Writer, outs []*Outcome) error {
	var tab texttab.Table
	tab.Row().Cell("name").Cell("min", texttab.Right).Cell("mean", texttab.Right).
		Cell("±cv", texttab.Right).Cell("n", texttab.Right).Cell("state")
	for _, o := range outs {
		tab.Row().Cell(o.Name)
		if o.State != Recorded {
			tab.Cell("").Cell("").Cell("").Cell("").Cell(o.State.String())
			continue
		}
		r := o.Result
		sum := benchmath.Summary{N: len(r.Values), CoefVar: r.CoefVar}
		tab.Cell(benchunit.Scale(r.Min), texttab.Right).
			Cell(benchunit.Scale(r.Mean), texttab.Right).
			Cell("±"+sum.PctString(), texttab.Right).
			Cell(strconv.Itoa(sum.N), texttab.Right).
			Cell(o.State.String())
	}
	return tab.Format(w)
}

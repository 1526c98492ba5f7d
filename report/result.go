// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report reads and writes benchmark reports.
//
// A report is a comma-separated text file with one line per
// benchmark and no header:
//
//	name,min,mean,stddev,coefvar
//
// Reports are append-only. A report written by an interrupted run can
// be reopened: the names it already holds form a SkipSet, and new
// results are appended after the existing lines.
package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/gpubench/autobench/benchmath"
)

// A Record is one item read from a report: a *Result or a
// *SyntaxError.
type Record interface {
	isRecord()
}

// A Result is the summary of one benchmark's trials.
type Result struct {
	Name    string
	Min     float64
	Mean    float64
	StdDev  float64
	CoefVar float64

	// Values are the raw trial values. They are not part of the
	// report format and are nil for Results read from a report.
	Values []float64
}

func (*Result) isRecord() {}

// NewResult returns the Result for the benchmark called name with the
// given trial values and their summary.
func NewResult(name string, values []float64, sum benchmath.Summary) *Result {
	return &Result{
		Name:    name,
		Min:     sum.Min,
		Mean:    sum.Mean,
		StdDev:  sum.StdDev,
		CoefVar: sum.CoefVar,
		Values:  append([]float64(nil), values...),
	}
}

// FormatFloat formats v the way report lines have always been written:
// the shortest representation that round-trips, always carrying a
// decimal point or an exponent. Exponents are used for magnitudes
// below 1e-4 or at least 1e16.
//
//	1 -> "1.0", 0.5 -> "0.5", 1e-05 -> "1e-05", +Inf -> "inf"
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return s
	}
	s = strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

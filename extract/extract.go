// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package extract pulls numeric performance metrics out of benchmark
// output.
//
// An Extractor turns raw output into zero or more values. Metric
// combines those values into the single headline number recorded for
// one run: the values are summed, since some benchmarks report the
// timing of several phases separately, and optionally inverted to
// turn a time into a rate.
package extract

import (
	"errors"
	"fmt"
)

// An Extractor finds metric values in the output of one benchmark run.
// A nil slice with a nil error means the output held no values.
type Extractor interface {
	Extract(output string) ([]float64, error)
}

// ExtractorFunc adapts an ordinary function to the Extractor interface.
type ExtractorFunc func(output string) ([]float64, error)

func (f ExtractorFunc) Extract(output string) ([]float64, error) {
	return f(output)
}

// A NoMetricMatchError is returned by Metric when the output holds no
// values. Output is the full output, for diagnosis.
type NoMetricMatchError struct {
	Pattern string
	Output  string
}

func (e *NoMetricMatchError) Error() string {
	return fmt.Sprintf("no match for %q in output:\n%s", e.Pattern, e.Output)
}

// ErrZeroMetric is returned by Metric when an inverted metric sums to
// zero.
var ErrZeroMetric = errors.New("cannot invert zero metric")

// Metric extracts the metric of one run from output. If x finds more
// than one value, the values are summed. If invert is set, the result
// is the reciprocal of the sum.
func Metric(x Extractor, output string, invert bool) (float64, error) {
	vals, err := x.Extract(output)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, &NoMetricMatchError{Pattern: describe(x), Output: output}
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	if invert {
		if sum == 0 {
			return 0, ErrZeroMetric
		}
		sum = 1 / sum
	}
	return sum, nil
}

func describe(x Extractor) string {
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", x)
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath computes summary statistics over repeated
// measurements of a benchmark.
//
// The headline figure of a sample is its minimum, since system noise
// only ever inflates a timing. The mean, sample standard deviation and
// coefficient of variation describe how noisy the measurements were.
package benchmath

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// ErrEmptySample is returned when summarizing a sample with no values.
var ErrEmptySample = errors.New("empty sample")

// ErrZeroMean is returned when the coefficient of variation of a
// sample with more than one value is undefined because its mean is 0.
var ErrZeroMean = errors.New("coefficient of variation of zero-mean sample")

// A Sample is a set of repeated measurements of a given benchmark.
type Sample struct {
	// Values are the measured values, in ascending order.
	Values []float64
}

// NewSample constructs a Sample from a set of measurements. It does
// not modify values.
func NewSample(values []float64) *Sample {
	// Sort a copy for fast order statistics.
	vs := append([]float64(nil), values...)
	sort.Float64s(vs)
	return &Sample{vs}
}

func (s *Sample) sample() stats.Sample {
	return stats.Sample{Xs: s.Values, Sorted: true}
}

// A Summary summarizes a Sample.
type Summary struct {
	N    int
	Min  float64
	Mean float64

	// StdDev is the sample standard deviation. It is 0 for a sample
	// of one value, where variance is undefined.
	StdDev float64

	// CoefVar is StdDev / Mean, or 0 for a sample of one value.
	CoefVar float64
}

// Summary computes the summary statistics of s.
func (s *Sample) Summary() (Summary, error) {
	n := len(s.Values)
	if n == 0 {
		return Summary{}, ErrEmptySample
	}
	ss := s.sample()
	min, _ := ss.Bounds()
	sum := Summary{N: n, Min: min, Mean: ss.Mean()}
	if n == 1 {
		return sum, nil
	}
	sum.StdDev = ss.StdDev()
	if sum.Mean == 0 {
		return Summary{}, ErrZeroMean
	}
	sum.CoefVar = sum.StdDev / sum.Mean
	return sum, nil
}

// PctString returns the coefficient of variation of s as a
// percentage.
func (s Summary) PctString() string {
	if math.IsInf(s.CoefVar, 0) || math.IsNaN(s.CoefVar) {
		return "?"
	}
	if s.N < 2 {
		return "~"
	}
	return fmt.Sprintf("%.0f%%", 100*math.Abs(s.CoefVar))
}

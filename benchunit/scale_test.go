// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"math"
	"testing"
)

func TestScale(t *testing.T) {
	test := func(num float64, want, wantPred string) {
		t.Helper()

		got := Scale(num)
		if got != want {
			t.Errorf("for %v, got %s, want %s", num, got, want)
		}

		// Check what happens when this number is exactly on
		// the crux between two scale factors.
		pred := math.Nextafter(num, 0)
		got = Scale(pred)
		if got != wantPred {
			t.Errorf("for %v-ε, got %s, want %s", num, got, wantPred)
		}
	}

	test(0, "0.000", "0.000")
	test(1, "1.000", "1.000")
	test(-1, "-1.000", "-1.000")
	test(999950000000000, "1000.0T", "999.9T")
	test(99995000, "100.0M", "99.99M")
	test(9999.5, "10.00k", "9.999k")
	test(999.95, "1.000k", "999.9")
	test(99.995, "100.0", "99.99")
	test(9.9995, "10.00", "9.999")
	test(.99995, "1.000", "999.9m")
	test(.0099995, "10.00m", "9.999m")
	test(.00099995, "1.000m", "999.9µ")
	test(.00000099995, "1.000µ", "999.9n")
	test(.00000000099995, "1.000n", "0.9999n")
}

func TestScaleNonFinite(t *testing.T) {
	if got := Scale(math.Inf(1)); got != "+Inf" {
		t.Errorf("Scale(+Inf) = %s, want +Inf", got)
	}
	if got := Scale(math.NaN()); got != "NaN" {
		t.Errorf("Scale(NaN) = %s, want NaN", got)
	}
}

func TestCommonScale(t *testing.T) {
	s := CommonScale([]float64{1500, 2.5e6, 0, math.Inf(1)})
	if s.Prefix != "k" || s.Prec != 3 {
		t.Fatalf("CommonScale = %+v, want 3 digits of k", s)
	}
	if got := s.Format(2.5e6); got != "2500.000k" {
		t.Errorf("Format(2.5e6) = %s", got)
	}
}

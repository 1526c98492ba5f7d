// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// A Pattern is a regular-expression Extractor. Each match contributes
// one value: the text of the first capture group if the pattern has
// groups, otherwise the text of the whole match.
//
// Patterns are compiled with the regexp package when possible. Catalog
// patterns written for backtracking engines (lookaround,
// backreferences) fall back to regexp2.
type Pattern struct {
	src string
	re  *regexp.Regexp
	re2 *regexp2.Regexp
}

// Compile parses a pattern.
func Compile(pattern string) (*Pattern, error) {
	if re, err := regexp.Compile(pattern); err == nil {
		return &Pattern{src: pattern, re: re}, nil
	}
	re2, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("bad result pattern %q: %w", pattern, err)
	}
	return &Pattern{src: pattern, re2: re2}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be
// parsed.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) String() string {
	return p.src
}

// Extract returns the value of every match of p in output.
func (p *Pattern) Extract(output string) ([]float64, error) {
	texts, err := p.matches(output)
	if err != nil {
		return nil, err
	}
	var vals []float64
	for _, text := range texts {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("pattern %q matched non-numeric %q", p.src, text)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (p *Pattern) matches(output string) ([]string, error) {
	var texts []string
	if p.re != nil {
		group := 0
		if p.re.NumSubexp() > 0 {
			group = 1
		}
		for _, m := range p.re.FindAllStringSubmatch(output, -1) {
			texts = append(texts, m[group])
		}
		return texts, nil
	}

	m, err := p.re2.FindStringMatch(output)
	for ; m != nil && err == nil; m, err = p.re2.FindNextMatch(m) {
		if m.GroupCount() > 1 {
			texts = append(texts, m.GroupByNumber(1).String())
		} else {
			texts = append(texts, m.String())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", p.src, err)
	}
	return texts, nil
}

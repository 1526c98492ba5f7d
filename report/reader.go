// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Reader reads a report.
//
// Its API is modeled on bufio.Scanner.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	rec      Record
}

// A SyntaxError represents a malformed line of a report.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (*SyntaxError) isRecord() {}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// maxLineLength bounds a single report line.
const maxLineLength = 64 << 20

var noRecord = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader returns a Reader reading the report r. fileName is used
// in error messages.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64<<10), maxLineLength)
	s.Split(scanLines)
	return &Reader{s: s, fileName: fileName, rec: noRecord}
}

// scanLines is bufio.ScanLines, except that it keeps the line
// terminator so an unterminated final line can be recognized.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Scan advances the reader to the next record and reports whether a
// record was read. Blank lines are skipped. When Scan returns false,
// the caller should check Err.
func (r *Reader) Scan() bool {
	for r.s.Scan() {
		r.line++
		line := r.s.Text()
		terminated := strings.HasSuffix(line, "\n")
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !terminated {
			r.rec = r.newSyntaxError("unterminated line")
			return true
		}
		r.rec = r.parse(line)
		return true
	}
	return false
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

func (r *Reader) parse(line string) Record {
	f := strings.Split(line, ",")
	if len(f) != 5 {
		return r.newSyntaxError(fmt.Sprintf("want 5 fields, got %d", len(f)))
	}
	if f[0] == "" {
		return r.newSyntaxError("empty benchmark name")
	}
	var vals [4]float64
	for i, s := range f[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r.newSyntaxError(fmt.Sprintf("parsing field %d: %v", i+2, err))
		}
		vals[i] = v
	}
	return &Result{Name: f[0], Min: vals[0], Mean: vals[1], StdDev: vals[2], CoefVar: vals[3]}
}

// Result returns the record that was just read by Scan. It is either
// a *Result or a *SyntaxError.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first I/O error encountered by the Reader.
func (r *Reader) Err() error {
	return r.s.Err()
}

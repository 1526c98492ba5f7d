// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// A Writer writes report lines.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes report lines to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes res as one line. The line is handed to the underlying
// io.Writer in a single Write call, so a crash never leaves more than
// one partial line behind.
func (w *Writer) Write(res *Result) error {
	w.buf.Reset()
	w.buf.WriteString(res.Name)
	for _, v := range []float64{res.Min, res.Mean, res.StdDev, res.CoefVar} {
		w.buf.WriteByte(',')
		w.buf.WriteString(FormatFloat(v))
	}
	w.buf.WriteByte('\n')
	_, err := w.w.Write(w.buf.Bytes())
	return err
}

// An Appender writes results to the end of a report file.
type Appender struct {
	*Writer
	f *os.File
}

// OpenAppender opens the report at path for appending, creating it if
// necessary. If the report ends in an unterminated line, OpenAppender
// terminates it so the next result starts on a line of its own.
func OpenAppender(path string) (*Appender, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	if err := terminate(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Appender{NewWriter(f), f}, nil
}

func terminate(f *os.File) error {
	st, err := f.Stat()
	if err != nil || st.Size() == 0 {
		return err
	}
	var last [1]byte
	if _, err := f.ReadAt(last[:], st.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

// Name returns the path of the report.
func (a *Appender) Name() string {
	return a.f.Name()
}

// Close closes the report file.
func (a *Appender) Close() error {
	return a.f.Close()
}

// Package codewriter writes indented source code line by line.
package codewriter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Writer accumulates generated code. Lines are prefixed with the current
// indentation, and trailing whitespace is stripped. A Writer may contain
// sections: placeholders that are filled in later but rendered in place,
// which is how import blocks are written before the code that needs them.
type Writer struct {
	indent string
	level  int
	chunks []chunk
}

type chunk struct {
	buf     *bytes.Buffer
	section *Writer
}

// New returns an empty Writer that indents with indent per level.
func New(indent string) *Writer {
	return &Writer{indent: indent}
}

// Indent returns the per-level indentation string.
func (w *Writer) Indent() string {
	return w.indent
}

// Level returns the current indentation level.
func (w *Writer) Level() int {
	return w.level
}

// PrefixLen returns the width of the current indentation.
func (w *Writer) PrefixLen() int {
	return w.level * len(w.indent)
}

func (w *Writer) current() *bytes.Buffer {
	if n := len(w.chunks); n > 0 && w.chunks[n-1].buf != nil {
		return w.chunks[n-1].buf
	}
	buf := &bytes.Buffer{}
	w.chunks = append(w.chunks, chunk{buf: buf})
	return buf
}

// Line writes one line at the current indentation. An empty line is written
// without indentation.
func (w *Writer) Line(text string) {
	buf := w.current()
	text = strings.TrimRight(text, " \t\r\n")
	if text != "" {
		for range w.level {
			buf.WriteString(w.indent)
		}
		buf.WriteString(text)
	}
	buf.WriteByte('\n')
}

// Linef is like Line with fmt.Sprintf formatting.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Lines writes each line of text at the current indentation.
func (w *Writer) Lines(text string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		w.Line(line)
	}
}

// Blank writes n empty lines.
func (w *Writer) Blank(n int) {
	buf := w.current()
	for range n {
		buf.WriteByte('\n')
	}
}

// Indented runs fn with the indentation increased by one level.
func (w *Writer) Indented(fn func()) {
	w.level++
	defer func() { w.level-- }()
	fn()
}

// Block writes open, runs fn indented and writes close. It is the common
// shape of braces in C-like languages.
func (w *Writer) Block(open string, fn func(), close string) {
	w.Line(open)
	w.Indented(fn)
	w.Line(close)
}

// Section inserts an empty nested Writer at the current position and
// returns it. Anything written to the section later appears here.
func (w *Writer) Section() *Writer {
	s := &Writer{indent: w.indent, level: w.level}
	w.chunks = append(w.chunks, chunk{section: s})
	return s
}

// Empty reports whether nothing has been written, including to sections.
func (w *Writer) Empty() bool {
	for _, c := range w.chunks {
		if c.buf != nil && c.buf.Len() > 0 {
			return false
		}
		if c.section != nil && !c.section.Empty() {
			return false
		}
	}
	return true
}

// WriteTo writes the accumulated code to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	var total int64
	for _, c := range w.chunks {
		if c.section != nil {
			n, err := c.section.WriteTo(dst)
			total += n
			if err != nil {
				return total, err
			}
			continue
		}
		n, err := dst.Write(c.buf.Bytes())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the accumulated code.
func (w *Writer) Bytes() []byte {
	var buf bytes.Buffer
	w.WriteTo(&buf)
	return buf.Bytes()
}

func (w *Writer) String() string {
	return string(w.Bytes())
}

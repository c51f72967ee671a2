// Package lineio reads and writes records as lines of text.
package lineio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// MaxLineSize is the longest line a Reader accepts.
const MaxLineSize = 16 * 1024 * 1024

// ParseFunc converts one line, without its newline, into a record.
type ParseFunc[T any] func(string) (T, error)

type Reader[T any] struct {
	scanner *bufio.Scanner
	parse   ParseFunc[T]
	name    string
	line    int
	rec     T
}

func NewReader[T any](r io.Reader, name string, parse ParseFunc[T]) *Reader[T] {
	s := bufio.NewScanner(r)
	s.Buffer(nil, MaxLineSize)
	return &Reader[T]{scanner: s, parse: parse, name: name}
}

func (r *Reader[T]) Read() (*T, error) {
	if !r.scanner.Scan() || r.scanner.Err() != nil {
		return nil, r.scanner.Err()
	}
	r.line++
	rec, err := r.parse(r.scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: line %d: %w", r.name, r.line, err)
	}
	r.rec = rec
	return &r.rec, nil
}

func ParseString(s string) (string, error) {
	return s, nil
}

func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

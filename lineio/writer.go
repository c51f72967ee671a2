package lineio

import (
	"bufio"
	"io"
	"strconv"
)

// FormatFunc renders a record as one line of text without a newline.
type FormatFunc[T any] func(T) string

// Writer writes records one per line.  Output is buffered until Flush.
type Writer[T any] struct {
	w      *bufio.Writer
	format FormatFunc[T]
}

func NewWriter[T any](w io.Writer, format FormatFunc[T]) *Writer[T] {
	return &Writer[T]{w: bufio.NewWriter(w), format: format}
}

func (w *Writer[T]) Write(rec T) error {
	if _, err := w.w.WriteString(w.format(rec)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer[T]) Flush() error {
	return w.w.Flush()
}

func FormatString(s string) string {
	return s
}

func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

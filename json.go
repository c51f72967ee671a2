package extsort

import (
	"fmt"

	"github.com/brimdata/extsort/frame"
	"github.com/goccy/go-json"
)

// JSONCodec encodes arbitrary records as frames holding their JSON
// encoding.  It serves record types that have no fixed-width form.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Append(dst []byte, rec T) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return dst, err
	}
	return frame.Append(dst, b), nil
}

func (JSONCodec[T]) Decode(b []byte) (T, int, error) {
	var rec T
	body, n, err := frame.Next(b)
	if err != nil {
		return rec, 0, frameError(err)
	}
	if body == nil {
		return rec, 0, fmt.Errorf("%w: unset JSON record", ErrMalformed)
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return rec, 0, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	return rec, n, nil
}

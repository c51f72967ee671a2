package extsort

import (
	"errors"
	"fmt"

	"github.com/brimdata/extsort/frame"
)

// BytesCodec encodes []byte records as frames.  A nil slice and an empty
// slice have distinct encodings.  Decoded records never alias the input
// since run buffers are reused across loads.
type BytesCodec struct{}

var _ Codec[[]byte] = BytesCodec{}

func (BytesCodec) Append(dst []byte, b []byte) ([]byte, error) {
	return frame.Append(dst, b), nil
}

func (BytesCodec) Decode(b []byte) ([]byte, int, error) {
	body, n, err := frame.Next(b)
	if err != nil {
		return nil, 0, frameError(err)
	}
	if body != nil {
		body = append(make([]byte, 0, len(body)), body...)
	}
	return body, n, nil
}

func (BytesCodec) Size(b []byte) int {
	if b == nil {
		return 1
	}
	return frame.Size(len(b))
}

// StringCodec encodes string records as frames.
type StringCodec struct{}

var _ Codec[string] = StringCodec{}

func (StringCodec) Append(dst []byte, s string) ([]byte, error) {
	dst = frame.AppendUvarint(dst, uint64(len(s))+1)
	return append(dst, s...), nil
}

func (StringCodec) Decode(b []byte) (string, int, error) {
	body, n, err := frame.Next(b)
	if err != nil {
		return "", 0, frameError(err)
	}
	if body == nil {
		return "", 0, fmt.Errorf("%w: unset string", ErrMalformed)
	}
	return string(body), n, nil
}

func (StringCodec) Size(s string) int {
	return frame.Size(len(s))
}

func frameError(err error) error {
	if errors.Is(err, frame.ErrShort) {
		return fmt.Errorf("%w: %s", ErrShortBuffer, err)
	}
	return fmt.Errorf("%w: %s", ErrMalformed, err)
}

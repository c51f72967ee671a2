// Package frame implements the length-prefixed framing used by the tagged
// record codecs.
//
// A frame is an unsigned varint tag followed by an optional body.  A tag of
// zero indicates an unset (nil) body and nothing follows.  A nonzero tag
// indicates that a body of length tag-1 follows.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrShort is returned when a buffer holds only a prefix of a frame.
	ErrShort = errors.New("short frame")
	// ErrBadTag is returned when a frame tag is not a valid uvarint.
	ErrBadTag = errors.New("bad frame tag")
)

const tagUnset = 0

// Append appends body to dst as a frame and returns the extended buffer.
func Append(dst []byte, body []byte) []byte {
	if body == nil {
		return AppendUvarint(dst, tagUnset)
	}
	dst = AppendUvarint(dst, uint64(len(body))+1)
	return append(dst, body...)
}

// Size returns the number of bytes Append uses to frame a body of length n.
func Size(n int) int {
	return SizeOfUvarint(uint64(n)+1) + n
}

// Next decodes the frame at the front of b.  It returns the body (nil for an
// unset frame, aliasing b otherwise) and the total number of bytes the frame
// occupies.  ErrShort means that b ends before the frame does.
func Next(b []byte) ([]byte, int, error) {
	tag, n := binary.Uvarint(b)
	if n == 0 {
		return nil, 0, ErrShort
	}
	if n < 0 {
		return nil, 0, ErrBadTag
	}
	if tag == tagUnset {
		return nil, n, nil
	}
	length := tag - 1
	if length > uint64(len(b)-n) {
		if length > maxBody {
			return nil, 0, fmt.Errorf("%w: body length %d", ErrBadTag, length)
		}
		return nil, 0, ErrShort
	}
	end := n + int(length)
	return b[n:end:end], end, nil
}

const maxBody = 1<<31 - 1

// AppendUvarint is like encoding/binary.PutUvarint but appends to dst
// instead of writing into it.
func AppendUvarint(dst []byte, u64 uint64) []byte {
	for u64 >= 0x80 {
		dst = append(dst, byte(u64)|0x80)
		u64 >>= 7
	}
	return append(dst, byte(u64))
}

// SizeOfUvarint returns the number of bytes required by AppendUvarint to
// represent u64.
func SizeOfUvarint(u64 uint64) int {
	n := 1
	for u64 >= 0x80 {
		n++
		u64 >>= 7
	}
	return n
}

package extsort

import (
	"encoding/binary"
	"fmt"
)

const fixedWidth = 8

// Int64Codec encodes int64 records as eight big-endian bytes with the sign
// bit inverted, so that encodings compare bytewise in numeric order.
type Int64Codec struct{}

var _ Codec[int64] = Int64Codec{}

func (Int64Codec) FixedSize() int { return fixedWidth }

func (Int64Codec) Append(dst []byte, i int64) ([]byte, error) {
	return AppendInt(dst, i), nil
}

func (Int64Codec) Decode(b []byte) (int64, int, error) {
	if len(b) < fixedWidth {
		return 0, 0, shortFixed(len(b))
	}
	return DecodeInt(b), fixedWidth, nil
}

func AppendInt(dst []byte, i int64) []byte {
	return AppendUint(dst, uint64(i)^signBit)
}

func DecodeInt(b []byte) int64 {
	return int64(DecodeUint(b) ^ signBit)
}

const signBit = 1 << 63

// Uint64Codec encodes uint64 records as eight big-endian bytes.
type Uint64Codec struct{}

var _ Codec[uint64] = Uint64Codec{}

func (Uint64Codec) FixedSize() int { return fixedWidth }

func (Uint64Codec) Append(dst []byte, u uint64) ([]byte, error) {
	return AppendUint(dst, u), nil
}

func (Uint64Codec) Decode(b []byte) (uint64, int, error) {
	if len(b) < fixedWidth {
		return 0, 0, shortFixed(len(b))
	}
	return DecodeUint(b), fixedWidth, nil
}

func AppendUint(dst []byte, u uint64) []byte {
	var b [fixedWidth]byte
	binary.BigEndian.PutUint64(b[:], u)
	return append(dst, b[:]...)
}

func DecodeUint(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

func shortFixed(n int) error {
	return fmt.Errorf("%w: have %d of %d bytes", ErrShortBuffer, n, fixedWidth)
}

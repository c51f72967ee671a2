package extsort

import (
	"math"
)

// Float64Codec encodes float64 records as eight big-endian bytes arranged
// so that encodings compare bytewise in IEEE 754 total order: negative
// values have every bit flipped and non-negative values have their sign bit
// set.
type Float64Codec struct{}

var _ Codec[float64] = Float64Codec{}

func (Float64Codec) FixedSize() int { return fixedWidth }

func (Float64Codec) Append(dst []byte, f float64) ([]byte, error) {
	return AppendFloat(dst, f), nil
}

func (Float64Codec) Decode(b []byte) (float64, int, error) {
	if len(b) < fixedWidth {
		return 0, 0, shortFixed(len(b))
	}
	return DecodeFloat(b), fixedWidth, nil
}

func AppendFloat(dst []byte, f float64) []byte {
	bits := math.Float64bits(f)
	if bits&signBit != 0 {
		bits = ^bits
	} else {
		bits |= signBit
	}
	return AppendUint(dst, bits)
}

func DecodeFloat(b []byte) float64 {
	bits := DecodeUint(b)
	if bits&signBit != 0 {
		bits &^= signBit
	} else {
		bits = ^bits
	}
	return math.Float64frombits(bits)
}

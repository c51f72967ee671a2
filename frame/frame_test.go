package frame

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appendCases = [][][]byte{
	{},
	{nil},
	{[]byte{}},
	{[]byte{}, nil},
	{[]byte("data")},
	{[]byte("\x00\x01\x02")},
	{[]byte("UTF-8 \b5Ὂg̀9!℃ᾭG€�")},
	{[]byte("data"), nil, []byte("\x1a\x2b\x3c"), []byte("UTF-8 \b5Ὂg̀9!℃ᾭG€�")},
	{[]byte("thisisareallylongstringdoyoulikereallylongstrings?Ithoughtyoumightlikethemsoiaddedthistothetest")},
}

func TestAppend(t *testing.T) {
	for _, c := range appendCases {
		var buf []byte
		for _, val := range c {
			buf = Append(buf, val)
		}
		for _, expected := range c {
			require.NotEmpty(t, buf)
			val, n, err := Next(buf)
			require.NoError(t, err)
			assert.Exactly(t, expected, val)
			buf = buf[n:]
		}
		assert.Empty(t, buf)
	}
}

func TestSize(t *testing.T) {
	for _, n := range []int{0, 1, 126, 127, 128, 1 << 14, 1 << 20} {
		body := make([]byte, n)
		assert.Len(t, Append(nil, body), Size(n), "case: %d", n)
	}
}

func TestNextShort(t *testing.T) {
	buf := Append(nil, []byte("hello, world"))
	for i := 0; i < len(buf); i++ {
		_, _, err := Next(buf[:i])
		require.ErrorIs(t, err, ErrShort, "prefix length %d", i)
	}
	body, n, err := Next(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, "hello, world", string(body))
}

func TestNextBadTag(t *testing.T) {
	// Eleven continuation bytes overflow a uvarint.
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, _, err := Next(buf)
	require.ErrorIs(t, err, ErrBadTag)
	_, _, err = Next(AppendUvarint(nil, math.MaxUint64))
	require.ErrorIs(t, err, ErrBadTag)
}

func TestUvarint(t *testing.T) {
	cases := []uint64{
		0,
		1,
		2,
		126,
		127,
		128,
		(127 << 7) + 126,
		(127 << 7) + 127,
		(127 << 7) + 128,
		math.MaxUint8,
		math.MaxUint16,
		math.MaxUint32,
		math.MaxUint32 + 1,
		math.MaxUint64 - 1,
		math.MaxUint64,
	}
	for _, c := range cases {
		buf := AppendUvarint(nil, c)
		u64, n := binary.Uvarint(buf)
		require.Len(t, buf, n, "case: %d", c)
		require.Len(t, buf, SizeOfUvarint(c), "case: %d", c)
		require.Exactly(t, c, u64, "case: %d", c)
	}
}

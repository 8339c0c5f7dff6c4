package codec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

func pack(t *testing.T, f string, args ...any) ([]byte, *Warnings) {
	t.Helper()
	w := &Warnings{}
	out, err := Pack(context.Background(), format.Compile(f, format.Pack), args, Options{Warner: w})
	require.NoError(t, err)
	return out, w
}

func TestPackEndianness(t *testing.T) {
	cases := []struct {
		format string
		arg    any
		want   []byte
	}{
		{"N", 0x01020304, []byte{0x01, 0x02, 0x03, 0x04}},
		{"L", 0x01020304, []byte{0x01, 0x02, 0x03, 0x04}},
		{"l", 0x01020304, []byte{0x01, 0x02, 0x03, 0x04}},
		{"V", 0x01020304, []byte{0x04, 0x03, 0x02, 0x01}},
		{"n", 0x0102, []byte{0x01, 0x02}},
		{"s", 0x0102, []byte{0x01, 0x02}},
		{"S", 0x0102, []byte{0x01, 0x02}},
		{"v", 0x0102, []byte{0x02, 0x01}},
		{"c", -1, []byte{0xff}},
		{"C", 0x1ff, []byte{0xff}},
		{"i", 1, []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{"I", -2, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}},
		{"d", 1.5, []byte{0x3f, 0xf8, 0, 0, 0, 0, 0, 0}},
		{"f", 1.5, []byte{0x3f, 0xc0, 0, 0}},
	}
	for _, c := range cases {
		out, w := pack(t, c.format, c.arg)
		assert.Equal(t, c.want, out, c.format)
		assert.Zero(t, w.Len(), c.format)
	}
}

func TestPackBlocks(t *testing.T) {
	out, _ := pack(t, "A5", "ab")
	assert.Equal(t, "ab   ", string(out))

	out, _ = pack(t, "a5", "ab")
	assert.Equal(t, "ab\x00\x00\x00", string(out))

	out, _ = pack(t, "a2", "hello")
	assert.Equal(t, "he", string(out))

	out, _ = pack(t, "a*", "hello")
	assert.Equal(t, "hello", string(out))

	out, _ = pack(t, "a0", "hello")
	assert.Empty(t, out)

	out, _ = pack(t, "a", []byte{0xff, 0xfe})
	assert.Equal(t, []byte{0xff}, out)

	out, _ = pack(t, "A3", 42)
	assert.Equal(t, "42 ", string(out))
}

func TestPackPosition(t *testing.T) {
	out, w := pack(t, "A2@5", "ab")
	assert.Equal(t, "ab\x00\x00\x00", string(out))
	assert.Zero(t, w.Len())

	out, _ = pack(t, "A4@2", "abcd")
	assert.Equal(t, "abcd", string(out))

	out, w = pack(t, "C@*", 1)
	assert.Equal(t, []byte{1}, out)
	require.Equal(t, 1, w.Len())
	assert.ErrorIs(t, w.List()[0].Err, merr.ErrWildcardIgnored)
}

func TestPackNullFill(t *testing.T) {
	out, _ := pack(t, "Cx3C", 1, 2)
	assert.Equal(t, []byte{1, 0, 0, 0, 2}, out)

	out, w := pack(t, "x*")
	assert.Empty(t, out)
	require.Equal(t, 1, w.Len())
	assert.ErrorIs(t, w.List()[0].Err, merr.ErrWildcardIgnored)
	assert.Equal(t, byte('x'), w.List()[0].Code)
}

func TestPackHex(t *testing.T) {
	cases := []struct {
		format string
		arg    string
		want   []byte
	}{
		{"H4", "1234", []byte{0x12, 0x34}},
		{"h4", "1234", []byte{0x21, 0x43}},
		{"H3", "123", []byte{0x12, 0x30}},
		{"h3", "123", []byte{0x21, 0x03}},
		{"H*", "aBc", []byte{0xab, 0xc0}},
		{"H2", "abcd", []byte{0xab}},
		{"H", "f", []byte{0xf0}},
	}
	for _, c := range cases {
		out, w := pack(t, c.format, c.arg)
		assert.Equal(t, c.want, out, c.format)
		assert.Zero(t, w.Len(), c.format)
	}
}

func TestPackHexWarnings(t *testing.T) {
	out, w := pack(t, "H6", "12")
	assert.Empty(t, out)
	require.Equal(t, 1, w.Len())
	assert.ErrorIs(t, w.List()[0].Err, merr.ErrPackShortHexString)

	out, w = pack(t, "H2", "zz")
	assert.Equal(t, []byte{0x00}, out)
	require.Equal(t, 2, w.Len())
	assert.ErrorIs(t, w.Err(), merr.ErrPackInvalidHexDigit)
}

func TestPackNotEnoughArgs(t *testing.T) {
	out, w := pack(t, "N3", 1)
	assert.Equal(t, []byte{0, 0, 0, 1}, out)
	require.Equal(t, 1, w.Len())
	assert.ErrorIs(t, w.List()[0].Err, merr.ErrPackNotEnoughArgs)
	assert.True(t, merr.IsRecoverable(w.List()[0].Err))

	out, w = pack(t, "N*", 1, 2)
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2}, out)
	assert.Zero(t, w.Len())

	out, w = pack(t, "aC", 7)
	assert.Equal(t, []byte{'7'}, out)
	require.Equal(t, 1, w.Len())
	assert.Equal(t, 1, w.List()[0].Segment)

	// 后续段仍然执行。
	out, w = pack(t, "Nx2")
	assert.Equal(t, []byte{0, 0}, out)
	assert.Equal(t, 1, w.Len())
}

func TestPackCoercionWarning(t *testing.T) {
	out, w := pack(t, "n", "12abc")
	assert.Equal(t, []byte{0, 12}, out)
	require.Equal(t, 1, w.Len())
	assert.ErrorIs(t, w.List()[0].Err, merr.ErrPackValueCoercion)
}

func TestPackStrict(t *testing.T) {
	ctx := context.Background()
	out, err := Pack(ctx, format.Compile("N2C", format.Pack), []any{1}, Options{Strict: true, Warner: &Warnings{}})
	assert.ErrorIs(t, err, merr.ErrPackNotEnoughArgs)
	assert.Equal(t, []byte{0, 0, 0, 1}, out)

	out, err = Pack(ctx, format.Compile("CQ", format.Pack), []any{1}, Options{Strict: true})
	assert.ErrorIs(t, err, merr.ErrFormatUnknownCode)
	assert.Nil(t, out)

	// 宽松模式下未知字符被忽略。
	out, err = Pack(ctx, format.Compile("CQ", format.Pack), []any{1}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, []byte{1}, out)
}

func TestPackInvalidProgram(t *testing.T) {
	ctx := context.Background()
	_, err := Pack(ctx, format.Compile("C", format.Unpack), []any{1}, Options{})
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)

	_, err = Pack(ctx, nil, nil, Options{})
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}

func TestPackCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Pack(ctx, format.Compile("C", format.Pack), []any{1}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPackSegmentFunctional(t *testing.T) {
	seg := format.Compile("n2", format.Pack).At(0)
	args := []any{1, 2, 3}
	buf, next, err := PackSegment(seg, []byte{9}, args, 1, func(err error) error { return err })
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 0, 2, 0, 3}, buf)
	assert.Equal(t, 3, next)
	assert.Equal(t, []any{1, 2, 3}, args)
}

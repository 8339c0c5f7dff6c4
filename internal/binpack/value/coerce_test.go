package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

func TestToBits(t *testing.T) {
	cases := []struct {
		in   any
		want uint64
	}{
		{nil, 0},
		{true, 1},
		{false, 0},
		{int(-1), math.MaxUint64},
		{int8(-2), math.MaxUint64 - 1},
		{int32(0x01020304), 0x01020304},
		{uint64(math.MaxUint64), math.MaxUint64},
		{uint16(65535), 65535},
		{float64(3.9), 3},
		{float32(-2.5), math.MaxUint64 - 1},
		{"258", 258},
		{" -1 ", math.MaxUint64},
		{"+7", 7},
		{"010", 10},
		{"1e3", 1000},
		{"18446744073709551615", math.MaxUint64},
		{json.Number("42"), 42},
		{[]byte("9"), 9},
	}
	for _, c := range cases {
		got, err := ToBits(c.in)
		assert.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}

func TestToBitsWarnings(t *testing.T) {
	got, err := ToBits("12abc")
	assert.Equal(t, uint64(12), got)
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)
	assert.True(t, merr.IsRecoverable(err))

	got, err = ToBits("abc")
	assert.Equal(t, uint64(0), got)
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)

	got, err = ToBits(math.NaN())
	assert.Equal(t, uint64(0), got)
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)

	got, err = ToBits(1e30)
	assert.Equal(t, uint64(0), got)
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)

	_, err = ToBits(struct{}{})
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)
}

func TestToBitsFallback(t *testing.T) {
	// 未列出的类型交给 cast 处理，指针会被解引用。
	n := 5
	got, err := ToBits(&n)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)
}

func TestToFloat64(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{true, 1},
		{1.5, 1.5},
		{float32(0.5), 0.5},
		{int64(-3), -3},
		{7, 7},
		{"2.25", 2.25},
		{"-1e-2", -0.01},
		{".5", 0.5},
		{json.Number("3.5"), 3.5},
	}
	for _, c := range cases {
		got, err := ToFloat64(c.in)
		assert.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}

	got, err := ToFloat64("1.5kg")
	assert.Equal(t, 1.5, got)
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)

	got, err = ToFloat64("kg")
	assert.Equal(t, float64(0), got)
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)
}

func TestToBytes(t *testing.T) {
	raw := []byte{0, 1, 2}
	got, err := ToBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"hello", "hello"},
		{true, "1"},
		{false, ""},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{json.Number("12"), "12"},
	}
	for _, c := range cases {
		got, err := ToString(c.in)
		assert.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}

	_, err = ToBytes(struct{}{})
	assert.ErrorIs(t, err, merr.ErrPackValueCoercion)
}

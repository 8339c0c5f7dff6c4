package framer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

func TestRoundTrip(t *testing.T) {
	f := NewLengthPrefixedFramer(0)
	var buf bytes.Buffer
	require.NoError(t, f.WriteFrame(&buf, []byte("hello")))
	require.NoError(t, f.WriteFrame(&buf, nil))
	require.NoError(t, f.WriteFrame(&buf, []byte{1, 2}))

	assert.Equal(t, []byte{0, 0, 0, 5}, buf.Bytes()[:HeaderSize])

	payload, err := f.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)

	payload, err = f.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Empty(t, payload)

	payload, err = f.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, payload)

	_, err = f.ReadFrame(&buf)
	assert.Equal(t, io.EOF, err)
}

func TestTooLarge(t *testing.T) {
	f := NewLengthPrefixedFramer(4)
	var buf bytes.Buffer
	err := f.WriteFrame(&buf, []byte("hello"))
	assert.ErrorIs(t, err, merr.ErrFrameTooLarge)
	assert.Zero(t, buf.Len())

	_, err = f.ReadFrame(bytes.NewReader([]byte{0, 0, 0, 5, 'h'}))
	assert.ErrorIs(t, err, merr.ErrFrameTooLarge)
}

func TestTruncated(t *testing.T) {
	f := NewLengthPrefixedFramer(0)
	_, err := f.ReadFrame(bytes.NewReader([]byte{0, 0}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = f.ReadFrame(bytes.NewReader([]byte{0, 0, 0, 3, 'a'}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

package mqttcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteReaderCheckpointRewind(t *testing.T) {
	r := NewByteReader([]byte{0x01, 0x02, 0x03})

	checkpoint := r.Pos()
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	_, err = r.ReadN(5)
	assert.ErrorIs(t, err, ErrTruncated)

	r.RewindTo(checkpoint)
	assert.Equal(t, 0, r.Pos())

	b, err = r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)
}

func TestByteReaderResetGrowsBuffer(t *testing.T) {
	r := NewByteReader([]byte{0x01})
	_, err := r.ReadN(2)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, r.Pos())

	r.Reset([]byte{0x01, 0x02}, r.Pos())
	b, err := r.ReadN(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, b)
}

func TestByteReaderSkip(t *testing.T) {
	r := NewByteReader([]byte{0x01, 0x02, 0x03})
	require.NoError(t, r.Skip(2))
	assert.Equal(t, 1, r.Len())

	err := r.Skip(5)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, r.Len())
}

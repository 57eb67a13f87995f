package mqttcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVariableByteInteger(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    uint32
		wantN   int
		wantErr error
	}{
		{name: "zero", input: []byte{0x00}, want: 0, wantN: 1},
		{name: "one byte max", input: []byte{0x7F}, want: 127, wantN: 1},
		{name: "two bytes", input: []byte{0x80, 0x01}, want: 128, wantN: 2},
		{name: "three bytes", input: []byte{0xFF, 0xFF, 0x7F}, want: 2097151, wantN: 3},
		{name: "four bytes max", input: []byte{0xFF, 0xFF, 0xFF, 0x7F}, want: MaxVariableByteInteger, wantN: 4},
		{name: "truncated", input: []byte{0x80}, wantErr: ErrTruncated},
		{name: "malformed five bytes", input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, wantErr: ErrMalformedVarInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewByteReader(tt.input)
			got, n, err := DecodeVariableByteInteger(r)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestEncodeVariableByteIntegerRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, MaxVariableByteInteger}
	for _, v := range values {
		encoded, err := EncodeVariableByteInteger(nil, v)
		require.NoError(t, err)
		assert.Equal(t, SizeVariableByteInteger(v), len(encoded))

		decoded, n, err := DecodeVariableByteInteger(NewByteReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Equal(t, len(encoded), n)
	}
}

func TestEncodeVariableByteIntegerTooLarge(t *testing.T) {
	_, err := EncodeVariableByteInteger(nil, MaxVariableByteInteger+1)
	assert.ErrorIs(t, err, ErrVarIntTooLarge)
}

package mqttcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUTF8String(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "plain ascii", input: "hello/world"},
		{name: "empty", input: ""},
		{name: "null byte", input: "a\x00b", wantErr: ErrNullCharacter},
		{name: "lone surrogate encoded manually", input: string([]byte{0xED, 0xA0, 0x80}), wantErr: ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUTF8String(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

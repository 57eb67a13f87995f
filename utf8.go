package mqttcodec

import "unicode/utf8"

// ValidateUTF8String checks s against the MQTT "UTF-8 Encoded String"
// rules: well-formed UTF-8, no U+0000, and no UTF-16 surrogate code
// points (U+D800..U+DFFF), per the teacher's encoding.ValidateUTF8String.
func ValidateUTF8String(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	for _, r := range s {
		switch {
		case r == 0:
			return ErrNullCharacter
		case r >= 0xD800 && r <= 0xDFFF:
			return ErrSurrogateCodePoint
		}
	}
	return nil
}

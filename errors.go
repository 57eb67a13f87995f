// Package mqttcodec implements the wire-level primitives shared by the
// MQTT 3.1.1 and MQTT 5.0 dialects: a resumable byte cursor, the fixed
// and variable byte integer encodings, length-prefixed strings and byte
// arrays, and the fixed header codec.
package mqttcodec

import (
	"github.com/cockroachdb/errors"

	"github.com/wiremq/codec/wire"
)

var (
	// ErrTruncated signals that the reader does not yet hold enough
	// bytes to complete the current read. It is not a protocol error:
	// callers rewind to the last checkpoint and wait for more data.
	ErrTruncated = errors.New("mqttcodec: truncated input")

	ErrMalformedVarInt      = errors.New("mqttcodec: malformed variable byte integer")
	ErrVarIntTooLarge       = errors.New("mqttcodec: variable byte integer exceeds maximum (268,435,455)")
	ErrUnknownMessageType   = errors.New("mqttcodec: unknown message type")
	ErrReservedFlags        = errors.New("mqttcodec: reserved flags violation")
	ErrInvalidQoS           = errors.New("mqttcodec: invalid QoS level")
	ErrInvalidPacketID      = errors.New("mqttcodec: packet identifier out of range")
	ErrInvalidTopic         = errors.New("mqttcodec: PUBLISH topic is empty or contains wildcards")
	ErrIdentifierRejected   = errors.New("mqttcodec: client identifier rejected")
	ErrMessageTooLarge      = errors.New("mqttcodec: remaining length exceeds configured maximum")
	ErrProtocolViolation    = errors.New("mqttcodec: protocol violation")
	ErrBufferTooSmall       = errors.New("mqttcodec: destination buffer too small")
	ErrInvalidProtocolInfo  = errors.New("mqttcodec: protocol name/level mismatch")
	ErrInvalidUTF8          = errors.New("mqttcodec: invalid UTF-8 string")
	ErrNullCharacter        = errors.New("mqttcodec: null character (U+0000) not allowed")
	ErrSurrogateCodePoint   = errors.New("mqttcodec: UTF-16 surrogate code point not allowed")
)

// PacketError wraps a sentinel decode error with the MQTT 5 reason code
// a server or client should report for it, plus optional context.
type PacketError struct {
	Err        error
	ReasonCode wire.ReasonCode
	Context    string
}

func (e *PacketError) Error() string {
	if e.Context != "" {
		return e.Err.Error() + ": " + e.Context
	}
	return e.Err.Error()
}

func (e *PacketError) Unwrap() error { return e.Err }

// NewPacketError builds a PacketError, attaching reason and context to
// an existing sentinel error via cockroachdb/errors' wrapping so the
// original error remains discoverable with errors.Is.
func NewPacketError(err error, reason wire.ReasonCode, context string) *PacketError {
	return &PacketError{
		Err:        errors.Wrap(err, "mqttcodec"),
		ReasonCode: reason,
		Context:    context,
	}
}

// GetReasonCode extracts the MQTT 5 reason code that best matches err,
// falling back to ReasonUnspecifiedError for anything it doesn't
// recognize. Mirrors the teacher's encoding.GetReasonCode cascade.
func GetReasonCode(err error) wire.ReasonCode {
	var pktErr *PacketError
	if errors.As(err, &pktErr) {
		return pktErr.ReasonCode
	}

	switch {
	case errors.Is(err, ErrMalformedVarInt),
		errors.Is(err, ErrVarIntTooLarge),
		errors.Is(err, ErrInvalidUTF8),
		errors.Is(err, ErrNullCharacter),
		errors.Is(err, ErrSurrogateCodePoint):
		return wire.ReasonMalformedPacket
	case errors.Is(err, ErrUnknownMessageType),
		errors.Is(err, ErrReservedFlags),
		errors.Is(err, ErrInvalidQoS),
		errors.Is(err, ErrInvalidPacketID),
		errors.Is(err, ErrProtocolViolation):
		return wire.ReasonProtocolError
	case errors.Is(err, ErrInvalidProtocolInfo):
		return wire.ReasonUnsupportedProtocolVersion
	case errors.Is(err, ErrIdentifierRejected):
		return wire.ReasonClientIdentifierNotValid
	case errors.Is(err, ErrInvalidTopic):
		return wire.ReasonTopicNameInvalid
	case errors.Is(err, ErrMessageTooLarge):
		return wire.ReasonPacketTooLarge
	default:
		return wire.ReasonUnspecifiedError
	}
}

// Package v5 implements the MQTT 5.0 variable-header, properties, and
// payload codecs, including the "remaining length shortcut" that lets
// PUBACK/PUBREC/PUBREL/PUBCOMP omit their reason code and properties
// block entirely when the reason is Success and there is nothing to
// say.
package v5

import "github.com/wiremq/codec/wire"

// ackShortcutTypes are the message types whose variable header may
// collapse to a bare packet identifier.
var ackShortcutTypes = map[wire.MessageType]bool{
	wire.PUBACK:  true,
	wire.PUBREC:  true,
	wire.PUBREL:  true,
	wire.PUBCOMP: true,
}

// Dialect is the MQTT 5 wire.Dialect.
type Dialect struct{}

// New returns the v5 dialect.
func New() Dialect { return Dialect{} }

func (Dialect) Version() wire.ProtocolVersion { return wire.MQTT5 }

func (Dialect) HasProperties() bool { return true }

func (Dialect) AckShortcutEligible(t wire.MessageType, reasonCode wire.ReasonCode, hasProperties bool) bool {
	return ackShortcutTypes[t] && reasonCode == wire.ReasonSuccess && !hasProperties
}

// Package v3 implements the MQTT 3.1/3.1.1 variable-header and
// payload codecs: no properties block, and no reason-code ack
// shortcut (PUBACK/PUBREC/PUBREL/PUBCOMP are always just a bare packet
// identifier).
package v3

import "github.com/wiremq/codec/wire"

// Dialect is the MQTT 3.1.1 wire.Dialect. A separate value for MQTT
// 3.1 is unnecessary: the two differ only in CONNECT's protocol name
// string, which ResolveProtocolVersion already distinguishes.
type Dialect struct {
	version wire.ProtocolVersion
}

// New returns the v3 dialect for the given resolved protocol version
// (MQTT31 or MQTT311).
func New(version wire.ProtocolVersion) Dialect {
	return Dialect{version: version}
}

func (d Dialect) Version() wire.ProtocolVersion { return d.version }

func (d Dialect) HasProperties() bool { return false }

func (d Dialect) AckShortcutEligible(wire.MessageType, wire.ReasonCode, bool) bool {
	return false
}

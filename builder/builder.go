// Package builder provides fluent, encoder-side constructors for every
// MQTT control packet type. Each builder accumulates its
// variable-header and payload fields through chained setters, then
// Build computes the remaining length and appends the fixed header,
// turning a Message's logical fields into its exact wire bytes.
package builder

import (
	"github.com/cockroachdb/errors"

	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/metrics"
	"github.com/wiremq/codec/wire"
	v3 "github.com/wiremq/codec/wire/v3"
	v5 "github.com/wiremq/codec/wire/v5"
)

// recorder is the package-wide Prometheus recorder set by SetMetrics.
// Nil until a caller opts in, matching the assembler's own nil-safe
// Recorder methods.
var recorder *metrics.Recorder

// SetMetrics attaches a Prometheus recorder so every builder's Build
// call observes mqttcodec_packets_encoded_total. Nil detaches it.
func SetMetrics(r *metrics.Recorder) {
	recorder = r
}

// finish wraps a variable-header-plus-payload byte slice with its
// fixed header, computing the remaining length from its own length.
func finish(t wire.MessageType, fh wire.FixedHeader, body []byte) ([]byte, error) {
	fh.Type = t
	fh.RemainingLength = uint32(len(body))

	out := make([]byte, 0, len(body)+5)
	out, err := mqttcodec.EncodeFixedHeader(out, fh)
	if err != nil {
		return nil, err
	}
	recorder.ObserveEncoded(t)
	return append(out, body...), nil
}

func dialectFor(version wire.ProtocolVersion) wire.Dialect {
	if version.IsV5() {
		return v5.New()
	}
	return v3.New(version)
}

var errUnsupportedVersion = errors.New("builder: protocol version does not support this packet type")

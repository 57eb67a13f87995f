// Package assembler implements the resumable MQTT control packet
// decoder: a checkpoint/rewind state machine that turns a byte stream
// fed in arbitrary-sized chunks into complete wire.Message values,
// suspending on truncated input and entering a terminal discard state
// on any other decode error.
package assembler

import (
	"github.com/cockroachdb/errors"

	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/diag"
	"github.com/wiremq/codec/metrics"
	"github.com/wiremq/codec/wire"
	v3 "github.com/wiremq/codec/wire/v3"
	v5 "github.com/wiremq/codec/wire/v5"
)

type state int

const (
	stateReadFixed state = iota
	stateReadVariable
	stateReadPayload
	stateDiscard
)

// DefaultMaxMessageSize bounds a single packet's remaining length,
// matching the teacher corpus's common default incoming-packet cap.
const DefaultMaxMessageSize = 8092

// Assembler decodes one connection's worth of MQTT control packets. It
// owns its buffer exclusively: callers must not call Write or Next
// concurrently from multiple goroutines, mirroring the single-owner,
// no-internal-synchronization model the rest of the codec follows.
type Assembler struct {
	buf []byte
	r   *mqttcodec.ByteReader

	state state
	fh    wire.FixedHeader

	version    wire.ProtocolVersion
	versionSet bool

	varHeaderStart int
	payloadEnd     int

	fatalErr error

	maxMessageSize int
	metrics        *metrics.Recorder
	logger         diag.Logger
	reporter       diag.Reporter
}

// Option configures an Assembler at construction time.
type Option func(*Assembler)

// WithMetrics attaches a Prometheus recorder. Nil-safe: an Assembler
// built without this option records nothing.
func WithMetrics(r *metrics.Recorder) Option {
	return func(a *Assembler) { a.metrics = r }
}

// WithLogger attaches a diagnostic logger for state-machine tracing.
func WithLogger(l diag.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithReporter attaches an error reporter invoked on every fatal
// decode error.
func WithReporter(r diag.Reporter) Option {
	return func(a *Assembler) { a.reporter = r }
}

// WithMaxMessageSize overrides DefaultMaxMessageSize.
func WithMaxMessageSize(n int) Option {
	return func(a *Assembler) { a.maxMessageSize = n }
}

// WithProtocolVersion preseeds the dialect used for every message type
// other than CONNECT, for resuming a connection whose CONNECT was
// already processed by a previous Assembler instance.
func WithProtocolVersion(v wire.ProtocolVersion) Option {
	return func(a *Assembler) {
		a.version = v
		a.versionSet = true
	}
}

// New builds an Assembler ready to decode from the start of a stream.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		r:              mqttcodec.NewByteReader(nil),
		maxMessageSize: DefaultMaxMessageSize,
		reporter:       diag.NopReporter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Write appends newly received bytes to the assembler's buffer. It
// never blocks and never fails. Once the assembler has entered
// Discard, framing is permanently lost and incoming bytes are dropped
// rather than retained.
func (a *Assembler) Write(p []byte) {
	if a.state == stateDiscard {
		return
	}
	a.buf = append(a.buf, p...)
	a.r.Reset(a.buf, a.r.Pos())
}

// Next attempts to produce the next complete message from buffered
// input. It returns (nil, mqttcodec.ErrTruncated) when more bytes are
// needed — not a failure, just a request to Write more and call Next
// again. Any other non-nil error is fatal: the assembler has entered
// Discard and will return that same error forever. Framing is lost
// once a decode error occurs, so there is no way to resynchronize on
// a reliable ordered transport; the caller owns tearing down the
// connection.
func (a *Assembler) Next() (*wire.Message, error) {
	for {
		switch a.state {
		case stateDiscard:
			return nil, a.fatalErr

		case stateReadFixed:
			checkpoint := a.r.Pos()
			fh, err := mqttcodec.ParseFixedHeader(a.r)
			if err != nil {
				if errors.Is(err, mqttcodec.ErrTruncated) {
					a.r.RewindTo(checkpoint)
					if a.logger != nil {
						a.logger.Debug("assembler: suspended", "state", "ReadFixed")
					}
					return nil, err
				}
				return nil, a.fail(err)
			}
			a.fh = fh
			a.varHeaderStart = a.r.Pos()
			a.payloadEnd = a.varHeaderStart + int(fh.RemainingLength)
			a.state = stateReadVariable
			if a.logger != nil {
				a.logger.Debug("assembler: ReadFixed -> ReadVariable", "type", fh.Type.String(), "remaining", fh.RemainingLength)
			}
			if int(fh.RemainingLength) > a.maxMessageSize {
				return nil, a.fail(mqttcodec.ErrMessageTooLarge)
			}

		case stateReadVariable, stateReadPayload:
			checkpoint := a.r.Pos()
			msg, err := a.assembleMessage()
			if err != nil {
				if errors.Is(err, mqttcodec.ErrTruncated) {
					a.r.RewindTo(checkpoint)
					a.state = stateReadVariable
					if a.logger != nil {
						a.logger.Debug("assembler: suspended", "state", "ReadVariable", "type", a.fh.Type.String())
					}
					return nil, err
				}
				return nil, a.fail(err)
			}
			a.state = stateReadFixed
			if a.metrics != nil {
				a.metrics.ObserveDecoded(a.fh.Type, a.fh.RemainingLength)
			}
			return msg, nil
		}
	}
}

// fail reports the error and puts the assembler in Discard for good:
// once framing is lost there is no recovery on a reliable ordered
// transport.
func (a *Assembler) fail(err error) error {
	if a.logger != nil {
		a.logger.Warn("assembler: decode error", "error", err.Error(), "type", a.fh.Type.String())
	}
	if a.metrics != nil {
		a.metrics.ObserveDecodeError(err.Error())
	}
	if a.reporter != nil {
		a.reporter.Report(err, map[string]string{
			"type": a.fh.Type.String(),
		})
	}

	a.fatalErr = err
	a.state = stateDiscard
	return err
}

func (a *Assembler) dialect() wire.Dialect {
	if a.version.IsV5() {
		return v5.New()
	}
	return v3.New(a.version)
}

func (a *Assembler) assembleMessage() (*wire.Message, error) {
	msg := &wire.Message{FixedHeader: a.fh}

	if a.fh.Type == wire.CONNECT {
		version, err := a.resolveConnectVersion()
		if err != nil {
			return nil, err
		}
		a.version = version
		a.versionSet = true
	} else if !a.versionSet {
		return nil, mqttcodec.ErrProtocolViolation
	}
	msg.ProtocolVersion = a.version

	v5dialect := a.version.IsV5()

	switch a.fh.Type {
	case wire.CONNECT:
		if v5dialect {
			vh, err := v5.ParseConnectVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.Connect = vh
			payload, err := v5.ParseConnectPayload(a.r, vh)
			if err != nil {
				return nil, err
			}
			msg.ConnectPayload = payload
		} else {
			vh, err := v3.ParseConnectVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.Connect = vh
			payload, err := v3.ParseConnectPayload(a.r, vh)
			if err != nil {
				return nil, err
			}
			msg.ConnectPayload = payload
		}

	case wire.CONNACK:
		if v5dialect {
			vh, err := v5.ParseConnAckVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.ConnAck = vh
		} else {
			vh, err := v3.ParseConnAckVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.ConnAck = vh
		}

	case wire.PUBLISH:
		if v5dialect {
			vh, err := v5.ParsePublishVariableHeader(a.r, a.fh)
			if err != nil {
				return nil, err
			}
			msg.Publish = vh
			payload, err := v5.ParsePublishPayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.PublishPayload = payload
		} else {
			vh, err := v3.ParsePublishVariableHeader(a.r, a.fh)
			if err != nil {
				return nil, err
			}
			msg.Publish = vh
			payload, err := v3.ParsePublishPayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.PublishPayload = payload
		}

	case wire.PUBACK, wire.PUBREC, wire.PUBCOMP:
		if err := a.parsePubReply(msg); err != nil {
			return nil, err
		}

	case wire.PUBREL:
		if err := a.parsePubReply(msg); err != nil {
			return nil, err
		}

	case wire.SUBSCRIBE:
		if v5dialect {
			vh, err := v5.ParseMessageIdPlusPropertiesVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.MessageIDProps = vh
			payload, err := v5.ParseSubscribePayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.SubscribePayload = payload
		} else {
			vh, err := v3.ParseMessageIdVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.MessageID = vh
			payload, err := v3.ParseSubscribePayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.SubscribePayload = payload
		}

	case wire.SUBACK:
		if err := a.parseSubAck(msg); err != nil {
			return nil, err
		}

	case wire.UNSUBSCRIBE:
		// Unlike SUBSCRIBE, v5 UNSUBSCRIBE carries no properties block —
		// pid only, same as v3.1.1.
		vh, err := v3.ParseMessageIdVariableHeader(a.r)
		if err != nil {
			return nil, err
		}
		msg.MessageID = vh
		if v5dialect {
			payload, err := v5.ParseUnsubscribePayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.UnsubscribePayload = payload
		} else {
			payload, err := v3.ParseUnsubscribePayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.UnsubscribePayload = payload
		}

	case wire.UNSUBACK:
		if v5dialect {
			vh, err := v5.ParseReasonCodePlusPropertiesVariableHeader(a.r, true, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.ReasonProps = vh
			payload, err := v5.ParseUnsubAckPayload(a.r, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.UnsubAckPayload = payload
		} else {
			vh, err := v3.ParseMessageIdVariableHeader(a.r)
			if err != nil {
				return nil, err
			}
			msg.MessageID = vh
		}

	case wire.PINGREQ, wire.PINGRESP:
		// No variable header, no payload.

	case wire.DISCONNECT, wire.AUTH:
		if v5dialect {
			vh, err := v5.ParseReasonCodePlusPropertiesVariableHeader(a.r, false, a.payloadEnd)
			if err != nil {
				return nil, err
			}
			msg.ReasonProps = vh
		} else if a.fh.Type == wire.AUTH {
			// AUTH does not exist under v3.1.1 at all.
			return nil, mqttcodec.ErrProtocolViolation
		}
		// v3.1.1 DISCONNECT has no variable header or payload.

	default:
		return nil, mqttcodec.ErrUnknownMessageType
	}

	if a.r.Pos() != a.payloadEnd {
		return nil, mqttcodec.ErrProtocolViolation
	}

	return msg, nil
}

func (a *Assembler) parsePubReply(msg *wire.Message) error {
	if a.version.IsV5() {
		vh, err := v5.ParsePubReplyVariableHeader(a.r, a.payloadEnd)
		if err != nil {
			return err
		}
		msg.PubReply = vh
		return nil
	}
	vh, err := v3.ParseMessageIdVariableHeader(a.r)
	if err != nil {
		return err
	}
	msg.MessageID = vh
	return nil
}

func (a *Assembler) parseSubAck(msg *wire.Message) error {
	if a.version.IsV5() {
		vh, err := v5.ParseReasonCodePlusPropertiesVariableHeader(a.r, true, a.payloadEnd)
		if err != nil {
			return err
		}
		msg.ReasonProps = vh
		payload, err := v5.ParseSubAckPayload(a.r, a.payloadEnd)
		if err != nil {
			return err
		}
		msg.SubAckPayload = payload
		return nil
	}
	vh, err := v3.ParseMessageIdVariableHeader(a.r)
	if err != nil {
		return err
	}
	msg.MessageID = vh
	payload, err := v3.ParseSubAckPayload(a.r, a.payloadEnd)
	if err != nil {
		return err
	}
	msg.SubAckPayload = payload
	return nil
}

// resolveConnectVersion peeks CONNECT's protocol name and level to
// pick a dialect, then rewinds so the dialect's own parser re-reads
// them as part of the full variable header.
func (a *Assembler) resolveConnectVersion() (wire.ProtocolVersion, error) {
	checkpoint := a.r.Pos()
	name, err := mqttcodec.ReadUTF8String(a.r)
	if err != nil {
		a.r.RewindTo(checkpoint)
		return 0, err
	}
	level, err := mqttcodec.ReadUint8(a.r)
	if err != nil {
		a.r.RewindTo(checkpoint)
		return 0, err
	}
	a.r.RewindTo(checkpoint)

	version, ok := wire.ResolveProtocolVersion(name, level)
	if !ok {
		return 0, mqttcodec.ErrInvalidProtocolInfo
	}
	return version, nil
}

// Reset discards all buffered bytes, any fatal error and the partly
// read packet, and returns the assembler to its initial ReadFixed
// state. The protocol version is kept: one resolved from an earlier
// CONNECT or preseeded with WithProtocolVersion stays in effect, so a
// reset assembler is not the same as a newly constructed one.
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
	a.r.Reset(a.buf, 0)
	a.state = stateReadFixed
	a.fh = wire.FixedHeader{}
	a.varHeaderStart = 0
	a.payloadEnd = 0
	a.fatalErr = nil
}

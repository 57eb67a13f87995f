// Package metrics instruments the assembler and builders with
// Prometheus collectors, promoting the teacher corpus's otherwise
// transitive-only prometheus/client_golang dependency into direct use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wiremq/codec/wire"
)

// Recorder wraps the Prometheus collectors the codec reports against.
// Every method is a no-op on a nil *Recorder, which is what the
// assembler holds when a caller omits its WithMetrics option. A
// zero-value Recorder struct (not built by NewRecorder) has nil
// collectors and is not safe to call methods on.
type Recorder struct {
	decodedTotal *prometheus.CounterVec
	encodedTotal *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	packetBytes  prometheus.Histogram
}

// NewRecorder builds a Recorder and registers its collectors with reg.
// Passing prometheus.NewRegistry() (rather than the global default
// registry) keeps tests free of cross-test collector collisions.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		decodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqttcodec_packets_decoded_total",
			Help: "Control packets successfully decoded, by message type.",
		}, []string{"type"}),
		encodedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqttcodec_packets_encoded_total",
			Help: "Control packets successfully encoded, by message type.",
		}, []string{"type"}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqttcodec_decode_errors_total",
			Help: "Fatal decode errors, by error reason.",
		}, []string{"reason"}),
		packetBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mqttcodec_packet_bytes",
			Help:    "Remaining length of assembled control packets.",
			Buckets: prometheus.ExponentialBuckets(16, 4, 8),
		}),
	}
	reg.MustRegister(r.decodedTotal, r.encodedTotal, r.decodeErrors, r.packetBytes)
	return r
}

// ObserveDecoded records a successfully assembled message of type t
// with the given remaining length.
func (r *Recorder) ObserveDecoded(t wire.MessageType, remainingLength uint32) {
	if r == nil {
		return
	}
	r.decodedTotal.WithLabelValues(t.String()).Inc()
	r.packetBytes.Observe(float64(remainingLength))
}

// ObserveEncoded records a successfully built message of type t.
func (r *Recorder) ObserveEncoded(t wire.MessageType) {
	if r == nil {
		return
	}
	r.encodedTotal.WithLabelValues(t.String()).Inc()
}

// ObserveDecodeError records a fatal decode error keyed by its short
// reason string (typically the sentinel error's message).
func (r *Recorder) ObserveDecodeError(reason string) {
	if r == nil {
		return
	}
	r.decodeErrors.WithLabelValues(reason).Inc()
}

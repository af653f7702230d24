package session

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a prometheus.Collector exposing a single Session's
// health, mirroring this codebase's existing MetricExporter shape
// (a map of *prometheus.Desc, Describe/Collect built off it) scoped to
// client session health instead of gateway-wide client counts.
type Metrics struct {
	desc map[string]*prometheus.Desc

	state            int32
	framesSent       uint64
	framesReceived   uint64
	reconnects       uint64
	pendingResponses int64
	protocolErrors   uint64
}

// NewMetrics builds the metric descriptions. label identifies this
// session (e.g. its configured host:port) and is attached as the
// constant "session" label on every metric.
func NewMetrics(label string) *Metrics {
	constLabels := prometheus.Labels{"session": label}
	return &Metrics{
		desc: map[string]*prometheus.Desc{
			"state":             prometheus.NewDesc("cimd2_session_state", "Current session state (see State consts)", nil, constLabels),
			"frames_sent":       prometheus.NewDesc("cimd2_frames_sent_total", "Frames written to the socket", nil, constLabels),
			"frames_received":   prometheus.NewDesc("cimd2_frames_received_total", "Frames read from the socket", nil, constLabels),
			"pending_responses": prometheus.NewDesc("cimd2_pending_responses", "Outstanding request continuations", nil, constLabels),
			"reconnects":        prometheus.NewDesc("cimd2_reconnects_total", "Reconnect attempts made", nil, constLabels),
			"protocol_errors":   prometheus.NewDesc("cimd2_protocol_errors_total", "Opcode 98/99 responses received", nil, constLabels),
		},
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range m.desc {
		ch <- d
	}
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(m.desc["state"], prometheus.GaugeValue, float64(atomic.LoadInt32(&m.state)))
	ch <- prometheus.MustNewConstMetric(m.desc["frames_sent"], prometheus.CounterValue, float64(atomic.LoadUint64(&m.framesSent)))
	ch <- prometheus.MustNewConstMetric(m.desc["frames_received"], prometheus.CounterValue, float64(atomic.LoadUint64(&m.framesReceived)))
	ch <- prometheus.MustNewConstMetric(m.desc["pending_responses"], prometheus.GaugeValue, float64(atomic.LoadInt64(&m.pendingResponses)))
	ch <- prometheus.MustNewConstMetric(m.desc["reconnects"], prometheus.CounterValue, float64(atomic.LoadUint64(&m.reconnects)))
	ch <- prometheus.MustNewConstMetric(m.desc["protocol_errors"], prometheus.CounterValue, float64(atomic.LoadUint64(&m.protocolErrors)))
}

func (m *Metrics) setState(s State)        { atomic.StoreInt32(&m.state, int32(s)) }
func (m *Metrics) incFramesSent()          { atomic.AddUint64(&m.framesSent, 1) }
func (m *Metrics) incFramesReceived()      { atomic.AddUint64(&m.framesReceived, 1) }
func (m *Metrics) incReconnects()          { atomic.AddUint64(&m.reconnects, 1) }
func (m *Metrics) incProtocolErrors()      { atomic.AddUint64(&m.protocolErrors, 1) }
func (m *Metrics) setPendingResponses(n int) {
	atomic.StoreInt64(&m.pendingResponses, int64(n))
}

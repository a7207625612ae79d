package busclient

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds optional Prometheus counters for a [Consumer]. A nil
// *Metrics is valid everywhere it is used — every method is a no-op on
// a nil receiver, so callers that don't care about metrics never need
// guard checks.
type Metrics struct {
	processed   prometheus.Counter
	acked       prometheus.Counter
	nakked      prometheus.Counter
	terminated  prometheus.Counter
	resubscribe prometheus.Counter
	streamError prometheus.Counter
}

// NewMetrics registers a [Metrics] set with reg under the given
// consumer name label, building a small fixed set of named counters
// against a caller-supplied registry rather than the global default
// one.
func NewMetrics(reg prometheus.Registerer, consumerName string) *Metrics {
	labels := prometheus.Labels{"consumer": consumerName}
	m := &Metrics{
		processed:   prometheus.NewCounter(prometheus.CounterOpts{Name: "busclient_messages_processed_total", ConstLabels: labels}),
		acked:       prometheus.NewCounter(prometheus.CounterOpts{Name: "busclient_messages_acked_total", ConstLabels: labels}),
		nakked:      prometheus.NewCounter(prometheus.CounterOpts{Name: "busclient_messages_nakked_total", ConstLabels: labels}),
		terminated:  prometheus.NewCounter(prometheus.CounterOpts{Name: "busclient_messages_terminated_total", ConstLabels: labels}),
		resubscribe: prometheus.NewCounter(prometheus.CounterOpts{Name: "busclient_resubscribe_attempts_total", ConstLabels: labels}),
		streamError: prometheus.NewCounter(prometheus.CounterOpts{Name: "busclient_stream_errors_total", ConstLabels: labels}),
	}
	for _, c := range []prometheus.Collector{m.processed, m.acked, m.nakked, m.terminated, m.resubscribe, m.streamError} {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				_ = are // best effort: a duplicate registration is not fatal.
				continue
			}
		}
	}
	return m
}

func (m *Metrics) incProcessed() {
	if m == nil {
		return
	}
	m.processed.Inc()
}

func (m *Metrics) incAcked() {
	if m == nil {
		return
	}
	m.acked.Inc()
}

func (m *Metrics) incNakked() {
	if m == nil {
		return
	}
	m.nakked.Inc()
}

func (m *Metrics) incTerminated() {
	if m == nil {
		return
	}
	m.terminated.Inc()
}

func (m *Metrics) incResubscribe() {
	if m == nil {
		return
	}
	m.resubscribe.Inc()
}

func (m *Metrics) incStreamError() {
	if m == nil {
		return
	}
	m.streamError.Inc()
}

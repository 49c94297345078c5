// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	requests      *prometheus.CounterVec
	requestErrors *prometheus.CounterVec
	activeConns   prometheus.Gauge
	bytesRead     prometheus.Counter
	bytesWritten  prometheus.Counter
}

// newMetrics builds the server collectors. They always exist so handler
// code stays unconditional; reg may be nil, in which case nothing is
// exported.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remotefs_requests_total",
			Help: "Requests dispatched, by operation.",
		}, []string{"op"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remotefs_request_errors_total",
			Help: "Requests whose primitive failed, by operation.",
		}, []string{"op"}),
		activeConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "remotefs_active_connections",
			Help: "Client connections currently being serviced.",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remotefs_read_bytes_total",
			Help: "Request payload bytes received.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remotefs_written_bytes_total",
			Help: "Response payload bytes sent.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.requestErrors, m.activeConns, m.bytesRead, m.bytesWritten)
	}
	return m
}

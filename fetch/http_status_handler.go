package fetch

import (
	"github.com/status-im/asset-loader/metrics"
)

// HTTPRequestMetricsWriter implements IStatusHandler by writing to metrics
type HTTPRequestMetricsWriter struct {
	serviceName string
}

// NewHTTPRequestMetricsWriter creates a new metrics writer for the given service
func NewHTTPRequestMetricsWriter(serviceName string) *HTTPRequestMetricsWriter {
	return &HTTPRequestMetricsWriter{
		serviceName: serviceName,
	}
}

// OnRequest records a fetch attempt with its status
func (h *HTTPRequestMetricsWriter) OnRequest(status string) {
	metrics.RecordHTTPRequest(h.serviceName, status)
}

// Package warmuptools instruments the HTTP calls made to the Warmup API.
package warmuptools

import (
	"net/http"
	"strconv"

	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/clambin/warmup-bridge/pkg/warmup"
	"github.com/prometheus/client_golang/prometheus"
)

// GetInstrumentedHTTPClient returns an http.Client that records the calls it makes in metrics.
// If rt is nil, http.DefaultTransport is used.
func GetInstrumentedHTTPClient(rt http.RoundTripper, metrics metrics.RequestMetrics) *http.Client {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{Transport: getInstrumentedRoundTripper(rt, metrics)}
}

func getInstrumentedRoundTripper(rt http.RoundTripper, metrics metrics.RequestMetrics) http.RoundTripper {
	return roundtripper.New(
		roundtripper.WithRequestMetrics(metrics),
		roundtripper.WithRoundTripper(rt),
	)
}

// NewWarmupCallMetrics returns RequestMetrics that label each call with the Warmup API method it calls.
// As all API calls go to the same path, the API method replaces the path label.
func NewWarmupCallMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, i int) (string, string, string) {
			path := warmup.Method(request)
			if path == "" {
				path = request.URL.Path
			}
			if path == "" {
				path = "/"
			}
			return request.Method, path, strconv.Itoa(i)
		},
	})
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()
	noop.GetOrCreateCountMeter("c").Add(1)
	noop.GetOrCreateCountVecMeter("cv", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	noop.GetOrCreateGaugeMeter("g").Set(1)
	noop.GetOrCreateHistogramMeter("h", nil).Observe(1)

	rec := httptest.NewRecorder()
	noop.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromMetrics(t *testing.T) {
	lazy := LazyLoadCounter("lazy_count")
	InitializePrometheusMetrics()

	Counter("count1").Add(1)
	Counter("count1").Add(2)
	CounterVec("count_vec", []string{"op"}).AddWithLabel(3, map[string]string{"op": "stake"})
	Gauge("gauge1").Set(7)
	Histogram("hist1", BucketOpMillis).Observe(4)
	lazy().Add(5)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetHistogram() != nil:
			values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
		}
	}

	assert.Equal(t, float64(3), values[namespace+"_count1"])
	assert.Equal(t, float64(3), values[namespace+"_count_vec"])
	assert.Equal(t, float64(7), values[namespace+"_gauge1"])
	assert.Equal(t, float64(1), values[namespace+"_hist1"])
	assert.Equal(t, float64(5), values[namespace+"_lazy_count"])

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), namespace+"_count1")
}

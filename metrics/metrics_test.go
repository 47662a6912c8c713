package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveResolution(t *testing.T) {
	m, err := NewMetrics("test", prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveResolution("text", time.Now(), nil)
	m.ObserveResolution("text", time.Now(), errors.New("boom"))
	m.ObserveResolution("addr", time.Now(), nil)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("text", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("text", OutcomeError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("addr", OutcomeOK)))

	var nilMetrics *Metrics
	nilMetrics.ObserveResolution("text", time.Now(), nil)
}

func TestMetricsServerHandler(t *testing.T) {
	srv, err := New("gw", "127.0.0.1:0")
	require.NoError(t, err)
	srv.Metrics().ObserveResolution("text", time.Now(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "gw_resolutions_total"))
}

package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveDecode(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveDecode("METAR", 2, nil)
	m.ObserveDecode("METAR", 0, nil)
	m.ObserveDecode("TAF", 0, errors.New("missing mandatory station group"))
	m.ObserveDecode("", 0, errors.New("empty report"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.DecodesTotal.WithLabelValues("METAR", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DecodesTotal.WithLabelValues("TAF", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DecodesTotal.WithLabelValues("unknown", "error")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.DecodeWarnings))
}

func TestIngestCounters(t *testing.T) {
	m := NewMetricsForTesting()

	m.ReportsConsumed.Inc()
	m.ReportsConsumed.Inc()
	m.ReportsArchived.Inc()
	m.IngestErrors.WithLabelValues("decode").Inc()
	m.IngestRunning.Set(1)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ReportsConsumed))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ReportsArchived))
	require.Equal(t, 1.0, testutil.ToFloat64(m.IngestErrors.WithLabelValues("decode")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.IngestRunning))
}

package ingest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wx_decoder/internal/observability"
	"wx_decoder/internal/publish"
	"wx_decoder/internal/state"
	"wx_decoder/internal/storage"
)

type fakeArchive struct {
	reports  []storage.ArchivedReport
	stations []storage.StationRecord
	err      error
}

func (f *fakeArchive) InsertReport(_ context.Context, r storage.ArchivedReport) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeArchive) UpsertStation(_ context.Context, s storage.StationRecord) error {
	f.stations = append(f.stations, s)
	return nil
}

type fakeAnalytics struct {
	rows []storage.Observation
}

func (f *fakeAnalytics) Insert(_ context.Context, o storage.Observation) error {
	f.rows = append(f.rows, o)
	return nil
}

type fakePublisher struct {
	published []publish.Decoded
}

func (f *fakePublisher) Publish(_ context.Context, decoded ...publish.Decoded) error {
	f.published = append(f.published, decoded...)
	return nil
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeArchive, *fakeAnalytics, *state.Tracker, *fakePublisher, *observability.Metrics) {
	t.Helper()

	tracker, err := state.NewTracker(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { tracker.Close() })

	archive := &fakeArchive{}
	analytics := &fakeAnalytics{}
	publisher := &fakePublisher{}
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p := New(archive, analytics, tracker, publisher, metrics, logger).
		WithClock(clockwork.NewFakeClockAt(time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)))
	return p, archive, analytics, tracker, publisher, metrics
}

func TestPipelineHandlesMetar(t *testing.T) {
	p, archive, analytics, tracker, publisher, metrics := newTestPipeline(t)

	raw := "METAR KJFK 061751Z 28015G25KT 10SM FEW055 SCT250 17/M03 A3002"
	require.NoError(t, p.Handle(context.Background(), []byte(raw)))

	require.Len(t, archive.reports, 1)
	assert.Equal(t, "KJFK", archive.reports[0].Station)
	assert.Equal(t, "METAR", archive.reports[0].Kind)
	assert.Equal(t, 2024, archive.reports[0].ReceivedAt.Year())

	require.Len(t, archive.stations, 1)
	assert.Equal(t, "KJFK", archive.stations[0].ICAO)
	assert.NotEmpty(t, archive.stations[0].Region)

	require.Len(t, analytics.rows, 1)
	assert.Equal(t, "KJFK", analytics.rows[0].Station)

	latest := tracker.Latest("KJFK")
	require.NotNil(t, latest)
	assert.Equal(t, raw, latest.RawText)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, raw, publisher.published[0].Raw)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ReportsConsumed))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ReportsArchived))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ReportsPublished))
}

func TestPipelineTafSkipsAnalytics(t *testing.T) {
	p, archive, analytics, _, publisher, _ := newTestPipeline(t)

	raw := "TAF KJFK 061730Z 0618/0724 28012KT P6SM SCT050 FM070300 30008KT P6SM SKC"
	require.NoError(t, p.Handle(context.Background(), []byte(raw)))

	require.Len(t, archive.reports, 1)
	assert.Equal(t, "TAF", archive.reports[0].Kind)
	assert.Empty(t, analytics.rows, "TAF should not produce an observation row")
	assert.Len(t, publisher.published, 1)
}

func TestPipelineUsesEnvelopeReceivedAt(t *testing.T) {
	p, archive, _, _, _, _ := newTestPipeline(t)

	data := []byte(`{"station":"EGLL","raw":"EGLL 060750Z 24010KT 9999 SCT018 12/08 Q1015","received_at":"2024-03-06T07:55:00Z"}`)
	require.NoError(t, p.Handle(context.Background(), data))

	require.Len(t, archive.reports, 1)
	assert.Equal(t, time.Date(2024, 3, 6, 7, 55, 0, 0, time.UTC), archive.reports[0].ReceivedAt)
}

func TestPipelineCountsEnvelopeFailures(t *testing.T) {
	p, archive, _, _, _, metrics := newTestPipeline(t)

	err := p.Handle(context.Background(), []byte(`{"station":"KJFK"}`))
	assert.Error(t, err)
	assert.Empty(t, archive.reports)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.IngestErrors.WithLabelValues("envelope")))
}

func TestPipelineCountsDecodeFailures(t *testing.T) {
	p, archive, _, _, publisher, metrics := newTestPipeline(t)

	err := p.Handle(context.Background(), []byte("12345 NOT A REPORT"))
	assert.Error(t, err)
	assert.Empty(t, archive.reports)
	assert.Empty(t, publisher.published)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.IngestErrors.WithLabelValues("decode")))
}

func TestPipelineArchiveErrorDoesNotBlockPublish(t *testing.T) {
	p, archive, _, _, publisher, metrics := newTestPipeline(t)
	archive.err = assert.AnError

	raw := "METAR KJFK 061751Z 28015KT 10SM FEW250 17/M03 A3002"
	require.NoError(t, p.Handle(context.Background(), []byte(raw)))

	assert.Empty(t, archive.reports)
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.IngestErrors.WithLabelValues("archive")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ReportsArchived))
}

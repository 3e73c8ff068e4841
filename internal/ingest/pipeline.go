package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"

	"wx_decoder/internal/decoder"
	"wx_decoder/internal/observability"
	"wx_decoder/internal/publish"
	"wx_decoder/internal/report"
	"wx_decoder/internal/state"
	"wx_decoder/internal/stations"
	"wx_decoder/internal/storage"
)

// Archive persists decoded reports and station reference rows.
type Archive interface {
	InsertReport(ctx context.Context, r storage.ArchivedReport) error
	UpsertStation(ctx context.Context, s storage.StationRecord) error
}

// Analytics receives flattened observation rows.
type Analytics interface {
	Insert(ctx context.Context, o storage.Observation) error
}

// Publisher writes decoded reports to the sink topic.
type Publisher interface {
	Publish(ctx context.Context, decoded ...publish.Decoded) error
}

// Pipeline decodes raw report envelopes and fans the results out. Any
// sink may be nil; the pipeline skips it.
type Pipeline struct {
	archive   Archive
	analytics Analytics
	tracker   *state.Tracker
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	clock     clockwork.Clock
}

// New creates a pipeline. Pass nil for sinks that are not configured.
func New(archive Archive, analytics Analytics, tracker *state.Tracker, publisher Publisher,
	metrics *observability.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		archive:   archive,
		analytics: analytics,
		tracker:   tracker,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		clock:     clockwork.NewRealClock(),
	}
}

// WithClock replaces the received-at clock. Tests inject a fake here.
func (p *Pipeline) WithClock(clock clockwork.Clock) *Pipeline {
	p.clock = clock
	return p
}

// Handle processes one raw feed message end to end.
func (p *Pipeline) Handle(ctx context.Context, data []byte) error {
	p.metrics.ReportsConsumed.Inc()

	env, ok := ParseEnvelope(data)
	if !ok {
		p.metrics.IngestErrors.WithLabelValues("envelope").Inc()
		return fmt.Errorf("unrecognized feed message shape")
	}

	start := p.clock.Now()
	decoded, err := decoder.Decode(env.Raw)
	p.metrics.DecodeDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		p.metrics.ObserveDecode("", 0, err)
		p.metrics.IngestErrors.WithLabelValues("decode").Inc()
		p.logger.Warn("decode failed", "error", err, "raw", env.Raw)
		return fmt.Errorf("decode: %w", err)
	}
	warnings := report.WarningsOf(decoded)
	p.metrics.ObserveDecode(decoded.Kind(), len(warnings), nil)
	if len(warnings) > 0 {
		p.logger.Debug("decode warnings", "station", decoded.StationID(), "count", len(warnings))
	}

	receivedAt := p.receivedAt(env)

	if p.archive != nil {
		if err := p.archiveReport(ctx, env.Raw, decoded, receivedAt); err != nil {
			p.metrics.IngestErrors.WithLabelValues("archive").Inc()
			p.logger.Error("archive failed", "error", err, "station", decoded.StationID())
		} else {
			p.metrics.ReportsArchived.Inc()
		}
	}

	if p.analytics != nil {
		if m, isMetar := decoded.(*report.Metar); isMetar {
			o := storage.ObservationFromMetar(m, receivedAt)
			if err := p.analytics.Insert(ctx, o); err != nil {
				p.metrics.IngestErrors.WithLabelValues("analytics").Inc()
				p.logger.Error("analytics insert failed", "error", err, "station", m.Station)
			}
		}
	}

	if p.tracker != nil {
		if u, usable := state.UpdateFrom(env.Raw, decoded); usable {
			p.tracker.Apply(u)
		}
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, publish.Decoded{Raw: env.Raw, Report: decoded}); err != nil {
			p.metrics.IngestErrors.WithLabelValues("publish").Inc()
			p.logger.Error("publish failed", "error", err, "station", decoded.StationID())
			return fmt.Errorf("publish: %w", err)
		}
		p.metrics.ReportsPublished.Inc()
	}

	return nil
}

func (p *Pipeline) receivedAt(env Envelope) time.Time {
	if env.ReceivedAt != "" {
		if t, err := time.Parse(time.RFC3339, env.ReceivedAt); err == nil {
			return t.UTC()
		}
	}
	return p.clock.Now().UTC()
}

func (p *Pipeline) archiveReport(ctx context.Context, raw string, decoded report.Report, receivedAt time.Time) error {
	r, err := storage.NewArchivedReport(raw, decoded, receivedAt)
	if err != nil {
		return err
	}
	if err := p.archive.InsertReport(ctx, r); err != nil {
		return err
	}

	rec := storage.StationRecord{
		ICAO:        decoded.StationID(),
		FirstSeen:   receivedAt,
		LastSeen:    receivedAt,
		ReportCount: 1,
	}
	if info, ok := stations.Lookup(rec.ICAO); ok {
		rec.Region = info.Region
		rec.Country = info.Country
	}
	return p.archive.UpsertStation(ctx, rec)
}

// Run subscribes to the configured subjects and processes feed messages
// until the context is canceled, then drains the subscriptions.
func (p *Pipeline) Run(ctx context.Context, conn *nats.Conn, cfg NATSConfig) error {
	p.metrics.IngestRunning.Set(1)
	defer p.metrics.IngestRunning.Set(0)

	subs := make([]*nats.Subscription, 0, len(cfg.Subjects))
	for _, subject := range cfg.Subjects {
		sub, err := conn.QueueSubscribe(subject, cfg.Queue, func(msg *nats.Msg) {
			// Errors are already counted and logged per stage.
			_ = p.Handle(ctx, msg.Data)
		})
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		subs = append(subs, sub)
		p.logger.Info("subscribed", "subject", subject, "queue", cfg.Queue)
	}

	<-ctx.Done()

	for _, s := range subs {
		if err := s.Drain(); err != nil {
			p.logger.Warn("drain failed", "error", err)
		}
	}
	return nil
}

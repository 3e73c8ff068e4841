package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"wx_decoder/internal/report"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for observation analytics.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			station          LowCardinality(String),
			kind             LowCardinality(String),
			observed_day     UInt8,
			observed_hour    UInt8,
			observed_minute  UInt8,
			auto             UInt8,
			wind_direction   Nullable(Int16),
			wind_speed       Nullable(UInt16),
			wind_gust        Nullable(UInt16),
			wind_unit        LowCardinality(String),
			visibility       Nullable(Float32),
			visibility_unit  LowCardinality(String),
			cavok            UInt8,
			temperature_c    Nullable(Int16),
			dewpoint_c       Nullable(Int16),
			pressure_hpa     Nullable(Float32),
			weather          String,
			lowest_ceiling   Nullable(Int32),
			warning_count    UInt16,
			raw_text         String,
			received_at      DateTime64(3) DEFAULT now64(3)
		)
		ENGINE = MergeTree()
		PARTITION BY toYYYYMM(received_at)
		ORDER BY (station, received_at)
		SETTINGS index_granularity = 8192`,
	}

	for _, q := range queries {
		if err := d.conn.Exec(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	// Add bloom filter index for raw-text search (ignore error if already exists).
	_ = d.conn.Exec(ctx, `ALTER TABLE observations ADD INDEX IF NOT EXISTS idx_raw_text_bloom raw_text TYPE tokenbf_v1(32768, 3, 0) GRANULARITY 1`)

	return nil
}

// Observation is one analytics row flattened from a decoded METAR. Nil
// pointers map to NULL columns for groups absent from the report.
type Observation struct {
	Station        string
	Kind           string
	Observed       report.ClockTime
	Auto           bool
	WindDirection  *int16
	WindSpeed      *uint16
	WindGust       *uint16
	WindUnit       string
	Visibility     *float32
	VisibilityUnit string
	CAVOK          bool
	TemperatureC   *int16
	DewpointC      *int16
	PressureHPa    *float32
	Weather        string
	LowestCeiling  *int32
	WarningCount   uint16
	RawText        string
	ReceivedAt     time.Time
}

// ObservationFromMetar flattens a decoded METAR into an analytics row.
func ObservationFromMetar(m *report.Metar, receivedAt time.Time) Observation {
	o := Observation{
		Station:      m.Station,
		Kind:         m.Type,
		Observed:     m.Time,
		Auto:         m.Auto,
		WarningCount: uint16(len(m.Warnings)),
		RawText:      m.Raw,
		ReceivedAt:   receivedAt,
	}

	if w := m.Wind; w != nil {
		if !w.Variable {
			dir := int16(w.Direction)
			o.WindDirection = &dir
		}
		speed := uint16(w.Speed)
		o.WindSpeed = &speed
		if w.Gust != nil {
			gust := uint16(*w.Gust)
			o.WindGust = &gust
		}
		o.WindUnit = w.Unit
	}

	if v := m.Visibility; v != nil {
		value := float32(v.Value)
		o.Visibility = &value
		o.VisibilityUnit = v.Unit
		o.CAVOK = v.CAVOK
	}

	if t := m.Temperature; t != nil {
		temp := int16(t.Celsius)
		o.TemperatureC = &temp
		if t.Dewpoint != nil {
			dew := int16(*t.Dewpoint)
			o.DewpointC = &dew
		}
	}

	if a := m.Altimeter; a != nil {
		hpa := float32(a.Value)
		if a.Unit == report.UnitInHg {
			hpa = float32(a.Value * 33.8639)
		}
		o.PressureHPa = &hpa
	}

	codes := make([]string, 0, len(m.Weather))
	for _, w := range m.Weather {
		codes = append(codes, w.Raw)
	}
	o.Weather = strings.Join(codes, " ")

	// Lowest broken-or-worse layer approximates the ceiling.
	for _, l := range m.Sky {
		if l.Height == nil {
			continue
		}
		switch l.Coverage {
		case report.CoverageBroken, report.CoverageOvercast, report.CoverageVerticalVisibility:
			h := int32(*l.Height)
			if o.LowestCeiling == nil || h < *o.LowestCeiling {
				o.LowestCeiling = &h
			}
		}
	}

	return o
}

// Insert stores a single observation in ClickHouse.
func (d *ClickHouseDB) Insert(ctx context.Context, o Observation) error {
	return d.InsertBatch(ctx, []Observation{o})
}

// InsertBatch stores multiple observations in ClickHouse efficiently.
func (d *ClickHouseDB) InsertBatch(ctx context.Context, observations []Observation) error {
	if len(observations) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO observations (station, kind, observed_day, observed_hour, observed_minute, auto,
			wind_direction, wind_speed, wind_gust, wind_unit, visibility, visibility_unit, cavok,
			temperature_c, dewpoint_c, pressure_hpa, weather, lowest_ceiling, warning_count, raw_text, received_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, o := range observations {
		err = batch.Append(o.Station, o.Kind, uint8(o.Observed.Day), uint8(o.Observed.Hour),
			uint8(o.Observed.Minute), boolToUInt8(o.Auto), o.WindDirection, o.WindSpeed, o.WindGust,
			o.WindUnit, o.Visibility, o.VisibilityUnit, boolToUInt8(o.CAVOK), o.TemperatureC,
			o.DewpointC, o.PressureHPa, o.Weather, o.LowestCeiling, o.WarningCount, o.RawText, o.ReceivedAt)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// CHStats contains aggregate statistics about stored observations.
type CHStats struct {
	TotalObservations uint64
	ByKind            map[string]uint64
	ByStation         map[string]uint64
	WithWarnings      uint64
}

// GetStats returns statistics about stored observations.
func (d *ClickHouseDB) GetStats(ctx context.Context) (*CHStats, error) {
	stats := &CHStats{
		ByKind:    make(map[string]uint64),
		ByStation: make(map[string]uint64),
	}

	row := d.conn.QueryRow(ctx, "SELECT count() FROM observations")
	if err := row.Scan(&stats.TotalObservations); err != nil {
		return nil, err
	}

	rows, err := d.conn.Query(ctx, "SELECT kind, count() FROM observations GROUP BY kind ORDER BY count() DESC")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var count uint64
		if err := rows.Scan(&kind, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan kind stats: %w", err)
		}
		stats.ByKind[kind] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate kind stats: %w", err)
	}
	rows.Close()

	rows, err = d.conn.Query(ctx, "SELECT station, count() FROM observations GROUP BY station ORDER BY count() DESC LIMIT 20")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var station string
		var count uint64
		if err := rows.Scan(&station, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan station stats: %w", err)
		}
		stats.ByStation[station] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate station stats: %w", err)
	}
	rows.Close()

	row = d.conn.QueryRow(ctx, "SELECT count() FROM observations WHERE warning_count > 0")
	if err := row.Scan(&stats.WithWarnings); err != nil {
		return nil, err
	}

	return stats, nil
}

// Count returns the number of observations, optionally for one station.
func (d *ClickHouseDB) Count(ctx context.Context, station string) (uint64, error) {
	var count uint64
	var err error
	if station != "" {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM observations WHERE station = ?", station)
		err = row.Scan(&count)
	} else {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM observations")
		err = row.Scan(&count)
	}
	return count, err
}

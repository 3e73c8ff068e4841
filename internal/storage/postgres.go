package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wx_decoder/internal/report"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for the report archive.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	-- Reference data: reporting stations.
	CREATE TABLE IF NOT EXISTS stations (
		icao            TEXT PRIMARY KEY,
		region          TEXT,
		country         TEXT,
		first_seen      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		report_count    INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_stations_region ON stations(region);
	CREATE INDEX IF NOT EXISTS idx_stations_last_seen ON stations(last_seen);

	-- Archive: every decoded report.
	CREATE TABLE IF NOT EXISTS reports (
		id              UUID PRIMARY KEY,
		station         TEXT NOT NULL,
		kind            TEXT NOT NULL,
		observed_day    SMALLINT NOT NULL,
		observed_hour   SMALLINT NOT NULL,
		observed_minute SMALLINT NOT NULL,
		raw_text        TEXT NOT NULL,
		decoded         JSONB NOT NULL,
		warning_count   INTEGER NOT NULL DEFAULT 0,
		received_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_reports_station ON reports(station, received_at DESC);
	CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
	CREATE INDEX IF NOT EXISTS idx_reports_received ON reports(received_at);
	`

	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	// Create partial index separately (IF NOT EXISTS syntax differs).
	_, _ = d.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_reports_warned ON reports(station) WHERE warning_count > 0`)

	return nil
}

// ArchivedReport is one archived decode.
type ArchivedReport struct {
	ID           uuid.UUID
	Station      string
	Kind         string
	Observed     report.ClockTime
	RawText      string
	DecodedJSON  []byte
	WarningCount int
	ReceivedAt   time.Time
}

// NewArchivedReport builds an archive row from a decoded report.
func NewArchivedReport(raw string, decoded report.Report, receivedAt time.Time) (ArchivedReport, error) {
	decodedJSON, err := json.Marshal(decoded)
	if err != nil {
		return ArchivedReport{}, fmt.Errorf("marshal decoded report: %w", err)
	}

	var observed report.ClockTime
	switch v := decoded.(type) {
	case *report.Metar:
		observed = v.Time
	case *report.Taf:
		observed = v.IssueTime
	}

	return ArchivedReport{
		ID:           uuid.New(),
		Station:      decoded.StationID(),
		Kind:         decoded.Kind(),
		Observed:     observed,
		RawText:      raw,
		DecodedJSON:  decodedJSON,
		WarningCount: len(report.WarningsOf(decoded)),
		ReceivedAt:   receivedAt,
	}, nil
}

// InsertReport stores a report in the archive.
func (d *PostgresDB) InsertReport(ctx context.Context, r ArchivedReport) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO reports (id, station, kind, observed_day, observed_hour, observed_minute, raw_text, decoded, warning_count, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.Station, r.Kind, r.Observed.Day, r.Observed.Hour, r.Observed.Minute,
		r.RawText, r.DecodedJSON, r.WarningCount, r.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// LatestReport retrieves the most recently received report for a station,
// optionally filtered by kind. Returns nil when the station has none.
func (d *PostgresDB) LatestReport(ctx context.Context, station, kind string) (*ArchivedReport, error) {
	query := `
		SELECT id, station, kind, observed_day, observed_hour, observed_minute, raw_text, decoded, warning_count, received_at
		FROM reports WHERE station = $1`
	args := []interface{}{station}
	if kind != "" {
		query += " AND kind = $2"
		args = append(args, kind)
	}
	query += " ORDER BY received_at DESC LIMIT 1"

	var r ArchivedReport
	err := d.pool.QueryRow(ctx, query, args...).Scan(
		&r.ID, &r.Station, &r.Kind, &r.Observed.Day, &r.Observed.Hour, &r.Observed.Minute,
		&r.RawText, &r.DecodedJSON, &r.WarningCount, &r.ReceivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReports retrieves recent reports for a station, newest first.
func (d *PostgresDB) ListReports(ctx context.Context, station string, limit int) ([]ArchivedReport, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.pool.Query(ctx, `
		SELECT id, station, kind, observed_day, observed_hour, observed_minute, raw_text, decoded, warning_count, received_at
		FROM reports WHERE station = $1
		ORDER BY received_at DESC LIMIT $2
	`, station, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []ArchivedReport
	for rows.Next() {
		var r ArchivedReport
		if err := rows.Scan(&r.ID, &r.Station, &r.Kind, &r.Observed.Day, &r.Observed.Hour,
			&r.Observed.Minute, &r.RawText, &r.DecodedJSON, &r.WarningCount, &r.ReceivedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// StationRecord is the archive's reference row for one reporting station.
type StationRecord struct {
	ICAO        string
	Region      string
	Country     string
	FirstSeen   time.Time
	LastSeen    time.Time
	ReportCount int
}

// UpsertStation inserts or refreshes a station reference row.
func (d *PostgresDB) UpsertStation(ctx context.Context, s StationRecord) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO stations (icao, region, country, first_seen, last_seen, report_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (icao) DO UPDATE SET
			region = COALESCE(NULLIF(EXCLUDED.region, ''), stations.region),
			country = COALESCE(NULLIF(EXCLUDED.country, ''), stations.country),
			last_seen = EXCLUDED.last_seen,
			report_count = stations.report_count + 1
	`, s.ICAO, s.Region, s.Country, s.FirstSeen, s.LastSeen, s.ReportCount)
	return err
}

// GetStation retrieves a station reference row, or nil when unknown.
func (d *PostgresDB) GetStation(ctx context.Context, icao string) (*StationRecord, error) {
	var s StationRecord
	err := d.pool.QueryRow(ctx, `
		SELECT icao, region, country, first_seen, last_seen, report_count
		FROM stations WHERE icao = $1
	`, icao).Scan(&s.ICAO, &s.Region, &s.Country, &s.FirstSeen, &s.LastSeen, &s.ReportCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStations retrieves stations ordered by most recent activity.
func (d *PostgresDB) ListStations(ctx context.Context, limit int) ([]StationRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.pool.Query(ctx, `
		SELECT icao, region, country, first_seen, last_seen, report_count
		FROM stations ORDER BY last_seen DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []StationRecord
	for rows.Next() {
		var s StationRecord
		if err := rows.Scan(&s.ICAO, &s.Region, &s.Country, &s.FirstSeen, &s.LastSeen, &s.ReportCount); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// Package storage provides persistent storage for decoded weather reports.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"wx_decoder/internal/report"
)

// CapturedReport is a stored decode with its raw input and result.
type CapturedReport struct {
	ID           int64
	ReceivedAt   time.Time
	Station      string
	Kind         string
	RawText      string
	DecodedJSON  string
	Warnings     string
	WarningCount int
}

// CaptureDB wraps a SQLite database used by the CLI to keep a local
// record of every decode.
type CaptureDB struct {
	db    *sql.DB
	clock clockwork.Clock
}

// OpenCapture opens or creates a SQLite capture database at the given path.
func OpenCapture(path string) (*CaptureDB, error) {
	return OpenCaptureWithClock(path, clockwork.NewRealClock())
}

// OpenCaptureWithClock opens a capture database stamping rows from the
// given clock. Tests inject a fake clock here.
func OpenCaptureWithClock(path string, clock clockwork.Clock) (*CaptureDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createCaptureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &CaptureDB{db: db, clock: clock}, nil
}

// Close closes the database connection.
func (d *CaptureDB) Close() error {
	return d.db.Close()
}

func createCaptureSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		received_at TEXT NOT NULL,
		station TEXT NOT NULL,
		kind TEXT NOT NULL,
		raw_text TEXT NOT NULL,
		decoded_json TEXT NOT NULL,
		warnings TEXT,
		warning_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_reports_station ON reports(station);
	CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind);
	CREATE INDEX IF NOT EXISTS idx_reports_received ON reports(received_at);
	CREATE INDEX IF NOT EXISTS idx_reports_warnings ON reports(warning_count);

	-- FTS5 virtual table for full-text search on raw report text.
	CREATE VIRTUAL TABLE IF NOT EXISTS reports_fts USING fts5(
		raw_text,
		content='reports',
		content_rowid='id'
	);

	-- Triggers to keep FTS index in sync.
	CREATE TRIGGER IF NOT EXISTS reports_ai AFTER INSERT ON reports BEGIN
		INSERT INTO reports_fts(rowid, raw_text) VALUES (new.id, new.raw_text);
	END;

	CREATE TRIGGER IF NOT EXISTS reports_ad AFTER DELETE ON reports BEGIN
		INSERT INTO reports_fts(reports_fts, rowid, raw_text) VALUES('delete', old.id, old.raw_text);
	END;

	CREATE TRIGGER IF NOT EXISTS reports_au AFTER UPDATE ON reports BEGIN
		INSERT INTO reports_fts(reports_fts, rowid, raw_text) VALUES('delete', old.id, old.raw_text);
		INSERT INTO reports_fts(rowid, raw_text) VALUES (new.id, new.raw_text);
	END;
	`

	_, err := db.Exec(schema)
	return err
}

// Capture stores one decoded report. The decoded value is marshalled to
// JSON; warnings are stored both as joined text for grepping and as a
// count for filtering.
func (d *CaptureDB) Capture(raw string, decoded report.Report) (int64, error) {
	decodedJSON, err := json.Marshal(decoded)
	if err != nil {
		return 0, fmt.Errorf("marshal decoded report: %w", err)
	}

	warnings := report.WarningsOf(decoded)
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}

	result, err := d.db.Exec(`
		INSERT INTO reports (received_at, station, kind, raw_text, decoded_json, warnings, warning_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.clock.Now().UTC().Format(time.RFC3339), decoded.StationID(), decoded.Kind(), raw,
		string(decodedJSON), strings.Join(lines, "\n"), len(warnings))
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}

	return result.LastInsertId()
}

// CaptureQuery contains filtering options for querying captured reports.
type CaptureQuery struct {
	ID          int64  // Filter by specific row ID.
	Station     string // Filter by station (exact match).
	Kind        string // Filter by report kind (METAR, SPECI, TAF).
	HasWarnings bool   // Only rows whose decode left warnings.
	FullText    string // FTS5 full-text search on raw_text.
	Limit       int    // Max results (default 100).
	Offset      int    // Pagination offset.
	OrderDesc   bool   // Sort by received_at descending.
}

// Query retrieves captured reports matching the given parameters.
func (d *CaptureDB) Query(p CaptureQuery) ([]CapturedReport, error) {
	var conditions []string
	var args []interface{}

	if p.ID != 0 {
		conditions = append(conditions, "id = ?")
		args = append(args, p.ID)
	}
	if p.Station != "" {
		conditions = append(conditions, "station = ?")
		args = append(args, p.Station)
	}
	if p.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, p.Kind)
	}
	if p.HasWarnings {
		conditions = append(conditions, "warning_count > 0")
	}

	// FTS5 search requires a JOIN with the FTS table.
	var query string
	if p.FullText != "" {
		query = `SELECT r.id, r.received_at, r.station, r.kind, r.raw_text, r.decoded_json, r.warnings, r.warning_count
				FROM reports r
				JOIN reports_fts fts ON r.id = fts.rowid
				WHERE reports_fts MATCH ?`
		args = append([]interface{}{p.FullText}, args...)
		if len(conditions) > 0 {
			query += " AND " + strings.Join(conditions, " AND ")
		}
	} else {
		query = `SELECT id, received_at, station, kind, raw_text, decoded_json, warnings, warning_count
				FROM reports`
		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}
	}

	direction := "ASC"
	if p.OrderDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY received_at %s, id %s", direction, direction)

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []CapturedReport
	for rows.Next() {
		r, err := scanCaptured(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCaptured(row rowScanner) (CapturedReport, error) {
	var r CapturedReport
	var ts string
	var warnings sql.NullString

	err := row.Scan(&r.ID, &ts, &r.Station, &r.Kind, &r.RawText, &r.DecodedJSON, &warnings, &r.WarningCount)
	if err != nil {
		return r, fmt.Errorf("scan row: %w", err)
	}

	r.ReceivedAt, _ = time.Parse(time.RFC3339, ts)
	if warnings.Valid {
		r.Warnings = warnings.String
	}
	return r, nil
}

// GetByID retrieves a single captured report, or nil when absent.
func (d *CaptureDB) GetByID(id int64) (*CapturedReport, error) {
	row := d.db.QueryRow(`
		SELECT id, received_at, station, kind, raw_text, decoded_json, warnings, warning_count
		FROM reports WHERE id = ?
	`, id)

	r, err := scanCaptured(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// CaptureStats contains aggregate statistics about captured reports.
type CaptureStats struct {
	TotalReports int
	ByKind       map[string]int
	ByStation    map[string]int
	WithWarnings int
}

// GetStats returns statistics about the captured reports.
func (d *CaptureDB) GetStats() (*CaptureStats, error) {
	stats := &CaptureStats{
		ByKind:    make(map[string]int),
		ByStation: make(map[string]int),
	}

	row := d.db.QueryRow("SELECT COUNT(*) FROM reports")
	if err := row.Scan(&stats.TotalReports); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT kind, COUNT(*) FROM reports GROUP BY kind ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.ByKind[kind] = count
	}
	_ = rows.Close()

	rows, err = d.db.Query("SELECT station, COUNT(*) FROM reports GROUP BY station ORDER BY COUNT(*) DESC LIMIT 20")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var station string
		var count int
		if err := rows.Scan(&station, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.ByStation[station] = count
	}
	_ = rows.Close()

	row = d.db.QueryRow("SELECT COUNT(*) FROM reports WHERE warning_count > 0")
	if err := row.Scan(&stats.WithWarnings); err != nil {
		return nil, err
	}

	return stats, nil
}

// Stations returns the distinct stations seen in the capture database.
func (d *CaptureDB) Stations() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT station FROM reports WHERE station != '' ORDER BY station")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

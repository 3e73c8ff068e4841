package state

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"wx_decoder/internal/report"
)

// Tracker keeps the newest report per station, persisted to SQLite and
// mirrored in memory so lookups never touch the database.
type Tracker struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex

	latest map[string]*Latest

	// Callbacks for change notifications.
	onStationNew    func(*Latest)
	onReportChanged func(*Latest)
}

// NewTracker creates a state tracker with the given database path.
// If dbPath is empty or ":memory:", uses an in-memory database.
func NewTracker(dbPath string) (*Tracker, error) {
	return NewTrackerWithClock(dbPath, clockwork.NewRealClock())
}

// NewTrackerWithClock creates a tracker stamping rows from the given
// clock. Tests inject a fake clock here.
func NewTrackerWithClock(dbPath string, clock clockwork.Clock) (*Tracker, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	t := &Tracker{
		db:     db,
		clock:  clock,
		latest: make(map[string]*Latest),
	}

	if err := t.loadLatest(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return t, nil
}

// Close closes the database connection.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// OnStationNew sets a callback for when a station is first seen.
func (t *Tracker) OnStationNew(fn func(*Latest)) {
	t.onStationNew = fn
}

// OnReportChanged sets a callback for when a station's latest report is
// replaced.
func (t *Tracker) OnReportChanged(fn func(*Latest)) {
	t.onReportChanged = fn
}

// loadLatest loads the persisted per-station state into memory.
func (t *Tracker) loadLatest() error {
	rows, err := t.db.Query(`
		SELECT station, kind, raw_text, decoded_json, warning_count,
		       observed_day, observed_hour, observed_minute,
		       first_seen, last_seen, report_count
		FROM station_latest
	`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var l Latest
		err := rows.Scan(
			&l.Station, &l.Kind, &l.RawText, &l.DecodedJSON, &l.WarningCount,
			&l.Observed.Day, &l.Observed.Hour, &l.Observed.Minute,
			&l.FirstSeen, &l.LastSeen, &l.ReportCount,
		)
		if err != nil {
			continue
		}
		t.latest[l.Station] = &l
	}

	return rows.Err()
}

// newer reports whether incoming should replace stored, comparing the
// observed day/hour/minute. Reports carry no month, so a day far below
// the stored one is read as a month rollover, not an old replay.
func newer(stored, incoming report.ClockTime) bool {
	if incoming.Day != stored.Day {
		if incoming.Day > stored.Day {
			return true
		}
		return stored.Day-incoming.Day > 15
	}
	if incoming.Hour != stored.Hour {
		return incoming.Hour > stored.Hour
	}
	return incoming.Minute >= stored.Minute
}

// Apply records a decoded report. The stored state is replaced only when
// the report is at least as recent as the one already held; stale replays
// still bump the per-station counter. Returns the (possibly unchanged)
// latest state and whether the station was new.
func (t *Tracker) Apply(u Update) (*Latest, bool) {
	if u.Station == "" {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now().UTC()
	isNew := false

	l, exists := t.latest[u.Station]
	if !exists {
		l = &Latest{
			Station:   u.Station,
			FirstSeen: now,
		}
		t.latest[u.Station] = l
		isNew = true
	}

	replaced := isNew || newer(l.Observed, u.Observed)
	if replaced {
		l.Kind = u.Kind
		l.RawText = u.RawText
		l.DecodedJSON = u.DecodedJSON
		l.WarningCount = u.WarningCount
		l.Observed = u.Observed
	}
	l.LastSeen = now
	l.ReportCount++

	t.persist(l)

	if isNew && t.onStationNew != nil {
		t.onStationNew(snapshot(l))
	}
	if replaced && !isNew && t.onReportChanged != nil {
		t.onReportChanged(snapshot(l))
	}

	return snapshot(l), isNew
}

func (t *Tracker) persist(l *Latest) {
	_, _ = t.db.Exec(`
		INSERT INTO station_latest (station, kind, raw_text, decoded_json, warning_count,
			observed_day, observed_hour, observed_minute, first_seen, last_seen, report_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (station) DO UPDATE SET
			kind = excluded.kind,
			raw_text = excluded.raw_text,
			decoded_json = excluded.decoded_json,
			warning_count = excluded.warning_count,
			observed_day = excluded.observed_day,
			observed_hour = excluded.observed_hour,
			observed_minute = excluded.observed_minute,
			last_seen = excluded.last_seen,
			report_count = excluded.report_count
	`, l.Station, l.Kind, l.RawText, l.DecodedJSON, l.WarningCount,
		l.Observed.Day, l.Observed.Hour, l.Observed.Minute,
		l.FirstSeen, l.LastSeen, l.ReportCount)
}

func snapshot(l *Latest) *Latest {
	c := *l
	return &c
}

// Latest returns the tracked state for a station, or nil when unseen.
func (t *Tracker) Latest(station string) *Latest {
	t.mu.RLock()
	defer t.mu.RUnlock()

	l, ok := t.latest[station]
	if !ok {
		return nil
	}
	return snapshot(l)
}

// Stations returns all tracked station identifiers.
func (t *Tracker) Stations() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stations := make([]string, 0, len(t.latest))
	for s := range t.latest {
		stations = append(stations, s)
	}
	return stations
}

// Stats returns statistics about tracked stations.
type Stats struct {
	Stations     int
	WithWarnings int
	SeenLastHour int
}

func (t *Tracker) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var stats Stats
	stats.Stations = len(t.latest)
	cutoff := t.clock.Now().UTC().Add(-time.Hour)
	for _, l := range t.latest {
		if l.WarningCount > 0 {
			stats.WithWarnings++
		}
		if l.LastSeen.After(cutoff) {
			stats.SeenLastHour++
		}
	}
	return stats
}

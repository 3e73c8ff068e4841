// Package state tracks the latest decoded report per reporting station,
// backed by SQLite with an in-memory cache for fast lookups.
package state

// schema contains the SQLite table definitions for station state.
const schema = `
-- Latest report per station, replaced as newer observations arrive.
CREATE TABLE IF NOT EXISTS station_latest (
	station         TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	raw_text        TEXT NOT NULL,
	decoded_json    TEXT NOT NULL,
	warning_count   INTEGER NOT NULL DEFAULT 0,
	observed_day    INTEGER NOT NULL,
	observed_hour   INTEGER NOT NULL,
	observed_minute INTEGER NOT NULL,
	first_seen      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	report_count    INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_station_latest_seen ON station_latest(last_seen);
CREATE INDEX IF NOT EXISTS idx_station_latest_kind ON station_latest(kind);
`

package state

import (
	"time"

	"wx_decoder/internal/report"
)

// Latest is the tracked state for one reporting station.
type Latest struct {
	Station      string           `json:"station"`
	Kind         string           `json:"kind"`
	RawText      string           `json:"raw_text"`
	DecodedJSON  string           `json:"decoded_json"`
	WarningCount int              `json:"warning_count"`
	Observed     report.ClockTime `json:"observed"`
	FirstSeen    time.Time        `json:"first_seen"`
	LastSeen     time.Time        `json:"last_seen"`
	ReportCount  int              `json:"report_count"`
}

// Update carries one decoded report into the tracker.
type Update struct {
	Station      string
	Kind         string
	RawText      string
	DecodedJSON  string
	WarningCount int
	Observed     report.ClockTime
}

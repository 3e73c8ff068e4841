package state

import (
	"encoding/json"

	"wx_decoder/internal/report"
)

// UpdateFrom flattens a decoded report into a tracker update. Returns
// false when the report carries no usable station identity (a NIL report
// still has one; this guards callers constructing reports by hand).
func UpdateFrom(raw string, decoded report.Report) (Update, bool) {
	if decoded == nil || decoded.StationID() == "" {
		return Update{}, false
	}

	decodedJSON, err := json.Marshal(decoded)
	if err != nil {
		return Update{}, false
	}

	var observed report.ClockTime
	switch v := decoded.(type) {
	case *report.Metar:
		observed = v.Time
	case *report.Taf:
		observed = v.IssueTime
	}

	return Update{
		Station:      decoded.StationID(),
		Kind:         decoded.Kind(),
		RawText:      raw,
		DecodedJSON:  string(decodedJSON),
		WarningCount: len(report.WarningsOf(decoded)),
		Observed:     observed,
	}, true
}

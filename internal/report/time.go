package report

import "fmt"

// ClockTime is a day-of-month / hour / minute stamp as encoded in report
// headers (DDHHMMZ) and FM change markers. Reports never carry a month or
// year; resolving against a calendar is the caller's concern.
type ClockTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d%02d%02dZ", t.Day, t.Hour, t.Minute)
}

// DayHour marks a TAF validity boundary (DDHH). Hour 24 is permitted and
// means end of day, per the TAF valid-period convention.
type DayHour struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

func (d DayHour) String() string {
	return fmt.Sprintf("%02d%02d", d.Day, d.Hour)
}

// Before reports whether d orders strictly before o within one month.
func (d DayHour) Before(o DayHour) bool {
	if d.Day != o.Day {
		return d.Day < o.Day
	}
	return d.Hour < o.Hour
}

// Period is a half-open validity window [From, To).
type Period struct {
	From DayHour `json:"from"`
	To   DayHour `json:"to"`
}

func (p Period) String() string {
	return p.From.String() + "/" + p.To.String()
}

// HourMinute is an hour/minute stamp used by METAR trend time indicators
// (FM1030, TL1200, AT1100) and remark groups.
type HourMinute struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (h HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", h.Hour, h.Minute)
}

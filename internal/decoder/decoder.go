// Package decoder assembles decoded reports from classified token
// streams. The METAR assembler walks the body once with an exhaustive
// switch over grammar kinds; the TAF assembler layers the forecast
// period state machine on top of the same component parsers. Only a
// missing station or time group aborts a decode; every other problem
// degrades to a warning on the report.
package decoder

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// validPeriodShape spots the DDHH/DDHH group a headerless TAF carries
// right after its issue time.
var validPeriodShape = regexp.MustCompile(`^\d{4}/\d{4}$`)

// Decode decodes raw as a METAR or TAF, detected from the body: a TAF
// keyword or a valid-period group in header position marks a forecast,
// anything else decodes as a surface observation.
func Decode(raw string) (report.Report, error) {
	for i, f := range strings.Fields(raw) {
		if i > 3 {
			break
		}
		if f == report.TypeTaf || validPeriodShape.MatchString(f) {
			return DecodeTaf(raw)
		}
	}
	return DecodeMetar(raw)
}

// splitRemarks cuts the classified stream at the RMK marker. The tail
// comes back as text because the remarks grammar scans spans, not tokens.
func splitRemarks(toks []grammar.ClassifiedToken) ([]grammar.ClassifiedToken, string) {
	for i, ct := range toks {
		if ct.Kind != grammar.KindRemarkStart {
			continue
		}
		parts := make([]string, 0, len(toks)-i-1)
		for _, t := range toks[i+1:] {
			parts = append(parts, t.Text)
		}
		return toks[:i], strings.Join(parts, " ")
	}
	return toks, ""
}

// clockTime builds a day/hour/minute stamp from an observation_time or
// change_from capture set.
func clockTime(ct grammar.ClassifiedToken) (report.ClockTime, bool) {
	day, err1 := strconv.Atoi(ct.Capture("day", ""))
	hour, err2 := strconv.Atoi(ct.Capture("hour", ""))
	minute, err3 := strconv.Atoi(ct.Capture("minute", ""))
	if err1 != nil || err2 != nil || err3 != nil {
		return report.ClockTime{}, false
	}
	if day < 1 || day > 31 || hour > 24 || minute > 59 {
		return report.ClockTime{}, false
	}
	return report.ClockTime{Day: day, Hour: hour, Minute: minute}, true
}

// validPeriod builds the DDHH/DDHH validity window from a valid_period
// capture set.
func validPeriod(ct grammar.ClassifiedToken) (report.Period, bool) {
	fromDay, err1 := strconv.Atoi(ct.Capture("fromday", ""))
	fromHour, err2 := strconv.Atoi(ct.Capture("fromhour", ""))
	toDay, err3 := strconv.Atoi(ct.Capture("today", ""))
	toHour, err4 := strconv.Atoi(ct.Capture("tohour", ""))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return report.Period{}, false
	}
	if fromDay < 1 || fromDay > 31 || toDay < 1 || toDay > 31 || fromHour > 24 || toHour > 24 {
		return report.Period{}, false
	}
	return report.Period{
		From: report.DayHour{Day: fromDay, Hour: fromHour},
		To:   report.DayHour{Day: toDay, Hour: toHour},
	}, true
}

// warnOf converts a component parse failure into the report warning.
func warnOf(err error, ct grammar.ClassifiedToken) report.Warning {
	var pe report.ParseError
	if errors.As(err, &pe) {
		return report.WarnParse(pe, ct.Index)
	}
	return report.Warning{
		Component: report.ComponentToken,
		Token:     ct.Text,
		Position:  ct.Index,
		Message:   err.Error(),
	}
}

// warnUnknown records an unrecognized token. A token ending in a wind
// speed unit is a wind group that failed its shape check (28XXKT); the
// warning keeps the wind component tag so the failure stays diagnosable.
func warnUnknown(ct grammar.ClassifiedToken) report.Warning {
	for _, unit := range []string{report.UnitKnots, report.UnitMPS, report.UnitKMH} {
		if strings.HasSuffix(ct.Text, unit) && len(ct.Text) > len(unit) {
			return report.WarnParse(report.ParseError{
				Component: report.ComponentWind,
				Token:     ct.Text,
				Reason:    "malformed wind group",
			}, ct.Index)
		}
	}
	return report.WarnUnrecognized(ct.Text, ct.Index)
}

// warnPeriod records a PeriodOrderingError against the flagged period.
func warnPeriod(err report.PeriodOrderingError, position int) report.Warning {
	return report.Warning{
		Component: report.ComponentPeriod,
		Token:     err.Marker,
		Position:  position,
		Message:   err.Reason,
	}
}

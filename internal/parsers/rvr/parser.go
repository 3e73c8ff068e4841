// Package rvr decodes runway visual range groups (R06/0400, R24L/M0050,
// R04/P1500V2500FT/D) including variable ranges and trend suffixes.
package rvr

import (
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// trends maps the wire trend suffix to its decoded form.
var trends = map[string]string{
	"U": report.RVRImproving,
	"D": report.RVRDeteriorating,
	"N": report.RVRNoChange,
}

// Parse decodes a classified RVR token.
func Parse(ct grammar.ClassifiedToken) (*report.RunwayVisualRange, error) {
	value, err := strconv.Atoi(ct.Capture("value", ""))
	if err != nil {
		return nil, parseErr(ct, "bad range value")
	}

	r := &report.RunwayVisualRange{
		Runway: ct.Capture("rwy", ""),
		Value:  value,
		Unit:   report.UnitMeters,
	}
	if ct.Has("ft") {
		r.Unit = report.UnitFeet
	}

	switch ct.Capture("mod", "") {
	case "P":
		r.GreaterThan = true
	case "M":
		r.LessThan = true
	}

	if h := ct.Capture("high", ""); h != "" {
		high, err := strconv.Atoi(h)
		if err != nil {
			return nil, parseErr(ct, "bad variable upper bound")
		}
		if high < value {
			return nil, parseErr(ct, "variable upper bound below lower")
		}
		r.High = &high
		switch ct.Capture("highmod", "") {
		case "P":
			r.HighGreaterThan = true
		case "M":
			r.HighLessThan = true
		}
	}

	if tr := ct.Capture("trend", ""); tr != "" {
		r.Trend = trends[tr]
	}

	return r, nil
}

func parseErr(ct grammar.ClassifiedToken, reason string) error {
	return report.ParseError{Component: report.ComponentRVR, Token: ct.Text, Reason: reason}
}

// Package visibility decodes prevailing visibility groups: metres (9999,
// 0350, 2000NDV), statute miles and kilometres with mixed fractions
// (P6SM, 1 1/2SM, M1/4SM), direction-qualified minima (1200NW) and the
// CAVOK shorthand.
package visibility

import (
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// CAVOK is the visibility component a CAVOK group stands for: ten
// kilometres or more with no significant weather or cloud below 5000 ft.
func CAVOK() *report.Visibility {
	return &report.Visibility{
		Value:       10000,
		Unit:        report.UnitMeters,
		CAVOK:       true,
		GreaterThan: true,
	}
}

// Parse decodes a classified visibility token. The unmeasured //// group
// decodes to nil with no error: the group is present but carries nothing.
func Parse(ct grammar.ClassifiedToken) (*report.Visibility, error) {
	switch ct.Rule {
	case "visibility_missing":
		return nil, nil
	case "visibility_miles":
		return parseMiles(ct)
	case "visibility_directional":
		return parseDirectional(ct)
	case "visibility_meters":
		return parseMeters(ct)
	}
	return nil, parseErr(ct, "not a visibility group")
}

func parseMiles(ct grammar.ClassifiedToken) (*report.Visibility, error) {
	v := &report.Visibility{Unit: report.UnitStatuteMiles}
	if ct.Capture("unit", "") == "KM" {
		v.Unit = report.UnitKilometers
	}

	switch ct.Capture("mod", "") {
	case "P":
		v.GreaterThan = true
	case "M":
		v.LessThan = true
	}

	num, err := strconv.ParseFloat(ct.Capture("num", ""), 64)
	if err != nil {
		return nil, parseErr(ct, "bad numerator")
	}
	value := num

	if den := ct.Capture("den", ""); den != "" {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return nil, parseErr(ct, "bad denominator")
		}
		value = num / d
	}

	if whole := ct.Capture("whole", ""); whole != "" {
		w, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return nil, parseErr(ct, "bad whole part")
		}
		value += w
	}

	v.Value = value
	return v, nil
}

func parseDirectional(ct grammar.ClassifiedToken) (*report.Visibility, error) {
	val, err := strconv.Atoi(ct.Capture("value", ""))
	if err != nil {
		return nil, parseErr(ct, "bad distance")
	}
	return &report.Visibility{
		Value:     float64(val),
		Unit:      report.UnitMeters,
		Direction: ct.Capture("dir", ""),
	}, nil
}

func parseMeters(ct grammar.ClassifiedToken) (*report.Visibility, error) {
	val, err := strconv.Atoi(ct.Capture("value", ""))
	if err != nil {
		return nil, parseErr(ct, "bad distance")
	}

	v := &report.Visibility{Value: float64(val), Unit: report.UnitMeters, NDV: ct.Has("ndv")}
	switch val {
	case 9999:
		// Ten kilometres or more.
		v.Value = 10000
		v.GreaterThan = true
	case 0:
		// Below the 50 m reporting floor.
		v.Value = 50
		v.LessThan = true
	}
	return v, nil
}

func parseErr(ct grammar.ClassifiedToken, reason string) error {
	return report.ParseError{Component: report.ComponentVisibility, Token: ct.Text, Reason: reason}
}

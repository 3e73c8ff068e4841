// Package altimeter decodes pressure-setting groups: A2992 (hundredths of
// inHg), Q1013 (whole hPa) and the TAF QNH2992INS form.
package altimeter

import (
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// Parse decodes a classified A/Q altimeter token. Some stations report
// inches behind a Q prefix; values outside the plausible hectopascal
// range decode as hundredths of inHg regardless of prefix.
func Parse(ct grammar.ClassifiedToken) (*report.Altimeter, error) {
	raw, err := strconv.Atoi(ct.Capture("value", ""))
	if err != nil {
		return nil, parseErr(ct, "bad pressure value")
	}

	switch ct.Capture("source", "") {
	case "A":
		return &report.Altimeter{Value: float64(raw) / 100, Unit: report.UnitInHg}, nil
	case "Q":
		if raw >= 900 && raw <= 1050 {
			return &report.Altimeter{Value: float64(raw), Unit: report.UnitHPa}, nil
		}
		return &report.Altimeter{Value: float64(raw) / 100, Unit: report.UnitInHg}, nil
	}
	return nil, parseErr(ct, "unknown pressure prefix")
}

// ParseQNH decodes the explicit QNHddddINS/HPA group used on TAF bodies.
// Without a unit suffix the value is hectopascals.
func ParseQNH(ct grammar.ClassifiedToken) (*report.Altimeter, error) {
	raw, err := strconv.Atoi(ct.Capture("value", ""))
	if err != nil {
		return nil, parseErr(ct, "bad pressure value")
	}
	if ct.Capture("unit", "") == "INS" {
		return &report.Altimeter{Value: float64(raw) / 100, Unit: report.UnitInHg}, nil
	}
	return &report.Altimeter{Value: float64(raw), Unit: report.UnitHPa}, nil
}

func parseErr(ct grammar.ClassifiedToken, reason string) error {
	return report.ParseError{Component: report.ComponentAltimeter, Token: ct.Text, Reason: reason}
}

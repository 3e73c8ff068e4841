// Package temperature decodes temperature/dewpoint groups (22/18, M05/M12,
// 17/ with a missing dewpoint) and TAF forecast extremes (TX12/1218Z).
package temperature

import (
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// Parse decodes a classified temperature token. An M prefix negates.
func Parse(ct grammar.ClassifiedToken) (*report.Temperature, error) {
	celsius, err := signed(ct.Capture("temp", ""), ct.Has("tsign"))
	if err != nil {
		return nil, parseErr(ct, "bad temperature")
	}

	t := &report.Temperature{Celsius: celsius}
	if d := ct.Capture("dew", ""); d != "" {
		dew, err := signed(d, ct.Has("dsign"))
		if err != nil {
			return nil, parseErr(ct, "bad dewpoint")
		}
		t.Dewpoint = &dew
	}
	return t, nil
}

// ParseExtreme decodes a TAF TXdd/DDHHZ or TNdd/DDHHZ group.
func ParseExtreme(ct grammar.ClassifiedToken) (*report.TemperatureExtreme, error) {
	celsius, err := signed(ct.Capture("value", ""), ct.Has("sign"))
	if err != nil {
		return nil, parseErr(ct, "bad temperature")
	}
	day, err := strconv.Atoi(ct.Capture("day", ""))
	if err != nil || day < 1 || day > 31 {
		return nil, parseErr(ct, "bad day")
	}
	hour, err := strconv.Atoi(ct.Capture("hour", ""))
	if err != nil || hour > 24 {
		return nil, parseErr(ct, "bad hour")
	}

	return &report.TemperatureExtreme{
		Kind:    "T" + ct.Capture("kind", ""),
		Celsius: celsius,
		At:      report.DayHour{Day: day, Hour: hour},
	}, nil
}

func signed(digits string, negative bool) (int, error) {
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return v, nil
}

func parseErr(ct grammar.ClassifiedToken, reason string) error {
	return report.ParseError{Component: report.ComponentTemperature, Token: ct.Text, Reason: reason}
}

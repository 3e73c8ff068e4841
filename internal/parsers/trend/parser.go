// Package trend decodes METAR trend clauses: NOSIG, or BECMG/TEMPO
// followed by FM/TL/AT times and abbreviated condition groups.
package trend

import (
	"strconv"
	"strings"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/parsers/sky"
	"wx_decoder/internal/parsers/visibility"
	"wx_decoder/internal/parsers/wind"
	"wx_decoder/internal/parsers/wx"
	"wx_decoder/internal/report"
)

// Parse decodes one trend clause from its marker kind and the classified
// token run up to the next trend marker or RMK. Elements that fail to
// parse degrade to warnings; the clause itself is always kept.
func Parse(kind string, run []grammar.ClassifiedToken) (*report.Trend, []report.Warning) {
	tr := &report.Trend{Kind: kind}
	var warnings []report.Warning

	raw := make([]string, 0, len(run)+1)
	raw = append(raw, kind)

	for _, ct := range run {
		raw = append(raw, ct.Text)

		switch ct.Kind {
		case grammar.KindTrendTime:
			at, err := parseTime(ct)
			if err != nil {
				warnings = append(warnings, warn(ct, err))
				continue
			}
			switch ct.Capture("ind", "") {
			case "FM":
				tr.From = at
			case "TL":
				tr.Until = at
			case "AT":
				tr.At = at
			}

		case grammar.KindWind:
			w, err := wind.Parse(ct)
			if err != nil {
				warnings = append(warnings, warn(ct, err))
				continue
			}
			tr.Wind = w

		case grammar.KindCAVOK:
			tr.CAVOK = true
			tr.Visibility = visibility.CAVOK()

		case grammar.KindVisibility:
			v, err := visibility.Parse(ct)
			if err != nil {
				warnings = append(warnings, warn(ct, err))
				continue
			}
			if v != nil {
				tr.Visibility = v
			}

		case grammar.KindPhenomena:
			p, err := wx.Parse(ct)
			if err != nil {
				warnings = append(warnings, warn(ct, err))
				continue
			}
			tr.Weather = append(tr.Weather, *p)

		case grammar.KindSky:
			layer, err := sky.Parse(ct)
			if err != nil {
				warnings = append(warnings, warn(ct, err))
				continue
			}
			tr.Sky = append(tr.Sky, *layer)

		default:
			warnings = append(warnings, report.WarnUnrecognized(ct.Text, ct.Index))
		}
	}

	tr.Raw = strings.Join(raw, " ")
	return tr, warnings
}

func parseTime(ct grammar.ClassifiedToken) (*report.HourMinute, error) {
	hour, err := strconv.Atoi(ct.Capture("hour", ""))
	if err != nil || hour > 24 {
		return nil, report.ParseError{Component: report.ComponentTrend, Token: ct.Text, Reason: "bad hour"}
	}
	minute, err := strconv.Atoi(ct.Capture("minute", ""))
	if err != nil || minute > 59 {
		return nil, report.ParseError{Component: report.ComponentTrend, Token: ct.Text, Reason: "bad minute"}
	}
	return &report.HourMinute{Hour: hour, Minute: minute}, nil
}

func warn(ct grammar.ClassifiedToken, err error) report.Warning {
	if pe, ok := err.(report.ParseError); ok {
		return report.WarnParse(pe, ct.Index)
	}
	return report.Warning{Component: report.ComponentTrend, Token: ct.Text, Position: ct.Index, Message: err.Error()}
}

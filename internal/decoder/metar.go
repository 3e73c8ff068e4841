package decoder

import (
	"strings"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/parsers/altimeter"
	"wx_decoder/internal/parsers/remarks"
	"wx_decoder/internal/parsers/runway"
	"wx_decoder/internal/parsers/rvr"
	"wx_decoder/internal/parsers/shear"
	"wx_decoder/internal/parsers/sky"
	"wx_decoder/internal/parsers/temperature"
	"wx_decoder/internal/parsers/trend"
	"wx_decoder/internal/parsers/visibility"
	"wx_decoder/internal/parsers/wind"
	"wx_decoder/internal/parsers/wx"
	"wx_decoder/internal/report"
	"wx_decoder/internal/tokenizer"
)

// colorNames spells the military airfield color states.
var colorNames = map[string]string{
	"BLU": "Blue",
	"WHT": "White",
	"GRN": "Green",
	"YLO": "Yellow",
	"AMB": "Amber",
	"RED": "Red",
}

// DecodeMetar decodes raw as a surface observation. The station and
// observation time are mandatory; everything else degrades to an absent
// field and a warning.
func DecodeMetar(raw string) (*report.Metar, error) {
	raw = strings.TrimSpace(raw)
	tokens, err := tokenizer.Tokenize(raw)
	if err != nil {
		return nil, err
	}
	toks := grammar.ClassifyAll(tokens)

	m := &report.Metar{Raw: raw, Type: report.TypeMetar}

	// The maintenance flag rides anywhere, most often at the very end of
	// the remarks.
	for _, ct := range toks {
		if ct.Kind == grammar.KindMaintenance || strings.HasSuffix(ct.Text, "$") {
			m.Maintenance = true
		}
	}

	body, tail := splitRemarks(toks)

	// A NIL group marks a missing report; nothing after it decodes.
	for j, ct := range body {
		if ct.Kind == grammar.KindModifier && ct.Capture("mod", "") == "NIL" {
			m.Nil = true
			body = body[:j]
			break
		}
	}

	i := 0
	// The type keyword and COR/AMD modifiers precede the station on
	// international reports.
header:
	for i < len(body) {
		switch body[i].Kind {
		case grammar.KindReportType:
			if body[i].Capture("type", "") == report.TypeSpeci {
				m.Type = report.TypeSpeci
			}
		case grammar.KindModifier:
			applyMetarModifier(m, body[i].Capture("mod", ""))
		default:
			break header
		}
		i++
	}
	if i >= len(body) || body[i].Kind != grammar.KindStation {
		return nil, report.MissingMandatoryGroupError{Group: "station"}
	}
	m.Station = body[i].Capture("icao", "")
	i++

	// COR also sits between station and time on some feeds.
	for i < len(body) && body[i].Kind == grammar.KindModifier {
		applyMetarModifier(m, body[i].Capture("mod", ""))
		i++
	}
	if i >= len(body) || body[i].Kind != grammar.KindTime {
		return nil, report.MissingMandatoryGroupError{Group: "time"}
	}
	obsTime, ok := clockTime(body[i])
	if !ok {
		return nil, report.MissingMandatoryGroupError{Group: "time"}
	}
	m.Time = obsTime
	i++

	decodeMetarBody(m, body[i:])

	if tail != "" {
		m.RemarksRaw = tail
		m.Remarks = remarks.Parse(tail)
	}
	return m, nil
}

func applyMetarModifier(m *report.Metar, mod string) {
	switch mod {
	case "AUTO":
		m.Auto = true
	case "COR":
		m.Corrected = true
	case "NIL":
		m.Nil = true
	}
}

// decodeMetarBody dispatches every body group after the header. The
// switch is exhaustive over the grammar kinds; shapes that have no place
// in an observation body degrade to unrecognized-token warnings.
func decodeMetarBody(m *report.Metar, body []grammar.ClassifiedToken) {
	for i := 0; i < len(body); i++ {
		ct := body[i]

		switch ct.Kind {
		case grammar.KindModifier:
			applyMetarModifier(m, ct.Capture("mod", ""))

		case grammar.KindWind:
			w, err := wind.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			if i+1 < len(body) && body[i+1].Kind == grammar.KindWindVariation {
				i++
				if from, to, verr := wind.ParseVariation(body[i]); verr != nil {
					m.Warnings = append(m.Warnings, warnOf(verr, body[i]))
				} else {
					w.VariableFrom = &from
					w.VariableTo = &to
				}
			}
			if m.Wind == nil {
				m.Wind = w
			}

		case grammar.KindWindVariation:
			// Reached only when the group did not follow a wind group.
			from, to, err := wind.ParseVariation(ct)
			switch {
			case err != nil:
				m.Warnings = append(m.Warnings, warnOf(err, ct))
			case m.Wind == nil:
				m.Warnings = append(m.Warnings, report.WarnParse(report.ParseError{
					Component: report.ComponentWind,
					Token:     ct.Text,
					Reason:    "variation without wind group",
				}, ct.Index))
			default:
				m.Wind.VariableFrom = &from
				m.Wind.VariableTo = &to
			}

		case grammar.KindCAVOK:
			if m.Visibility == nil {
				m.Visibility = visibility.CAVOK()
			}

		case grammar.KindVisibility:
			v, err := visibility.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			if v == nil {
				continue // //// group: present but unmeasured
			}
			switch {
			case m.Visibility == nil:
				m.Visibility = v
			case v.Direction != "" && m.Visibility.Minimum == nil:
				// A second, direction-qualified group reports the minimum.
				m.Visibility.Minimum = &report.DirectionalVisibility{
					Value:     int(v.Value),
					Direction: v.Direction,
				}
			}

		case grammar.KindRunwayState:
			rs, err := runway.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			m.RunwayStates = append(m.RunwayStates, *rs)

		case grammar.KindRVR:
			r, err := rvr.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			m.RunwayVisualRanges = append(m.RunwayVisualRanges, *r)

		case grammar.KindPhenomena:
			p, err := wx.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			m.Weather = append(m.Weather, *p)

		case grammar.KindSky:
			layer, err := sky.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			m.Sky = append(m.Sky, *layer)

		case grammar.KindTemperature:
			t, err := temperature.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			if m.Temperature == nil {
				m.Temperature = t
			}

		case grammar.KindAltimeter:
			a, err := altimeter.Parse(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			if m.Altimeter == nil {
				m.Altimeter = a
			}

		case grammar.KindQNH:
			a, err := altimeter.ParseQNH(ct)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			if m.Altimeter == nil {
				m.Altimeter = a
			}

		case grammar.KindWindShear:
			parts := []string{ct.Text}
			for i+1 < len(body) && shear.Follows(body[i+1].Text) {
				i++
				parts = append(parts, body[i].Text)
			}
			ws, err := shear.Parse(parts)
			if err != nil {
				m.Warnings = append(m.Warnings, warnOf(err, ct))
				continue
			}
			m.WindShear = append(m.WindShear, *ws)

		case grammar.KindTrend:
			kind := ct.Capture("trend", "")
			if kind == report.TrendNoSignificant {
				m.Trends = append(m.Trends, report.Trend{Kind: kind, Raw: ct.Text})
				continue
			}
			j := i + 1
			for j < len(body) && !endsTrendRun(body[j].Kind) {
				j++
			}
			tr, warns := trend.Parse(kind, body[i+1:j])
			m.Trends = append(m.Trends, *tr)
			m.Warnings = append(m.Warnings, warns...)
			i = j - 1

		case grammar.KindColorCode:
			code := ct.Capture("code", "")
			m.ColorCodes = append(m.ColorCodes, report.ColorCode{
				Code:        code,
				Description: colorNames[code],
			})

		case grammar.KindMaintenance:
			m.Maintenance = true

		case grammar.KindReportType, grammar.KindStation, grammar.KindTime,
			grammar.KindValidPeriod, grammar.KindTafTemperature,
			grammar.KindChangeFrom, grammar.KindProb, grammar.KindTrendTime,
			grammar.KindRemarkStart:
			// Recognized shapes with no place here.
			m.Warnings = append(m.Warnings, report.WarnUnrecognized(ct.Text, ct.Index))

		case grammar.KindUnknown:
			m.Warnings = append(m.Warnings, warnUnknown(ct))
		}
	}
}

// endsTrendRun reports whether kind closes an open BECMG/TEMPO trend
// clause. Color codes and the maintenance flag trail the trends.
func endsTrendRun(kind grammar.Kind) bool {
	switch kind {
	case grammar.KindTrend, grammar.KindColorCode, grammar.KindMaintenance:
		return true
	}
	return false
}

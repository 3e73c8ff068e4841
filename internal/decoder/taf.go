package decoder

import (
	"strconv"
	"strings"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/parsers/altimeter"
	"wx_decoder/internal/parsers/remarks"
	"wx_decoder/internal/parsers/sky"
	"wx_decoder/internal/parsers/temperature"
	"wx_decoder/internal/parsers/visibility"
	"wx_decoder/internal/parsers/wind"
	"wx_decoder/internal/parsers/wx"
	"wx_decoder/internal/report"
	"wx_decoder/internal/tokenizer"
)

// DecodeTaf decodes raw as a terminal aerodrome forecast. The station
// and issue time are mandatory; everything else degrades to an absent
// field and a warning.
func DecodeTaf(raw string) (*report.Taf, error) {
	raw = strings.TrimSpace(raw)
	tokens, err := tokenizer.Tokenize(tokenizer.NormalizeTaf(raw))
	if err != nil {
		return nil, err
	}
	toks := grammar.ClassifyAll(tokens)

	t := &report.Taf{Raw: raw}

	body, tail := splitRemarks(toks)

	// A NIL group marks a missing forecast; nothing after it decodes.
	for j, ct := range body {
		if ct.Kind == grammar.KindModifier && ct.Capture("mod", "") == "NIL" {
			t.Nil = true
			body = body[:j]
			break
		}
	}

	i := 0
header:
	for i < len(body) {
		switch body[i].Kind {
		case grammar.KindReportType:
			// The TAF keyword; a METAR keyword here is junk but the
			// station is still recoverable.
		case grammar.KindModifier:
			applyTafModifier(t, body[i].Capture("mod", ""))
		default:
			break header
		}
		i++
	}
	if i >= len(body) || body[i].Kind != grammar.KindStation {
		return nil, report.MissingMandatoryGroupError{Group: "station"}
	}
	t.Station = body[i].Capture("icao", "")
	i++

	for i < len(body) && body[i].Kind == grammar.KindModifier {
		applyTafModifier(t, body[i].Capture("mod", ""))
		i++
	}
	if i >= len(body) || body[i].Kind != grammar.KindTime {
		return nil, report.MissingMandatoryGroupError{Group: "time"}
	}
	issue, ok := clockTime(body[i])
	if !ok {
		return nil, report.MissingMandatoryGroupError{Group: "time"}
	}
	t.IssueTime = issue
	i++

	haveValid := false
	if i < len(body) && body[i].Kind == grammar.KindValidPeriod {
		if p, ok := validPeriod(body[i]); ok {
			t.Valid = p
			haveValid = true
		} else {
			t.Warnings = append(t.Warnings, warnPeriod(report.PeriodOrderingError{
				Marker: body[i].Text,
				Reason: "bad valid period",
			}, body[i].Index))
		}
		i++
	}
	if !haveValid && !t.Nil && t.Valid == (report.Period{}) {
		t.Warnings = append(t.Warnings, report.Warning{
			Component: report.ComponentPeriod,
			Position:  i,
			Message:   "missing valid period",
		})
	}

	decodePeriods(t, body[i:])

	if tail != "" {
		t.RemarksRaw = tail
		t.Remarks = remarks.Parse(tail)
	}
	return t, nil
}

func applyTafModifier(t *report.Taf, mod string) {
	switch mod {
	case "AMD":
		t.Amended = true
	case "COR":
		t.Corrected = true
	case "NIL":
		t.Nil = true
	}
}

// Forecast period state machine states.
type periodState int

const (
	stateInitial  periodState = iota // before any change marker
	stateInPeriod                    // collecting a change group
	stateDone                        // body exhausted
)

// periodBuilder accumulates one forecast period. Open windows close when
// the next FM marker or the end of the body fixes their end.
type periodBuilder struct {
	period report.ForecastPeriod
	openTo bool
}

// periodFSM drives the change-group scan. Every marker closes the period
// being collected; FM markers also truncate the window of the open
// prevailing period they supersede.
type periodFSM struct {
	taf   *report.Taf
	state periodState
	cur   *periodBuilder

	// open is the index in taf.Periods of the last period whose window
	// may still be truncated by a following FM marker, -1 when none.
	open int

	// ordered gates window validation: spans that wrap a month boundary
	// cannot be ordered without a calendar.
	ordered bool
}

// decodePeriods runs the state machine over the body tokens left after
// the header.
func decodePeriods(t *report.Taf, body []grammar.ClassifiedToken) {
	fsm := periodFSM{
		taf:     t,
		open:    -1,
		ordered: t.Valid != (report.Period{}) && !t.Valid.To.Before(t.Valid.From),
	}
	for i := 0; i < len(body); i++ {
		i = fsm.feed(body, i)
	}
	fsm.finish()
}

func (f *periodFSM) warn(w report.Warning) {
	f.taf.Warnings = append(f.taf.Warnings, w)
}

func (f *periodFSM) feed(body []grammar.ClassifiedToken, i int) int {
	ct := body[i]

	switch ct.Kind {
	case grammar.KindChangeFrom:
		from, ok := clockTime(ct)
		if !ok {
			f.warn(warnPeriod(report.PeriodOrderingError{Marker: ct.Text, Reason: "bad change time"}, ct.Index))
			return i
		}
		f.openFrom(ct, from)

	case grammar.KindTrendTime:
		// Legacy FMhhmm change marker; TL/AT carry no forecast meaning.
		if ct.Capture("ind", "") != "FM" {
			f.warn(report.WarnUnrecognized(ct.Text, ct.Index))
			return i
		}
		from, ok := legacyFrom(ct, f.taf.Valid)
		if !ok {
			f.warn(warnPeriod(report.PeriodOrderingError{Marker: ct.Text, Reason: "bad change time"}, ct.Index))
			return i
		}
		f.openFrom(ct, from)

	case grammar.KindTrend:
		kind := ct.Capture("trend", "")
		if kind == report.TrendNoSignificant {
			f.warn(report.WarnUnrecognized(ct.Text, ct.Index))
			return i
		}
		return f.openWindowed(body, i, ct, kind, nil, false)

	case grammar.KindProb:
		pct, err := strconv.Atoi(ct.Capture("pct", ""))
		if err != nil {
			f.warn(warnPeriod(report.PeriodOrderingError{Marker: ct.Text, Reason: "bad probability"}, ct.Index))
			return i
		}
		tempo := false
		if i+1 < len(body) && body[i+1].Kind == grammar.KindTrend &&
			body[i+1].Capture("trend", "") == report.TrendTemporary {
			tempo = true
			i++
		}
		return f.openWindowed(body, i, ct, report.PeriodProb, &pct, tempo)

	case grammar.KindModifier:
		applyTafModifier(f.taf, ct.Capture("mod", ""))

	default:
		if f.cur == nil {
			// A condition token before any change marker opens the
			// INITIAL period; after a marker a builder is always live.
			f.openInitial()
		}
		f.component(ct)
	}
	return i
}

// openInitial starts the INITIAL period spanning the whole valid window
// until a change marker claims the remainder.
func (f *periodFSM) openInitial() {
	f.cur = &periodBuilder{openTo: true}
	f.cur.period = report.ForecastPeriod{
		Kind: report.PeriodInitial,
		From: report.ClockTime{Day: f.taf.Valid.From.Day, Hour: f.taf.Valid.From.Hour},
	}
}

// openFrom starts an FM period. FM restates the prevailing conditions
// from scratch, so the period inherits nothing.
func (f *periodFSM) openFrom(ct grammar.ClassifiedToken, from report.ClockTime) {
	start := report.DayHour{Day: from.Day, Hour: from.Hour}
	f.truncateOpen(start)
	f.closeCur()

	f.cur = &periodBuilder{openTo: true}
	f.cur.period = report.ForecastPeriod{Kind: report.PeriodFrom, From: from}
	f.cur.period.Flagged = f.checkWindow(ct, start, nil)
	f.state = stateInPeriod
}

// openWindowed starts a BECMG, TEMPO or PROB period from its marker and
// the DDHH/DDHH window expected to follow it.
func (f *periodFSM) openWindowed(body []grammar.ClassifiedToken, i int, marker grammar.ClassifiedToken, kind string, prob *int, tempo bool) int {
	f.closeCur()

	f.cur = &periodBuilder{}
	f.cur.period = report.ForecastPeriod{Kind: kind, Probability: prob, Tempo: tempo}

	if i+1 < len(body) && body[i+1].Kind == grammar.KindValidPeriod {
		i++
		if w, ok := validPeriod(body[i]); ok {
			f.cur.period.From = report.ClockTime{Day: w.From.Day, Hour: w.From.Hour}
			f.cur.period.To = w.To
			f.cur.period.Flagged = f.checkWindow(marker, w.From, &w.To)
			f.state = stateInPeriod
			return i
		}
		f.warn(warnPeriod(report.PeriodOrderingError{Marker: marker.Text, Reason: "bad change window"}, body[i].Index))
	} else {
		f.warn(warnPeriod(report.PeriodOrderingError{Marker: marker.Text, Reason: "missing change window"}, marker.Index))
	}

	// Best effort: the window opens where the preceding period opened
	// and stays open to the end of the forecast.
	f.cur.period.Flagged = true
	f.cur.openTo = true
	if n := len(f.taf.Periods); n > 0 {
		f.cur.period.From = f.taf.Periods[n-1].From
	} else {
		f.cur.period.From = report.ClockTime{Day: f.taf.Valid.From.Day, Hour: f.taf.Valid.From.Hour}
	}
	f.state = stateInPeriod
	return i
}

// checkWindow validates a new window against the valid span and the
// preceding period. Violations warn and flag the period, never drop it.
func (f *periodFSM) checkWindow(marker grammar.ClassifiedToken, from report.DayHour, to *report.DayHour) bool {
	if !f.ordered {
		return false
	}
	fail := func(reason string) bool {
		f.warn(warnPeriod(report.PeriodOrderingError{Marker: marker.Text, Reason: reason}, marker.Index))
		return true
	}
	if from.Before(f.taf.Valid.From) {
		return fail("window starts before the valid period")
	}
	if to != nil && f.taf.Valid.To.Before(*to) {
		return fail("window ends after the valid period")
	}
	if to != nil && to.Before(from) {
		return fail("window ends before it starts")
	}
	if n := len(f.taf.Periods); n > 0 {
		prev := f.taf.Periods[n-1].From
		if from.Before(report.DayHour{Day: prev.Day, Hour: prev.Hour}) {
			return fail("window starts before the preceding period")
		}
	}
	return false
}

// truncateOpen closes the still-open prevailing window at an FM start.
func (f *periodFSM) truncateOpen(at report.DayHour) {
	if f.cur != nil && f.cur.openTo {
		f.cur.period.To = at
		f.cur.openTo = false
		return
	}
	if f.open >= 0 {
		f.taf.Periods[f.open].To = at
		f.open = -1
	}
}

// closeCur finalizes the period being collected: open windows default to
// the forecast's valid-to, and non-FM change groups inherit the
// components they did not restate from the nearest preceding period.
func (f *periodFSM) closeCur() {
	if f.cur == nil {
		return
	}
	p := f.cur.period
	if f.cur.openTo && p.To == (report.DayHour{}) {
		p.To = f.taf.Valid.To
	}
	switch p.Kind {
	case report.PeriodInitial, report.PeriodFrom:
		// Prevailing periods state their own baseline.
	default:
		if n := len(f.taf.Periods); n > 0 {
			inherit(&p, &f.taf.Periods[n-1])
		}
	}
	f.taf.Periods = append(f.taf.Periods, p)
	if f.cur.openTo {
		f.open = len(f.taf.Periods) - 1
	}
	f.cur = nil
}

func (f *periodFSM) finish() {
	f.closeCur()
	f.state = stateDone
}

// component feeds one condition token to the period being collected.
func (f *periodFSM) component(ct grammar.ClassifiedToken) {
	p := &f.cur.period

	switch ct.Kind {
	case grammar.KindWind:
		w, err := wind.Parse(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		if p.Wind == nil {
			p.Wind = w
		}

	case grammar.KindWindVariation:
		from, to, err := wind.ParseVariation(ct)
		switch {
		case err != nil:
			f.warn(warnOf(err, ct))
		case p.Wind == nil:
			f.warn(report.WarnParse(report.ParseError{
				Component: report.ComponentWind,
				Token:     ct.Text,
				Reason:    "variation without wind group",
			}, ct.Index))
		default:
			p.Wind.VariableFrom = &from
			p.Wind.VariableTo = &to
		}

	case grammar.KindCAVOK:
		p.CAVOK = true
		if p.Visibility == nil {
			p.Visibility = visibility.CAVOK()
		}

	case grammar.KindVisibility:
		v, err := visibility.Parse(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		if v != nil && p.Visibility == nil {
			p.Visibility = v
		}

	case grammar.KindPhenomena:
		w, err := wx.Parse(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		p.Weather = append(p.Weather, *w)

	case grammar.KindSky:
		layer, err := sky.Parse(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		p.Sky = append(p.Sky, *layer)

	case grammar.KindQNH:
		a, err := altimeter.ParseQNH(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		if p.QNH == nil {
			p.QNH = a
		}

	case grammar.KindAltimeter:
		a, err := altimeter.Parse(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		if p.QNH == nil {
			p.QNH = a
		}

	case grammar.KindTafTemperature:
		ex, err := temperature.ParseExtreme(ct)
		if err != nil {
			f.warn(warnOf(err, ct))
			return
		}
		p.Temperatures = append(p.Temperatures, *ex)

	case grammar.KindReportType, grammar.KindStation, grammar.KindTime,
		grammar.KindValidPeriod, grammar.KindTemperature,
		grammar.KindRunwayState, grammar.KindRVR, grammar.KindWindShear,
		grammar.KindColorCode, grammar.KindMaintenance,
		grammar.KindRemarkStart:
		// Recognized shapes with no place in a forecast period.
		f.warn(report.WarnUnrecognized(ct.Text, ct.Index))

	case grammar.KindUnknown:
		f.warn(warnUnknown(ct))
	}
}

// inherit copies the components a non-FM change group leaves unstated
// from the nearest preceding period. Stated NSW or NSC groups make the
// weather and sky lists non-nil, so they block inheritance on their own.
func inherit(p, prev *report.ForecastPeriod) {
	if p.Wind == nil {
		p.Wind = prev.Wind
	}
	if p.Visibility == nil {
		p.Visibility = prev.Visibility
		p.CAVOK = prev.CAVOK
	}
	if p.Weather == nil {
		p.Weather = prev.Weather
	}
	if p.Sky == nil {
		p.Sky = prev.Sky
	}
	if p.QNH == nil {
		p.QNH = prev.QNH
	}
	if p.Temperatures == nil {
		p.Temperatures = prev.Temperatures
	}
}

// legacyFrom resolves the old FMhhmm change time against the valid span:
// the marker names only a time of day, so the day wraps forward when the
// hour falls before the span's opening hour.
func legacyFrom(ct grammar.ClassifiedToken, valid report.Period) (report.ClockTime, bool) {
	hour, err1 := strconv.Atoi(ct.Capture("hour", ""))
	minute, err2 := strconv.Atoi(ct.Capture("minute", ""))
	if err1 != nil || err2 != nil || hour > 24 || minute > 59 {
		return report.ClockTime{}, false
	}
	day := valid.From.Day
	if hour < valid.From.Hour {
		day++
	}
	return report.ClockTime{Day: day, Hour: hour, Minute: minute}, true
}

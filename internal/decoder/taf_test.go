package decoder

import (
	"errors"
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
	"wx_decoder/internal/tokenizer"
)

func decodeTaf(t *testing.T, raw string) *report.Taf {
	t.Helper()
	tf, err := DecodeTaf(raw)
	if err != nil {
		t.Fatalf("DecodeTaf(%q) error = %v", raw, err)
	}
	return tf
}

func TestDecodeTaf_Initial(t *testing.T) {
	tf := decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KT 9999 FEW250")

	if tf.Station != "KJFK" {
		t.Errorf("Station = %q, want KJFK", tf.Station)
	}
	if tf.IssueTime != (report.ClockTime{Day: 6, Hour: 17, Minute: 30}) {
		t.Errorf("IssueTime = %v, want 061730Z", tf.IssueTime)
	}
	want := report.Period{
		From: report.DayHour{Day: 6, Hour: 18},
		To:   report.DayHour{Day: 7, Hour: 24},
	}
	if tf.Valid != want {
		t.Errorf("Valid = %v, want %v", tf.Valid, want)
	}

	if len(tf.Periods) != 1 {
		t.Fatalf("Periods = %d, want 1", len(tf.Periods))
	}
	p := tf.Periods[0]
	if p.Kind != report.PeriodInitial {
		t.Errorf("Periods[0].Kind = %q, want INITIAL", p.Kind)
	}
	if p.From != (report.ClockTime{Day: 6, Hour: 18}) || p.To != want.To {
		t.Errorf("Periods[0] window = %v..%v, want 0618..0724", p.From, p.To)
	}
	if p.Wind == nil || p.Wind.Direction != 280 || p.Wind.Speed != 8 {
		t.Errorf("Periods[0].Wind = %+v, want 280 at 8", p.Wind)
	}
	if p.Visibility == nil || p.Visibility.Value != 10000 || !p.Visibility.GreaterThan {
		t.Errorf("Periods[0].Visibility = %+v, want 10 km or more", p.Visibility)
	}
	if len(p.Sky) != 1 || p.Sky[0].Coverage != report.CoverageFew {
		t.Errorf("Periods[0].Sky = %+v, want FEW250", p.Sky)
	}
	if len(tf.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", tf.Warnings)
	}
}

func TestDecodeTaf_ChangeGroups(t *testing.T) {
	tf := decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KT 9999 FEW250 "+
		"FM062000 32015G25KT 6000 BKN015 BECMG 0700/0702 9999 NSW")

	if len(tf.Periods) != 3 {
		t.Fatalf("Periods = %d, want 3", len(tf.Periods))
	}
	initial, fm, becmg := tf.Periods[0], tf.Periods[1], tf.Periods[2]

	// The FM marker claims the remainder of the prevailing window.
	if initial.Kind != report.PeriodInitial || initial.To != (report.DayHour{Day: 6, Hour: 20}) {
		t.Errorf("initial = %q to %v, want INITIAL to 0620", initial.Kind, initial.To)
	}

	if fm.Kind != report.PeriodFrom {
		t.Errorf("fm.Kind = %q, want FM", fm.Kind)
	}
	if fm.From != (report.ClockTime{Day: 6, Hour: 20}) {
		t.Errorf("fm.From = %v, want 062000", fm.From)
	}
	if fm.To != (report.DayHour{Day: 7, Hour: 24}) {
		t.Errorf("fm.To = %v, want 0724", fm.To)
	}
	// FM restates from scratch: nothing carries over from INITIAL.
	if fm.Wind == nil || fm.Wind.Direction != 320 || fm.Wind.Speed != 15 {
		t.Errorf("fm.Wind = %+v, want 320 at 15", fm.Wind)
	}
	if fm.Wind == nil || fm.Wind.Gust == nil || *fm.Wind.Gust != 25 {
		t.Errorf("fm.Wind gust = %+v, want 25", fm.Wind)
	}
	if fm.Visibility == nil || fm.Visibility.Value != 6000 {
		t.Errorf("fm.Visibility = %+v, want 6000", fm.Visibility)
	}
	if len(fm.Sky) != 1 || fm.Sky[0].Coverage != report.CoverageBroken {
		t.Errorf("fm.Sky = %+v, want BKN015", fm.Sky)
	}

	if becmg.Kind != report.PeriodBecoming {
		t.Errorf("becmg.Kind = %q, want BECMG", becmg.Kind)
	}
	if becmg.From != (report.ClockTime{Day: 7, Hour: 0}) || becmg.To != (report.DayHour{Day: 7, Hour: 2}) {
		t.Errorf("becmg window = %v..%v, want 0700..0702", becmg.From, becmg.To)
	}
	// Stated components override; unstated ones inherit from the FM
	// period.
	if becmg.Visibility == nil || becmg.Visibility.Value != 10000 {
		t.Errorf("becmg.Visibility = %+v, want 10 km or more", becmg.Visibility)
	}
	if len(becmg.Weather) != 1 || becmg.Weather[0].Raw != "NSW" {
		t.Errorf("becmg.Weather = %+v, want NSW", becmg.Weather)
	}
	if becmg.Wind == nil || becmg.Wind.Direction != 320 || becmg.Wind.Speed != 15 {
		t.Errorf("becmg.Wind = %+v, want inherited 320 at 15", becmg.Wind)
	}
	if len(becmg.Sky) != 1 || becmg.Sky[0].Coverage != report.CoverageBroken {
		t.Errorf("becmg.Sky = %+v, want inherited BKN015", becmg.Sky)
	}

	if len(tf.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", tf.Warnings)
	}

	// Windows stay sorted by start time.
	for i := 1; i < len(tf.Periods); i++ {
		prev := report.DayHour{Day: tf.Periods[i-1].From.Day, Hour: tf.Periods[i-1].From.Hour}
		cur := report.DayHour{Day: tf.Periods[i].From.Day, Hour: tf.Periods[i].From.Hour}
		if cur.Before(prev) {
			t.Errorf("Periods[%d] starts %v before Periods[%d] %v", i, cur, i-1, prev)
		}
	}
}

func TestDecodeTaf_LegacyFrom(t *testing.T) {
	tf := decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KT 9999 FEW250 FM0620 32015KT 6000 BKN015")

	if len(tf.Periods) != 2 {
		t.Fatalf("Periods = %d, want 2", len(tf.Periods))
	}
	fm := tf.Periods[1]
	if fm.Kind != report.PeriodFrom {
		t.Errorf("fm.Kind = %q, want FM", fm.Kind)
	}
	// FM0620 names a time of day before the span's opening hour, so the
	// day wraps forward.
	if fm.From != (report.ClockTime{Day: 7, Hour: 6, Minute: 20}) {
		t.Errorf("fm.From = %v, want 070620", fm.From)
	}
	if tf.Periods[0].To != (report.DayHour{Day: 7, Hour: 6}) {
		t.Errorf("initial.To = %v, want 0706", tf.Periods[0].To)
	}
	if len(tf.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", tf.Warnings)
	}
}

func TestDecodeTaf_ProbTempo(t *testing.T) {
	tf := decodeTaf(t, "TAF EGLL 061100Z 0612/0718 21010KT 9999 SCT030 PROB30 TEMPO 0615/0620 4000 RA BKN012")

	if len(tf.Periods) != 2 {
		t.Fatalf("Periods = %d, want 2", len(tf.Periods))
	}
	p := tf.Periods[1]
	if p.Kind != report.PeriodProb {
		t.Errorf("Kind = %q, want PROB", p.Kind)
	}
	if p.Probability == nil || *p.Probability != 30 {
		t.Errorf("Probability = %v, want 30", p.Probability)
	}
	if !p.Tempo {
		t.Error("Tempo = false, want true")
	}
	if p.From != (report.ClockTime{Day: 6, Hour: 15}) || p.To != (report.DayHour{Day: 6, Hour: 20}) {
		t.Errorf("window = %v..%v, want 0615..0620", p.From, p.To)
	}
	if p.Visibility == nil || p.Visibility.Value != 4000 {
		t.Errorf("Visibility = %+v, want 4000", p.Visibility)
	}
	if p.Wind == nil || p.Wind.Direction != 210 {
		t.Errorf("Wind = %+v, want inherited 210", p.Wind)
	}
	if len(tf.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", tf.Warnings)
	}
}

func TestDecodeTaf_FlaggedWindows(t *testing.T) {
	// Window past the end of the valid span.
	tf := decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KT 9999 FEW250 BECMG 0800/0802 6000")
	if len(tf.Periods) != 2 {
		t.Fatalf("Periods = %d, want 2", len(tf.Periods))
	}
	p := tf.Periods[1]
	if !p.Flagged {
		t.Error("Flagged = false, want true")
	}
	if p.Visibility == nil || p.Visibility.Value != 6000 {
		t.Errorf("Visibility = %+v, want 6000 despite the flag", p.Visibility)
	}
	if len(tf.Warnings) != 1 || tf.Warnings[0].Component != report.ComponentPeriod {
		t.Fatalf("Warnings = %+v, want one period warning", tf.Warnings)
	}

	// Change group with no window at all.
	tf = decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KT 9999 FEW250 TEMPO 4000")
	if len(tf.Periods) != 2 {
		t.Fatalf("Periods = %d, want 2", len(tf.Periods))
	}
	p = tf.Periods[1]
	if !p.Flagged {
		t.Error("Flagged = false, want true")
	}
	// Best effort: opens with the preceding period, runs to valid-to.
	if p.From != (report.ClockTime{Day: 6, Hour: 18}) || p.To != (report.DayHour{Day: 7, Hour: 24}) {
		t.Errorf("window = %v..%v, want 0618..0724", p.From, p.To)
	}
	if p.Visibility == nil || p.Visibility.Value != 4000 {
		t.Errorf("Visibility = %+v, want 4000", p.Visibility)
	}
	if len(tf.Warnings) != 1 {
		t.Errorf("Warnings = %+v, want one", tf.Warnings)
	}
}

func TestDecodeTaf_TemperatureExtremes(t *testing.T) {
	tf := decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KT P6SM FEW250 TX25/0620Z TN12/0710Z QNH2992INS")

	if len(tf.Periods) != 1 {
		t.Fatalf("Periods = %d, want 1", len(tf.Periods))
	}
	p := tf.Periods[0]
	if len(p.Temperatures) != 2 {
		t.Fatalf("Temperatures = %+v, want 2", p.Temperatures)
	}
	tx, tn := p.Temperatures[0], p.Temperatures[1]
	if tx.Kind != "TX" || tx.Celsius != 25 || tx.At != (report.DayHour{Day: 6, Hour: 20}) {
		t.Errorf("TX = %+v, want 25 at 0620", tx)
	}
	if tn.Kind != "TN" || tn.Celsius != 12 || tn.At != (report.DayHour{Day: 7, Hour: 10}) {
		t.Errorf("TN = %+v, want 12 at 0710", tn)
	}
	if p.QNH == nil || p.QNH.Value != 29.92 || p.QNH.Unit != report.UnitInHg {
		t.Errorf("QNH = %+v, want 29.92 inHg", p.QNH)
	}
	if p.Visibility == nil || !p.Visibility.GreaterThan || p.Visibility.Value != 6 {
		t.Errorf("Visibility = %+v, want P6SM", p.Visibility)
	}
}

func TestDecodeTaf_Nil(t *testing.T) {
	tf := decodeTaf(t, "TAF KJFK 251720Z NIL")

	if !tf.Nil {
		t.Error("Nil = false, want true")
	}
	if len(tf.Periods) != 0 {
		t.Errorf("Periods = %+v, want none", tf.Periods)
	}
	if len(tf.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", tf.Warnings)
	}
}

func TestDecodeTaf_Amended(t *testing.T) {
	tf := decodeTaf(t, "TAF AMD EHAM 061430Z 0615/0718 24012KT 9999 BKN020")
	if !tf.Amended {
		t.Error("Amended = false, want true")
	}
}

func TestDecodeTaf_MissingMandatory(t *testing.T) {
	tests := []struct {
		raw   string
		group string
	}{
		{"TAF 061730Z 0618/0724 28008KT", "station"},
		{"TAF KJFK", "time"},
	}

	for _, tt := range tests {
		_, err := DecodeTaf(tt.raw)
		var missing report.MissingMandatoryGroupError
		if !errors.As(err, &missing) {
			t.Errorf("DecodeTaf(%q) error = %v, want MissingMandatoryGroupError", tt.raw, err)
			continue
		}
		if missing.Group != tt.group {
			t.Errorf("DecodeTaf(%q) missing group = %q, want %q", tt.raw, missing.Group, tt.group)
		}
	}
}

func TestDecodeTaf_GluedMarkers(t *testing.T) {
	tf := decodeTaf(t, "TAF KJFK 061730Z 0618/0724 28008KTFM062000 32015KT 6000 BKN015")

	if len(tf.Periods) != 2 {
		t.Fatalf("Periods = %d, want 2", len(tf.Periods))
	}
	if tf.Periods[0].Wind == nil || tf.Periods[0].Wind.Direction != 280 {
		t.Errorf("initial wind = %+v, want 280", tf.Periods[0].Wind)
	}
	if tf.Periods[1].Kind != report.PeriodFrom || tf.Periods[1].From != (report.ClockTime{Day: 6, Hour: 20}) {
		t.Errorf("fm = %q %v, want FM at 062000", tf.Periods[1].Kind, tf.Periods[1].From)
	}
}

func TestDecodeTaf_Remarks(t *testing.T) {
	tf := decodeTaf(t, "TAF CYYZ 061140Z 0612/0712 30010KT P6SM SCT040 RMK NXT FCST BY 061800Z")

	if tf.RemarksRaw != "NXT FCST BY 061800Z" {
		t.Errorf("RemarksRaw = %q", tf.RemarksRaw)
	}
	if len(tf.Remarks) != 1 || tf.Remarks[0].Kind != report.RemarkNextForecast {
		t.Errorf("Remarks = %+v, want next-forecast entry", tf.Remarks)
	}
}

func classifyBody(t *testing.T, text string) []grammar.ClassifiedToken {
	t.Helper()
	tokens, err := tokenizer.Tokenize(text)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", text, err)
	}
	return grammar.ClassifyAll(tokens)
}

func TestPeriodFSM_States(t *testing.T) {
	taf := &report.Taf{Valid: report.Period{
		From: report.DayHour{Day: 6, Hour: 18},
		To:   report.DayHour{Day: 7, Hour: 24},
	}}
	fsm := periodFSM{taf: taf, open: -1, ordered: true}

	if fsm.state != stateInitial {
		t.Fatalf("state = %v, want stateInitial", fsm.state)
	}

	body := classifyBody(t, "28008KT FM062000 32015KT")

	fsm.feed(body, 0)
	if fsm.state != stateInitial {
		t.Errorf("state after initial token = %v, want stateInitial", fsm.state)
	}
	if fsm.cur == nil || fsm.cur.period.Kind != report.PeriodInitial {
		t.Fatalf("cur = %+v, want INITIAL builder", fsm.cur)
	}

	fsm.feed(body, 1)
	if fsm.state != stateInPeriod {
		t.Errorf("state after FM marker = %v, want stateInPeriod", fsm.state)
	}
	if fsm.cur == nil || fsm.cur.period.Kind != report.PeriodFrom {
		t.Fatalf("cur = %+v, want FM builder", fsm.cur)
	}

	fsm.feed(body, 2)
	fsm.finish()
	if fsm.state != stateDone {
		t.Errorf("state after finish = %v, want stateDone", fsm.state)
	}
	if len(taf.Periods) != 2 {
		t.Fatalf("Periods = %d, want 2", len(taf.Periods))
	}
	if taf.Periods[0].To != (report.DayHour{Day: 6, Hour: 20}) {
		t.Errorf("initial.To = %v, want truncated at 0620", taf.Periods[0].To)
	}
	if taf.Periods[1].To != (report.DayHour{Day: 7, Hour: 24}) {
		t.Errorf("fm.To = %v, want valid-to", taf.Periods[1].To)
	}
}

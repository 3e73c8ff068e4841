package decoder

import (
	"errors"
	"reflect"
	"testing"

	"wx_decoder/internal/report"
)

func decodeMetar(t *testing.T, raw string) *report.Metar {
	t.Helper()
	m, err := DecodeMetar(raw)
	if err != nil {
		t.Fatalf("DecodeMetar(%q) error = %v", raw, err)
	}
	return m
}

func TestDecodeMetar_Basic(t *testing.T) {
	m := decodeMetar(t, "METAR KJFK 061751Z 28008KT 10SM FEW250 22/18 A2992")

	if m.Type != report.TypeMetar {
		t.Errorf("Type = %q, want METAR", m.Type)
	}
	if m.Station != "KJFK" {
		t.Errorf("Station = %q, want KJFK", m.Station)
	}
	if m.Time != (report.ClockTime{Day: 6, Hour: 17, Minute: 51}) {
		t.Errorf("Time = %v, want 061751Z", m.Time)
	}
	if m.Wind == nil || m.Wind.Direction != 280 || m.Wind.Speed != 8 {
		t.Errorf("Wind = %+v, want 280 at 8", m.Wind)
	}
	if m.Wind != nil && m.Wind.Gust != nil {
		t.Errorf("Wind.Gust = %d, want nil", *m.Wind.Gust)
	}
	if m.Visibility == nil || m.Visibility.Value != 10 || m.Visibility.Unit != report.UnitStatuteMiles {
		t.Errorf("Visibility = %+v, want 10 SM", m.Visibility)
	}
	if len(m.Sky) != 1 {
		t.Fatalf("Sky layers = %d, want 1", len(m.Sky))
	}
	if m.Sky[0].Coverage != report.CoverageFew || m.Sky[0].Height == nil || *m.Sky[0].Height != 25000 {
		t.Errorf("Sky[0] = %+v, want FEW at 25000", m.Sky[0])
	}
	if m.Temperature == nil || m.Temperature.Celsius != 22 {
		t.Errorf("Temperature = %+v, want 22", m.Temperature)
	}
	if m.Temperature == nil || m.Temperature.Dewpoint == nil || *m.Temperature.Dewpoint != 18 {
		t.Errorf("Dewpoint = %+v, want 18", m.Temperature)
	}
	if m.Altimeter == nil || m.Altimeter.Value != 29.92 || m.Altimeter.Unit != report.UnitInHg {
		t.Errorf("Altimeter = %+v, want 29.92 inHg", m.Altimeter)
	}
	if m.RemarksRaw != "" || len(m.Remarks) != 0 {
		t.Errorf("Remarks = %q %v, want none", m.RemarksRaw, m.Remarks)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", m.Warnings)
	}
}

func TestDecodeMetar_GustAndRemarks(t *testing.T) {
	m := decodeMetar(t, "METAR KJFK 061751Z 28008G15KT 10SM FEW250 22/18 A2992 RMK AO2")

	if m.Wind == nil || m.Wind.Gust == nil {
		t.Fatalf("Wind = %+v, want gust", m.Wind)
	}
	if *m.Wind.Gust != 15 || *m.Wind.Gust < m.Wind.Speed {
		t.Errorf("Gust = %d (sustained %d), want 15 above sustained", *m.Wind.Gust, m.Wind.Speed)
	}
	if m.RemarksRaw != "AO2" {
		t.Errorf("RemarksRaw = %q, want AO2", m.RemarksRaw)
	}
	if len(m.Remarks) != 1 || m.Remarks[0].Kind != report.RemarkStationType {
		t.Fatalf("Remarks = %+v, want one station type entry", m.Remarks)
	}
}

func TestDecodeMetar_MalformedWind(t *testing.T) {
	m := decodeMetar(t, "METAR KJFK 061751Z 28XXKT 10SM FEW250 22/18 A2992")

	if m.Wind != nil {
		t.Errorf("Wind = %+v, want nil", m.Wind)
	}
	if len(m.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", m.Warnings)
	}
	w := m.Warnings[0]
	if w.Component != report.ComponentWind {
		t.Errorf("Warning component = %q, want wind", w.Component)
	}
	if w.Token != "28XXKT" {
		t.Errorf("Warning token = %q, want 28XXKT", w.Token)
	}
	// The rest of the report still decodes.
	if m.Visibility == nil || m.Altimeter == nil {
		t.Errorf("Visibility/Altimeter missing: %+v %+v", m.Visibility, m.Altimeter)
	}
}

func TestDecodeMetar_Empty(t *testing.T) {
	for _, raw := range []string{"", "   \t  "} {
		_, err := DecodeMetar(raw)
		var empty report.EmptyReportError
		if !errors.As(err, &empty) {
			t.Errorf("DecodeMetar(%q) error = %v, want EmptyReportError", raw, err)
		}
	}
}

func TestDecodeMetar_MissingMandatory(t *testing.T) {
	tests := []struct {
		raw   string
		group string
	}{
		{"TRASH1 INPUT2 MORE33", "station"},
		{"METAR KJFK", "time"},
		{"METAR KJFK 28008KT 10SM", "time"},
	}

	for _, tt := range tests {
		_, err := DecodeMetar(tt.raw)
		var missing report.MissingMandatoryGroupError
		if !errors.As(err, &missing) {
			t.Errorf("DecodeMetar(%q) error = %v, want MissingMandatoryGroupError", tt.raw, err)
			continue
		}
		if missing.Group != tt.group {
			t.Errorf("DecodeMetar(%q) missing group = %q, want %q", tt.raw, missing.Group, tt.group)
		}
	}
}

func TestDecodeMetar_WindVariation(t *testing.T) {
	m := decodeMetar(t, "METAR EDDF 061750Z 24015KT 210V280 9999 SCT040 17/09 Q1018")

	if m.Wind == nil || m.Wind.VariableFrom == nil || m.Wind.VariableTo == nil {
		t.Fatalf("Wind = %+v, want variation bounds", m.Wind)
	}
	if *m.Wind.VariableFrom != 210 || *m.Wind.VariableTo != 280 {
		t.Errorf("Variation = %d-%d, want 210-280", *m.Wind.VariableFrom, *m.Wind.VariableTo)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", m.Warnings)
	}
}

func TestDecodeMetar_VisibilityMinimum(t *testing.T) {
	m := decodeMetar(t, "METAR LSZH 061720Z 27005KT 1400 0800NE BR OVC002 09/09 Q1024")

	if m.Visibility == nil || m.Visibility.Value != 1400 {
		t.Fatalf("Visibility = %+v, want 1400", m.Visibility)
	}
	min := m.Visibility.Minimum
	if min == nil || min.Value != 800 || min.Direction != "NE" {
		t.Errorf("Minimum = %+v, want 800 NE", min)
	}
}

func TestDecodeMetar_RunwayGroups(t *testing.T) {
	m := decodeMetar(t, "METAR EFHK 061750Z 29008KT 2000 BR R04R/1200N R22/490156 OVC003 M02/M03 Q1008")

	if len(m.RunwayVisualRanges) != 1 {
		t.Fatalf("RVR groups = %d, want 1", len(m.RunwayVisualRanges))
	}
	r := m.RunwayVisualRanges[0]
	if r.Runway != "04R" || r.Value != 1200 || r.Unit != report.UnitMeters {
		t.Errorf("RVR = %+v, want 04R 1200 m", r)
	}
	if r.Trend != report.RVRNoChange {
		t.Errorf("RVR trend = %q, want %q", r.Trend, report.RVRNoChange)
	}

	if len(m.RunwayStates) != 1 {
		t.Fatalf("Runway states = %d, want 1", len(m.RunwayStates))
	}
	rs := m.RunwayStates[0]
	if rs.Runway != "22" || rs.Deposit != "dry snow" {
		t.Errorf("RunwayState = %+v, want 22 dry snow", rs)
	}

	if m.Temperature == nil || m.Temperature.Celsius != -2 {
		t.Errorf("Temperature = %+v, want -2", m.Temperature)
	}
	if m.Temperature == nil || m.Temperature.Dewpoint == nil || *m.Temperature.Dewpoint != -3 {
		t.Errorf("Dewpoint = %+v, want -3", m.Temperature)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", m.Warnings)
	}
}

func TestDecodeMetar_Trends(t *testing.T) {
	m := decodeMetar(t, "METAR LFPG 061730Z 21010KT CAVOK 17/12 Q1013 BECMG TL1700 0800 FG NOSIG")

	if m.Visibility == nil || !m.Visibility.CAVOK {
		t.Fatalf("Visibility = %+v, want CAVOK", m.Visibility)
	}
	if len(m.Trends) != 2 {
		t.Fatalf("Trends = %d, want 2", len(m.Trends))
	}
	becmg := m.Trends[0]
	if becmg.Kind != report.TrendBecoming {
		t.Errorf("Trends[0].Kind = %q, want BECMG", becmg.Kind)
	}
	if becmg.Until == nil || becmg.Until.Hour != 17 || becmg.Until.Minute != 0 {
		t.Errorf("Trends[0].Until = %+v, want 17:00", becmg.Until)
	}
	if becmg.Visibility == nil || becmg.Visibility.Value != 800 {
		t.Errorf("Trends[0].Visibility = %+v, want 800", becmg.Visibility)
	}
	if len(becmg.Weather) != 1 || becmg.Weather[0].Raw != "FG" {
		t.Errorf("Trends[0].Weather = %+v, want FG", becmg.Weather)
	}
	if m.Trends[1].Kind != report.TrendNoSignificant {
		t.Errorf("Trends[1].Kind = %q, want NOSIG", m.Trends[1].Kind)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", m.Warnings)
	}
}

func TestDecodeMetar_ColorCode(t *testing.T) {
	m := decodeMetar(t, "METAR EGXC 061750Z 27010KT 9999 FEW035 12/08 Q1021 BLU NOSIG")

	if len(m.ColorCodes) != 1 {
		t.Fatalf("ColorCodes = %+v, want 1", m.ColorCodes)
	}
	if m.ColorCodes[0].Code != "BLU" || m.ColorCodes[0].Description != "Blue" {
		t.Errorf("ColorCodes[0] = %+v, want BLU/Blue", m.ColorCodes[0])
	}
	if len(m.Trends) != 1 || m.Trends[0].Kind != report.TrendNoSignificant {
		t.Errorf("Trends = %+v, want NOSIG", m.Trends)
	}
}

func TestDecodeMetar_WindShear(t *testing.T) {
	m := decodeMetar(t, "METAR KMIA 061753Z 09012KT 10SM SCT025 28/23 A3001 WS ALL RWY")

	if len(m.WindShear) != 1 {
		t.Fatalf("WindShear = %+v, want 1", m.WindShear)
	}
	if m.WindShear[0].Scope != report.ShearAllRunways {
		t.Errorf("WindShear scope = %q, want all runways", m.WindShear[0].Scope)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", m.Warnings)
	}
}

func TestDecodeMetar_Modifiers(t *testing.T) {
	m := decodeMetar(t, "METAR KLGA 061751Z AUTO 30011KT 10SM CLR 21/12 A3005 RMK AO2 SLP178 $")
	if !m.Auto {
		t.Error("Auto = false, want true")
	}
	if !m.Maintenance {
		t.Error("Maintenance = false, want true")
	}

	m = decodeMetar(t, "METAR COR LFPO 061800Z 19004KT CAVOK 18/11 Q1015")
	if !m.Corrected {
		t.Error("Corrected = false, want true")
	}

	m = decodeMetar(t, "METAR EHAM 061755Z NIL")
	if !m.Nil {
		t.Error("Nil = false, want true")
	}
	if m.Wind != nil || m.Visibility != nil {
		t.Errorf("NIL report decoded groups: %+v %+v", m.Wind, m.Visibility)
	}
}

func TestDecodeMetar_SpeciType(t *testing.T) {
	m := decodeMetar(t, "SPECI KORD 061804Z 09015G24KT 2SM +TSRA BKN008 OVC020CB 24/22 A2990")
	if m.Type != report.TypeSpeci {
		t.Errorf("Type = %q, want SPECI", m.Type)
	}
	if m.Kind() != report.TypeSpeci {
		t.Errorf("Kind() = %q, want SPECI", m.Kind())
	}
	if len(m.Weather) != 1 || m.Weather[0].Intensity != report.IntensityHeavy {
		t.Errorf("Weather = %+v, want heavy TSRA", m.Weather)
	}
	if len(m.Sky) != 2 || m.Sky[1].Convective != "CB" {
		t.Errorf("Sky = %+v, want OVC020CB second", m.Sky)
	}
}

func TestDecodeMetar_UnrecognizedToken(t *testing.T) {
	m := decodeMetar(t, "METAR KJFK 061751Z 28008KT 10SM QWERTY12 FEW250 22/18 A2992")

	if len(m.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", m.Warnings)
	}
	if m.Warnings[0].Component != report.ComponentToken || m.Warnings[0].Token != "QWERTY12" {
		t.Errorf("Warning = %+v, want unrecognized QWERTY12", m.Warnings[0])
	}
}

func TestDecodeMetar_Idempotent(t *testing.T) {
	raw := "METAR KJFK 061751Z 28008G15KT 10SM -RA FEW250 22/18 A2992 RMK AO2 SLP132 T02220183"
	a := decodeMetar(t, raw)
	b := decodeMetar(t, raw)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated decodes differ:\n%+v\n%+v", a, b)
	}
}

func TestDecode_Autodetect(t *testing.T) {
	r, err := Decode("METAR KJFK 061751Z 28008KT 10SM FEW250 22/18 A2992")
	if err != nil {
		t.Fatalf("Decode metar error = %v", err)
	}
	if _, ok := r.(*report.Metar); !ok {
		t.Errorf("Decode metar = %T, want *report.Metar", r)
	}

	r, err = Decode("TAF KJFK 061730Z 0618/0724 28008KT 9999 FEW250")
	if err != nil {
		t.Fatalf("Decode taf error = %v", err)
	}
	if _, ok := r.(*report.Taf); !ok {
		t.Errorf("Decode taf = %T, want *report.Taf", r)
	}

	// Headerless TAF: the valid period betrays the kind.
	r, err = Decode("KJFK 061730Z 0618/0724 28008KT")
	if err != nil {
		t.Fatalf("Decode headerless taf error = %v", err)
	}
	if _, ok := r.(*report.Taf); !ok {
		t.Errorf("Decode headerless taf = %T, want *report.Taf", r)
	}

	_, err = Decode("")
	var empty report.EmptyReportError
	if !errors.As(err, &empty) {
		t.Errorf("Decode(\"\") error = %v, want EmptyReportError", err)
	}
}

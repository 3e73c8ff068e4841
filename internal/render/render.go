// Package render formats decoded reports as compact human-readable text
// for the CLI. Machine output is encoding/json over the report models;
// nothing here feeds back into decoding.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"wx_decoder/internal/parsers/sky"
	"wx_decoder/internal/parsers/wx"
	"wx_decoder/internal/report"
)

// Text renders either report variant.
func Text(r report.Report) string {
	switch v := r.(type) {
	case *report.Metar:
		return Metar(v)
	case *report.Taf:
		return Taf(v)
	}
	return ""
}

// Metar renders a decoded observation, one labeled line per group in
// canonical body order.
func Metar(m *report.Metar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s observed %s\n", m.Type, m.Station, m.Time)

	if flags := metarFlags(m); flags != "" {
		line(&b, "flags", flags)
	}
	if m.Nil {
		return b.String()
	}

	if m.Wind != nil {
		line(&b, "wind", windPhrase(m.Wind))
	}
	if m.Visibility != nil {
		line(&b, "visibility", visibilityPhrase(m.Visibility))
	}
	for _, r := range m.RunwayVisualRanges {
		line(&b, "rvr", rvrPhrase(r))
	}
	for _, s := range m.RunwayStates {
		line(&b, "runway state", runwayStatePhrase(s))
	}
	for _, w := range m.Weather {
		line(&b, "weather", weatherPhrase(w))
	}
	for _, l := range m.Sky {
		line(&b, "sky", skyPhrase(l))
	}
	if m.Temperature != nil {
		line(&b, "temperature", temperaturePhrase(m.Temperature))
	}
	if m.Altimeter != nil {
		line(&b, "altimeter", altimeterPhrase(m.Altimeter))
	}
	for _, ws := range m.WindShear {
		line(&b, "wind shear", shearPhrase(ws))
	}
	for _, t := range m.Trends {
		line(&b, "trend", trendPhrase(t))
	}
	for _, c := range m.ColorCodes {
		line(&b, "color state", fmt.Sprintf("%s (%s)", c.Description, c.Code))
	}

	remarkLines(&b, m.Remarks)
	warningLines(&b, m.Warnings)
	return b.String()
}

// Taf renders a decoded forecast: header, then one line per period.
func Taf(t *report.Taf) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TAF %s issued %s", t.Station, t.IssueTime)
	if t.Valid != (report.Period{}) {
		fmt.Fprintf(&b, ", valid %s", t.Valid)
	}
	b.WriteString("\n")

	if flags := tafFlags(t); flags != "" {
		line(&b, "flags", flags)
	}
	if t.Nil {
		return b.String()
	}

	for _, p := range t.Periods {
		line(&b, periodHead(p), periodPhrase(p))
	}

	remarkLines(&b, t.Remarks)
	warningLines(&b, t.Warnings)
	return b.String()
}

func line(b *strings.Builder, label, text string) {
	fmt.Fprintf(b, "  %-22s %s\n", label, text)
}

func metarFlags(m *report.Metar) string {
	var flags []string
	if m.Auto {
		flags = append(flags, "automated")
	}
	if m.Corrected {
		flags = append(flags, "corrected")
	}
	if m.Nil {
		flags = append(flags, "nil report")
	}
	if m.Maintenance {
		flags = append(flags, "station requires maintenance")
	}
	return strings.Join(flags, ", ")
}

func tafFlags(t *report.Taf) string {
	var flags []string
	if t.Amended {
		flags = append(flags, "amended")
	}
	if t.Corrected {
		flags = append(flags, "corrected")
	}
	if t.Nil {
		flags = append(flags, "nil forecast")
	}
	return strings.Join(flags, ", ")
}

func remarkLines(b *strings.Builder, entries []report.RemarkEntry) {
	for _, e := range entries {
		if e.Description == "" {
			line(b, "remark", e.Raw)
			continue
		}
		line(b, "remark", fmt.Sprintf("%s: %s", e.Raw, e.Description))
	}
}

func warningLines(b *strings.Builder, warnings []report.Warning) {
	for _, w := range warnings {
		line(b, "warning", w.String())
	}
}

func windPhrase(w *report.Wind) string {
	var b strings.Builder
	if w.Variable {
		b.WriteString("variable")
	} else {
		fmt.Fprintf(&b, "%d°", w.Direction)
	}
	fmt.Fprintf(&b, " at %d %s", w.Speed, w.Unit)
	if w.Above {
		b.WriteString(" or more")
	}
	if w.Gust != nil {
		fmt.Fprintf(&b, ", gusting %d %s", *w.Gust, w.Unit)
	}
	if w.VariableFrom != nil && w.VariableTo != nil {
		fmt.Fprintf(&b, ", varying %d° to %d°", *w.VariableFrom, *w.VariableTo)
	}
	return b.String()
}

func visibilityPhrase(v *report.Visibility) string {
	var b strings.Builder
	switch {
	case v.Unit == report.UnitMeters && v.GreaterThan && v.Value >= 10000:
		b.WriteString("10 km or more")
	default:
		if v.LessThan {
			b.WriteString("less than ")
		}
		if v.GreaterThan {
			b.WriteString("more than ")
		}
		fmt.Fprintf(&b, "%s %s", trimFloat(v.Value), unitName(v.Unit))
	}
	if v.CAVOK {
		b.WriteString(" (CAVOK)")
	}
	if v.NDV {
		b.WriteString(", no directional variation")
	}
	if v.Direction != "" {
		fmt.Fprintf(&b, " to the %s", v.Direction)
	}
	if v.Minimum != nil {
		fmt.Fprintf(&b, ", minimum %d m to the %s", v.Minimum.Value, v.Minimum.Direction)
	}
	return b.String()
}

func rvrPhrase(r report.RunwayVisualRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "runway %s: ", r.Runway)
	writeBound(&b, r.Value, r.GreaterThan, r.LessThan)
	if r.High != nil {
		b.WriteString(" varying to ")
		writeBound(&b, *r.High, r.HighGreaterThan, r.HighLessThan)
	}
	fmt.Fprintf(&b, " %s", unitName(r.Unit))
	if r.Trend != "" {
		fmt.Fprintf(&b, ", %s", r.Trend)
	}
	return b.String()
}

func writeBound(b *strings.Builder, value int, greater, less bool) {
	if less {
		b.WriteString("less than ")
	}
	if greater {
		b.WriteString("more than ")
	}
	fmt.Fprintf(b, "%d", value)
}

func runwayStatePhrase(s report.RunwayState) string {
	return fmt.Sprintf("runway %s: %s, %s coverage, depth %s, braking %s",
		s.Runway, s.Deposit, s.Extent, s.Depth, s.Braking)
}

func weatherPhrase(w report.WeatherPhenomenon) string {
	if w.Raw == "NSW" {
		return "no significant weather"
	}
	var parts []string
	if name, ok := wx.Intensities[w.Intensity]; ok {
		parts = append(parts, name)
	}
	for _, d := range w.Descriptors {
		parts = append(parts, codeName(d, wx.Descriptors))
	}
	for _, p := range w.Phenomena {
		parts = append(parts, codeName(p, wx.Phenomena))
	}
	return strings.Join(parts, " ")
}

func codeName(code string, names map[string]string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return strings.ToLower(code)
}

func skyPhrase(l report.SkyLayer) string {
	if l.Coverage == report.CoverageVerticalVisibility {
		if l.Height == nil {
			return "vertical visibility unknown"
		}
		return fmt.Sprintf("vertical visibility %d ft", *l.Height)
	}

	name := sky.Coverages[l.Coverage]
	if name == "" {
		name = "unknown coverage"
	}
	var b strings.Builder
	b.WriteString(name)
	switch {
	case l.Height != nil:
		fmt.Fprintf(&b, " at %d ft", *l.Height)
	case l.UnknownHeight:
		b.WriteString(", height unknown")
	}
	switch l.Convective {
	case "CB":
		b.WriteString(" (cumulonimbus)")
	case "TCU":
		b.WriteString(" (towering cumulus)")
	}
	return b.String()
}

func temperaturePhrase(t *report.Temperature) string {
	if t.Dewpoint == nil {
		return fmt.Sprintf("%d°C", t.Celsius)
	}
	return fmt.Sprintf("%d°C, dewpoint %d°C", t.Celsius, *t.Dewpoint)
}

func altimeterPhrase(a *report.Altimeter) string {
	if a.Unit == report.UnitInHg {
		return fmt.Sprintf("%.2f %s", a.Value, a.Unit)
	}
	return fmt.Sprintf("%.0f %s", a.Value, a.Unit)
}

func shearPhrase(ws report.WindShear) string {
	switch ws.Scope {
	case report.ShearAllRunways:
		return "all runways"
	case report.ShearTakeoff:
		return "takeoff runway " + ws.Runway
	case report.ShearLanding:
		return "landing runway " + ws.Runway
	}
	return "runway " + ws.Runway
}

func trendPhrase(t report.Trend) string {
	if t.Kind == report.TrendNoSignificant {
		return "no significant change"
	}

	var b strings.Builder
	if t.Kind == report.TrendBecoming {
		b.WriteString("becoming")
	} else {
		b.WriteString("temporarily")
	}
	if t.From != nil {
		fmt.Fprintf(&b, " from %s", t.From)
	}
	if t.Until != nil {
		fmt.Fprintf(&b, " until %s", t.Until)
	}
	if t.At != nil {
		fmt.Fprintf(&b, " at %s", t.At)
	}

	if parts := trendConditions(t); len(parts) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

func trendConditions(t report.Trend) []string {
	var parts []string
	if t.Wind != nil {
		parts = append(parts, "wind "+windPhrase(t.Wind))
	}
	switch {
	case t.CAVOK:
		parts = append(parts, "CAVOK")
	case t.Visibility != nil:
		parts = append(parts, "visibility "+visibilityPhrase(t.Visibility))
	}
	for _, w := range t.Weather {
		parts = append(parts, weatherPhrase(w))
	}
	for _, l := range t.Sky {
		parts = append(parts, skyPhrase(l))
	}
	return parts
}

// periodHead names a forecast period's window in wire form so the line
// reads like the group it came from.
func periodHead(p report.ForecastPeriod) string {
	from := report.DayHour{Day: p.From.Day, Hour: p.From.Hour}
	window := fmt.Sprintf("%s/%s", from, p.To)

	var head string
	switch p.Kind {
	case report.PeriodInitial:
		head = window
	case report.PeriodFrom:
		head = "FM " + p.From.String()
	case report.PeriodProb:
		head = "PROB"
		if p.Probability != nil {
			head += strconv.Itoa(*p.Probability)
		}
		if p.Tempo {
			head += " TEMPO"
		}
		head += " " + window
	default:
		head = p.Kind + " " + window
	}
	if p.Flagged {
		head += " (?)"
	}
	return head
}

func periodPhrase(p report.ForecastPeriod) string {
	var parts []string
	if p.Wind != nil {
		parts = append(parts, "wind "+windPhrase(p.Wind))
	}
	switch {
	case p.CAVOK:
		parts = append(parts, "CAVOK")
	case p.Visibility != nil:
		parts = append(parts, "visibility "+visibilityPhrase(p.Visibility))
	}
	for _, w := range p.Weather {
		parts = append(parts, weatherPhrase(w))
	}
	for _, l := range p.Sky {
		parts = append(parts, skyPhrase(l))
	}
	if p.QNH != nil {
		parts = append(parts, "QNH "+altimeterPhrase(p.QNH))
	}
	for _, ex := range p.Temperatures {
		parts = append(parts, extremePhrase(ex))
	}
	if len(parts) == 0 {
		return "no conditions stated"
	}
	return strings.Join(parts, ", ")
}

func extremePhrase(ex report.TemperatureExtreme) string {
	kind := "maximum"
	if ex.Kind == "TN" {
		kind = "minimum"
	}
	return fmt.Sprintf("%s %d°C at %s", kind, ex.Celsius, ex.At)
}

func unitName(unit string) string {
	switch unit {
	case report.UnitMeters:
		return "m"
	case report.UnitFeet:
		return "ft"
	case report.UnitKilometers:
		return "km"
	}
	return unit
}

// trimFloat renders a visibility value without trailing zeros (10, 1.5,
// 0.25).
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package remarks decodes the RMK section into ordered entries. Remarks
// carry supplementary observations (sea-level pressure, precise
// temperatures, peak wind, sensor outages) that never gate the report:
// anything the grammar does not recognize degrades to free text.
package remarks

import (
	"fmt"
	"strconv"
	"strings"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/parsers/wx"
	"wx_decoder/internal/report"
)

// Presentation tables for remark groups. Weather descriptor and phenomenon
// names are shared with the present-weather parser.
var (
	tendencyCharacteristics = map[string]string{
		"0": "Increasing, then decreasing",
		"1": "Increasing, then steady; or increasing then increasing more slowly",
		"2": "Increasing steadily or unsteadily",
		"3": "Decreasing or steady, then increasing; or increasing then increasing more rapidly",
		"4": "Steady",
		"5": "Decreasing, then increasing",
		"6": "Decreasing, then steady; or decreasing then decreasing more slowly",
		"7": "Decreasing steadily or unsteadily",
		"8": "Steady or increasing, then decreasing; or decreasing then decreasing more rapidly",
	}

	lightningFrequencies = map[string]string{
		"FRQ":  "frequent (more than 6 per minute)",
		"OCNL": "occasional (1-6 per minute)",
		"CONS": "continuous",
	}

	lightningTypes = map[string]string{
		"IC": "in-cloud",
		"CC": "cloud-to-cloud",
		"CG": "cloud-to-ground",
		"CA": "cloud-to-air",
	}

	locationIndicators = map[string]string{
		"DSNT":  "distant (10-30 NM)",
		"VC":    "in vicinity (5-10 NM)",
		"OHD":   "overhead",
		"ALQDS": "all quadrants",
	}

	directionNames = map[string]string{
		"N":  "north",
		"NE": "northeast",
		"E":  "east",
		"SE": "southeast",
		"S":  "south",
		"SW": "southwest",
		"W":  "west",
		"NW": "northwest",
	}

	cloudTypeNames = map[string]string{
		"SC":  "Stratocumulus",
		"ST":  "Stratus",
		"CU":  "Cumulus",
		"CB":  "Cumulonimbus",
		"CI":  "Cirrus",
		"CS":  "Cirrostratus",
		"CC":  "Cirrocumulus",
		"AC":  "Altocumulus",
		"AS":  "Altostratus",
		"NS":  "Nimbostratus",
		"SN":  "Nimbostratus", // Canadian alternate for NS
		"TCU": "Towering Cumulus",
		"CF":  "Cumulus Fractus",
		"SF":  "Stratus Fractus",
	}

	// 8-group runway state tables. The body-group MOTNE tables live in
	// the runway parser; remarks use the capitalized register.
	stateDeposits = map[string]string{
		"0": "Clear and dry",
		"1": "Damp",
		"2": "Wet or water patches",
		"3": "Rime or frost (normally less than 1mm deep)",
		"4": "Dry snow",
		"5": "Wet snow",
		"6": "Slush",
		"7": "Ice",
		"8": "Compacted or rolled snow",
		"9": "Frozen ruts or ridges",
	}

	stateExtents = map[string]string{
		"1": "10% or less",
		"2": "11% to 25%",
		"5": "26% to 50%",
		"9": "51% to 100%",
	}

	stateBraking = map[string]string{
		"91": "Poor",
		"92": "Medium/Poor",
		"93": "Medium",
		"94": "Medium/Good",
		"95": "Good",
		"99": "Unreliable",
	}

	sensorDescriptions = map[string]string{
		"PWINO":  "Present Weather Identifier not operational",
		"TSNO":   "Thunderstorm sensor not operational",
		"FZRANO": "Freezing rain sensor not operational",
		"PNO":    "Precipitation sensor not operational",
		"VISNO":  "Visibility sensor not operational",
		"CHINO":  "Ceiling height indicator not operational",
	}
)

// Parse decodes a RMK tail into entries ordered by position. Stretches the
// grammar does not claim come back as RemarkText entries with the raw text
// preserved; remarks never fail.
func Parse(tail string) []report.RemarkEntry {
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return nil
	}

	var entries []report.RemarkEntry
	pos := 0
	for _, m := range grammar.ClassifyRemark(tail) {
		if m.Start > pos {
			entries = appendFreeText(entries, tail[pos:m.Start])
		}
		entries = append(entries, decode(m))
		pos = m.End
	}
	if pos < len(tail) {
		entries = appendFreeText(entries, tail[pos:])
	}
	return entries
}

func appendFreeText(entries []report.RemarkEntry, gap string) []report.RemarkEntry {
	gap = strings.TrimSpace(gap)
	if gap == "" {
		return entries
	}
	return append(entries, report.RemarkEntry{Kind: report.RemarkText, Raw: gap})
}

// decode builds the entry for one recognized remark. It dispatches on the
// rule name rather than the kind: several kinds cover more than one shape
// (cloud types, thunderstorm location, runway winds).
func decode(m grammar.RemarkMatch) report.RemarkEntry {
	e := report.RemarkEntry{Kind: m.Kind, Raw: m.Raw}

	switch m.Rule {
	case "station_type":
		if m.Capture("disc", "") == "2" {
			e.Description = "Automated station with precipitation discriminator"
		} else {
			e.Description = "Automated station without precipitation discriminator"
		}

	case "slp_missing":
		e.Description = "Sea level pressure not available"

	case "sea_level_pressure":
		v, _ := strconv.Atoi(m.Capture("value", ""))
		p := 900 + float64(v)/10
		if v < 500 {
			p = 1000 + float64(v)/10
		}
		e.Description = fmt.Sprintf("%.1f hPa", p)
		e.PressureHPa = &p

	case "pressure_tendency":
		char := m.Capture("char", "")
		change, _ := strconv.Atoi(m.Capture("change", ""))
		desc, ok := tendencyCharacteristics[char]
		if !ok {
			desc = fmt.Sprintf("Unknown (%s)", char)
		}
		e.Description = fmt.Sprintf("%s; change: %.1f hPa", desc, float64(change)/10)

	case "qfe":
		v, _ := strconv.Atoi(m.Capture("value", ""))
		p := float64(v)
		e.Description = fmt.Sprintf("%d hPa", v)
		e.PressureHPa = &p

	case "altimeter_remark":
		v, _ := strconv.Atoi(m.Capture("value", ""))
		e.Description = fmt.Sprintf("%.2f inHg", float64(v)/100)

	case "pressure_change":
		if m.Capture("sense", "") == "FR" {
			e.Description = "Pressure falling rapidly"
		} else {
			e.Description = "Pressure rising rapidly"
		}

	case "precise_temperature":
		t := signedTenths(m.Capture("tsign", "0"), m.Capture("temp", ""))
		e.TemperatureC = &t
		e.Description = fmt.Sprintf("%.1f°C", t)
		if dew := m.Capture("dew", ""); dew != "" {
			d := signedTenths(m.Capture("dsign", "0"), dew)
			e.DewpointC = &d
			e.Description = fmt.Sprintf("%.1f°C, dewpoint %.1f°C", t, d)
		}

	case "temp_extremes_24h":
		max := signedTenths(m.Capture("maxsign", "0"), m.Capture("max", ""))
		min := signedTenths(m.Capture("minsign", "0"), m.Capture("min", ""))
		e.Description = fmt.Sprintf("maximum %.1f°C, minimum %.1f°C", max, min)

	case "temp_max_6h", "temp_min_6h":
		t := signedTenths(m.Capture("sign", "0"), m.Capture("temp", ""))
		e.TemperatureC = &t
		e.Description = fmt.Sprintf("%.1f°C", t)

	case "precip_6h":
		hundredths, _ := strconv.Atoi(m.Capture("amount", ""))
		if hundredths == 0 {
			e.Description = "Trace or none"
			break
		}
		in := float64(hundredths) / 100
		e.Description = fmt.Sprintf("%.2f inches", in)
		e.PrecipitationIn = &in

	case "precip_hourly":
		hundredths, _ := strconv.Atoi(m.Capture("amount", ""))
		if hundredths == 0 {
			e.Description = "Less than 0.01 inches"
			break
		}
		in := float64(hundredths) / 100
		e.Description = fmt.Sprintf("%.2f inches", in)
		e.PrecipitationIn = &in

	case "surface_visibility", "tower_visibility":
		e.Description = m.Capture("vis", "") + " SM"

	case "variable_visibility":
		from := visDisplay(m.Capture("from", ""))
		to := visDisplay(m.Capture("to", ""))
		e.Description = fmt.Sprintf("%s to %s statute miles", from, to)

	case "peak_wind":
		dir, _ := strconv.Atoi(m.Capture("dir", ""))
		speed, _ := strconv.Atoi(m.Capture("speed", ""))
		minute, _ := strconv.Atoi(m.Capture("minute", ""))
		if h := m.Capture("hour", ""); h != "" {
			hour, _ := strconv.Atoi(h)
			e.PeakWind = &report.PeakWind{
				Direction: dir,
				Speed:     speed,
				Time:      report.HourMinute{Hour: hour, Minute: minute},
			}
			e.Description = fmt.Sprintf("%d° at %d KT at %02d:%02d UTC", dir, speed, hour, minute)
		} else {
			// Minute-only form; the hour is the report hour, which the
			// remark layer does not know.
			e.Description = fmt.Sprintf("%d° at %d KT at %d minutes past the hour", dir, speed, minute)
		}

	case "wind_shift":
		e.Description = fmt.Sprintf("Wind shifted at %s:%s UTC", m.Capture("hour", ""), m.Capture("minute", ""))

	case "wind_at_location":
		e.Wind = remarkWind(m)
		e.Description = fmt.Sprintf("Wind at %s: %s", m.Capture("loc", ""), windPhrase(e.Wind))

	case "wind_at_runway":
		e.Wind = remarkWind(m)
		if from := m.Capture("vfrom", ""); from != "" {
			f, _ := strconv.Atoi(from)
			t, _ := strconv.Atoi(m.Capture("vto", ""))
			e.Wind.VariableFrom = &f
			e.Wind.VariableTo = &t
		}
		e.Description = fmt.Sprintf("Wind at runway %s: %s", m.Capture("rwy", ""), windPhrase(e.Wind))

	case "past_weather":
		e.Description = pastWeather(m)

	case "lightning_observed":
		e.Description = "Lightning observed in vicinity"

	case "lightning":
		e.Description = lightning(m)

	case "thunderstorm_location", "thunderstorm_moving":
		e.Description = thunderstorm(m)

	case "virga":
		parts := []string{"Virga (precipitation not reaching ground)"}
		switch m.Capture("loc", "") {
		case "DSNT":
			parts = append(parts, "distant")
		case "VC":
			parts = append(parts, "in vicinity")
		}
		if dirs := m.Capture("dirs", ""); dirs != "" {
			parts = append(parts, "to the "+directionPhrase(dirs))
		}
		e.Description = strings.Join(parts, " ")

	case "lenticular":
		parts := []string{"Altocumulus Standing Lenticular clouds"}
		switch m.Capture("loc", "") {
		case "DSNT":
			parts = append(parts, "distant")
		case "VC":
			parts = append(parts, "in vicinity")
		case "OHD":
			parts = append(parts, "overhead")
		}
		if dirs := m.Capture("dirs", ""); dirs != "" {
			parts = append(parts, "to the "+directionPhrase(dirs))
		}
		if mov := m.Capture("mov", ""); mov != "" {
			parts = append(parts, "moving "+directionPhrase(mov))
		}
		e.Description = strings.Join(parts, " ")

	case "obscuration":
		if m.Capture("what", "") == "MTN" {
			e.Description = "Mountain obscured"
		} else {
			e.Description = "Mountains obscured"
		}

	case "cloud_oktas_height":
		height, _ := strconv.Atoi(m.Capture("height", ""))
		e.Description = fmt.Sprintf("%s %s/8 sky coverage at %d feet",
			cloudName(m.Capture("cloud", "")), m.Capture("oktas", ""), height*100)

	case "cloud_oktas":
		e.Description = fmt.Sprintf("%s %s/8 sky coverage",
			cloudName(m.Capture("cloud", "")), m.Capture("oktas", ""))

	case "cloud_trace":
		e.Description = fmt.Sprintf("%s trace (less than 1/8 sky coverage)",
			cloudName(m.Capture("cloud", "")))

	case "ceiling":
		low, _ := strconv.Atoi(m.Capture("low", ""))
		if h := m.Capture("high", ""); h != "" {
			high, _ := strconv.Atoi(h)
			e.Kind = report.RemarkVariableCeiling
			e.Description = fmt.Sprintf("%d to %d feet", low*100, high*100)
		} else {
			e.Description = fmt.Sprintf("%d feet", low*100)
		}

	case "density_altitude":
		alt, _ := strconv.Atoi(m.Capture("alt", ""))
		e.Description = fmt.Sprintf("%d feet", alt)

	case "runway_state_remark":
		e.Description = runwayState(m)

	case "frontal_passage":
		e.Description = "Frontal passage"

	case "rvr_missing":
		e.Description = "Runway visual range not available"

	case "sensor_status":
		e.Description = sensorDescriptions[m.Raw]

	case "maintenance_indicator":
		e.Description = "Station requires maintenance"

	case "next_forecast":
		e.Description = nextForecast(m.Capture("time", ""))

	case "wind_shear_note":
		e.Description = "Wind shear reported"

	case "amendment_note":
		note := m.Capture("note", "")
		switch {
		case note == "":
			e.Description = "Forecast has been amended"
		case note == "NOT SKED":
			e.Description = "Amendments not scheduled"
		default:
			e.Description = "Amendments limited to " + strings.TrimPrefix(note, "LTD TO ")
		}

	case "correction_time":
		if h := m.Capture("hour", ""); h != "" {
			e.Description = fmt.Sprintf("Corrected at %s:%s UTC", h, m.Capture("minute", ""))
		} else {
			e.Description = "Correction to previously issued forecast"
		}

	case "confidence":
		switch m.Capture("mod", "") {
		case "+":
			e.Description = "Forecast confidence high"
		case "-":
			e.Description = "Forecast confidence low"
		default:
			e.Description = "Forecast confidence normal"
		}
	}

	return e
}

func remarkWind(m grammar.RemarkMatch) *report.Wind {
	dir, _ := strconv.Atoi(m.Capture("dir", ""))
	speed, _ := strconv.Atoi(m.Capture("speed", ""))
	w := &report.Wind{Direction: dir, Speed: speed, Unit: report.UnitKnots}
	if g := m.Capture("gust", ""); g != "" {
		gust, _ := strconv.Atoi(g)
		w.Gust = &gust
	}
	return w
}

func windPhrase(w *report.Wind) string {
	s := fmt.Sprintf("%d° at %d KT", w.Direction, w.Speed)
	if w.Gust != nil {
		s += fmt.Sprintf(", gusting %d KT", *w.Gust)
	}
	if w.VariableFrom != nil && w.VariableTo != nil {
		s += fmt.Sprintf(", variable between %d° and %d°", *w.VariableFrom, *w.VariableTo)
	}
	return s
}

// pastWeather turns RAB11E24 into "rain began at minute 11, ended at
// minute 24". The events capture is a strict run of [BE]mm triples.
func pastWeather(m grammar.RemarkMatch) string {
	var name []string
	if d := m.Capture("desc", ""); d != "" {
		desc, ok := wx.Descriptors[d]
		if !ok {
			desc = strings.ToLower(d)
		}
		name = append(name, desc)
	}
	code := m.Capture("code", "")
	phen, ok := wx.Phenomena[code]
	if !ok {
		phen = strings.ToLower(code)
	}
	name = append(name, phen)

	events := m.Capture("events", "")
	var parts []string
	for i := 0; i+3 <= len(events); i += 3 {
		action := "began"
		if events[i] == 'E' {
			action = "ended"
		}
		parts = append(parts, fmt.Sprintf("%s at minute %s", action, events[i+1:i+3]))
	}
	return strings.Join(name, " ") + " " + strings.Join(parts, ", ")
}

func lightning(m grammar.RemarkMatch) string {
	var parts []string
	if f := m.Capture("freq", ""); f != "" {
		parts = append(parts, lightningFrequencies[f])
	}
	if types := m.Capture("types", ""); types != "" {
		var names []string
		for i := 0; i+2 <= len(types); i += 2 {
			names = append(names, lightningTypes[types[i:i+2]])
		}
		parts = append(parts, strings.Join(names, " and ")+" lightning")
	} else {
		parts = append(parts, "lightning")
	}
	if loc := m.Capture("loc", ""); loc != "" {
		parts = append(parts, locationIndicators[loc])
	}
	if dirs := m.Capture("dirs", ""); dirs != "" {
		if dirs == "ALQDS" {
			parts = append(parts, "all quadrants")
		} else {
			parts = append(parts, "to the "+directionPhrase(dirs))
		}
	}
	return strings.Join(parts, " ")
}

func thunderstorm(m grammar.RemarkMatch) string {
	parts := []string{"Thunderstorm"}
	if loc := m.Capture("loc", ""); loc != "" {
		parts = append(parts, locationIndicators[loc])
	}
	if dirs := m.Capture("dirs", ""); dirs != "" {
		parts = append(parts, "to the "+directionPhrase(dirs))
	}
	if mov := m.Capture("mov", ""); mov != "" {
		parts = append(parts, "moving "+directionPhrase(mov))
	}
	return strings.Join(parts, " ")
}

func runwayState(m grammar.RemarkMatch) string {
	rwy, _ := strconv.Atoi(m.Capture("rwy", ""))
	runway := fmt.Sprintf("Runway %dx", rwy)
	if rwy <= 3 {
		runway = fmt.Sprintf("Runway %d%d", rwy, rwy)
	}

	deposit, ok := stateDeposits[m.Capture("deposit", "")]
	if !ok {
		deposit = fmt.Sprintf("Unknown (%s)", m.Capture("deposit", ""))
	}
	extent, ok := stateExtents[m.Capture("extent", "")]
	if !ok {
		extent = fmt.Sprintf("Unknown (%s)", m.Capture("extent", ""))
	}

	return fmt.Sprintf("%s: %s, %s coverage, depth %s, braking %s",
		runway, deposit, extent,
		stateDepth(m.Capture("depth", "")),
		brakingAction(m.Capture("braking", "")))
}

func stateDepth(raw string) string {
	v, _ := strconv.Atoi(raw)
	switch {
	case v == 0:
		return "Less than 1mm"
	case v <= 91:
		return fmt.Sprintf("%dmm", v)
	case v <= 97:
		return fmt.Sprintf("%dcm", 10+(v-92)*5)
	case v == 98:
		return "40cm or more"
	default:
		return "Runway not operational"
	}
}

func brakingAction(raw string) string {
	if s, ok := stateBraking[raw]; ok {
		return s
	}
	return "Friction coefficient 0." + raw
}

func nextForecast(t string) string {
	switch len(t) {
	case 2:
		return fmt.Sprintf("Next forecast will be issued by %s:00 UTC", t)
	case 4:
		return fmt.Sprintf("Next forecast will be issued by %s:%s UTC", t[:2], t[2:])
	default:
		return fmt.Sprintf("Next forecast will be issued by day %s %s:%s UTC", t[:2], t[2:4], t[4:])
	}
}

// directionPhrase expands a compass list (SE-SW AND NW) into prose
// (southeast to southwest and northwest).
func directionPhrase(dirs string) string {
	words := strings.Fields(dirs)
	for i, w := range words {
		if w == "AND" {
			words[i] = "and"
			continue
		}
		parts := strings.Split(w, "-")
		for j, p := range parts {
			if full, ok := directionNames[p]; ok {
				parts[j] = full
			}
		}
		words[i] = strings.Join(parts, " to ")
	}
	return strings.Join(words, " ")
}

func cloudName(code string) string {
	if name, ok := cloudTypeNames[code]; ok {
		return name
	}
	return code
}

func signedTenths(sign, digits string) float64 {
	v, _ := strconv.Atoi(digits)
	t := float64(v) / 10
	if sign == "1" {
		t = -t
	}
	return t
}

// visDisplay renders a statute-mile value, keeping proper fractions as
// written and collapsing a fraction that reduces to a whole number.
func visDisplay(s string) string {
	if !strings.Contains(s, "/") {
		return s
	}
	num, den, _ := strings.Cut(s, "/")
	n, _ := strconv.Atoi(num)
	d, _ := strconv.Atoi(den)
	if d != 0 && n%d == 0 {
		return strconv.Itoa(n / d)
	}
	return s
}

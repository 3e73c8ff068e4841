package grammar

import (
	"fmt"
	"regexp"
	"sort"

	"wx_decoder/internal/report"
)

// RemarkRule binds one remark shape to its remark kind. Unlike body rules,
// remark patterns scan the whole RMK tail: several remarks span multiple
// space-delimited groups (PK WND 28045/15, SFC VIS 1/2, DENSITY ALT 1200FT).
//
// Bare digit shapes wrap their payload in a group named "rmk" between
// space-or-edge guards so a 6-hour temperature rule cannot fire inside a
// 24-hour extremes group. Repeats marks shapes that may occur more than
// once per report (past weather events, runway winds, cloud types).
type RemarkRule struct {
	Kind     report.RemarkKind
	Name     string
	Pattern  string
	Repeats  bool
	compiled *regexp.Regexp
}

// Direction vocabulary for location-qualified remarks. A single compass
// point or a range (SE-SW), optionally chained with AND.
const (
	dirRange = `(?:NE|NW|SE|SW|N|E|S|W)(?:-(?:NE|NW|SE|SW|N|E|S|W))?`
	dirList  = dirRange + `(?: AND ` + dirRange + `)*`
	cloudAbb = `TCU|SN|SC|ST|CU|CB|CI|CS|CC|AC|AS|NS|CF|SF`
)

var remarkRules = []*RemarkRule{
	{Kind: report.RemarkStationType, Name: "station_type", Pattern: `(?:^| )(?P<rmk>AO(?P<disc>[12]))(?: |$)`},

	// Pressure group family. SLPNO before SLPppp keeps the alternation
	// honest even though the digit requirement already separates them.
	{Kind: report.RemarkNoSLP, Name: "slp_missing", Pattern: `(?:^| )(?P<rmk>SLPNO)(?: |$)`},
	{Kind: report.RemarkSeaLevelPressure, Name: "sea_level_pressure", Pattern: `(?:^| )(?P<rmk>SLP(?P<value>\d{3}))(?: |$)`},
	{Kind: report.RemarkPressureTendency, Name: "pressure_tendency", Pattern: `(?:^| )(?P<rmk>5(?P<char>[0-8])(?P<change>\d{3}))(?: |$)`},
	{Kind: report.RemarkQFE, Name: "qfe", Pattern: `(?:^| )(?P<rmk>QFE(?P<value>\d{3,4}))(?: |$)`},
	{Kind: report.RemarkAltimeter, Name: "altimeter_remark", Pattern: `(?:^| )(?P<rmk>A(?P<value>\d{4}))(?: |$)`},
	{Kind: report.RemarkPressureChange, Name: "pressure_change", Pattern: `(?:^| )(?P<rmk>PRES(?P<sense>FR|RR))(?: |$)`},

	// Temperature group family.
	{Kind: report.RemarkPreciseTemp, Name: "precise_temperature", Pattern: `(?:^| )(?P<rmk>T(?P<tsign>[01])(?P<temp>\d{3})(?:(?P<dsign>[01])(?P<dew>\d{3}))?)(?: |$)`},
	{Kind: report.RemarkTempExtreme24h, Name: "temp_extremes_24h", Pattern: `(?:^| )(?P<rmk>4(?P<maxsign>[01])(?P<max>\d{3})(?P<minsign>[01])(?P<min>\d{3}))(?: |$)`},
	{Kind: report.RemarkTempMax6h, Name: "temp_max_6h", Pattern: `(?:^| )(?P<rmk>1(?P<sign>[01])(?P<temp>\d{3}))(?: |$)`},
	{Kind: report.RemarkTempMin6h, Name: "temp_min_6h", Pattern: `(?:^| )(?P<rmk>2(?P<sign>[01])(?P<temp>\d{3}))(?: |$)`},

	// Precipitation amounts, hundredths of an inch.
	{Kind: report.RemarkPrecip6h, Name: "precip_6h", Pattern: `(?:^| )(?P<rmk>6(?P<amount>\d{4}))(?: |$)`},
	{Kind: report.RemarkPrecipAmount, Name: "precip_hourly", Pattern: `(?:^| )(?P<rmk>P(?P<amount>\d{4}))(?: |$)`},

	// Visibility remarks. Surface and tower before the bare variable form
	// so VIS after SFC/TWR is not claimed twice.
	{Kind: report.RemarkSurfaceVis, Name: "surface_visibility", Pattern: `(?:^| )(?P<rmk>SFC VIS (?P<vis>\d+(?: \d+/\d+)?(?:/\d+)?))(?: |$)`},
	{Kind: report.RemarkTowerVis, Name: "tower_visibility", Pattern: `(?:^| )(?P<rmk>TWR VIS (?P<vis>\d+(?: \d+/\d+)?(?:/\d+)?))(?: |$)`},
	{Kind: report.RemarkVariableVis, Name: "variable_visibility", Pattern: `(?:^| )(?P<rmk>VIS (?P<from>\d+(?:/\d+)?)V(?P<to>\d+(?:/\d+)?))(?: |$)`},

	// Wind remarks.
	{Kind: report.RemarkPeakWind, Name: "peak_wind", Pattern: `(?:^| )(?P<rmk>PK WND (?P<dir>\d{3})(?P<speed>\d{2,3})/(?P<hour>\d{2})?(?P<minute>\d{2}))(?: |$)`},
	{Kind: report.RemarkWindShift, Name: "wind_shift", Pattern: `(?:^| )(?P<rmk>WSHFT (?P<hour>\d{2})(?P<minute>\d{2}))(?: |$)`},
	{Kind: report.RemarkRunwayWind, Name: "wind_at_location", Repeats: true, Pattern: `(?:^| )(?P<rmk>WIND (?P<loc>[A-Z0-9]+) (?P<dir>\d{3})(?P<speed>\d{2,3})(?:G(?P<gust>\d{2,3}))?KT)(?: |$)`},
	{Kind: report.RemarkRunwayWind, Name: "wind_at_runway", Repeats: true, Pattern: `(?:^| )(?P<rmk>RWY(?P<rwy>\d{2}[LCR]?) (?P<dir>\d{3})(?P<speed>\d{2,3})(?:G(?P<gust>\d{2,3}))?KT(?: (?P<vfrom>\d{3})V(?P<vto>\d{3}))?)(?: |$)`},

	// Past weather begin/end events, e.g. RAB11E24 or FZRAB29E44.
	{Kind: report.RemarkPastWeather, Name: "past_weather", Repeats: true, Pattern: `(?:^| )(?P<rmk>(?P<desc>MI|PR|BC|DR|BL|SH|TS|FZ)?(?P<code>TS|DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)(?P<events>(?:[BE]\d{2})+))(?: |$)`},

	// Convective and obscuration observations with location qualifiers.
	// LTG OBS is the TAF forecaster shorthand and must win over the
	// frequency/type form so OBS is not left dangling as free text.
	{Kind: report.RemarkLightning, Name: "lightning_observed", Pattern: `(?:^| )(?P<rmk>LTG OBS)(?: |$)`},
	{Kind: report.RemarkLightning, Name: "lightning", Pattern: `(?:^| )(?P<rmk>(?:(?P<freq>FRQ|OCNL|CONS) )?LTG(?P<types>(?:IC|CC|CG|CA)*)(?: (?P<loc>DSNT|VC|OHD))?(?: (?P<dirs>ALQDS|` + dirList + `))?)(?: |$)`},
	{Kind: report.RemarkThunderstorm, Name: "thunderstorm_location", Pattern: `(?:^| )(?P<rmk>TS (?P<loc>DSNT|VC|OHD|ALQDS)(?: (?P<dirs>` + dirList + `))?(?: MOV (?P<mov>` + dirRange + `))?)(?: |$)`},
	{Kind: report.RemarkThunderstorm, Name: "thunderstorm_moving", Pattern: `(?:^| )(?P<rmk>TS (?:(?P<dirs>` + dirList + `) )?MOV (?P<mov>` + dirRange + `))(?: |$)`},
	{Kind: report.RemarkVirga, Name: "virga", Pattern: `(?:^| )(?P<rmk>VIRGA(?: (?P<loc>DSNT|VC))?(?: (?P<dirs>` + dirList + `))?)(?: |$)`},
	{Kind: report.RemarkLenticular, Name: "lenticular", Pattern: `(?:^| )(?P<rmk>ACSL(?: (?P<loc>DSNT|VC|OHD))?(?: (?P<dirs>` + dirList + `))?(?: MOV (?P<mov>` + dirRange + `))?)(?: |$)`},
	{Kind: report.RemarkObscuration, Name: "obscuration", Pattern: `(?:^| )(?P<rmk>(?P<what>MTN?S?) OBSC)(?: |$)`},

	// Cloud type remarks in oktas form (1CU007), Canadian form (SC6) and
	// trace form (AC TR).
	{Kind: report.RemarkCloudTypes, Name: "cloud_oktas_height", Repeats: true, Pattern: `(?:^| )(?P<rmk>(?P<oktas>\d)(?P<cloud>` + cloudAbb + `)(?P<height>\d{3}))(?: |$)`},
	{Kind: report.RemarkCloudTypes, Name: "cloud_oktas", Repeats: true, Pattern: `(?:^| )(?P<rmk>(?P<cloud>` + cloudAbb + `)(?P<oktas>\d))(?: |$)`},
	{Kind: report.RemarkCloudTypes, Name: "cloud_trace", Repeats: true, Pattern: `(?:^| )(?P<rmk>(?P<cloud>` + cloudAbb + `) TR)(?: |$)`},

	// Ceiling, plain or variable.
	{Kind: report.RemarkCeiling, Name: "ceiling", Pattern: `(?:^| )(?P<rmk>CIG (?P<low>\d{3})(?:V(?P<high>\d{3}))?)(?: |$)`},
	{Kind: report.RemarkDensityAltitude, Name: "density_altitude", Pattern: `(?:^| )(?P<rmk>DENSITY ALT (?P<alt>-?\d+)FT)(?: |$)`},

	// Runway state repeated in remarks, 8-group format 8RDEddBB.
	{Kind: report.RemarkRunwayState, Name: "runway_state_remark", Pattern: `(?:^| )(?P<rmk>8(?P<rwy>\d)(?P<deposit>\d)(?P<extent>\d)(?P<depth>\d{2})(?P<braking>\d{2}))(?: |$)`},

	// Status indicators.
	{Kind: report.RemarkFrontalPassage, Name: "frontal_passage", Pattern: `(?:^| )(?P<rmk>FROPA)(?: |$)`},
	{Kind: report.RemarkNoRVR, Name: "rvr_missing", Pattern: `(?:^| )(?P<rmk>RVRNO)(?: |$)`},
	{Kind: report.RemarkSensorStatus, Name: "sensor_status", Repeats: true, Pattern: `(?:^| )(?P<rmk>PWINO|TSNO|FZRANO|PNO|VISNO|CHINO)(?: |$)`},
	{Kind: report.RemarkMaintenance, Name: "maintenance_indicator", Pattern: `(?P<rmk>\$)`},

	// Forecaster notes seen on TAF tails.
	{Kind: report.RemarkNextForecast, Name: "next_forecast", Pattern: `(?:^| )(?P<rmk>NXT FCST BY (?P<time>\d{2,6})Z)(?: |$)`},
	{Kind: report.RemarkWindShear, Name: "wind_shear_note", Pattern: `(?:^| )(?P<rmk>WS(?:CONDS)?)(?: |$)`},
	{Kind: report.RemarkAmendment, Name: "amendment_note", Pattern: `(?:^| )(?P<rmk>AMD(?: (?P<note>NOT SKED|LTD TO(?: [A-Z]+)+))?)(?: |$)`},
	{Kind: report.RemarkCorrection, Name: "correction_time", Pattern: `(?:^| )(?P<rmk>COR(?: (?P<hour>\d{2})(?P<minute>\d{2})Z?)?)(?: |$)`},
	{Kind: report.RemarkConfidence, Name: "confidence", Pattern: `(?:^| )(?P<rmk>CNF(?P<mod>[+-])?)(?: |$)`},
}

func init() {
	for _, r := range remarkRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			panic(fmt.Sprintf("grammar: remark rule %s: %v", r.Name, err))
		}
		r.compiled = re
	}
}

// RemarkMatch is one recognized remark occurrence within the RMK tail.
// Start and End are byte offsets of the remark payload within the tail.
type RemarkMatch struct {
	Kind     report.RemarkKind
	Rule     string
	Raw      string
	Start    int
	End      int
	Captures map[string]string
}

// Capture returns the named capture value, or def when absent or empty.
func (m RemarkMatch) Capture(name, def string) string {
	if v, ok := m.Captures[name]; ok && v != "" {
		return v
	}
	return def
}

// ClassifyRemark scans the RMK tail against the remark rule table and
// returns every recognized occurrence ordered by position. Earlier rules
// claim their spans first; a later rule never matches inside a span an
// earlier rule already claimed. Text outside all returned spans is free
// text for the caller to keep verbatim.
//
// Each rule resumes its scan at the end of the previous payload, not the
// end of the full match. The trailing guard eats the separating space, so
// resuming after it would hide back-to-back occurrences (SC6 AC3).
func ClassifyRemark(tail string) []RemarkMatch {
	var matches []RemarkMatch
	var claimed [][2]int

	for _, r := range remarkRules {
		for offset := 0; offset < len(tail); {
			idx := r.compiled.FindStringSubmatchIndex(tail[offset:])
			if idx == nil {
				break
			}
			for i, v := range idx {
				if v >= 0 {
					idx[i] = v + offset
				}
			}
			start, end, caps := remarkSpan(r.compiled, tail, idx)
			offset = end
			if overlaps(claimed, start, end) {
				continue
			}
			claimed = append(claimed, [2]int{start, end})
			matches = append(matches, RemarkMatch{
				Kind:     r.Kind,
				Rule:     r.Name,
				Raw:      tail[start:end],
				Start:    start,
				End:      end,
				Captures: caps,
			})
			if !r.Repeats {
				break
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return matches
}

// remarkSpan resolves the payload span and named captures of one match.
// The span is the "rmk" group when present, otherwise the full match.
func remarkSpan(re *regexp.Regexp, tail string, idx []int) (int, int, map[string]string) {
	start, end := idx[0], idx[1]
	caps := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		lo, hi := idx[2*i], idx[2*i+1]
		if lo < 0 {
			continue
		}
		if name == "rmk" {
			start, end = lo, hi
			continue
		}
		caps[name] = tail[lo:hi]
	}
	return start, end, caps
}

func overlaps(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && end > c[0] {
			return true
		}
	}
	return false
}

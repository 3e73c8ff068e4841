package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule binds one token shape to a component kind. Pattern may reference
// {NAME} atoms; compile expands them and anchors the result so a rule
// only ever matches a whole token.
type Rule struct {
	Kind     Kind
	Name     string
	Pattern  string
	compiled *regexp.Regexp
}

// bodyRules is the global classification table, first match wins. Order
// follows the canonical group order (station, time, wind, visibility,
// RVR, phenomena, sky, temperature, altimeter, trend) except where a more
// specific shape must win over a more general one: value-shaped groups
// precede the bare four-character station rule, and the MOTNE runway
// state precedes RVR because both open with R<rwy>/.
var bodyRules = []*Rule{
	{Kind: KindReportType, Name: "report_type", Pattern: `(?P<type>METAR|SPECI|TAF)`},
	{Kind: KindModifier, Name: "modifier", Pattern: `(?P<mod>AUTO|COR|AMD|RTD|NIL|NOSPECI)`},
	{Kind: KindCAVOK, Name: "cavok", Pattern: `CAVOK`},

	// Trend and change-group markers. The six-digit FM form (TAF change
	// marker) must precede the four-digit trend time indicator.
	{Kind: KindTrend, Name: "trend", Pattern: `(?P<trend>NOSIG|BECMG|TEMPO)`},
	{Kind: KindProb, Name: "probability", Pattern: `PROB(?P<pct>\d{2})`},
	{Kind: KindChangeFrom, Name: "change_from", Pattern: `FM(?P<day>\d{2})(?P<hour>\d{2})(?P<minute>\d{2})`},
	{Kind: KindTrendTime, Name: "trend_time", Pattern: `(?P<ind>FM|TL|AT)(?P<hour>\d{2})(?P<minute>\d{2})`},

	// Header times.
	{Kind: KindTime, Name: "observation_time", Pattern: `(?P<day>\d{2})(?P<hour>\d{2})(?P<minute>\d{2})Z`},
	{Kind: KindValidPeriod, Name: "valid_period", Pattern: `(?P<fromday>\d{2})(?P<fromhour>\d{2})/(?P<today>\d{2})(?P<tohour>\d{2})`},
	{Kind: KindTafTemperature, Name: "taf_temperature", Pattern: `T(?P<kind>[XN])(?P<sign>M)?(?P<value>\d{2})/(?P<day>\d{2})(?P<hour>\d{2})Z`},

	// Wind. ABV marks an off-scale speed with no direction group.
	{Kind: KindWind, Name: "wind", Pattern: `(?P<above>P)?(?P<dir>{WIND_DIR})(?P<speed>{WIND_SPD})(?:G(?P<gust>{WIND_SPD}))?(?P<unit>{WIND_UNIT})`},
	{Kind: KindWind, Name: "wind_extreme", Pattern: `ABV(?P<speed>{WIND_SPD})(?P<unit>{WIND_UNIT})`},
	{Kind: KindWindVariation, Name: "wind_variation", Pattern: `(?P<from>\d{3})V(?P<to>\d{3})`},

	// Runway groups. State (MOTNE) before RVR.
	{Kind: KindRunwayState, Name: "runway_state", Pattern: `R(?P<rwy>{RUNWAY})/(?P<deposit>\d|/)(?P<extent>\d|/)(?P<depth>\d{2}|//)(?P<braking>\d{2}|//)`},
	{Kind: KindRVR, Name: "rvr", Pattern: `R(?P<rwy>{RUNWAY})/(?P<mod>[PM])?(?P<value>\d{4})(?: ?V(?P<highmod>[PM])?(?P<high>\d{4}))?(?P<ft>FT)?(?P<trend>[UDN])?`},

	// Visibility: statute miles/kilometres (with recombined mixed
	// fractions), then direction-qualified metres, then plain metres.
	{Kind: KindVisibility, Name: "visibility_miles", Pattern: `(?P<mod>[PM])?(?:(?P<whole>\d{1,2}) )?(?P<num>\d{1,2})(?:/(?P<den>\d{1,2}))?(?P<unit>SM|KM)`},
	{Kind: KindVisibility, Name: "visibility_directional", Pattern: `(?P<value>\d{4})(?P<dir>{COMPASS})`},
	{Kind: KindVisibility, Name: "visibility_missing", Pattern: `////`},
	{Kind: KindVisibility, Name: "visibility_meters", Pattern: `(?P<value>\d{4})(?P<ndv>NDV)?`},

	{Kind: KindSky, Name: "sky", Pattern: `(?P<cover>{COVER})(?P<height>\d{3}|///)?(?P<cloud>CB|TCU|///)?`},

	{Kind: KindTemperature, Name: "temperature", Pattern: `(?P<tsign>M)?(?P<temp>\d{2})/(?:(?P<dsign>M)?(?P<dew>\d{2}))?`},

	{Kind: KindAltimeter, Name: "altimeter", Pattern: `(?P<source>[AQ])(?P<value>\d{4})`},
	{Kind: KindQNH, Name: "qnh", Pattern: `QNH(?P<value>\d{4})(?P<unit>INS|HPA)?`},

	{Kind: KindWindShear, Name: "wind_shear", Pattern: `WS(?:RWY(?P<rwy>{RUNWAY}))?`},
	{Kind: KindColorCode, Name: "color_code", Pattern: `(?P<code>{COLOR})\+?`},
	{Kind: KindRemarkStart, Name: "remark_start", Pattern: `RMK`},
	{Kind: KindMaintenance, Name: "maintenance", Pattern: `\$`},

	// Present weather last among the specific shapes: its vocabulary is
	// letter combinations that would otherwise shadow nothing, but NSW
	// and descriptor-only groups (VCSH, standalone TS) need their own
	// rules since the main rule requires at least one phenomenon code.
	{Kind: KindPhenomena, Name: "wx_phenomena", Pattern: `(?P<intensity>{WX_INTENSITY})?(?P<descriptors>(?:{WX_DESCRIPTOR})*)(?P<codes>(?:{WX_PHENOMENON})+)`},
	{Kind: KindPhenomena, Name: "wx_descriptor_only", Pattern: `(?P<intensity>{WX_INTENSITY})?(?P<descriptors>(?:{WX_DESCRIPTOR})+)`},
	{Kind: KindPhenomena, Name: "wx_nsw", Pattern: `NSW`},

	// The bare station shape is maximally general (any four-character
	// identifier), so it classifies last.
	{Kind: KindStation, Name: "station", Pattern: `(?P<icao>{ICAO})`},
}

func init() {
	mustCompile(bodyRules)
}

// mustCompile expands atoms and anchors every rule. Panics on malformed
// tables; rule tables are static data, so this is a programmer error.
func mustCompile(rules []*Rule) {
	for _, r := range rules {
		expanded, err := expand(r.Pattern)
		if err != nil {
			panic(fmt.Sprintf("grammar: rule %s: %v", r.Name, err))
		}
		r.compiled = regexp.MustCompile(`^(?:` + expanded + `)$`)
	}
}

// Atom names start with a letter so regex repetition counts like {2}
// or {1,3} pass through as literal syntax.
var atomRef = regexp.MustCompile(`\{([A-Z_][A-Z0-9_]*)\}`)

func expand(pattern string) (string, error) {
	var missing string
	out := atomRef.ReplaceAllStringFunc(pattern, func(ref string) string {
		name := strings.Trim(ref, "{}")
		atom, ok := atoms[name]
		if !ok {
			missing = name
			return ref
		}
		return "(?:" + atom + ")"
	})
	if missing != "" {
		return "", fmt.Errorf("unknown atom {%s}", missing)
	}
	return out, nil
}

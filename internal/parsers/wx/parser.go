// Package wx decodes present-weather groups (-SHRA, +TSRAGR, VCFG, RETS,
// NSW) into intensity, descriptor and phenomenon codes.
package wx

import (
	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// Descriptions of the two-letter weather codes, used by renderers. The
// decode keeps wire codes; these are presentation strings.
var (
	Intensities = map[string]string{
		report.IntensityLight:    "light",
		report.IntensityHeavy:    "heavy",
		report.IntensityVicinity: "vicinity",
		report.IntensityRecent:   "recent",
	}

	Descriptors = map[string]string{
		"MI": "shallow",
		"PR": "partial",
		"BC": "patches",
		"DR": "low drifting",
		"BL": "blowing",
		"SH": "shower",
		"TS": "thunderstorm",
		"FZ": "freezing",
	}

	Phenomena = map[string]string{
		"DZ": "drizzle",
		"RA": "rain",
		"SN": "snow",
		"SG": "snow grains",
		"IC": "ice crystals",
		"PL": "ice pellets",
		"GR": "hail",
		"GS": "small hail",
		"UP": "unknown precipitation",
		"BR": "mist",
		"FG": "fog",
		"FU": "smoke",
		"VA": "volcanic ash",
		"DU": "dust",
		"SA": "sand",
		"HZ": "haze",
		"PY": "spray",
		"PO": "dust whirls",
		"SQ": "squalls",
		"FC": "funnel cloud",
		"SS": "sandstorm",
		"DS": "duststorm",
	}
)

// Parse decodes a classified present-weather token. NSW decodes to a
// phenomenon with no codes; it marks the end of significant weather in
// trends and change groups.
func Parse(ct grammar.ClassifiedToken) (*report.WeatherPhenomenon, error) {
	if ct.Rule == "wx_nsw" {
		return &report.WeatherPhenomenon{Raw: ct.Text}, nil
	}

	p := &report.WeatherPhenomenon{
		Intensity:   ct.Capture("intensity", ""),
		Descriptors: chunk(ct.Capture("descriptors", "")),
		Phenomena:   chunk(ct.Capture("codes", "")),
		Raw:         ct.Text,
	}
	if len(p.Descriptors) == 0 && len(p.Phenomena) == 0 {
		return nil, report.ParseError{Component: report.ComponentPhenomenon, Token: ct.Text, Reason: "no weather codes"}
	}
	return p, nil
}

// chunk splits a run of concatenated two-letter codes.
func chunk(s string) []string {
	if s == "" {
		return nil
	}
	codes := make([]string, 0, len(s)/2)
	for i := 0; i+2 <= len(s); i += 2 {
		codes = append(codes, s[i:i+2])
	}
	return codes
}

// Package sky decodes cloud layer groups (FEW020, BKN015CB, VV002,
// OVC///, SKC) into coverage, height and convective type.
package sky

import (
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// Coverages maps coverage codes to presentation strings.
var Coverages = map[string]string{
	report.CoverageClear:              "clear",
	report.CoverageClearAuto:          "clear",
	report.CoverageNoSignificant:      "no significant cloud",
	report.CoverageNoneDetected:       "no cloud detected",
	report.CoverageFew:                "few",
	report.CoverageScattered:          "scattered",
	report.CoverageBroken:             "broken",
	report.CoverageOvercast:           "overcast",
	report.CoverageVerticalVisibility: "vertical visibility",
}

// Parse decodes a classified sky token. Heights are hundreds of feet on
// the wire and decode to feet.
func Parse(ct grammar.ClassifiedToken) (*report.SkyLayer, error) {
	layer := &report.SkyLayer{Coverage: ct.Capture("cover", "")}
	if layer.Coverage == "///" {
		// Coverage unmeasurable but a convective type may still follow.
		layer.Coverage = ""
		layer.UnknownHeight = true
	}

	switch h := ct.Capture("height", ""); h {
	case "":
	case "///":
		layer.UnknownHeight = true
	default:
		hundreds, err := strconv.Atoi(h)
		if err != nil {
			return nil, report.ParseError{Component: report.ComponentSky, Token: ct.Text, Reason: "bad height"}
		}
		feet := hundreds * 100
		layer.Height = &feet
	}

	switch c := ct.Capture("cloud", ""); c {
	case "":
	case "///":
		layer.UnknownType = true
	default:
		layer.Convective = c
	}

	return layer, nil
}

// IsClear reports whether the coverage code is one of the no-cloud codes
// (SKC, CLR, NSC, NCD) that close the sky section without a height.
func IsClear(coverage string) bool {
	switch coverage {
	case report.CoverageClear, report.CoverageClearAuto,
		report.CoverageNoSignificant, report.CoverageNoneDetected:
		return true
	}
	return false
}

// Package runway decodes MOTNE runway state groups (R23/490156): deposit,
// contamination extent, deposit depth and braking action. Digits decode to
// their standard descriptions; / marks fields not reported.
package runway

import (
	"fmt"
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

var deposits = map[string]string{
	"0": "clear and dry",
	"1": "damp",
	"2": "wet or water patches",
	"3": "rime or frost covered",
	"4": "dry snow",
	"5": "wet snow",
	"6": "slush",
	"7": "ice",
	"8": "compacted or rolled snow",
	"9": "frozen ruts or ridges",
	"/": "not reported",
}

var extents = map[string]string{
	"1": "10% or less",
	"2": "11% to 25%",
	"5": "26% to 50%",
	"9": "51% to 100%",
	"/": "not reported (e.g. due to rwy clearance in progress)",
}

var brakings = map[string]string{
	"91": "poor",
	"92": "medium/poor",
	"93": "medium",
	"94": "medium/good",
	"95": "good",
	"99": "unreliable or unmeasurable",
	"//": "not reported",
}

// Parse decodes a classified runway state token.
func Parse(ct grammar.ClassifiedToken) (*report.RunwayState, error) {
	deposit := ct.Capture("deposit", "/")
	depositDesc, ok := deposits[deposit]
	if !ok {
		depositDesc = fmt.Sprintf("unknown (%s)", deposit)
	}

	extent := ct.Capture("extent", "/")
	extentDesc, ok := extents[extent]
	if !ok {
		extentDesc = fmt.Sprintf("unknown (%s)", extent)
	}

	return &report.RunwayState{
		Runway:  ct.Capture("rwy", ""),
		Deposit: depositDesc,
		Extent:  extentDesc,
		Depth:   decodeDepth(ct.Capture("depth", "//")),
		Braking: decodeBraking(ct.Capture("braking", "//")),
		Raw:     ct.Text,
	}, nil
}

func decodeDepth(raw string) string {
	if raw == "//" {
		return "not reported"
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Sprintf("unknown (%s)", raw)
	}
	switch {
	case n == 0:
		return "less than 1mm"
	case n <= 90:
		return fmt.Sprintf("%dmm", n)
	case n == 92:
		return "10cm"
	case n == 93:
		return "15cm"
	case n == 94:
		return "20cm"
	case n == 95:
		return "25cm"
	case n == 96:
		return "30cm"
	case n == 97:
		return "35cm"
	case n == 98:
		return "40cm or more"
	case n == 99:
		return "runway not operational"
	}
	return fmt.Sprintf("unknown (%s)", raw)
}

func decodeBraking(raw string) string {
	if desc, ok := brakings[raw]; ok {
		return desc
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Sprintf("unknown (%s)", raw)
	}
	// 01-90 encode a measured friction coefficient.
	return fmt.Sprintf("coefficient %.2f", float64(n)/100)
}

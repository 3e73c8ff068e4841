// Package wind decodes surface wind groups (24015G25KT, VRB03KT, P26099KT,
// ABV49MPS) and the separate variable-direction group (210V280).
package wind

import (
	"fmt"
	"strconv"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
)

// Parse decodes a classified wind token. Calm wind (00000KT) decodes to a
// zero direction and speed, not nil.
func Parse(ct grammar.ClassifiedToken) (*report.Wind, error) {
	w := &report.Wind{Unit: ct.Capture("unit", report.UnitKnots)}

	if ct.Rule == "wind_extreme" {
		// ABV groups carry no direction. The reported speed is a lower
		// bound, same as the P prefix.
		speed, err := strconv.Atoi(ct.Capture("speed", ""))
		if err != nil {
			return nil, parseErr(ct, "bad speed")
		}
		w.Variable = true
		w.Above = true
		w.Speed = speed
		return w, nil
	}

	dir := ct.Capture("dir", "")
	if dir == "VRB" {
		w.Variable = true
	} else {
		deg, err := strconv.Atoi(dir)
		if err != nil {
			return nil, parseErr(ct, "bad direction")
		}
		if deg > 360 {
			return nil, parseErr(ct, fmt.Sprintf("direction %d out of range", deg))
		}
		w.Direction = deg
	}

	speed, err := strconv.Atoi(ct.Capture("speed", ""))
	if err != nil {
		return nil, parseErr(ct, "bad speed")
	}
	w.Speed = speed
	w.Above = ct.Has("above")

	if g := ct.Capture("gust", ""); g != "" {
		gust, err := strconv.Atoi(g)
		if err != nil {
			return nil, parseErr(ct, "bad gust")
		}
		if gust <= speed {
			return nil, parseErr(ct, fmt.Sprintf("gust %d not above sustained %d", gust, speed))
		}
		w.Gust = &gust
	}

	return w, nil
}

// ParseVariation decodes a dddVddd group into the from/to bounds the
// assembler attaches to the preceding wind group.
func ParseVariation(ct grammar.ClassifiedToken) (int, int, error) {
	from, err := strconv.Atoi(ct.Capture("from", ""))
	if err != nil {
		return 0, 0, parseErr(ct, "bad variation lower bound")
	}
	to, err := strconv.Atoi(ct.Capture("to", ""))
	if err != nil {
		return 0, 0, parseErr(ct, "bad variation upper bound")
	}
	if from > 360 || to > 360 {
		return 0, 0, parseErr(ct, "variation bound out of range")
	}
	return from, to, nil
}

func parseErr(ct grammar.ClassifiedToken, reason string) error {
	return report.ParseError{Component: report.ComponentWind, Token: ct.Text, Reason: reason}
}

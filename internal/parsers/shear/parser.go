// Package shear decodes wind shear groups. The WS marker is followed by a
// short token run (WS RWY 24, WS ALL RWY, WS TKOF RWY 20, WS R03) and also
// appears glued (WSRWY26).
package shear

import (
	"regexp"
	"strings"

	"wx_decoder/internal/report"
)

var runwayRe = regexp.MustCompile(`^(?:R(?:WY)?)?(\d{2}[LCR]?)$`)

// Follows reports whether tok belongs to an open WS group. The assembler
// feeds consecutive tokens after WS through this until it declines one.
func Follows(tok string) bool {
	switch tok {
	case "RWY", "ALL", "TKOF", "LDG":
		return true
	}
	return runwayRe.MatchString(tok)
}

// Parse decodes a collected wind shear token run. The first element is
// the WS marker itself, possibly with a glued runway (WSRWY26).
func Parse(parts []string) (*report.WindShear, error) {
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "WS") {
		return nil, report.ParseError{Component: report.ComponentWindShear, Token: strings.Join(parts, " "), Reason: "not a wind shear group"}
	}

	ws := &report.WindShear{Scope: report.ShearRunway, Raw: strings.Join(parts, " ")}

	scan := make([]string, 0, len(parts))
	if glued := strings.TrimPrefix(parts[0], "WS"); glued != "" {
		scan = append(scan, glued)
	}
	scan = append(scan, parts[1:]...)

	for _, p := range scan {
		switch p {
		case "ALL":
			ws.Scope = report.ShearAllRunways
		case "TKOF":
			ws.Scope = report.ShearTakeoff
		case "LDG":
			ws.Scope = report.ShearLanding
		case "RWY":
		default:
			if m := runwayRe.FindStringSubmatch(p); m != nil && ws.Runway == "" {
				ws.Runway = m[1]
			}
		}
	}

	if ws.Scope == report.ShearRunway && ws.Runway == "" && len(scan) > 0 {
		return nil, report.ParseError{Component: report.ComponentWindShear, Token: ws.Raw, Reason: "no runway designator"}
	}
	return ws, nil
}

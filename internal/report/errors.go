package report

import "fmt"

// Component names used in warnings and parse errors.
const (
	ComponentWind        = "wind"
	ComponentVisibility  = "visibility"
	ComponentRVR         = "rvr"
	ComponentRunwayState = "runway_state"
	ComponentPhenomenon  = "phenomenon"
	ComponentSky         = "sky"
	ComponentTemperature = "temperature"
	ComponentAltimeter   = "altimeter"
	ComponentTrend       = "trend"
	ComponentWindShear   = "wind_shear"
	ComponentPeriod      = "period"
	ComponentToken       = "token"
)

// EmptyReportError is returned when the input contains no tokens after
// trimming. Fatal: no Report is produced.
type EmptyReportError struct{}

func (EmptyReportError) Error() string { return "empty report" }

// MissingMandatoryGroupError is returned when the station identifier or
// the primary time group is absent or unparsable. Fatal: no Report is
// produced.
type MissingMandatoryGroupError struct {
	Group string // "station" or "time"
}

func (e MissingMandatoryGroupError) Error() string {
	return fmt.Sprintf("missing mandatory %s group", e.Group)
}

// ParseError is a component-level decode failure: the token matched its
// grammar rule but failed semantic extraction. Non-fatal; the assembler
// records it as a Warning and leaves the field absent.
type ParseError struct {
	Component string
	Token     string
	Reason    string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q: %s", e.Component, e.Token, e.Reason)
}

// PeriodOrderingError flags a malformed or out-of-order TAF change-group
// window. Non-fatal; the period is kept with a best-effort window.
type PeriodOrderingError struct {
	Marker string
	Reason string
}

func (e PeriodOrderingError) Error() string {
	return fmt.Sprintf("period %q: %s", e.Marker, e.Reason)
}

// Warning records a non-fatal decode problem with enough context to
// diagnose it: the component attempted, the offending token and its body
// position.
type Warning struct {
	Component string `json:"component"`
	Token     string `json:"token"`
	Position  int    `json:"position"`
	Message   string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %d (%s): %s", w.Token, w.Position, w.Component, w.Message)
}

// WarnParse converts a ParseError into the Warning attached to the report.
func WarnParse(err ParseError, position int) Warning {
	return Warning{
		Component: err.Component,
		Token:     err.Token,
		Position:  position,
		Message:   err.Reason,
	}
}

// WarnUnrecognized records a token that matched no grammar rule.
func WarnUnrecognized(token string, position int) Warning {
	return Warning{
		Component: ComponentToken,
		Token:     token,
		Position:  position,
		Message:   "unrecognized token",
	}
}

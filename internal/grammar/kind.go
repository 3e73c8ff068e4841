// Package grammar holds the immutable token grammar tables for report
// bodies and the dispatcher that classifies groups against them. Tables
// are compiled once at init and are safe for concurrent use.
package grammar

// Kind is the component kind a body token classifies as. The assembler
// drives an exhaustive switch over Kind, so adding a kind is a
// compile-time change, not a runtime registration.
type Kind int

const (
	KindUnknown Kind = iota
	KindReportType
	KindModifier
	KindStation
	KindTime
	KindValidPeriod
	KindWind
	KindWindVariation
	KindCAVOK
	KindRunwayState
	KindRVR
	KindVisibility
	KindPhenomena
	KindSky
	KindTemperature
	KindTafTemperature
	KindAltimeter
	KindQNH
	KindWindShear
	KindTrend
	KindTrendTime
	KindChangeFrom
	KindProb
	KindColorCode
	KindRemarkStart
	KindMaintenance
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindReportType:     "report_type",
	KindModifier:       "modifier",
	KindStation:        "station",
	KindTime:           "time",
	KindValidPeriod:    "valid_period",
	KindWind:           "wind",
	KindWindVariation:  "wind_variation",
	KindCAVOK:          "cavok",
	KindRunwayState:    "runway_state",
	KindRVR:            "rvr",
	KindVisibility:     "visibility",
	KindPhenomena:      "phenomenon",
	KindSky:            "sky",
	KindTemperature:    "temperature",
	KindTafTemperature: "taf_temperature",
	KindAltimeter:      "altimeter",
	KindQNH:            "qnh",
	KindWindShear:      "wind_shear",
	KindTrend:          "trend",
	KindTrendTime:      "trend_time",
	KindChangeFrom:     "change_from",
	KindProb:           "probability",
	KindColorCode:      "color_code",
	KindRemarkStart:    "remark_start",
	KindMaintenance:    "maintenance",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

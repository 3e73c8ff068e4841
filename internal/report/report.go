// Package report defines the decoded forms of METAR and TAF reports and
// the decode error taxonomy shared by every surface of the decoder.
package report

// Report type keywords as they appear on the wire.
const (
	TypeMetar = "METAR"
	TypeSpeci = "SPECI"
	TypeTaf   = "TAF"
)

// Report is a decoded aviation weather report: either *Metar or *Taf.
type Report interface {
	// Kind returns METAR, SPECI or TAF.
	Kind() string
	// StationID returns the reporting station's ICAO identifier.
	StationID() string
}

// Metar is a decoded surface observation (METAR or SPECI).
//
// Optional groups that were absent from the body are nil/empty; a group
// that was present but malformed is also absent and leaves a Warning.
type Metar struct {
	Raw     string    `json:"raw"`
	Type    string    `json:"type"` // METAR or SPECI
	Station string    `json:"station"`
	Time    ClockTime `json:"time"`

	Auto        bool `json:"auto,omitempty"`
	Corrected   bool `json:"corrected,omitempty"`
	Nil         bool `json:"nil,omitempty"`
	Maintenance bool `json:"maintenance,omitempty"` // trailing $ flag

	Wind               *Wind               `json:"wind,omitempty"`
	Visibility         *Visibility         `json:"visibility,omitempty"`
	RunwayVisualRanges []RunwayVisualRange `json:"runway_visual_ranges,omitempty"`
	RunwayStates       []RunwayState       `json:"runway_states,omitempty"`
	Weather            []WeatherPhenomenon `json:"weather,omitempty"`
	Sky                []SkyLayer          `json:"sky,omitempty"`
	Temperature        *Temperature        `json:"temperature,omitempty"`
	Altimeter          *Altimeter          `json:"altimeter,omitempty"`
	WindShear          []WindShear         `json:"wind_shear,omitempty"`
	Trends             []Trend             `json:"trends,omitempty"`
	ColorCodes         []ColorCode         `json:"color_codes,omitempty"`

	RemarksRaw string        `json:"remarks_raw,omitempty"`
	Remarks    []RemarkEntry `json:"remarks,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}

func (m *Metar) Kind() string      { return m.Type }
func (m *Metar) StationID() string { return m.Station }

// Taf is a decoded terminal aerodrome forecast.
type Taf struct {
	Raw     string `json:"raw"`
	Station string `json:"station"`

	Amended   bool `json:"amended,omitempty"`
	Corrected bool `json:"corrected,omitempty"`
	Nil       bool `json:"nil,omitempty"`

	IssueTime ClockTime `json:"issue_time"`
	Valid     Period    `json:"valid"`

	// Periods holds the INITIAL period followed by change groups in body
	// order, windows sorted by start time.
	Periods []ForecastPeriod `json:"periods"`

	RemarksRaw string        `json:"remarks_raw,omitempty"`
	Remarks    []RemarkEntry `json:"remarks,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}

func (t *Taf) Kind() string      { return TypeTaf }
func (t *Taf) StationID() string { return t.Station }

// WarningsOf returns the warnings attached to either report variant.
func WarningsOf(r Report) []Warning {
	switch v := r.(type) {
	case *Metar:
		return v.Warnings
	case *Taf:
		return v.Warnings
	}
	return nil
}

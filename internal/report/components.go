package report

// Wind speed units as they appear on the wire.
const (
	UnitKnots = "KT"
	UnitMPS   = "MPS"
	UnitKMH   = "KMH"
)

// Distance units.
const (
	UnitMeters       = "M"
	UnitFeet         = "FT"
	UnitStatuteMiles = "SM"
	UnitKilometers   = "KM"
)

// Pressure units.
const (
	UnitInHg = "inHg"
	UnitHPa  = "hPa"
)

// Wind is a decoded wind group (28008G15KT, VRB03KT, P49MPS).
type Wind struct {
	// Direction is degrees true; meaningless when Variable is set.
	Direction int  `json:"direction"`
	Variable  bool `json:"variable,omitempty"` // VRB
	Speed     int  `json:"speed"`
	Gust      *int `json:"gust,omitempty"`

	// Above marks a speed beyond instrument range (P or ABV prefix).
	Above bool   `json:"above,omitempty"`
	Unit  string `json:"unit"`

	// VariableFrom/VariableTo come from a dddVddd group following the
	// wind group.
	VariableFrom *int `json:"variable_from,omitempty"`
	VariableTo   *int `json:"variable_to,omitempty"`
}

// DirectionalVisibility is a second, direction-qualified visibility value
// (1200NW after the prevailing group).
type DirectionalVisibility struct {
	Value     int    `json:"value"`
	Direction string `json:"direction"`
}

// Visibility is a decoded prevailing visibility group.
type Visibility struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"` // M, SM or KM

	CAVOK       bool `json:"cavok,omitempty"`
	GreaterThan bool `json:"greater_than,omitempty"` // P prefix, or 9999 meters
	LessThan    bool `json:"less_than,omitempty"`    // M prefix
	NDV         bool `json:"ndv,omitempty"`          // no directional variation sensor

	Direction string                 `json:"direction,omitempty"`
	Minimum   *DirectionalVisibility `json:"minimum,omitempty"`
}

// RVR trend qualifiers, decoded from the U/D/N suffix.
const (
	RVRImproving     = "improving"
	RVRDeteriorating = "deteriorating"
	RVRNoChange      = "no change"
)

// RunwayVisualRange is a decoded R..../.... group.
type RunwayVisualRange struct {
	Runway string `json:"runway"`
	Value  int    `json:"value"`
	Unit   string `json:"unit"` // M unless the FT suffix is present

	GreaterThan bool `json:"greater_than,omitempty"` // P prefix
	LessThan    bool `json:"less_than,omitempty"`    // M prefix

	// High bounds a variable range (VxxxX form).
	High            *int `json:"high,omitempty"`
	HighGreaterThan bool `json:"high_greater_than,omitempty"`
	HighLessThan    bool `json:"high_less_than,omitempty"`

	Trend string `json:"trend,omitempty"`
}

// RunwayState is a decoded MOTNE runway state group (R23/490156). Field
// values are the decoded descriptions, not the raw digits.
type RunwayState struct {
	Runway  string `json:"runway"`
	Deposit string `json:"deposit"`
	Extent  string `json:"extent"`
	Depth   string `json:"depth"`
	Braking string `json:"braking"`
	Raw     string `json:"raw"`
}

// Weather intensity codes. Empty intensity means moderate.
const (
	IntensityLight    = "-"
	IntensityHeavy    = "+"
	IntensityVicinity = "VC"
	IntensityRecent   = "RE"
)

// WeatherPhenomenon is one decoded present-weather group (-SHRA, +TSRAGR,
// VCFG). Descriptor and phenomenon codes keep their wire form and order.
type WeatherPhenomenon struct {
	Intensity   string   `json:"intensity,omitempty"`
	Descriptors []string `json:"descriptors,omitempty"`
	Phenomena   []string `json:"phenomena,omitempty"`
	Raw         string   `json:"raw"`
}

// Sky coverage codes.
const (
	CoverageClear              = "SKC"
	CoverageClearAuto          = "CLR"
	CoverageNoSignificant      = "NSC"
	CoverageNoneDetected       = "NCD"
	CoverageFew                = "FEW"
	CoverageScattered          = "SCT"
	CoverageBroken             = "BKN"
	CoverageOvercast           = "OVC"
	CoverageVerticalVisibility = "VV"
)

// SkyLayer is one decoded cloud layer. Height is feet above ground and is
// nil for clear-sky codes and for the unmeasurable /// form.
type SkyLayer struct {
	Coverage      string `json:"coverage"`
	Height        *int   `json:"height,omitempty"`
	UnknownHeight bool   `json:"unknown_height,omitempty"` // ///
	Convective    string `json:"convective,omitempty"`     // CB or TCU
	UnknownType   bool   `json:"unknown_type,omitempty"`   // trailing ///
}

// Temperature is a decoded temperature/dewpoint group (22/18, M05/M12,
// 17/ with the dewpoint omitted).
type Temperature struct {
	Celsius  int  `json:"celsius"`
	Dewpoint *int `json:"dewpoint,omitempty"`
}

// Altimeter is a decoded pressure-setting group. The A prefix carries
// hundredths of inHg, the Q prefix whole hPa.
type Altimeter struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Wind shear scopes.
const (
	ShearRunway     = "runway"
	ShearAllRunways = "all_runways"
	ShearTakeoff    = "takeoff"
	ShearLanding    = "landing"
)

// WindShear is a decoded WS group (WS RWY 24, WS ALL RWY, WS TKOF RWY 20).
type WindShear struct {
	Scope  string `json:"scope"`
	Runway string `json:"runway,omitempty"`
	Raw    string `json:"raw"`
}

// Trend kinds appended to a METAR.
const (
	TrendNoSignificant = "NOSIG"
	TrendBecoming      = "BECMG"
	TrendTemporary     = "TEMPO"
)

// Trend is a decoded METAR trend clause: NOSIG, or BECMG/TEMPO with
// optional FM/TL/AT times and abbreviated condition components.
type Trend struct {
	Kind string `json:"kind"`

	From  *HourMinute `json:"from,omitempty"`
	Until *HourMinute `json:"until,omitempty"`
	At    *HourMinute `json:"at,omitempty"`

	Wind       *Wind               `json:"wind,omitempty"`
	Visibility *Visibility         `json:"visibility,omitempty"`
	CAVOK      bool                `json:"cavok,omitempty"`
	Weather    []WeatherPhenomenon `json:"weather,omitempty"`
	Sky        []SkyLayer          `json:"sky,omitempty"`

	Raw string `json:"raw"`
}

// ColorCode is a decoded military airfield color state (BLU, GRN, RED...).
type ColorCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Forecast period kinds.
const (
	PeriodInitial  = "INITIAL"
	PeriodFrom     = "FM"
	PeriodBecoming = "BECMG"
	PeriodTempo    = "TEMPO"
	PeriodProb     = "PROB"
)

// TemperatureExtreme is a TAF TX/TN forecast (TX12/1218Z).
type TemperatureExtreme struct {
	// Kind is "TX" (maximum) or "TN" (minimum).
	Kind    string  `json:"kind"`
	Celsius int     `json:"celsius"`
	At      DayHour `json:"at"`
}

// ForecastPeriod is one TAF validity window and the conditions forecast
// for it. Non-FM change groups inherit components they do not restate
// from the nearest preceding period; FM periods restate from scratch.
type ForecastPeriod struct {
	Kind        string `json:"kind"`
	Probability *int   `json:"probability,omitempty"` // PROBnn
	Tempo       bool   `json:"tempo,omitempty"`       // PROBnn TEMPO fused group

	From ClockTime `json:"from"`
	To   DayHour   `json:"to"`

	Wind         *Wind                `json:"wind,omitempty"`
	Visibility   *Visibility          `json:"visibility,omitempty"`
	CAVOK        bool                 `json:"cavok,omitempty"`
	Weather      []WeatherPhenomenon  `json:"weather,omitempty"`
	Sky          []SkyLayer           `json:"sky,omitempty"`
	QNH          *Altimeter           `json:"qnh,omitempty"`
	Temperatures []TemperatureExtreme `json:"temperatures,omitempty"`

	// Flagged marks a window kept best-effort after a PeriodOrderingError.
	Flagged bool `json:"flagged,omitempty"`
}

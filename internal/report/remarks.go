package report

// RemarkKind tags a recognized remark group. Unrecognized tokens keep the
// RemarkText kind with the raw token preserved.
type RemarkKind string

const (
	RemarkStationType      RemarkKind = "station_type"
	RemarkSeaLevelPressure RemarkKind = "sea_level_pressure"
	RemarkPressureTendency RemarkKind = "pressure_tendency"
	RemarkPreciseTemp      RemarkKind = "temperature_tenths"
	RemarkTempExtreme24h   RemarkKind = "temperature_extremes_24h"
	RemarkTempMax6h        RemarkKind = "temperature_max_6h"
	RemarkTempMin6h        RemarkKind = "temperature_min_6h"
	RemarkPrecip6h         RemarkKind = "precipitation_6h"
	RemarkPrecipAmount     RemarkKind = "precipitation_amount"
	RemarkVariableVis      RemarkKind = "variable_visibility"
	RemarkSurfaceVis       RemarkKind = "surface_visibility"
	RemarkTowerVis         RemarkKind = "tower_visibility"
	RemarkPastWeather      RemarkKind = "past_weather"
	RemarkLightning        RemarkKind = "lightning"
	RemarkVirga            RemarkKind = "virga"
	RemarkThunderstorm     RemarkKind = "thunderstorm_location"
	RemarkLenticular       RemarkKind = "lenticular_cloud"
	RemarkCloudTypes       RemarkKind = "cloud_types"
	RemarkCeiling          RemarkKind = "ceiling"
	RemarkVariableCeiling  RemarkKind = "variable_ceiling"
	RemarkObscuration      RemarkKind = "obscuration"
	RemarkDensityAltitude  RemarkKind = "density_altitude"
	RemarkRunwayState      RemarkKind = "runway_state"
	RemarkPeakWind         RemarkKind = "peak_wind"
	RemarkWindShift        RemarkKind = "wind_shift"
	RemarkRunwayWind       RemarkKind = "runway_wind"
	RemarkQFE              RemarkKind = "qfe"
	RemarkAltimeter        RemarkKind = "altimeter"
	RemarkPressureChange   RemarkKind = "pressure_change"
	RemarkWindShear        RemarkKind = "wind_shear"
	RemarkFrontalPassage   RemarkKind = "frontal_passage"
	RemarkNoSLP            RemarkKind = "slp_missing"
	RemarkNoRVR            RemarkKind = "rvr_missing"
	RemarkSensorStatus     RemarkKind = "sensor_status"
	RemarkMaintenance      RemarkKind = "maintenance"
	RemarkNextForecast     RemarkKind = "next_forecast"
	RemarkConfidence       RemarkKind = "forecast_confidence"
	RemarkAmendment        RemarkKind = "amendment"
	RemarkCorrection       RemarkKind = "correction"
	RemarkText             RemarkKind = "text"
)

// PeakWind is the decoded payload of a PK WND remark.
type PeakWind struct {
	Direction int        `json:"direction"`
	Speed     int        `json:"speed"`
	Time      HourMinute `json:"time"`
}

// RemarkEntry is one decoded remark group. Description carries the decoded
// reading for recognized kinds and stays empty for free text; the typed
// payload fields are populated for the kinds with numeric values worth
// machine use.
type RemarkEntry struct {
	Kind        RemarkKind `json:"kind"`
	Raw         string     `json:"raw"`
	Description string     `json:"description,omitempty"`

	PressureHPa     *float64  `json:"pressure_hpa,omitempty"`
	TemperatureC    *float64  `json:"temperature_c,omitempty"`
	DewpointC       *float64  `json:"dewpoint_c,omitempty"`
	PrecipitationIn *float64  `json:"precipitation_in,omitempty"`
	Wind            *Wind     `json:"wind,omitempty"`
	PeakWind        *PeakWind `json:"peak_wind,omitempty"`
}

package grammar

// atoms are the shared sub-patterns rule definitions reference as {NAME}.
// Kept small and composable so each rule documents its token shape instead
// of repeating regex fragments.
var atoms = map[string]string{
	// Station identifier: ICAO location indicator, letter then three
	// alphanumerics (K1G5-style US identifiers included).
	"ICAO": `[A-Z][A-Z0-9]{3}`,

	// Runway designator: two digits with optional left/center/right.
	"RUNWAY": `\d{2}[LCR]?`,

	// Wind groups.
	"WIND_DIR": `\d{3}|VRB`,
	"WIND_SPD": `\d{2,3}`,
	"WIND_UNIT": `KT|MPS|KMH`,

	// Compass points, longest first so NE wins over N.
	"COMPASS": `NE|NW|SE|SW|N|E|S|W`,

	// Cloud cover codes. /// is an automated station's "not measured".
	"COVER": `SKC|CLR|NSC|NCD|FEW|SCT|BKN|OVC|VV|///`,

	// Present-weather vocabulary (WMO 4678).
	"WX_INTENSITY":  `[-+]|VC|RE`,
	"WX_DESCRIPTOR": `MI|PR|BC|DR|BL|SH|TS|FZ`,
	"WX_PHENOMENON": `DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS`,

	// Military airfield color states.
	"COLOR": `BLU|WHT|GRN|YLO|AMB|RED`,
}

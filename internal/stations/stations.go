// Package stations resolves ICAO location indicators against the
// region/country prefix allocation. The catalog answers the API's station
// lookup endpoint and gives the CLI a validation hint; it never gates a
// decode, since new identifiers appear faster than any table tracks them.
package stations

import (
	"regexp"
	"strings"
)

// Info is the catalog record for one station identifier.
type Info struct {
	ICAO    string `json:"icao"`
	Prefix  string `json:"prefix"`
	Region  string `json:"region"`
	Country string `json:"country,omitempty"`
}

type entry struct {
	region  string
	country string
}

// Two-letter country allocations. Consulted before the one-letter region
// table so ZKPY resolves to North Korea, not China.
var countries = map[string]entry{
	"AG": {"Western South Pacific", "Solomon Islands"},
	"AN": {"Western South Pacific", "Nauru"},
	"AY": {"Western South Pacific", "Papua New Guinea"},

	"BG": {"North Atlantic", "Greenland"},
	"BI": {"North Atlantic", "Iceland"},

	"DA": {"West Africa", "Algeria"},
	"DN": {"West Africa", "Nigeria"},
	"DT": {"West Africa", "Tunisia"},

	"EB": {"Northern Europe", "Belgium"},
	"ED": {"Northern Europe", "Germany"},
	"EE": {"Northern Europe", "Estonia"},
	"EF": {"Northern Europe", "Finland"},
	"EG": {"Northern Europe", "United Kingdom"},
	"EH": {"Northern Europe", "Netherlands"},
	"EI": {"Northern Europe", "Ireland"},
	"EK": {"Northern Europe", "Denmark"},
	"EN": {"Northern Europe", "Norway"},
	"EP": {"Northern Europe", "Poland"},
	"ES": {"Northern Europe", "Sweden"},
	"ET": {"Northern Europe", "Germany"},
	"EV": {"Northern Europe", "Latvia"},
	"EY": {"Northern Europe", "Lithuania"},

	"FA": {"Southern Africa", "South Africa"},
	"FI": {"Southern Africa", "Mauritius"},
	"FQ": {"Southern Africa", "Mozambique"},
	"FV": {"Southern Africa", "Zimbabwe"},

	"GC": {"Northwest Africa", "Canary Islands"},
	"GM": {"Northwest Africa", "Morocco"},

	"HA": {"East Africa", "Ethiopia"},
	"HE": {"East Africa", "Egypt"},
	"HK": {"East Africa", "Kenya"},
	"HT": {"East Africa", "Tanzania"},

	"LE": {"Southern Europe", "Spain"},
	"LF": {"Southern Europe", "France"},
	"LG": {"Southern Europe", "Greece"},
	"LH": {"Southern Europe", "Hungary"},
	"LI": {"Southern Europe", "Italy"},
	"LK": {"Southern Europe", "Czechia"},
	"LL": {"Southern Europe", "Israel"},
	"LO": {"Southern Europe", "Austria"},
	"LP": {"Southern Europe", "Portugal"},
	"LR": {"Southern Europe", "Romania"},
	"LS": {"Southern Europe", "Switzerland"},
	"LT": {"Southern Europe", "Turkey"},
	"LZ": {"Southern Europe", "Slovakia"},

	"MM": {"Central America", "Mexico"},
	"MR": {"Central America", "Costa Rica"},
	"MU": {"Central America", "Cuba"},

	"NF": {"South Pacific", "Fiji"},
	"NZ": {"South Pacific", "New Zealand"},

	"OB": {"Middle East", "Bahrain"},
	"OE": {"Middle East", "Saudi Arabia"},
	"OI": {"Middle East", "Iran"},
	"OJ": {"Middle East", "Jordan"},
	"OK": {"Middle East", "Kuwait"},
	"OL": {"Middle East", "Lebanon"},
	"OM": {"Middle East", "United Arab Emirates"},
	"OO": {"Middle East", "Oman"},
	"OP": {"Middle East", "Pakistan"},
	"OT": {"Middle East", "Qatar"},

	"PA": {"North Pacific", "United States"},
	"PG": {"North Pacific", "United States"},
	"PH": {"North Pacific", "United States"},

	"RC": {"Western North Pacific", "Taiwan"},
	"RJ": {"Western North Pacific", "Japan"},
	"RK": {"Western North Pacific", "South Korea"},
	"RO": {"Western North Pacific", "Japan"},
	"RP": {"Western North Pacific", "Philippines"},

	"SA": {"South America", "Argentina"},
	"SB": {"South America", "Brazil"},
	"SC": {"South America", "Chile"},
	"SE": {"South America", "Ecuador"},
	"SK": {"South America", "Colombia"},
	"SL": {"South America", "Bolivia"},
	"SP": {"South America", "Peru"},
	"SU": {"South America", "Uruguay"},
	"SV": {"South America", "Venezuela"},

	"TJ": {"Eastern Caribbean", "Puerto Rico"},

	"UB": {"Eastern Europe and Central Asia", "Azerbaijan"},
	"UG": {"Eastern Europe and Central Asia", "Georgia"},
	"UK": {"Eastern Europe and Central Asia", "Ukraine"},
	"UM": {"Eastern Europe and Central Asia", "Belarus"},
	"UT": {"Eastern Europe and Central Asia", "Uzbekistan"},

	"VA": {"South Asia", "India"},
	"VC": {"South Asia", "Sri Lanka"},
	"VD": {"Southeast Asia", "Cambodia"},
	"VE": {"South Asia", "India"},
	"VG": {"South Asia", "Bangladesh"},
	"VH": {"Southeast Asia", "Hong Kong"},
	"VI": {"South Asia", "India"},
	"VM": {"Southeast Asia", "Macau"},
	"VN": {"South Asia", "Nepal"},
	"VO": {"South Asia", "India"},
	"VT": {"Southeast Asia", "Thailand"},
	"VV": {"Southeast Asia", "Vietnam"},
	"VY": {"Southeast Asia", "Myanmar"},

	"WA": {"Maritime Southeast Asia", "Indonesia"},
	"WB": {"Maritime Southeast Asia", "Malaysia"},
	"WI": {"Maritime Southeast Asia", "Indonesia"},
	"WM": {"Maritime Southeast Asia", "Malaysia"},
	"WS": {"Maritime Southeast Asia", "Singapore"},

	"ZK": {"East Asia", "North Korea"},
	"ZM": {"East Asia", "Mongolia"},
}

// One-letter region allocations, the fallback when no country prefix
// matches. A few regions are a single country.
var regions = map[string]entry{
	"A": {"Western South Pacific", ""},
	"B": {"North Atlantic", ""},
	"C": {"North America", "Canada"},
	"D": {"West Africa", ""},
	"E": {"Northern Europe", ""},
	"F": {"Central and Southern Africa", ""},
	"G": {"Northwest Africa", ""},
	"H": {"East and Northeast Africa", ""},
	"K": {"North America", "United States"},
	"L": {"Southern Europe", ""},
	"M": {"Central America", ""},
	"N": {"South Pacific", ""},
	"O": {"Middle East", ""},
	"P": {"North Pacific", ""},
	"R": {"Western North Pacific", ""},
	"S": {"South America", ""},
	"T": {"Eastern Caribbean", ""},
	"U": {"Eastern Europe and Central Asia", "Russia"},
	"V": {"South and Southeast Asia", ""},
	"W": {"Maritime Southeast Asia", ""},
	"Y": {"Oceania", "Australia"},
	"Z": {"East Asia", "China"},
}

// identifierShape mirrors the grammar's station atom: a letter followed
// by three alphanumerics (K1G5-style US identifiers included).
var identifierShape = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)

// Valid reports whether icao has the four-character identifier shape.
func Valid(icao string) bool {
	return identifierShape.MatchString(strings.ToUpper(strings.TrimSpace(icao)))
}

// Lookup resolves an identifier against the catalog, longest prefix
// first. ok is false for malformed identifiers and unallocated prefixes.
func Lookup(icao string) (Info, bool) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	if !identifierShape.MatchString(icao) {
		return Info{}, false
	}
	if e, ok := countries[icao[:2]]; ok {
		return Info{ICAO: icao, Prefix: icao[:2], Region: e.region, Country: e.country}, true
	}
	if e, ok := regions[icao[:1]]; ok {
		return Info{ICAO: icao, Prefix: icao[:1], Region: e.region, Country: e.country}, true
	}
	return Info{}, false
}

package model

// State describes one US state for map rendering and validation.
type State struct {
	Code string // USPS two-letter code
	FIPS string // two-digit FIPS code, zero-padded
	Name string
	// Centroid in WGS84, used for map labels and distance fallbacks.
	Lat float64
	Lon float64
}

// States lists the 50 states plus DC, ordered by USPS code.
var States = []State{
	{"AK", "02", "Alaska", 64.73, -152.47},
	{"AL", "01", "Alabama", 32.78, -86.83},
	{"AR", "05", "Arkansas", 34.90, -92.44},
	{"AZ", "04", "Arizona", 34.27, -111.66},
	{"CA", "06", "California", 37.18, -119.47},
	{"CO", "08", "Colorado", 38.99, -105.55},
	{"CT", "09", "Connecticut", 41.62, -72.73},
	{"DC", "11", "District of Columbia", 38.91, -77.01},
	{"DE", "10", "Delaware", 38.99, -75.51},
	{"FL", "12", "Florida", 28.63, -82.45},
	{"GA", "13", "Georgia", 32.64, -83.44},
	{"HI", "15", "Hawaii", 20.29, -156.37},
	{"IA", "19", "Iowa", 42.08, -93.50},
	{"ID", "16", "Idaho", 44.35, -114.61},
	{"IL", "17", "Illinois", 40.04, -89.20},
	{"IN", "18", "Indiana", 39.89, -86.28},
	{"KS", "20", "Kansas", 38.49, -98.38},
	{"KY", "21", "Kentucky", 37.53, -85.30},
	{"LA", "22", "Louisiana", 31.07, -91.99},
	{"MA", "25", "Massachusetts", 42.26, -71.81},
	{"MD", "24", "Maryland", 39.06, -76.80},
	{"ME", "23", "Maine", 45.37, -69.24},
	{"MI", "26", "Michigan", 44.35, -85.41},
	{"MN", "27", "Minnesota", 46.28, -94.31},
	{"MO", "29", "Missouri", 38.35, -92.46},
	{"MS", "28", "Mississippi", 32.74, -89.67},
	{"MT", "30", "Montana", 47.05, -109.63},
	{"NC", "37", "North Carolina", 35.56, -79.39},
	{"ND", "38", "North Dakota", 47.45, -100.47},
	{"NE", "31", "Nebraska", 41.54, -99.80},
	{"NH", "33", "New Hampshire", 43.68, -71.58},
	{"NJ", "34", "New Jersey", 40.19, -74.67},
	{"NM", "35", "New Mexico", 34.41, -106.11},
	{"NV", "32", "Nevada", 39.33, -116.63},
	{"NY", "36", "New York", 42.95, -75.53},
	{"OH", "39", "Ohio", 40.29, -82.79},
	{"OK", "40", "Oklahoma", 35.58, -97.50},
	{"OR", "41", "Oregon", 43.93, -120.56},
	{"PA", "42", "Pennsylvania", 40.88, -77.80},
	{"RI", "44", "Rhode Island", 41.68, -71.56},
	{"SC", "45", "South Carolina", 33.92, -80.90},
	{"SD", "46", "South Dakota", 44.44, -100.23},
	{"TN", "47", "Tennessee", 35.86, -86.35},
	{"TX", "48", "Texas", 31.48, -99.33},
	{"UT", "49", "Utah", 39.31, -111.67},
	{"VA", "51", "Virginia", 37.52, -78.85},
	{"VT", "50", "Vermont", 44.07, -72.67},
	{"WA", "53", "Washington", 47.38, -120.45},
	{"WI", "55", "Wisconsin", 44.62, -89.99},
	{"WV", "54", "West Virginia", 38.64, -80.62},
	{"WY", "56", "Wyoming", 42.99, -107.55},
}

var (
	statesByCode = make(map[string]State, len(States))
	statesByFIPS = make(map[string]State, len(States))
)

func init() {
	for _, s := range States {
		statesByCode[s.Code] = s
		statesByFIPS[s.FIPS] = s
	}
}

// StateByCode looks up a state by its USPS code.
func StateByCode(code string) (State, bool) {
	s, ok := statesByCode[code]
	return s, ok
}

// StateByFIPS looks up a state by its two-digit FIPS code.
func StateByFIPS(fips string) (State, bool) {
	s, ok := statesByFIPS[fips]
	return s, ok
}

// ValidState reports whether code is a known USPS state code.
func ValidState(code string) bool {
	_, ok := statesByCode[code]
	return ok
}

package model

const GeoSourceIPInfo = "ipinfo"

// GeoState holds auto-detected coordinates. Lat and Lng are both set or both
// nil; Source is only non-empty when they are set.
type GeoState struct {
	Lat    *float64
	Lng    *float64
	Source string
}

func NewGeoState(lat float64, lng float64, source string) GeoState {
	return GeoState{Lat: &lat, Lng: &lng, Source: source}
}

func (g GeoState) Valid() bool {
	return g.Lat != nil && g.Lng != nil
}

type IPInfo struct {
	Ip      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
}

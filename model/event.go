package model

type SearchResponse struct {
	Embedded struct {
		Events []Event `json:"events"`
	} `json:"_embedded"`
}

type Event struct {
	Id              string           `json:"id"`
	Name            string           `json:"name"`
	Url             string           `json:"url"`
	Dates           EventDates       `json:"dates"`
	Images          []Image          `json:"images"`
	Classifications []Classification `json:"classifications"`
	PriceRanges     []PriceRange     `json:"priceRanges"`
	Seatmap         struct {
		StaticUrl string `json:"staticUrl"`
	} `json:"seatmap"`
	Embedded struct {
		Venues      []Venue      `json:"venues"`
		Attractions []Attraction `json:"attractions"`
	} `json:"_embedded"`
}

type EventDates struct {
	Start struct {
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	} `json:"start"`
	Status struct {
		Code string `json:"code"`
	} `json:"status"`
}

type Image struct {
	Url    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ratio  string `json:"ratio"`
}

type Classification struct {
	Segment  NamedRef `json:"segment"`
	Genre    NamedRef `json:"genre"`
	SubGenre NamedRef `json:"subGenre"`
	Type     NamedRef `json:"type"`
	SubType  NamedRef `json:"subType"`
}

type NamedRef struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// PriceRange bounds are pointers because either side may be missing upstream.
type PriceRange struct {
	Type     string   `json:"type"`
	Currency string   `json:"currency"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}

type Attraction struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Url  string `json:"url"`
}

package model

type VenueResponse struct {
	Embedded struct {
		Venues []Venue `json:"venues"`
	} `json:"_embedded"`
}

type Venue struct {
	Id         string  `json:"id"`
	Name       string  `json:"name"`
	Url        string  `json:"url"`
	PostalCode string  `json:"postalCode"`
	Images     []Image `json:"images"`
	Address    struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state"`
}

package viewmodel

import (
	"net/url"
	"strings"

	"event-finder-cli/model"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

type Venue struct {
	Name         string
	AddressLines []string
	LogoURL      string
	MoreURL      string
	MapURL       string
}

func NewVenue(venue model.Venue) Venue {
	name := venue.Name
	if name == "" {
		name = NotAvailable
	}
	line1 := venue.Address.Line1
	city := venue.City.Name
	stateCode := venue.State.StateCode
	postal := venue.PostalCode

	return Venue{
		Name:         name,
		AddressLines: nonEmpty(line1, joinNonEmpty(", ", city, stateCode), postal),
		LogoURL:      LargestImage(venue.Images),
		MoreURL:      venue.Url,
		MapURL:       MapURL(venue.Name, line1, city, stateCode, postal),
	}
}

// MapURL builds a maps search link from the non-empty parts. The link exists
// even when every part is empty.
func MapURL(parts ...string) string {
	query := joinNonEmpty(", ", parts...)
	return mapsSearchURL + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts...), sep)
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

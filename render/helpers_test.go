package render

import "event-finder-cli/model"

func modelVenueWithURL() model.Venue {
	var venue model.Venue
	venue.Name = "Hall"
	venue.Url = "https://venue.example/hall"
	return venue
}

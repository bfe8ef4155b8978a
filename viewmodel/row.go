// Package viewmodel derives display values from raw event and venue records.
// Every function here is pure; raw records are only read.
package viewmodel

import (
	"strings"

	"event-finder-cli/model"
)

const NotAvailable = "N/A"

// Row is one results-table line. Identity is ID.
type Row struct {
	ID        string
	Date      string
	ImageURL  string
	Name      string
	Genre     string
	VenueName string
}

// Rows maps the embedded event list of a search payload. A nil result means
// the payload carried no events.
func Rows(resp model.SearchResponse) []Row {
	events := resp.Embedded.Events
	if len(events) == 0 {
		return nil
	}
	rows := make([]Row, 0, len(events))
	for _, event := range events {
		rows = append(rows, NewRow(event))
	}
	return rows
}

func NewRow(event model.Event) Row {
	name := event.Name
	if name == "" {
		name = NotAvailable
	}
	return Row{
		ID:        event.Id,
		Date:      EventDate(event),
		ImageURL:  SmallestImage(event.Images),
		Name:      name,
		Genre:     Genre(event),
		VenueName: VenueName(event),
	}
}

// EventDate joins the local start date and time; either may be missing.
func EventDate(event model.Event) string {
	start := event.Dates.Start
	return strings.TrimSpace(start.LocalDate + " " + start.LocalTime)
}

// Genre joins the first classification's names in the order subGenre, genre,
// segment, subType, type, skipping blanks and exact repeats.
func Genre(event model.Event) string {
	if len(event.Classifications) == 0 {
		return NotAvailable
	}
	c := event.Classifications[0]
	candidates := []string{
		c.SubGenre.Name,
		c.Genre.Name,
		c.Segment.Name,
		c.SubType.Name,
		c.Type.Name,
	}

	seen := make(map[string]bool, len(candidates))
	parts := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return NotAvailable
	}
	return strings.Join(parts, " | ")
}

func VenueName(event model.Event) string {
	venues := event.Embedded.Venues
	if len(venues) == 0 || venues[0].Name == "" {
		return NotAvailable
	}
	return venues[0].Name
}

// SmallestImage returns the URL of the narrowest image. The first of equally
// narrow images wins.
func SmallestImage(images []model.Image) string {
	if len(images) == 0 {
		return ""
	}
	best := images[0]
	for _, image := range images[1:] {
		if image.Width < best.Width {
			best = image
		}
	}
	return best.Url
}

// LargestImage returns the URL of the widest image. The first of equally wide
// images wins.
func LargestImage(images []model.Image) string {
	if len(images) == 0 {
		return ""
	}
	best := images[0]
	for _, image := range images[1:] {
		if image.Width > best.Width {
			best = image
		}
	}
	return best.Url
}

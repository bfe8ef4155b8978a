package viewmodel

import (
	"math"
	"strconv"
	"strings"

	"event-finder-cli/model"
)

type Artist struct {
	Name string
	URL  string
}

type StatusBadge struct {
	Class string
	Label string
}

const DefaultStatusClass = "status-default"

var statusBadges = map[string]StatusBadge{
	"onsale":      {Class: "status-onsale", Label: "On Sale"},
	"offsale":     {Class: "status-offsale", Label: "Off Sale"},
	"canceled":    {Class: "status-canceled", Label: "Canceled"},
	"postponed":   {Class: "status-postponed", Label: "Postponed"},
	"rescheduled": {Class: "status-rescheduled", Label: "Rescheduled"},
}

// Detail is the single-event view. Empty SeatMapURL and BuyURL mean absent;
// HasPrice is false when no usable price range exists.
type Detail struct {
	ID         string
	Title      string
	Date       string
	Artists    []Artist
	VenueName  string
	Genre      string
	HasPrice   bool
	PriceText  string
	Status     StatusBadge
	SeatMapURL string
	BuyURL     string
}

func NewDetail(event model.Event) Detail {
	title := event.Name
	if title == "" {
		title = "Event"
	}
	date := EventDate(event)
	if date == "" {
		date = NotAvailable
	}
	price, hasPrice := PriceText(event.PriceRanges)

	artists := make([]Artist, 0, len(event.Embedded.Attractions))
	for _, attraction := range event.Embedded.Attractions {
		name := attraction.Name
		if name == "" {
			name = "Artist"
		}
		artists = append(artists, Artist{Name: name, URL: attraction.Url})
	}

	return Detail{
		ID:         event.Id,
		Title:      title,
		Date:       date,
		Artists:    artists,
		VenueName:  VenueName(event),
		Genre:      Genre(event),
		HasPrice:   hasPrice,
		PriceText:  price,
		Status:     Status(event.Dates.Status.Code),
		SeatMapURL: event.Seatmap.StaticUrl,
		BuyURL:     event.Url,
	}
}

// ArtistNames joins the attraction names, or N/A when there are none.
func (d Detail) ArtistNames() string {
	if len(d.Artists) == 0 {
		return NotAvailable
	}
	names := make([]string, 0, len(d.Artists))
	for _, artist := range d.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, " | ")
}

// PriceDisplay is the price text, or N/A when absent.
func (d Detail) PriceDisplay() string {
	if !d.HasPrice {
		return NotAvailable
	}
	return d.PriceText
}

// PriceText formats the first price range as "min - max", or the one bound
// that is present.
func PriceText(ranges []model.PriceRange) (string, bool) {
	if len(ranges) == 0 {
		return "", false
	}
	pr := ranges[0]
	minOK := finite(pr.Min)
	maxOK := finite(pr.Max)
	switch {
	case minOK && maxOK:
		return formatAmount(*pr.Min) + " - " + formatAmount(*pr.Max), true
	case minOK:
		return formatAmount(*pr.Min), true
	case maxOK:
		return formatAmount(*pr.Max), true
	default:
		return "", false
	}
}

func finite(value *float64) bool {
	return value != nil && !math.IsNaN(*value) && !math.IsInf(*value, 0)
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Status maps a ticket status code to its badge. Unknown codes keep the raw
// code as label; a missing code is labelled N/A.
func Status(code string) StatusBadge {
	if badge, ok := statusBadges[strings.ToLower(code)]; ok {
		return badge
	}
	label := code
	if label == "" {
		label = NotAvailable
	}
	return StatusBadge{Class: DefaultStatusClass, Label: label}
}

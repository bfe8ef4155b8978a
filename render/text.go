package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"event-finder-cli/viewmodel"
)

const NoRecordsText = "No records found"

// Sanitize strips terminal escape sequences and control characters from
// upstream text before it is written to a terminal.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}

// SortMarker is the direction arrow shown next to the active header.
func SortMarker(state viewmodel.SortState, key viewmodel.SortKey) string {
	if state.Key != key {
		return ""
	}
	if state.Direction == viewmodel.Descending {
		return " ▼"
	}
	return " ▲"
}

// HeaderLabel returns the column title for key with the active marker.
func HeaderLabel(state viewmodel.SortState, key viewmodel.SortKey) string {
	for _, h := range SortHeaders {
		if h.Key == key {
			return h.Label + SortMarker(state, key)
		}
	}
	return string(key)
}

// ResultsText renders the results as a terminal table.
func ResultsText(rows []viewmodel.Row, state viewmodel.SortState) string {
	if len(rows) == 0 {
		return NoRecordsText
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"Date",
		HeaderLabel(state, viewmodel.SortByEvent),
		HeaderLabel(state, viewmodel.SortByGenre),
		HeaderLabel(state, viewmodel.SortByVenue),
		"ID",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 40},
		{Number: 3, WidthMax: 30},
		{Number: 4, WidthMax: 30},
	})
	for _, row := range rows {
		t.AppendRow(table.Row{
			Sanitize(row.Date),
			Sanitize(row.Name),
			Sanitize(row.Genre),
			Sanitize(row.VenueName),
			Sanitize(row.ID),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Options.SeparateRows = true
	return t.Render()
}

func DetailText(detail viewmodel.Detail) string {
	t := table.NewWriter()
	t.SetTitle(Sanitize(detail.Title))
	t.AppendRows([]table.Row{
		{"Date", Sanitize(detail.Date)},
		{"Artist/Team", Sanitize(detail.ArtistNames())},
		{"Venue", Sanitize(detail.VenueName)},
		{"Genres", Sanitize(detail.Genre)},
		{"Price Ranges", Sanitize(detail.PriceDisplay())},
		{"Ticket Status", Sanitize(detail.Status.Label)},
		{"Buy Ticket At", orNA(Sanitize(detail.BuyURL))},
		{"Seat Map", orNA(Sanitize(detail.SeatMapURL))},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 70}})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func VenueText(venue viewmodel.Venue) string {
	t := table.NewWriter()
	t.SetTitle(Sanitize(venue.Name))
	if len(venue.AddressLines) > 0 {
		lines := make([]string, 0, len(venue.AddressLines))
		for _, line := range venue.AddressLines {
			lines = append(lines, Sanitize(line))
		}
		t.AppendRow(table.Row{"Address", strings.Join(lines, "\n")})
	}
	t.AppendRow(table.Row{"Google Maps", venue.MapURL})
	if venue.MoreURL != "" {
		t.AppendRow(table.Row{"More events", Sanitize(venue.MoreURL)})
	}
	if venue.LogoURL != "" {
		t.AppendRow(table.Row{"Logo", Sanitize(venue.LogoURL)})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func orNA(s string) string {
	if s == "" {
		return viewmodel.NotAvailable
	}
	return s
}

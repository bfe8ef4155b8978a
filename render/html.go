// Package render turns view models into output: escaped HTML fragments for
// embedding in pages, and plain terminal text for the CLI.
package render

import (
	"bytes"
	"html/template"

	"event-finder-cli/viewmodel"
)

var htmlTemplates = template.Must(template.New("fragments").Parse(`
{{define "no-records"}}<div class="no-records">No records found</div>{{end}}

{{define "failure"}}<div class="no-records">{{.Prefix}}: {{.Message}}</div>{{end}}

{{define "results"}}<table class="result">
  <thead>
    <tr>
      <th>Date</th>
      <th>Icon</th>
      {{range .Headers}}<th data-sort="{{.Key}}" class="sortable{{if .Direction}} {{.Direction}}{{end}}">{{.Label}}</th>
      {{end}}
    </tr>
  </thead>
  <tbody>
    {{range .Rows}}<tr>
      <td>{{.Date}}</td>
      <td>{{if .ImageURL}}<img src="{{.ImageURL}}" alt="" width="60">{{end}}</td>
      <td><a href="#" data-id="{{.ID}}" class="ev-link">{{.Name}}</a></td>
      <td>{{.Genre}}</td>
      <td>{{.VenueName}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
<div id="detail"></div>{{end}}

{{define "detail"}}<div class="detail-card">
  <h2 class="detail-title">{{.Detail.Title}}</h2>
  <div class="detail-left">
    <div class="field"><div class="label">Date</div><div class="value">{{.Detail.Date}}</div></div>
    <div class="field"><div class="label">Artist/Team</div><div class="value">{{if .Detail.Artists}}{{range $i, $a := .Detail.Artists}}{{if $i}} | {{end}}{{if $a.URL}}<a href="{{$a.URL}}" target="_blank" rel="noopener noreferrer">{{$a.Name}}</a>{{else}}{{$a.Name}}{{end}}{{end}}{{else}}N/A{{end}}</div></div>
    <div class="field"><div class="label">Venue</div><div class="value">{{.Detail.VenueName}}</div></div>
    <div class="field"><div class="label">Genres</div><div class="value">{{.Detail.Genre}}</div></div>
    <div class="field{{if not .Detail.HasPrice}} is-empty{{end}}"><div class="label">Price Ranges</div><div class="value">{{.Detail.PriceDisplay}}</div></div>
    <div class="field"><div class="label">Ticket Status</div><div class="value"><span class="status-badge {{.Detail.Status.Class}}">{{.Detail.Status.Label}}</span></div></div>
    <div class="field"><div class="label">Buy Ticket At</div><div class="value">{{if .Detail.BuyURL}}<a href="{{.Detail.BuyURL}}" target="_blank" rel="noopener noreferrer">Ticketmaster</a>{{else}}N/A{{end}}</div></div>
  </div>
  <div class="detail-right">{{if .Detail.SeatMapURL}}<img src="{{.Detail.SeatMapURL}}" alt="Seat Map" class="seatmap">{{end}}</div>
</div>
{{if .ShowVenueTrigger}}<div class="venue-toggle"><button id="btnVenue" class="venue-toggle-btn" type="button">Show Venue Details</button></div>{{end}}
<div id="venuePanel"{{if not .VenueVisible}} class="hidden"{{end}}></div>{{end}}

{{define "venue"}}<div class="venue-card">
  <div class="venue-inner">
    <h3 class="venue-title">{{.Name}}</h3>
    {{if .LogoURL}}<img class="venue-logo" src="{{.LogoURL}}" alt="{{.Name}} logo">{{end}}
    <div class="venue-grid">
      <div class="venue-left">
        {{if .AddressLines}}<div class="venue-address">
          <span class="k">Address:</span>
          <div class="addr-lines">{{range .AddressLines}}<div>{{.}}</div>{{end}}</div>
        </div>{{end}}
        <a class="venue-link" href="{{.MapURL}}" target="_blank" rel="noopener noreferrer">Open in Google Maps</a>
      </div>
      <div class="venue-divider" aria-hidden="true"></div>
      <div class="venue-right">{{if .MoreURL}}<a class="venue-link" href="{{.MoreURL}}" target="_blank" rel="noopener noreferrer">More events at this venue</a>{{end}}</div>
    </div>
  </div>
</div>{{end}}
`))

type headerView struct {
	Key       viewmodel.SortKey
	Label     string
	Direction viewmodel.SortDirection
}

type SortHeader struct {
	Key   viewmodel.SortKey
	Label string
}

// SortHeaders are the activatable result columns in display order.
var SortHeaders = []SortHeader{
	{Key: viewmodel.SortByEvent, Label: "Event"},
	{Key: viewmodel.SortByGenre, Label: "Genre"},
	{Key: viewmodel.SortByVenue, Label: "Venue"},
}

func execute(name string, data any) string {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		// templates and data types are fixed at compile time
		panic(err)
	}
	return buf.String()
}

func NoRecordsHTML() string {
	return execute("no-records", nil)
}

// FailureHTML renders an inline failure placeholder such as
// "Request failed: <err>".
func FailureHTML(prefix string, err error) string {
	return execute("failure", struct {
		Prefix  string
		Message string
	}{Prefix: prefix, Message: errorText(err)})
}

// ResultsHTML renders the results table, or the no-records placeholder when
// rows is empty. Only the active header carries a direction class.
func ResultsHTML(rows []viewmodel.Row, state viewmodel.SortState) string {
	if len(rows) == 0 {
		return NoRecordsHTML()
	}
	headers := make([]headerView, 0, len(SortHeaders))
	for _, h := range SortHeaders {
		view := headerView{Key: h.Key, Label: h.Label}
		if h.Key == state.Key {
			view.Direction = state.Direction
		}
		headers = append(headers, view)
	}
	return execute("results", struct {
		Headers []headerView
		Rows    []viewmodel.Row
	}{Headers: headers, Rows: rows})
}

// DetailHTML renders an event detail card. showVenueTrigger controls the
// "Show Venue Details" button; venueVisible reveals the venue container.
func DetailHTML(detail viewmodel.Detail, showVenueTrigger bool, venueVisible bool) string {
	return execute("detail", struct {
		Detail           viewmodel.Detail
		ShowVenueTrigger bool
		VenueVisible     bool
	}{Detail: detail, ShowVenueTrigger: showVenueTrigger, VenueVisible: venueVisible})
}

func VenueHTML(venue viewmodel.Venue) string {
	return execute("venue", venue)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

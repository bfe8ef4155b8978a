package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"event-finder-cli/model"
	"event-finder-cli/render"
	"event-finder-cli/viewmodel"
)

type eventMsg struct {
	generation int
	event      model.Event
	err        error
}

// detailPanel shows one event. The venue trigger exists only while the
// current detail has not revealed its venue yet.
type detailPanel struct {
	status           panelStatus
	err              error
	detail           viewmodel.Detail
	showVenueTrigger bool
	generation       int

	venue    venuePanel
	viewport viewport.Model
}

func newDetailPanel() detailPanel {
	return detailPanel{viewport: viewport.New(100, 20)}
}

// open starts loading eventID and discards whatever was shown before.
func (p *detailPanel) open(eventID string) int {
	p.generation++
	p.status = panelLoading
	p.err = nil
	p.detail = viewmodel.Detail{ID: eventID}
	p.showVenueTrigger = false
	p.venue.hide()
	return p.generation
}

// close drops the shown event and any request still in flight for it.
func (p *detailPanel) close() {
	p.generation++
	p.status = panelEmpty
	p.err = nil
	p.detail = viewmodel.Detail{}
	p.showVenueTrigger = false
	p.venue.hide()
	p.viewport.SetContent("")
	p.viewport.GotoTop()
}

func (p *detailPanel) apply(msg eventMsg) bool {
	if msg.generation != p.generation {
		return false
	}
	if msg.err != nil {
		p.status = panelFailed
		p.err = msg.err
		return true
	}
	p.status = panelReady
	p.detail = viewmodel.NewDetail(msg.event)
	p.showVenueTrigger = true
	return true
}

// activateVenue returns the venue lookup key while the trigger is shown and
// no lookup is in flight.
func (p *detailPanel) activateVenue() (string, bool) {
	if p.status != panelReady || !p.showVenueTrigger || p.venue.status == panelLoading {
		return "", false
	}
	return p.detail.VenueName, true
}

// applyVenue records a venue response. The trigger goes away once the venue
// is shown and stays after a failure so the lookup can be retried.
func (p *detailPanel) applyVenue(msg venueMsg) bool {
	if !p.venue.apply(msg) {
		return false
	}
	if p.venue.status == panelReady {
		p.showVenueTrigger = false
	}
	return true
}

func (p *detailPanel) setSize(width int, height int) {
	if width > 0 {
		p.viewport.Width = width
	}
	if height > 3 {
		p.viewport.Height = height
	}
}

// refresh rebuilds the viewport content. When the venue is visible and
// scrollToVenue is set the venue section is brought into view.
func (p *detailPanel) refresh(spin string, scrollToVenue bool) {
	detail := p.detailView(spin)
	content := detail
	if p.venue.visible {
		content += "\n\n" + p.venue.view(spin)
	}
	p.viewport.SetContent(content)
	if scrollToVenue && p.venue.visible {
		p.viewport.SetYOffset(lipgloss.Height(detail) + 1)
	}
}

func (p detailPanel) detailView(spin string) string {
	switch p.status {
	case panelLoading:
		return spin + " Loading details..."
	case panelFailed:
		return errorStyle.Render("Details failed: " + render.Sanitize(errText(p.err)))
	}
	if p.status != panelReady {
		return ""
	}

	d := p.detail
	lines := []string{
		titleStyle.Render(render.Sanitize(d.Title)),
		"",
		field("Date", render.Sanitize(d.Date)),
		field("Artist/Team", artistLinks(d.Artists)),
		field("Venue", render.Sanitize(d.VenueName)),
		field("Genres", render.Sanitize(d.Genre)),
	}
	if d.HasPrice {
		lines = append(lines, field("Price Ranges", render.Sanitize(d.PriceText)))
	} else {
		lines = append(lines, field("Price Ranges", hint(viewmodel.NotAvailable)))
	}
	lines = append(lines,
		field("Ticket Status", statusBadge(d.Status)),
		field("Buy Ticket At", linkOrNA(d.BuyURL, "Ticketmaster")),
		field("Seat Map", linkOrNA(d.SeatMapURL, "View seat map")),
	)
	if p.showVenueTrigger && p.venue.status != panelLoading {
		lines = append(lines, "", buttonStyle.Render("Show Venue Details")+" "+hint("press v"))
	}
	return strings.Join(lines, "\n")
}

func field(label string, value string) string {
	return labelStyle.Render(label) + value
}

// artistLinks joins attractions with " | ", as terminal hyperlinks when they
// carry a URL.
func artistLinks(artists []viewmodel.Artist) string {
	if len(artists) == 0 {
		return viewmodel.NotAvailable
	}
	parts := make([]string, 0, len(artists))
	for _, artist := range artists {
		parts = append(parts, link(artist.URL, render.Sanitize(artist.Name)))
	}
	return strings.Join(parts, " | ")
}

// link renders text as an OSC 8 hyperlink to url, or plain text when url is
// empty.
func link(url string, text string) string {
	if url == "" {
		return text
	}
	return ansi.SetHyperlink(render.Sanitize(url)) + linkStyle.Render(text) + ansi.ResetHyperlink()
}

func linkOrNA(url string, text string) string {
	if url == "" {
		return hint(viewmodel.NotAvailable)
	}
	return link(url, text)
}

var statusColors = map[string]lipgloss.Color{
	"status-onsale":      lipgloss.Color("2"),
	"status-offsale":     lipgloss.Color("1"),
	"status-canceled":    lipgloss.Color("9"),
	"status-postponed":   lipgloss.Color("3"),
	"status-rescheduled": lipgloss.Color("214"),
}

func statusBadge(badge viewmodel.StatusBadge) string {
	color, ok := statusColors[badge.Class]
	if !ok {
		color = lipgloss.Color("8")
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(color).
		Padding(0, 1).
		Render(render.Sanitize(badge.Label))
}

// firstArtistURL is the artist page opened by the artist key.
func (p detailPanel) firstArtistURL() string {
	for _, artist := range p.detail.Artists {
		if artist.URL != "" {
			return artist.URL
		}
	}
	return ""
}

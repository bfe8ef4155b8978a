package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"event-finder-cli/model"
	"event-finder-cli/render"
	"event-finder-cli/viewmodel"
)

type venueMsg struct {
	generation int
	venue      model.Venue
	err        error
}

type venuePanel struct {
	visible    bool
	status     panelStatus
	err        error
	venue      viewmodel.Venue
	generation int
}

func (p *venuePanel) open() int {
	p.generation++
	p.visible = true
	p.status = panelLoading
	p.err = nil
	p.venue = viewmodel.Venue{}
	return p.generation
}

// hide invalidates any lookup in flight along with the shown venue.
func (p *venuePanel) hide() {
	p.generation++
	p.visible = false
	p.status = panelEmpty
	p.err = nil
	p.venue = viewmodel.Venue{}
}

func (p *venuePanel) apply(msg venueMsg) bool {
	if msg.generation != p.generation {
		return false
	}
	if msg.err != nil {
		p.status = panelFailed
		p.err = msg.err
		return true
	}
	p.status = panelReady
	p.venue = viewmodel.NewVenue(msg.venue)
	return true
}

func (p venuePanel) view(spin string) string {
	switch p.status {
	case panelLoading:
		return spin + " Loading venue..."
	case panelFailed:
		return errorStyle.Render("Venue failed: " + render.Sanitize(errText(p.err)))
	}
	if p.status != panelReady {
		return ""
	}

	v := p.venue
	lines := []string{venueTitleStyle.Render(render.Sanitize(v.Name))}
	if len(v.AddressLines) > 0 {
		lines = append(lines, labelStyle.Render("Address:"))
		for _, line := range v.AddressLines {
			lines = append(lines, "  "+render.Sanitize(line))
		}
	}
	lines = append(lines, "", link(v.MapURL, "Open in Google Maps")+" "+hint("(m)"))
	if v.MoreURL != "" {
		lines = append(lines, link(v.MoreURL, "More events at this venue")+" "+hint("(x)"))
	}
	if v.LogoURL != "" {
		lines = append(lines, hint("Logo: ")+link(v.LogoURL, "view image"))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

var cardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("63"))

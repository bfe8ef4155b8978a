package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"event-finder-cli/model"
	"event-finder-cli/service"
)

type formField int

const (
	fieldKeyword formField = iota
	fieldDistance
	fieldCategory
	fieldLocation
	fieldAutoDetect
	fieldCount
)

// Prefill holds the values the form starts from and returns to on a native
// reset.
type Prefill struct {
	Distance string
	Category string
}

// searchForm owns the search inputs and their validation.
type searchForm struct {
	keyword  textinput.Model
	distance textinput.Model
	location textinput.Model

	category   int
	autoDetect bool
	focus      formField

	prefill Prefill
	invalid string
}

func newSearchForm(prefill Prefill) searchForm {
	keyword := textinput.New()
	keyword.Placeholder = "Artist, team or event"
	keyword.Prompt = ""
	keyword.CharLimit = 120

	distance := textinput.New()
	distance.Placeholder = service.DefaultDistance
	distance.Prompt = ""
	distance.CharLimit = 6

	location := textinput.New()
	location.Placeholder = "City or address"
	location.Prompt = ""
	location.CharLimit = 120

	f := searchForm{
		keyword:  keyword,
		distance: distance,
		location: location,
		prefill:  prefill,
	}
	f.restorePrefill()
	f.focusField(fieldKeyword)
	return f
}

// restorePrefill puts every field back to its initial value, the way a
// browser form reset would.
func (f *searchForm) restorePrefill() {
	f.keyword.SetValue("")
	f.distance.SetValue(f.prefill.Distance)
	f.location.SetValue("")
	f.category = categoryIndex(f.prefill.Category)
	f.autoDetect = false
	f.invalid = ""
}

// applyDefaults clears every field to the controller defaults.
func (f *searchForm) applyDefaults() {
	f.keyword.SetValue("")
	f.distance.SetValue("")
	f.location.SetValue("")
	f.category = categoryIndex(service.DefaultCategory)
	f.autoDetect = false
	f.invalid = ""
	f.focusField(fieldKeyword)
}

func categoryIndex(value string) int {
	for i, category := range service.Categories {
		if category == value {
			return i
		}
	}
	return 0
}

func (f searchForm) Category() string {
	return service.Categories[f.category]
}

func (f *searchForm) cycleCategory(step int) {
	n := len(service.Categories)
	f.category = ((f.category+step)%n + n) % n
}

// setAutoDetect switches location modes. Turning it on hides the manual
// field and clears any text already typed into it.
func (f *searchForm) setAutoDetect(on bool) {
	f.autoDetect = on
	if on {
		f.location.SetValue("")
		if f.focus == fieldLocation {
			f.focusField(fieldAutoDetect)
		}
	}
}

func (f *searchForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.blur()
	switch field {
	case fieldKeyword:
		return f.keyword.Focus()
	case fieldDistance:
		return f.distance.Focus()
	case fieldLocation:
		return f.location.Focus()
	}
	return nil
}

func (f *searchForm) blur() {
	f.keyword.Blur()
	f.distance.Blur()
	f.location.Blur()
}

func (f *searchForm) moveFocus(step int) tea.Cmd {
	next := f.focus
	for {
		next = formField((int(next) + step + int(fieldCount)) % int(fieldCount))
		if next == fieldLocation && f.autoDetect {
			continue
		}
		return f.focusField(next)
	}
}

// Validate reports the first required field that is empty. The location is
// only required in manual mode.
func (f searchForm) Validate() (formField, error) {
	if strings.TrimSpace(f.keyword.Value()) == "" {
		return fieldKeyword, errors.New("keyword is required")
	}
	if !f.autoDetect && strings.TrimSpace(f.location.Value()) == "" {
		return fieldLocation, errors.New("location is required")
	}
	return f.focus, nil
}

// BuildQuery assembles the search parameters. In auto-detect mode the
// coordinates are sent only when geo holds both of them.
func (f searchForm) BuildQuery(geo model.GeoState) service.SearchQuery {
	distance := strings.TrimSpace(f.distance.Value())
	if distance == "" {
		distance = service.DefaultDistance
	}
	query := service.SearchQuery{
		Keyword:  strings.TrimSpace(f.keyword.Value()),
		Distance: distance,
		Category: f.Category(),
	}
	if f.autoDetect {
		if geo.Valid() {
			lat, lng := *geo.Lat, *geo.Lng
			query.Lat = &lat
			query.Lng = &lng
		}
		return query
	}
	query.Location = strings.TrimSpace(f.location.Value())
	return query
}

// update forwards typing to the focused text input.
func (f *searchForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldKeyword:
		f.keyword, cmd = f.keyword.Update(msg)
	case fieldDistance:
		f.distance, cmd = f.distance.Update(msg)
	case fieldLocation:
		f.location, cmd = f.location.Update(msg)
	}
	return cmd
}

func (f searchForm) view(geo model.GeoState, detecting bool) string {
	label := lipgloss.NewStyle().Width(12)
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true).Width(12)
	row := func(field formField, name string, value string) string {
		style := label
		if f.focus == field {
			style = active
		}
		return style.Render(name) + value
	}

	lines := []string{
		row(fieldKeyword, "Keyword*", f.keyword.View()),
		row(fieldDistance, "Distance", f.distance.View()+hint(" miles")),
		row(fieldCategory, "Category", "‹ "+f.Category()+" ›"),
	}
	if !f.autoDetect {
		lines = append(lines, row(fieldLocation, "Location*", f.location.View()))
	}
	check := "[ ]"
	if f.autoDetect {
		check = "[x]"
	}
	lines = append(lines, row(fieldAutoDetect, "Auto-detect", check+" "+hint(locationStatus(f.autoDetect, geo, detecting))))
	if f.invalid != "" {
		lines = append(lines, errorStyle.Render(f.invalid))
	}
	return strings.Join(lines, "\n")
}

func locationStatus(autoDetect bool, geo model.GeoState, detecting bool) string {
	switch {
	case !autoDetect:
		return ""
	case detecting:
		return "detecting location..."
	case geo.Valid():
		return fmt.Sprintf("%.4f, %.4f via %s", *geo.Lat, *geo.Lng, geo.Source)
	default:
		return "location unavailable"
	}
}

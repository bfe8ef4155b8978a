package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"event-finder-cli/model"
	"event-finder-cli/render"
	"event-finder-cli/viewmodel"
)

type panelStatus int

const (
	panelEmpty panelStatus = iota
	panelLoading
	panelFailed
	panelNoRecords
	panelReady
)

type searchMsg struct {
	generation int
	resp       model.SearchResponse
	err        error
}

// resultsPanel owns the fetched rows, the active sort and the cursor. Rows are
// replaced wholesale on every search and only reordered by sorting.
type resultsPanel struct {
	status     panelStatus
	err        error
	rows       []viewmodel.Row
	sort       viewmodel.SortState
	table      table.Model
	generation int
	width      int
}

func newResultsPanel() resultsPanel {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return resultsPanel{table: t, sort: viewmodel.InitialSort(), width: 100}
}

// begin marks a new search in flight and returns its generation.
func (p *resultsPanel) begin() int {
	p.generation++
	p.status = panelLoading
	p.err = nil
	return p.generation
}

func (p *resultsPanel) clear() {
	p.generation++
	p.status = panelEmpty
	p.err = nil
	p.rows = nil
	p.sort = viewmodel.InitialSort()
	p.table.SetRows(nil)
	p.table.GotoTop()
}

// apply renders a search response. Responses from superseded searches are
// dropped and reported as false.
func (p *resultsPanel) apply(msg searchMsg) bool {
	if msg.generation != p.generation {
		return false
	}
	if msg.err != nil {
		p.status = panelFailed
		p.err = msg.err
		p.rows = nil
		return true
	}
	p.load(msg.resp)
	return true
}

func (p *resultsPanel) load(resp model.SearchResponse) {
	p.err = nil
	p.sort = viewmodel.InitialSort()
	p.rows = viewmodel.Rows(resp)
	if len(p.rows) == 0 {
		p.status = panelNoRecords
		p.table.SetRows(nil)
		return
	}
	p.status = panelReady
	p.rebuild("")
}

// sortBy applies a header activation. The cursor stays on the same event.
func (p *resultsPanel) sortBy(key viewmodel.SortKey) {
	if p.status != panelReady {
		return
	}
	selected := p.SelectedID()
	p.sort = p.sort.Toggle(key)
	p.rows = viewmodel.Sorted(p.rows, p.sort)
	p.rebuild(selected)
}

func (p *resultsPanel) SelectedID() string {
	if p.status != panelReady || len(p.rows) == 0 {
		return ""
	}
	i := p.table.Cursor()
	if i < 0 || i >= len(p.rows) {
		return ""
	}
	return p.rows[i].ID
}

func (p *resultsPanel) setSize(width int, height int) {
	if width > 0 {
		p.width = width
	}
	if height > 3 {
		p.table.SetHeight(height)
	}
	if p.status == panelReady {
		p.rebuild(p.SelectedID())
	}
}

// rebuild regenerates headers and rows from the current order and puts the
// cursor back on selected, or on the first row when it is gone. Header titles
// carry the direction marker for the active column.
func (p *resultsPanel) rebuild(selected string) {
	dateW, iconW := 17, 4
	rest := p.width - dateW - iconW - 10
	if rest < 36 {
		rest = 36
	}
	eventW := rest * 2 / 5
	genreW := rest * 3 / 10
	venueW := rest - eventW - genreW

	p.table.SetColumns([]table.Column{
		{Title: "Date", Width: dateW},
		{Title: "Icon", Width: iconW},
		{Title: render.HeaderLabel(p.sort, viewmodel.SortByEvent), Width: eventW},
		{Title: render.HeaderLabel(p.sort, viewmodel.SortByGenre), Width: genreW},
		{Title: render.HeaderLabel(p.sort, viewmodel.SortByVenue), Width: venueW},
	})
	rows := make([]table.Row, 0, len(p.rows))
	for _, row := range p.rows {
		icon := ""
		if row.ImageURL != "" {
			icon = "▣"
		}
		rows = append(rows, table.Row{
			render.Sanitize(row.Date),
			icon,
			render.Sanitize(row.Name),
			render.Sanitize(row.Genre),
			render.Sanitize(row.VenueName),
		})
	}
	p.table.SetRows(rows)
	p.table.SetCursor(max(viewmodel.IndexOf(p.rows, selected), 0))
}

func (p resultsPanel) view(spin string) string {
	switch p.status {
	case panelLoading:
		return spin + " Searching..."
	case panelFailed:
		return errorStyle.Render("Request failed: " + render.Sanitize(errText(p.err)))
	case panelNoRecords:
		return placeholderStyle.Render(render.NoRecordsText)
	case panelReady:
		return p.table.View()
	default:
		return ""
	}
}

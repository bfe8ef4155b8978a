package tui

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"event-finder-cli/model"
	"event-finder-cli/service"
	"event-finder-cli/viewmodel"
)

// Backend is the subset of the API client the UI depends on.
type Backend interface {
	SearchEvents(ctx context.Context, query service.SearchQuery) (model.SearchResponse, error)
	GetEvent(ctx context.Context, eventID string) (model.Event, error)
	GetVenue(ctx context.Context, keyword string) (model.Venue, error)
	DetectLocation(ctx context.Context) (model.GeoState, error)
}

type focusArea int

const (
	focusForm focusArea = iota
	focusResults
	focusDetail
)

type Options struct {
	Backend Backend
	Logger  zerolog.Logger
	Prefill Prefill
}

type appModel struct {
	backend Backend
	logger  zerolog.Logger

	focus  focusArea
	notice error

	width  int
	height int

	form     searchForm
	location locationResolver
	results  resultsPanel
	detail   detailPanel

	spinner spinner.Model
	keys    keyMap
	help    help.Model
}

type errMsg struct {
	err error
}

// resetMsg follows a form reset so that the controller defaults are applied
// after the prefill values have been restored.
type resetMsg struct{}

func New(opts Options) tea.Model {
	if opts.Prefill.Category == "" {
		opts.Prefill.Category = service.DefaultCategory
	}
	m := appModel{
		backend:  opts.Backend,
		logger:   opts.Logger,
		focus:    focusForm,
		form:     newSearchForm(opts.Prefill),
		location: locationResolver{logger: opts.Logger},
		results:  newResultsPanel(),
		detail:   newDetailPanel(),
		keys:     newKeyMap(),
		help:     help.New(),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if !m.isLoading() {
			return m, nil
		}
		if m.focus == focusDetail {
			m.detail.refresh(m.spinner.View(), false)
		}
		return m, cmd

	case errMsg:
		m.notice = msg.err
		m.logger.Error().Err(msg.err).Msg("ui action failed")
		return m, nil

	case resetMsg:
		m.form.applyDefaults()
		m.location.disable()
		m.results.clear()
		m.detail.close()
		m.focus = focusForm
		return m, nil

	case geoMsg:
		m.location.apply(msg)
		return m, nil

	case searchMsg:
		if !m.results.apply(msg) {
			m.logger.Debug().Int("generation", msg.generation).Msg("dropping stale search response")
			return m, nil
		}
		if m.results.status == panelFailed {
			m.logger.Error().Err(msg.err).Msg("search failed")
		}
		m.results.setSize(m.width, m.tableHeight())
		return m, nil

	case eventMsg:
		if !m.detail.apply(msg) {
			m.logger.Debug().Int("generation", msg.generation).Msg("dropping stale event response")
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("event_id", m.detail.detail.ID).Msg("event detail failed")
		}
		m.detail.refresh(m.spinner.View(), false)
		m.detail.viewport.GotoTop()
		return m, nil

	case venueMsg:
		if !m.detail.applyVenue(msg) {
			m.logger.Debug().Int("generation", msg.generation).Msg("dropping stale venue response")
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("venue detail failed")
		}
		m.detail.refresh(m.spinner.View(), true)
		return m, nil
	}

	if m.focus == focusForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	m.notice = nil
	switch m.focus {
	case focusForm:
		return m.handleFormKey(msg)
	case focusResults:
		return m.handleResultsKey(msg)
	default:
		return m.handleDetailKey(msg)
	}
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Reset):
		m.form.restorePrefill()
		return m, resetCmd()
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.moveFocus(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.moveFocus(-1)
	case key.Matches(msg, m.keys.Results):
		if m.results.status != panelEmpty {
			m.focus = focusResults
			m.form.blur()
		}
		return m, nil
	}

	switch m.form.focus {
	case fieldCategory:
		switch {
		case key.Matches(msg, m.keys.CatNext), key.Matches(msg, m.keys.Toggle):
			m.form.cycleCategory(1)
		case key.Matches(msg, m.keys.CatPrev):
			m.form.cycleCategory(-1)
		}
		return m, nil
	case fieldAutoDetect:
		if key.Matches(msg, m.keys.Toggle) {
			return m.toggleAutoDetect()
		}
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m appModel) toggleAutoDetect() (tea.Model, tea.Cmd) {
	if m.form.autoDetect {
		m.form.setAutoDetect(false)
		m.location.disable()
		return m, nil
	}
	m.form.setAutoDetect(true)
	return m, tea.Batch(m.location.enable(m.backend), m.spinner.Tick)
}

// submit validates the form and starts a search. A new search discards the
// open detail view.
func (m appModel) submit() (tea.Model, tea.Cmd) {
	if field, err := m.form.Validate(); err != nil {
		m.form.invalid = "Please fill out this field: " + err.Error()
		return m, m.form.focusField(field)
	}
	m.form.invalid = ""

	query := m.form.BuildQuery(m.location.State())
	if m.form.autoDetect && !query.HasCoordinates() {
		m.logger.Warn().
			Bool("lookup_pending", m.location.pending).
			Msg("auto-detect has no coordinates, searching without a location")
	}

	generation := m.results.begin()
	m.detail.close()
	m.focus = focusResults
	m.form.blur()
	return m, tea.Batch(m.searchCmd(query, generation), m.spinner.Tick)
}

func (m appModel) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.focus = focusForm
		return m, m.form.focusField(m.form.focus)
	case key.Matches(msg, m.keys.Reset):
		m.form.restorePrefill()
		return m, resetCmd()
	case key.Matches(msg, m.keys.SortEvent):
		m.results.sortBy(viewmodel.SortByEvent)
		return m, nil
	case key.Matches(msg, m.keys.SortGenre):
		m.results.sortBy(viewmodel.SortByGenre)
		return m, nil
	case key.Matches(msg, m.keys.SortVenue):
		m.results.sortBy(viewmodel.SortByVenue)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		eventID := m.results.SelectedID()
		if eventID == "" {
			return m, nil
		}
		generation := m.detail.open(eventID)
		m.focus = focusDetail
		m.detail.refresh(m.spinner.View(), false)
		return m, tea.Batch(m.fetchEventCmd(eventID, generation), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.results.table, cmd = m.results.table.Update(msg)
	return m, cmd
}

func (m appModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.focus = focusResults
		return m, nil
	case key.Matches(msg, m.keys.Venue):
		keyword, ok := m.detail.activateVenue()
		if !ok {
			return m, nil
		}
		generation := m.detail.venue.open()
		m.detail.refresh(m.spinner.View(), true)
		return m, tea.Batch(m.fetchVenueCmd(keyword, generation), m.spinner.Tick)
	case key.Matches(msg, m.keys.Buy):
		return m, openLinkCmd(m.detail.detail.BuyURL)
	case key.Matches(msg, m.keys.SeatMap):
		return m, openLinkCmd(m.detail.detail.SeatMapURL)
	case key.Matches(msg, m.keys.Artist):
		return m, openLinkCmd(m.detail.firstArtistURL())
	case key.Matches(msg, m.keys.Maps):
		if m.detail.venue.status == panelReady {
			return m, openLinkCmd(m.detail.venue.venue.MapURL)
		}
		return m, nil
	case key.Matches(msg, m.keys.MoreEvents):
		if m.detail.venue.status == panelReady {
			return m, openLinkCmd(m.detail.venue.venue.MoreURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.focus {
	case focusDetail:
		body = m.detail.viewport.View()
	default:
		body = m.form.view(m.location.State(), m.location.pending) + "\n\n" + m.results.view(m.spinner.View())
	}
	out := header + "\n\n" + body
	if m.notice != nil {
		out += "\n\n" + errorStyle.Render(m.notice.Error())
	}
	return out
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Event Finder")
	var bindings []key.Binding
	switch m.focus {
	case focusForm:
		bindings = m.keys.formHelp()
	case focusResults:
		bindings = m.keys.resultsHelp()
	default:
		bindings = m.keys.detailHelp()
	}
	return title + "\n" + m.help.ShortHelpView(bindings)
}

func (m appModel) isLoading() bool {
	return m.results.status == panelLoading ||
		m.detail.status == panelLoading ||
		m.detail.venue.status == panelLoading ||
		m.location.pending
}

func (m appModel) tableHeight() int {
	return m.height - 14
}

func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	m.results.setSize(m.width, m.tableHeight())
	m.detail.setSize(m.width, m.height-4)
	if m.focus == focusDetail {
		m.detail.refresh(m.spinner.View(), false)
	}
}

func resetCmd() tea.Cmd {
	return func() tea.Msg {
		return resetMsg{}
	}
}

func (m appModel) searchCmd(query service.SearchQuery, generation int) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.backend.SearchEvents(context.Background(), query)
		return searchMsg{generation: generation, resp: resp, err: err}
	}
}

func (m appModel) fetchEventCmd(eventID string, generation int) tea.Cmd {
	return func() tea.Msg {
		event, err := m.backend.GetEvent(context.Background(), eventID)
		return eventMsg{generation: generation, event: event, err: err}
	}
}

func (m appModel) fetchVenueCmd(keyword string, generation int) tea.Cmd {
	return func() tea.Msg {
		venue, err := m.backend.GetVenue(context.Background(), keyword)
		return venueMsg{generation: generation, venue: venue, err: err}
	}
}

func openLinkCmd(target string) tea.Cmd {
	if target == "" {
		return nil
	}
	return func() tea.Msg {
		if err := checkBrowserURL(target); err != nil {
			return errMsg{err: err}
		}
		if err := openURL(target); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

// checkBrowserURL accepts absolute http and https links only. Link targets
// come from upstream event data and are handed to the system opener.
func checkBrowserURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open link with scheme %q", u.Scheme)
	}
	return nil
}

func openURL(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "linux":
		return exec.Command("xdg-open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return fmt.Errorf("unsupported OS for opening browser: %s", runtime.GOOS)
	}
}

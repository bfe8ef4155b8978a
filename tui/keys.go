package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Back       key.Binding
	Submit     key.Binding
	Reset      key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Toggle     key.Binding
	CatNext    key.Binding
	CatPrev    key.Binding
	Results    key.Binding
	SortEvent  key.Binding
	SortGenre  key.Binding
	SortVenue  key.Binding
	Open       key.Binding
	Venue      key.Binding
	Buy        key.Binding
	SeatMap    key.Binding
	Artist     key.Binding
	Maps       key.Binding
	MoreEvents key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear")),
		NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		CatNext:    key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "category")),
		CatPrev:    key.NewBinding(key.WithKeys("left")),
		Results:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "results")),
		SortEvent:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort event")),
		SortGenre:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort genre")),
		SortVenue:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort venue")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Venue:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show venue details")),
		Buy:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy tickets")),
		SeatMap:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "seat map")),
		Artist:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "artist page")),
		Maps:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "google maps")),
		MoreEvents: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "more events")),
	}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.Toggle, k.CatNext, k.Reset, k.Results, k.ForceQuit}
}

func (k keyMap) resultsHelp() []key.Binding {
	return []key.Binding{k.Open, k.SortEvent, k.SortGenre, k.SortVenue, k.Reset, k.Back, k.Quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Venue, k.Buy, k.SeatMap, k.Artist, k.Maps, k.MoreEvents, k.Back, k.Quit}
}

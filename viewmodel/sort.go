package viewmodel

import (
	"fmt"
	"slices"
	"strings"
)

type SortKey string

const (
	SortByEvent SortKey = "event"
	SortByGenre SortKey = "genre"
	SortByVenue SortKey = "venue"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the active column and direction of a results table.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// InitialSort is the state every fresh results render starts in. The rows
// themselves keep the server order until a header is activated.
func InitialSort() SortState {
	return SortState{Key: SortByEvent, Direction: Ascending}
}

// Toggle returns the state after activating the header for key: the active
// column flips direction, any other column becomes active ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortByEvent, SortByGenre, SortByVenue:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort column %q (want event, genre or venue)", raw)
	}
}

func (k SortKey) value(row Row) string {
	switch k {
	case SortByGenre:
		return row.Genre
	case SortByVenue:
		return row.VenueName
	default:
		return row.Name
	}
}

// Sorted returns a sorted copy of rows. Comparison is case-insensitive on the
// displayed column text and stable, so equal keys keep their current order.
func Sorted(rows []Row, state SortState) []Row {
	out := slices.Clone(rows)
	sign := 1
	if state.Direction == Descending {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		return sign * strings.Compare(strings.ToLower(state.Key.value(a)), strings.ToLower(state.Key.value(b)))
	})
	return out
}

// IndexOf returns the position of the row with the given id, or -1.
func IndexOf(rows []Row, id string) int {
	return slices.IndexFunc(rows, func(row Row) bool { return row.ID == id })
}

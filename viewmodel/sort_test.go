package viewmodel

import (
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{ID: "1", Name: "beta", Genre: "Rock", VenueName: "Zed Hall"},
		{ID: "2", Name: "Alpha", Genre: "jazz", VenueName: "Arena"},
		{ID: "3", Name: "gamma", Genre: "Blues", VenueName: "middle stage"},
	}
}

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestToggle(t *testing.T) {
	state := InitialSort()
	if state.Key != SortByEvent || state.Direction != Ascending {
		t.Fatalf("unexpected initial state: %+v", state)
	}

	state = state.Toggle(SortByEvent)
	if state.Direction != Descending {
		t.Fatalf("expected active column to flip, got %+v", state)
	}
	state = state.Toggle(SortByGenre)
	if state.Key != SortByGenre || state.Direction != Ascending {
		t.Fatalf("expected new column ascending, got %+v", state)
	}
	state = state.Toggle(SortByGenre)
	if state.Direction != Descending {
		t.Fatalf("expected genre descending, got %+v", state)
	}
	state = state.Toggle(SortByGenre)
	if state.Direction != Ascending {
		t.Fatalf("expected genre ascending again, got %+v", state)
	}
}

func TestSorted_CaseInsensitive(t *testing.T) {
	rows := sampleRows()
	got := ids(Sorted(rows, SortState{Key: SortByEvent, Direction: Ascending}))
	if !equalIDs(got, []string{"2", "1", "3"}) {
		t.Fatalf("unexpected event order: %v", got)
	}
	got = ids(Sorted(rows, SortState{Key: SortByVenue, Direction: Ascending}))
	if !equalIDs(got, []string{"2", "3", "1"}) {
		t.Fatalf("unexpected venue order: %v", got)
	}
}

func TestSorted_SecondClickReverses(t *testing.T) {
	rows := sampleRows()
	for _, key := range []SortKey{SortByEvent, SortByGenre, SortByVenue} {
		first := SortState{Key: key, Direction: Ascending}
		asc := Sorted(rows, first)
		desc := Sorted(asc, first.Toggle(key))

		a := ids(asc)
		d := ids(desc)
		for i := range a {
			if a[i] != d[len(d)-1-i] {
				t.Fatalf("%s: desc is not the reverse of asc: %v vs %v", key, a, d)
			}
		}
	}
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	_ = Sorted(rows, SortState{Key: SortByGenre, Direction: Ascending})
	if !equalIDs(ids(rows), []string{"1", "2", "3"}) {
		t.Fatalf("input was reordered: %v", ids(rows))
	}
}

func TestSorted_Stable(t *testing.T) {
	rows := []Row{
		{ID: "a", Genre: "Rock"},
		{ID: "b", Genre: "rock"},
		{ID: "c", Genre: "Jazz"},
	}
	got := ids(Sorted(rows, SortState{Key: SortByGenre, Direction: Ascending}))
	if !equalIDs(got, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected stable order: %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if key, err := ParseSortKey(" Venue "); err != nil || key != SortByVenue {
		t.Fatalf("unexpected result: %q %v", key, err)
	}
	if _, err := ParseSortKey("date"); err == nil {
		t.Fatal("expected error for unsortable column")
	}
}

func TestIndexOf(t *testing.T) {
	rows := sampleRows()
	if got := IndexOf(rows, "3"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := IndexOf(rows, "missing"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type backend struct {
	mu      sync.Mutex
	queries []url.Values
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.queries = append(b.queries, r.URL.Query())
		b.mu.Unlock()
		if r.URL.Query().Get("keyword") == "broken" {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("keyword") == "nothing" {
			fmt.Fprint(w, `{"_embedded":{"events":[]}}`)
			return
		}
		fmt.Fprint(w, `{"_embedded":{"events":[
  {"id":"e1","name":"Rock & <Roll>","dates":{"start":{"localDate":"2026-11-02"}},"_embedded":{"venues":[{"name":"Zeta Hall"}]}},
  {"id":"e2","name":"Jazz Night","dates":{"start":{"localDate":"2026-11-03"}},"_embedded":{"venues":[{"name":"Alpha Club"}]}}
]}}`)
	})
	mux.HandleFunc("/event", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "e1" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"id":"e1","name":"Rock Fest","dates":{"status":{"code":"onsale"}},
  "priceRanges":[{"min":25,"max":99.5}],"url":"https://tickets.example/e1",
  "_embedded":{"venues":[{"name":"Zeta Hall"}],"attractions":[{"name":"The Band","url":"https://band.example"}]}}`)
	})
	mux.HandleFunc("/venue", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"_embedded":{"venues":[{"name":%q,"postalCode":"90015","url":"https://venue.example"}]}}`,
			r.URL.Query().Get("keyword"))
	})
	mux.HandleFunc("/ipinfo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"loc":"34.0522,-118.2437"}`)
	})
	return mux
}

func run(t *testing.T, args ...string) (string, string, *backend, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("EVENTFINDER_CONFIG", "")
	t.Setenv("EVENTFINDER_API_URL", "")

	b := &backend{}
	server := httptest.NewServer(b.handler())
	t.Cleanup(server.Close)

	var stdout, stderr bytes.Buffer
	root := NewRootCommand("1.2.3", "abc123")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--api-url", server.URL, "--env-file", filepath.Join(dir, "none.env")}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), b, err
}

func TestSearch_TableInServerOrder(t *testing.T) {
	out, _, b, err := run(t, "search", "-k", "  rock ", "-l", "Los Angeles")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if strings.Index(out, "Rock & <Roll>") > strings.Index(out, "Jazz Night") {
		t.Fatalf("expected server order:\n%s", out)
	}
	if !strings.Contains(out, "Event ▲") {
		t.Fatalf("expected initial sort marker:\n%s", out)
	}
	q := b.queries[0]
	if q.Get("keyword") != "rock" || q.Get("distance") != "10" || q.Get("category") != "default" || q.Get("location") != "Los Angeles" {
		t.Fatalf("unexpected query: %v", q)
	}
	if q.Has("lat") || q.Has("lng") {
		t.Fatalf("manual search must not send coordinates: %v", q)
	}
}

func TestSearch_SortedByVenue(t *testing.T) {
	out, _, _, err := run(t, "search", "-k", "rock", "-l", "LA", "--sort", "venue")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if strings.Index(out, "Alpha Club") > strings.Index(out, "Zeta Hall") {
		t.Fatalf("expected venue ascending:\n%s", out)
	}
	if !strings.Contains(out, "Venue ▲") {
		t.Fatalf("expected venue marker:\n%s", out)
	}
}

func TestSearch_HTMLIsEscaped(t *testing.T) {
	out, _, _, err := run(t, "search", "-k", "rock", "-l", "LA", "--format", "html", "--sort", "event", "--desc")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.Contains(out, "Rock &amp; &lt;Roll&gt;") {
		t.Fatalf("expected escaped name:\n%s", out)
	}
	if !strings.Contains(out, `data-sort="event" class="sortable desc"`) {
		t.Fatalf("expected desc marker:\n%s", out)
	}
}

func TestSearch_NoRecords(t *testing.T) {
	out, _, _, err := run(t, "search", "-k", "nothing", "-l", "LA")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if strings.TrimSpace(out) != "No records found" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSearch_AutoDetectSendsCoordinates(t *testing.T) {
	_, _, b, err := run(t, "search", "-k", "rock", "--auto-detect")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	q := b.queries[0]
	if q.Get("lat") != "34.0522" || q.Get("lng") != "-118.2437" || q.Has("location") {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestSearch_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing keyword", args: []string{"search", "-l", "LA"}},
		{name: "missing location", args: []string{"search", "-k", "rock"}},
		{name: "bad category", args: []string{"search", "-k", "rock", "-l", "LA", "-c", "opera"}},
		{name: "bad sort", args: []string{"search", "-k", "rock", "-l", "LA", "--sort", "price"}},
		{name: "bad format", args: []string{"search", "-k", "rock", "-l", "LA", "--format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, b, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if len(b.queries) != 0 {
				t.Fatalf("no request expected, got %d", len(b.queries))
			}
		})
	}
}

func TestEvent_Text(t *testing.T) {
	out, _, _, err := run(t, "event", "e1")
	if err != nil {
		t.Fatalf("event error: %v", err)
	}
	for _, want := range []string{"Rock Fest", "On Sale", "25 - 99.5", "The Band", "https://tickets.example/e1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEvent_NotFoundFails(t *testing.T) {
	_, _, _, err := run(t, "event", "missing")
	if err == nil || !strings.Contains(err.Error(), `details failed: no event with id "missing"`) {
		t.Fatalf("expected details failure, got %v", err)
	}
}

func TestSearch_HTMLFailureFragment(t *testing.T) {
	out, _, _, err := run(t, "search", "-k", "broken", "-l", "LA", "--format", "html")
	if err == nil || !strings.Contains(err.Error(), "request failed: backend rejected the request: 500") {
		t.Fatalf("expected request failure, got %v", err)
	}
	want := `<div class="no-records">Request failed: backend rejected the request: 500 Internal Server Error: upstream exploded</div>`
	if !strings.Contains(out, want) {
		t.Fatalf("expected failure fragment, got:\n%s", out)
	}
}

func TestEvent_HTMLNotFoundFragment(t *testing.T) {
	out, _, _, err := run(t, "event", "missing", "--format", "html")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out, "Details failed: no event with id &#34;missing&#34;") {
		t.Fatalf("expected escaped failure fragment, got:\n%s", out)
	}
}

func TestSearch_TableFailurePrintsNothing(t *testing.T) {
	out, _, _, err := run(t, "search", "-k", "broken", "-l", "LA")
	if err == nil || out != "" {
		t.Fatalf("expected error and empty output, got %v %q", err, out)
	}
}

func TestVenue_HTML(t *testing.T) {
	out, _, _, err := run(t, "venue", "Zeta", "Hall", "--format", "html")
	if err != nil {
		t.Fatalf("venue error: %v", err)
	}
	for _, want := range []string{"Zeta Hall", "<div>90015</div>", "query=Zeta%20Hall%2C%2090015", `rel="noopener noreferrer"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, _, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if out != "eventfinder 1.2.3 (abc123)\n" {
		t.Fatalf("unexpected version output: %q", out)
	}
}

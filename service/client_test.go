package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON_Non2xxReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetJSON_DoesNotRetryByDefault(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/once", &out); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), WithMaxAttempts(3))
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/retry", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if ok, _ := out["ok"].(bool); !ok {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestGetJSON_DoesNotRetryOnClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required field: keyword"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), WithMaxAttempts(3))
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/bad-request", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestGetJSON_NonJSONBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/html", &out)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestAPIError_HtmlBodyIsCompact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>bad gateway</body></html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.GetEvent(context.Background(), "abc")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(strings.ToLower(err.Error()), "<html") {
		t.Fatalf("expected compact error without html, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "backend rejected the request: 502") {
		t.Fatalf("expected status code in error, got %q", err.Error())
	}
	if IsNotFound(err) {
		t.Fatal("502 must not be reported as not found")
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.GetEvent(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if IsNotFound(nil) {
		t.Fatal("nil error is not a 404")
	}
}

func TestSearchEvents_SendsCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("keyword") != "jazz" || q.Get("distance") != "10" || q.Get("category") != "music" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("lat") != "34.0522" || q.Get("lng") != "-118.2437" {
			t.Fatalf("unexpected coordinates: %s", r.URL.RawQuery)
		}
		if q.Has("location") {
			t.Fatalf("location must not be sent with coordinates: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_embedded":{"events":[{"id":"e1","name":"Jazz Night"}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	lat, lng := 34.0522, -118.2437
	resp, err := client.SearchEvents(context.Background(), SearchQuery{
		Keyword:  "jazz",
		Distance: "10",
		Category: "music",
		Lat:      &lat,
		Lng:      &lng,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(resp.Embedded.Events) != 1 || resp.Embedded.Events[0].Id != "e1" {
		t.Fatalf("unexpected events: %+v", resp.Embedded.Events)
	}
}

func TestSearchEvents_SendsLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("location") != "Los Angeles, CA" {
			t.Fatalf("unexpected location: %s", r.URL.RawQuery)
		}
		if q.Has("lat") || q.Has("lng") {
			t.Fatalf("coordinates must not be sent with location: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	resp, err := client.SearchEvents(context.Background(), SearchQuery{
		Keyword:  "jazz",
		Distance: "10",
		Category: "default",
		Location: "Los Angeles, CA",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(resp.Embedded.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(resp.Embedded.Events))
	}
}

func TestGetEvent_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event" || r.URL.Query().Get("id") != "G5v/Z9" {
			t.Fatalf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "G5v/Z9",
  "name": "Lakers vs Suns",
  "dates": {"start": {"localDate": "2026-11-02", "localTime": "19:30:00"}, "status": {"code": "onsale"}},
  "priceRanges": [{"min": 45.5, "max": 300}]
}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	event, err := client.GetEvent(context.Background(), "G5v/Z9")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if event.Name != "Lakers vs Suns" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.PriceRanges[0].Min == nil || *event.PriceRanges[0].Min != 45.5 {
		t.Fatalf("unexpected price range: %+v", event.PriceRanges)
	}
}

func TestGetEvent_RequiresID(t *testing.T) {
	client := NewClient("", nil)
	if _, err := client.GetEvent(context.Background(), "  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetVenue_FirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/venue" || r.URL.Query().Get("keyword") != "Crypto.com Arena" {
			t.Fatalf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_embedded":{"venues":[
  {"id":"v1","name":"Crypto.com Arena","postalCode":"90015","city":{"name":"Los Angeles"},"state":{"stateCode":"CA"}},
  {"id":"v2","name":"Other"}
]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	venue, err := client.GetVenue(context.Background(), "Crypto.com Arena")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if venue.Id != "v1" || venue.City.Name != "Los Angeles" {
		t.Fatalf("unexpected venue: %+v", venue)
	}
}

func TestGetVenue_NoMatchIsZeroVenue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":{"totalElements":0}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	venue, err := client.GetVenue(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if venue.Id != "" || venue.Name != "" {
		t.Fatalf("expected zero venue, got %+v", venue)
	}
}

func TestRetryDelay_Caps(t *testing.T) {
	client := NewClient("", nil)
	client.retryBase = 100 * time.Millisecond
	client.retryCap = 300 * time.Millisecond

	if got := client.retryDelay(1); got != 100*time.Millisecond {
		t.Fatalf("unexpected first delay: %v", got)
	}
	if got := client.retryDelay(2); got != 200*time.Millisecond {
		t.Fatalf("unexpected second delay: %v", got)
	}
	if got := client.retryDelay(5); got != 300*time.Millisecond {
		t.Fatalf("expected capped delay, got %v", got)
	}
}

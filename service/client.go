package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"event-finder-cli/model"
)

const (
	DefaultBaseURL     = "http://localhost:8080"
	defaultUserAgent   = "event-finder-cli"
	defaultMaxAttempts = 1
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	errorSnippetN      = 240
	DefaultDistance    = "10"
	DefaultCategory    = "default"
)

// Categories are the category values the backend accepts, in display order.
var Categories = []string{DefaultCategory, "music", "sports", "arts", "film", "miscellaneous"}

func IsCategory(value string) bool {
	for _, category := range Categories {
		if category == value {
			return true
		}
	}
	return false
}

// Client wraps HTTP access to the event search backend.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
	logger      zerolog.Logger
}

type ClientOption func(*Client)

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxAttempts enables retries of transient failures. The UI never
// retries on its own, so the default is a single attempt.
func WithMaxAttempts(attempts int) ClientOption {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "backend rejected the request"
	}
	if e.Body == "" {
		return fmt.Sprintf("backend rejected the request: %s", e.Status)
	}
	return fmt.Sprintf("backend rejected the request: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a client without
// a timeout is used.
func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchQuery carries the /search parameters. Exactly one of Location or the
// Lat/Lng pair is sent; when neither is set no location parameter is sent.
type SearchQuery struct {
	Keyword  string
	Distance string
	Category string
	Location string
	Lat      *float64
	Lng      *float64
}

func (q SearchQuery) HasCoordinates() bool {
	return q.Lat != nil && q.Lng != nil
}

func (q SearchQuery) Values() url.Values {
	values := url.Values{}
	values.Set("keyword", q.Keyword)
	values.Set("distance", q.Distance)
	values.Set("category", q.Category)
	if q.HasCoordinates() {
		values.Set("lat", strconv.FormatFloat(*q.Lat, 'f', -1, 64))
		values.Set("lng", strconv.FormatFloat(*q.Lng, 'f', -1, 64))
	} else if q.Location != "" {
		values.Set("location", q.Location)
	}
	return values
}

// SearchEvents queries /search. An absent or empty event list is not an error.
func (c *Client) SearchEvents(ctx context.Context, query SearchQuery) (model.SearchResponse, error) {
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Values().Encode())

	var resp model.SearchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return model.SearchResponse{}, err
	}
	return resp, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, eventID string) (model.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return model.Event{}, errors.New("event id is required")
	}
	endpoint := fmt.Sprintf("%s/event?%s", c.baseURL, url.Values{"id": {eventID}}.Encode())

	var event model.Event
	if err := c.getJSON(ctx, endpoint, &event); err != nil {
		return model.Event{}, err
	}
	return event, nil
}

// SearchVenues looks venues up by keyword, usually the venue display name.
func (c *Client) SearchVenues(ctx context.Context, keyword string) (model.VenueResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return model.VenueResponse{}, errors.New("venue keyword is required")
	}
	endpoint := fmt.Sprintf("%s/venue?%s", c.baseURL, url.Values{"keyword": {keyword}}.Encode())

	var resp model.VenueResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return model.VenueResponse{}, err
	}
	return resp, nil
}

// GetVenue returns the first venue matching keyword, or the zero venue when
// nothing matched.
func (c *Client) GetVenue(ctx context.Context, keyword string) (model.Venue, error) {
	resp, err := c.SearchVenues(ctx, keyword)
	if err != nil {
		return model.Venue{}, err
	}
	if len(resp.Embedded.Venues) == 0 {
		return model.Venue{}, nil
	}
	return resp.Embedded.Venues[0], nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	requestID := uuid.NewString()
	log := c.logger.With().Str("request_id", requestID).Str("endpoint", endpoint).Logger()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)

		started := time.Now()
		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				log.Debug().Err(err).Int("attempt", attempt).Msg("retrying request")
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			log.Error().Err(err).Msg("request failed")
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       compactErrorSnippet(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				log.Debug().Int("status", res.StatusCode).Int("attempt", attempt).Msg("retrying request")
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			log.Error().Int("status", res.StatusCode).Msg("request rejected")
			return apiErr
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		log.Debug().Int("status", res.StatusCode).Dur("duration", time.Since(started)).Msg("request done")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Error().Err(err).Msg("decode failed")
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}

func compactErrorSnippet(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > errorSnippetN {
		text = text[:errorSnippetN]
	}
	return text
}

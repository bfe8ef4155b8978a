package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"event-finder-cli/model"
)

// GetIPInfo queries the backend's /ipinfo proxy.
func (c *Client) GetIPInfo(ctx context.Context) (model.IPInfo, error) {
	var info model.IPInfo
	if err := c.getJSON(ctx, c.baseURL+"/ipinfo", &info); err != nil {
		return model.IPInfo{}, err
	}
	return info, nil
}

// DetectLocation resolves the caller's coordinates from its IP address.
func (c *Client) DetectLocation(ctx context.Context) (model.GeoState, error) {
	info, err := c.GetIPInfo(ctx)
	if err != nil {
		return model.GeoState{}, fmt.Errorf("ip lookup failed: %w", err)
	}
	lat, lng, err := ParseLoc(info.Loc)
	if err != nil {
		return model.GeoState{}, err
	}
	return model.NewGeoState(lat, lng, model.GeoSourceIPInfo), nil
}

// ParseLoc splits a "lat,lng" pair. Both halves must parse to finite numbers
// or the whole value is rejected.
func ParseLoc(loc string) (float64, float64, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return 0, 0, errors.New("provider did not return loc")
	}
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("provider did not return valid loc: %q", loc)
	}
	lat, err := parseCoordinate(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := parseCoordinate(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}
	return lat, lng, nil
}

func parseCoordinate(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return value, nil
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"event-finder-cli/model"
)

type geoMsg struct {
	generation int
	geo        model.GeoState
	err        error
}

// locationResolver owns the auto-detected coordinates. Every toggle bumps the
// generation so a lookup started before the toggle cannot land afterwards.
type locationResolver struct {
	geo        model.GeoState
	generation int
	pending    bool
	logger     zerolog.Logger
}

func (r *locationResolver) State() model.GeoState {
	return r.geo
}

// enable clears the coordinates and starts a fresh IP lookup.
func (r *locationResolver) enable(backend Backend) tea.Cmd {
	r.generation++
	r.geo = model.GeoState{}
	r.pending = true
	generation := r.generation
	return func() tea.Msg {
		geo, err := backend.DetectLocation(context.Background())
		return geoMsg{generation: generation, geo: geo, err: err}
	}
}

func (r *locationResolver) disable() {
	r.generation++
	r.geo = model.GeoState{}
	r.pending = false
}

// apply stores a lookup result. It reports false when the result belongs to
// an earlier toggle and was dropped.
func (r *locationResolver) apply(msg geoMsg) bool {
	if msg.generation != r.generation {
		r.logger.Debug().Int("generation", msg.generation).Msg("dropping stale ip lookup")
		return false
	}
	r.pending = false
	if msg.err != nil || !msg.geo.Valid() {
		r.geo = model.GeoState{}
		r.logger.Warn().Err(msg.err).Msg("ip lookup failed, coordinates unavailable")
		return true
	}
	r.geo = msg.geo
	r.logger.Debug().Float64("lat", *msg.geo.Lat).Float64("lng", *msg.geo.Lng).Msg("location detected")
	return true
}

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"event-finder-cli/render"
	"event-finder-cli/service"
	"event-finder-cli/viewmodel"
)

type searchFlags struct {
	keyword    string
	distance   string
	category   string
	location   string
	autoDetect bool
	sort       string
	desc       bool
	format     string
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search events and print the results table",
		Long: `Search events by keyword near a location. The location is either given
with --location or detected from your IP address with --auto-detect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("distance") {
				f.distance = a.cfg.Search.Distance
			}
			if !cmd.Flags().Changed("category") {
				f.category = a.cfg.Search.Category
			}
			return a.runSearch(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.keyword, "keyword", "k", "", "keyword to search for (required)")
	flags.StringVarP(&f.distance, "distance", "d", "", "search radius in miles (default 10)")
	flags.StringVarP(&f.category, "category", "c", service.DefaultCategory, "category: "+strings.Join(service.Categories, ", "))
	flags.StringVarP(&f.location, "location", "l", "", "city or address to search around")
	flags.BoolVar(&f.autoDetect, "auto-detect", false, "detect the location from your IP address")
	flags.StringVar(&f.sort, "sort", "", "sort column: event, genre or venue (default server order)")
	flags.BoolVar(&f.desc, "desc", false, "sort descending")
	flags.StringVar(&f.format, "format", "table", "output format: table or html")
	cmd.MarkFlagsMutuallyExclusive("location", "auto-detect")
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, f searchFlags) error {
	if f.format != "table" && f.format != "html" {
		return fmt.Errorf("unknown format %q", f.format)
	}
	if !service.IsCategory(f.category) {
		return fmt.Errorf("unknown category %q", f.category)
	}
	query, err := a.buildQuery(cmd, f)
	if err != nil {
		return err
	}

	state := viewmodel.InitialSort()
	var sortKey viewmodel.SortKey
	if f.sort != "" {
		if sortKey, err = viewmodel.ParseSortKey(f.sort); err != nil {
			return err
		}
	}

	resp, err := a.client.SearchEvents(cmd.Context(), query)
	if err != nil {
		return writeFailure(cmd, f.format, "Request failed", err)
	}
	rows := viewmodel.Rows(resp)
	if sortKey != "" {
		state = viewmodel.SortState{Key: sortKey, Direction: viewmodel.Ascending}
		if f.desc {
			state.Direction = viewmodel.Descending
		}
		rows = viewmodel.Sorted(rows, state)
	}

	out := cmd.OutOrStdout()
	if f.format == "html" {
		fmt.Fprintln(out, render.ResultsHTML(rows, state))
		return nil
	}
	fmt.Fprintln(out, render.ResultsText(rows, state))
	return nil
}

// buildQuery validates the required inputs and resolves the location the
// same way the interactive form does.
func (a *app) buildQuery(cmd *cobra.Command, f searchFlags) (service.SearchQuery, error) {
	keyword := strings.TrimSpace(f.keyword)
	if keyword == "" {
		return service.SearchQuery{}, errors.New("--keyword is required")
	}
	location := strings.TrimSpace(f.location)
	if !f.autoDetect && location == "" {
		return service.SearchQuery{}, errors.New("--location is required unless --auto-detect is set")
	}
	distance := strings.TrimSpace(f.distance)
	if distance == "" {
		distance = service.DefaultDistance
	}

	query := service.SearchQuery{Keyword: keyword, Distance: distance, Category: f.category}
	if !f.autoDetect {
		query.Location = location
		return query, nil
	}

	geo, err := a.client.DetectLocation(cmd.Context())
	if err != nil {
		a.logger.Warn().Err(err).Msg("ip lookup failed, coordinates unavailable")
	}
	if !geo.Valid() {
		a.logger.Warn().Msg("auto-detect has no coordinates, searching without a location")
		return query, nil
	}
	lat, lng := *geo.Lat, *geo.Lng
	query.Lat = &lat
	query.Lng = &lng
	return query, nil
}

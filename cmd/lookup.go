package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"event-finder-cli/render"
	"event-finder-cli/service"
	"event-finder-cli/viewmodel"
)

func newEventCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "event ID",
		Short: "Show the details of one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDetailFormat(format); err != nil {
				return err
			}
			event, err := a.client.GetEvent(cmd.Context(), args[0])
			if service.IsNotFound(err) {
				err = fmt.Errorf("no event with id %q", args[0])
			}
			if err != nil {
				return writeFailure(cmd, format, "Details failed", err)
			}
			detail := viewmodel.NewDetail(event)
			out := cmd.OutOrStdout()
			if format == "html" {
				fmt.Fprintln(out, render.DetailHTML(detail, true, false))
				return nil
			}
			fmt.Fprintln(out, render.DetailText(detail))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or html")
	return cmd
}

func newVenueCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "venue NAME",
		Short: "Show address, map link and more events for a venue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDetailFormat(format); err != nil {
				return err
			}
			venue, err := a.client.GetVenue(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeFailure(cmd, format, "Venue failed", err)
			}
			view := viewmodel.NewVenue(venue)
			out := cmd.OutOrStdout()
			if format == "html" {
				fmt.Fprintln(out, render.VenueHTML(view))
				return nil
			}
			fmt.Fprintln(out, render.VenueText(view))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or html")
	return cmd
}

// writeFailure prints the inline failure fragment when html output was asked
// for and returns err under the same prefix.
func writeFailure(cmd *cobra.Command, format string, prefix string, err error) error {
	if format == "html" {
		fmt.Fprintln(cmd.OutOrStdout(), render.FailureHTML(prefix, err))
	}
	return fmt.Errorf("%s: %w", strings.ToLower(prefix), err)
}

func checkDetailFormat(format string) error {
	if format != "text" && format != "html" {
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

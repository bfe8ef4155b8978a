// Package cmd wires the command-line interface: the interactive finder and
// the non-interactive search, event and venue lookups.
package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"event-finder-cli/config"
	"event-finder-cli/logging"
	"event-finder-cli/service"
	"event-finder-cli/tui"
)

const appName = "eventfinder"

type rootFlags struct {
	configPath string
	envFile    string
	apiURL     string
	timeout    time.Duration
	logLevel   string
	logFormat  string
}

// app carries what every command needs once configuration is resolved.
type app struct {
	flags   rootFlags
	cfg     config.Config
	logger  zerolog.Logger
	client  *service.Client
	logFile io.Closer
}

func NewRootCommand(version string, commit string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Find events, their details and venues",
		Long:          `Search ticketed events near you, sort the results and drill down into event and venue details.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logFile != nil {
				_ = a.logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			model := tui.New(tui.Options{
				Backend: a.client,
				Logger:  a.logger,
				Prefill: tui.Prefill{Distance: a.cfg.Search.Distance, Category: a.cfg.Search.Category},
			})
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.configPath, "config", "", "config file (yaml, json or jsonc)")
	flags.StringVar(&a.flags.envFile, "env-file", "", "dotenv file to load (default .env)")
	flags.StringVar(&a.flags.apiURL, "api-url", "", "base URL of the event backend")
	flags.DurationVar(&a.flags.timeout, "timeout", 0, "HTTP timeout, 0 for none")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.flags.logFormat, "log-format", "", "log format: json or text")

	rootCmd.AddCommand(
		newSearchCmd(a),
		newEventCmd(a),
		newVenueCmd(a),
		newVersionCmd(version, commit),
	)
	return rootCmd
}

// setup resolves configuration with flags applied last, then builds the
// logger and API client. The interactive UI owns the terminal, so it logs to
// a file; subcommands log to stderr.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{Path: a.flags.configPath, EnvFile: a.flags.envFile})
	if err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	if changed("api-url") {
		cfg.API.BaseURL = a.flags.apiURL
	}
	if changed("timeout") {
		cfg.HTTP.Timeout = a.flags.timeout
	}
	if changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = a.flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	a.cfg = cfg

	output := cmd.ErrOrStderr()
	if !cmd.HasParent() {
		path, err := cfg.LogPath()
		if err != nil {
			return fmt.Errorf("resolve log file: %w", err)
		}
		file, err := logging.OpenFile(path)
		if err != nil {
			return err
		}
		a.logFile = file
		output = file
	}
	a.logger = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: output})
	if cfg.Source != "" {
		a.logger.Debug().Str("path", cfg.Source).Msg("config loaded")
	}

	a.client = service.NewClient(
		cfg.API.BaseURL,
		&http.Client{Timeout: cfg.HTTP.Timeout},
		service.WithLogger(a.logger),
		service.WithMaxAttempts(cfg.HTTP.MaxAttempts),
	)
	return nil
}

func newVersionCmd(version string, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		// no config or logger needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, version)
			if commit != "none" && commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			fmt.Fprintln(out)
		},
	}
}

func Execute(version string, commit string) {
	if err := NewRootCommand(version, commit).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

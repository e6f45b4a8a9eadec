package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vk/nne/internal/app"
	"github.com/vk/nne/internal/config"
	"github.com/vk/nne/internal/nsapi"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `nne publishes a NationStates dispatch listing the World Assembly members of a
region that do not endorse its delegate.

The run is configured by a YAML (.yml, .yaml) or HCL (.hcl) file. CONFIG_PATH
may name the file or a directory holding config.yml, config.yaml or
config.hcl; it defaults to ./config.yml. NNE_* environment variables
override values from the file.`

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		raw    app.Config
		parsed bool
	)
	cmd := &cobra.Command{
		Use:           "nne [flags] [CONFIG_PATH]",
		Short:         "Publish a Not Endorsing (NNE) report for a NationStates region",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !cmd.Flags().Changed("config") {
				raw.ConfigPath = args[0]
			}
			parsed = true
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVarP(&raw.ConfigPath, "config", "c", config.DefaultPath, "Path to the configuration file or a directory containing one.")
	flags.StringVar(&raw.LogLevel, "log-level", "", "Override the configured log level. Options: 'debug', 'info', 'warning', 'error'.")
	flags.StringVar(&raw.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.DurationVar(&raw.Timeout, "timeout", 0, "Timeout for each API request (default from config, else "+nsapi.DefaultTimeout.String()+").")
	flags.BoolVar(&raw.DryRun, "dry-run", false, "Render the report and log it without publishing.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !parsed {
		// --help was handled by cobra.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config_path", cfg.ConfigPath)
	return cfg, false, nil
}

// IsExitError reports whether err carries an exit code and returns it.
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/netgraph/internal/app"
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

// flags shared by every command.
type globalFlags struct {
	logLevel    string
	logFormat   string
	metricsPort int
}

// Execute runs the command tree against args. Invalid flags or arguments
// come back as an *ExitError with code 2.
func Execute(args []string, outW, errW io.Writer) error {
	root := NewRootCmd(outW, errW)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if isUsageError(err) {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// usageError marks failures caused by the command line itself.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var u *usageError
	return errors.As(err, &u)
}

// NewRootCmd builds the netgraph command tree.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "netgraph",
		Short: "Build, inspect and run feed-forward layer graphs",
		Long: `netgraph builds feed-forward networks from HCL descriptions, derives their
canonical layer order and saves or restores them as position-indexed
JSON or YAML documents.

Example:
  netgraph inspect ./model.hcl
  netgraph build ./model.hcl --output model.json
  netgraph run model.json --values 1,0,0 --target 0,1`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&g.metricsPort, "metrics-port", 0, "Port for the HTTP health and metrics server. 0 is disabled.")

	root.AddCommand(
		newTypesCmd(g, outW, errW),
		newInspectCmd(g, outW, errW),
		newBuildCmd(g, outW, errW),
		newConvertCmd(g, outW, errW),
		newRunCmd(g, outW, errW),
	)
	return root
}

// newApp validates the configuration and starts an app for one command.
func newApp(g *globalFlags, cfg app.Config, outW, errW io.Writer) (*app.App, error) {
	cfg.LogLevel = g.logLevel
	cfg.LogFormat = g.logFormat
	cfg.MetricsPort = g.metricsPort

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	a := app.NewApp(outW, errW, config)
	a.Start()
	return a, nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: fmt.Errorf("%s: %w", cmd.Name(), err)}
		}
		return nil
	}
}

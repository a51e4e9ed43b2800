package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/netgraph/internal/app"
)

// documentFlags are the flags of commands that write a document.
type documentFlags struct {
	output string
	format string
}

func (d *documentFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.output, "output", "o", "", "Write the document to this file instead of standard output.")
	cmd.Flags().StringVarP(&d.format, "format", "f", "", "Document format: 'json' or 'yaml'. Defaults to the output file's extension, or json.")
}

func (d *documentFlags) config() app.Config {
	return app.Config{Output: d.output, Format: d.format}
}

func newTypesCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered layer types",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{}, outW, errW)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Types()
		},
	}
}

func newInspectCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PATH",
		Short: "Print the canonical layer order of a network",
		Long:  "PATH is an .hcl file, a directory of .hcl files, or a .json/.yaml network document.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{}, outW, errW)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Inspect(cmd.Context(), args[0])
		},
	}
}

func newBuildCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	d := &documentFlags{}
	cmd := &cobra.Command{
		Use:   "build PATH",
		Short: "Build and initialize a network, then write its document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, d.config(), outW, errW)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Build(cmd.Context(), args[0])
		},
	}
	d.bind(cmd)
	return cmd
}

func newConvertCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	d := &documentFlags{}
	cmd := &cobra.Command{
		Use:   "convert PATH",
		Short: "Validate a network and rewrite it in another format",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, d.config(), outW, errW)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Convert(cmd.Context(), args[0])
		},
	}
	d.bind(cmd)
	return cmd
}

func newRunCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	d := &documentFlags{}
	var opts app.RunOptions
	cmd := &cobra.Command{
		Use:   "run PATH",
		Short: "Run values through a network and report its prediction",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("target") {
				opts.Target = nil
			}
			a, err := newApp(g, d.config(), outW, errW)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().Float64SliceVar(&opts.Values, "values", nil, "Comma-separated values fed to the input layer.")
	cmd.Flags().Float64SliceVar(&opts.Target, "target", nil, "Comma-separated expected output; enables calculateDeltas.")
	cmd.Flags().BoolVar(&opts.Learn, "learn", false, "Run adjustWeights after calculateDeltas.")
	_ = cmd.MarkFlagRequired("values")
	d.bind(cmd)
	return cmd
}

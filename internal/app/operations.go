package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/network"
)

// Types lists the registered layer types.
func (a *App) Types() error {
	for _, t := range a.registry.Types() {
		fmt.Fprintln(a.outW, t)
	}
	return nil
}

// Inspect prints the canonical order of the network at path.
func (a *App) Inspect(ctx context.Context, path string) error {
	ctx = a.withLogger(ctx)
	net, err := a.LoadNetwork(ctx, path)
	if err != nil {
		return err
	}
	records, err := net.ToRecords(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tTYPE\tINPUTS\tSETTINGS")
	for i, rec := range records {
		var inputs []string
		for _, j := range rec.Inputs() {
			inputs = append(inputs, fmt.Sprint(j))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, rec.Type, dashIfEmpty(strings.Join(inputs, ",")), dashIfEmpty(strings.Join(rec.Settings.Keys(), ",")))
	}
	return tw.Flush()
}

// Build connects and initializes the network at path and writes its
// document. Initializing first materializes settings that layers derive in
// setup, such as generated weights.
func (a *App) Build(ctx context.Context, path string) error {
	ctx = a.withLogger(ctx)
	net, err := a.LoadNetwork(ctx, path)
	if err != nil {
		return err
	}
	if err := net.Initialize(ctx); err != nil {
		return err
	}
	doc, err := net.ToDocument(ctx)
	if err != nil {
		return err
	}
	return a.writeDocument(doc)
}

// Convert restores the network at path and writes it back out, which both
// validates it and changes its encoding.
func (a *App) Convert(ctx context.Context, path string) error {
	ctx = a.withLogger(ctx)
	net, err := a.LoadNetwork(ctx, path)
	if err != nil {
		return err
	}
	doc, err := net.ToDocument(ctx)
	if err != nil {
		return err
	}
	return a.writeDocument(doc)
}

// RunOptions are the values fed through a network by Run.
type RunOptions struct {
	Values []float64
	Target []float64
	// Learn runs adjustWeights after calculateDeltas.
	Learn bool
}

type valueSetter interface {
	SetValues([]float64) error
}

type predictor interface {
	Prediction() []float64
}

type targetComparer interface {
	SetTarget([]float64)
	Loss() float64
}

// Run drives one pass through the network at path: initialize, runInput
// and, given a target, calculateDeltas and optionally adjustWeights.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	net, err := a.LoadNetwork(ctx, path)
	if err != nil {
		return err
	}
	if err := net.Initialize(ctx); err != nil {
		return err
	}

	in, ok := net.InputLayer().(valueSetter)
	if !ok {
		return fmt.Errorf("input layer '%s' does not accept values", net.InputLayer().Type())
	}
	if err := in.SetValues(opts.Values); err != nil {
		return err
	}
	if err := net.RunInput(ctx); err != nil {
		return err
	}

	out := net.OutputLayer()
	if p, ok := out.(predictor); ok {
		fmt.Fprintf(a.outW, "prediction: %v\n", p.Prediction())
	}

	if opts.Target != nil {
		cmp, ok := out.(targetComparer)
		if !ok {
			return fmt.Errorf("output layer '%s' does not accept a target", out.Type())
		}
		cmp.SetTarget(opts.Target)
		if err := net.CalculateDeltas(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "loss: %g\n", cmp.Loss())

		if opts.Learn {
			if err := net.AdjustWeights(ctx); err != nil {
				return err
			}
		}
	}

	logger.Info("Run finished.", "layers", net.Len())
	return a.writeRunDocument(ctx, net)
}

// writeRunDocument persists the network after a run when an output path is
// configured.
func (a *App) writeRunDocument(ctx context.Context, net *network.Network) error {
	if a.config.Output == "" {
		return nil
	}
	doc, err := net.ToDocument(ctx)
	if err != nil {
		return err
	}
	return a.writeDocument(doc)
}

// withLogger makes sure ctx carries the app's logger.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}


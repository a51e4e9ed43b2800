package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/telemetry"
)

// Executor runs lifecycle phases over a canonical layer order.
type Executor struct {
	metrics *telemetry.Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics records phase and layer outcomes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies phase to every layer in nodes, one at a time, in the phase's
// direction. It stops at the first failing layer.
func (e *Executor) Run(ctx context.Context, phase Phase, nodes []layer.Node) (err error) {
	passID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("phase", phase.Name, "pass_id", passID)
	ctx, span := telemetry.StartPhase(ctx, phase.Name, passID, len(nodes))
	start := time.Now()
	defer func() {
		e.metrics.ObservePhase(phase.Name, time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	if phase.call == nil {
		return &PhaseExecutionError{Phase: phase.Name, Index: -1, Err: fmt.Errorf("phase has no layer operation")}
	}

	logger.Debug("Phase starting.", "direction", phase.Direction.String(), "layer_count", len(nodes))
	for _, i := range phase.indices(len(nodes)) {
		n := nodes[i]
		if n == nil {
			logger.Error("Nil layer in order, aborting phase.", "index", i)
			return &PhaseExecutionError{Phase: phase.Name, Index: i, Type: "<nil>", Err: fmt.Errorf("layer is nil")}
		}
		if err := e.callNode(ctx, phase, i, n); err != nil {
			logger.Error("Layer failed, aborting phase.", "index", i, "type", n.Type(), "error", err)
			return &PhaseExecutionError{Phase: phase.Name, Index: i, Type: n.Type(), Err: err}
		}
	}
	logger.Debug("Phase finished.", "duration", time.Since(start))
	return nil
}

// callNode invokes the phase method on one layer, converting a panic into an
// error so a misbehaving layer cannot take the caller down.
func (e *Executor) callNode(ctx context.Context, phase Phase, index int, n layer.Node) (err error) {
	_, span := telemetry.StartNode(ctx, phase.Name, index, n.Type())
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layer panicked: %v", r)
		}
		e.metrics.ObserveNode(phase.Name, n.Type(), err)
		telemetry.EndSpan(span, err)
	}()
	return phase.call(n)
}

package executor

import "github.com/vk/netgraph/internal/layer"

// Direction is the traversal direction of a phase over the canonical order.
type Direction int

const (
	// Forward visits index 0 through N-1.
	Forward Direction = iota
	// Backward visits index N-1 through 0.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Phase is one lifecycle operation applied across all layers.
type Phase struct {
	Name      string
	Direction Direction
	call      func(layer.Node) error
}

// NewPhase builds a phase that applies call to every layer in direction.
func NewPhase(name string, direction Direction, call func(layer.Node) error) Phase {
	return Phase{Name: name, Direction: direction, call: call}
}

// The four lifecycle phases. calculateDeltas runs forward: every layer's
// comparison only needs its own prediction and the signal already attached
// to it.
var (
	Initialize      = Phase{Name: "initialize", Direction: Forward, call: layer.Node.Setup}
	RunInput        = Phase{Name: "runInput", Direction: Forward, call: layer.Node.Forward}
	CalculateDeltas = Phase{Name: "calculateDeltas", Direction: Forward, call: layer.Node.Compare}
	AdjustWeights   = Phase{Name: "adjustWeights", Direction: Forward, call: layer.Node.Learn}
)

// Phases lists the lifecycle phases in the order a training pass uses them.
func Phases() []Phase {
	return []Phase{Initialize, RunInput, CalculateDeltas, AdjustWeights}
}

// indices returns the visiting order for n layers.
func (p Phase) indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		if p.Direction == Backward {
			out[i] = n - 1 - i
		} else {
			out[i] = i
		}
	}
	return out
}

package builder

import "fmt"

// UnsupportedCompositionError reports a definition the builder cannot
// canonicalize, such as a hidden-layer list that mixes authoring styles.
type UnsupportedCompositionError struct {
	// Position is the hidden-layer index, or -1 for the input/output factory.
	Position int
	Reason   string
}

func (e *UnsupportedCompositionError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("unsupported composition at hidden layer %d: %s", e.Position, e.Reason)
	}
	return fmt.Sprintf("unsupported composition: %s", e.Reason)
}

package dag

import "fmt"

// DependencyOrderError reports that a node's input reference could not be
// placed at an earlier position than the node itself.
type DependencyOrderError struct {
	// Index is the position of the dependent node, or -1 when the node was
	// never placed.
	Index int
	// Type is the dependent node's type tag.
	Type string
	// InputType is the type tag of the offending input, if known.
	InputType string
	Reason    string
}

func (e *DependencyOrderError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("dependency order violation at layer %d ('%s'): %s", e.Index, e.Type, e.Reason)
	}
	return fmt.Sprintf("dependency order violation at layer '%s': %s", e.Type, e.Reason)
}

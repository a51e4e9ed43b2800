package layer

import "fmt"

// Base implements Node with no-op phase methods. Concrete layers embed it
// and override the methods they need.
type Base struct {
	tag      string
	settings Settings
	inputs   []Node
}

// NewBase returns a Base for the given type tag. Nil inputs are dropped so
// that factories may pass an optional second input straight through.
func NewBase(tag string, settings Settings, inputs ...Node) Base {
	b := Base{tag: tag, settings: settings.Clone()}
	for _, in := range inputs {
		if in != nil {
			b.inputs = append(b.inputs, in)
		}
	}
	return b
}

// Type returns the node's type tag.
func (b *Base) Type() string { return b.tag }

// Inputs returns the node's input references.
func (b *Base) Inputs() []Node {
	out := make([]Node, len(b.inputs))
	copy(out, b.inputs)
	return out
}

// Input returns the first input reference or nil.
func (b *Base) Input() Node {
	if len(b.inputs) == 0 {
		return nil
	}
	return b.inputs[0]
}

// Input2 returns the second input reference or nil.
func (b *Base) Input2() Node {
	if len(b.inputs) < 2 {
		return nil
	}
	return b.inputs[1]
}

// Settings exposes the node's own settings. Embedding layers update it when
// Setup derives values that must be persisted.
func (b *Base) Settings() Settings {
	if b.settings == nil {
		b.settings = Settings{}
	}
	return b.settings
}

func (b *Base) Setup() error   { return nil }
func (b *Base) Forward() error { return nil }
func (b *Base) Compare() error { return nil }
func (b *Base) Learn() error   { return nil }

// Describe returns a copy of the node's settings.
func (b *Base) Describe() Settings { return b.settings.Clone() }

// ValidateInputs checks the input arity of a node against the bounds a
// constructor accepts.
func ValidateInputs(tag string, inputs []Node, min, max int) error {
	n := 0
	for _, in := range inputs {
		if in != nil {
			n++
		}
	}
	if n < min || n > max {
		if min == max {
			return fmt.Errorf("layer '%s' requires %d input(s), got %d", tag, min, n)
		}
		return fmt.Errorf("layer '%s' requires between %d and %d inputs, got %d", tag, min, max, n)
	}
	return nil
}

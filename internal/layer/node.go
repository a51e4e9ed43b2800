package layer

// Node is one computational unit of the network graph.
//
// Implementations must be pointer types: the builder tracks node identity
// with a map keyed by Node.
type Node interface {
	// Type returns the tag that identifies which reconstruction logic
	// applies to this node when it is deserialized.
	Type() string

	// Inputs returns the node's input references: none for the designated
	// input layer, one for chained layers, two for merge layers. The slice
	// must not contain nil entries.
	Inputs() []Node

	// Setup performs one-time initialization that depends on the
	// already-finalized state of the node's inputs.
	Setup() error

	// Forward computes the node's output from its inputs' current output.
	Forward() error

	// Compare computes and records the node's error signal.
	Compare() error

	// Learn updates the node's own parameters from its recorded signal.
	Learn() error

	// Describe reports the node's own settings for serialization. The
	// returned map is owned by the caller.
	Describe() Settings
}

// MaxInputs is the number of input references a node may hold.
const MaxInputs = 2
